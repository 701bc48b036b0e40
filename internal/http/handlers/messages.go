package handlers

// Localized copies of the user-facing business errors. The dashboard
// renders these verbatim, so they match the product voice rather than the
// internal error codes.
var businessMessages = map[string]map[string]string{
	"insufficient_credits": {
		"en": "No credits left. Please check out the plan or wait for a top-up.",
		"zh": "积分不足，请购买套餐或等待积分补充。",
	},
	"active_job_limit_reached": {
		"en": "There is a task currently in progress. Please wait for it to complete before starting a new one.",
		"zh": "当前有任务正在进行中，请等待其完成后再开始新任务。",
	},
}

func businessMessage(code, locale string) string {
	if byLocale, ok := businessMessages[code]; ok {
		if msg, ok := byLocale[locale]; ok {
			return msg
		}
		return byLocale["en"]
	}
	return code
}
