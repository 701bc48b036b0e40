package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/domain"
	"server/internal/sqlinline"
)

type completionCallback struct {
	JobID        string `json:"jobId"`
	Status       string `json:"status"`
	VideoURL     string `json:"videoUrl"`
	FileName     string `json:"fileName"`
	ErrorMessage string `json:"errorMessage"`
}

// WorkerVideoReady is the single inbound path by which a job leaves the
// in-flight state. The worker authenticates with the shared callback
// secret, either as a bearer token or in X-Webhook-Secret.
func (a *App) WorkerVideoReady(w http.ResponseWriter, r *http.Request) {
	secret := callbackSecret(r)
	if secret == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing callback secret")
		return
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.WorkerCallbackSecret)) != 1 {
		a.Logger.Warn().Msg("callback rejected: invalid secret")
		a.error(w, http.StatusForbidden, "forbidden", "invalid callback secret")
		return
	}

	var cb completionCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if cb.JobID == "" || cb.Status == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "jobId and status are required")
		return
	}
	status := domain.JobStatus(cb.Status)
	if status != domain.JobStatusCompleted && status != domain.JobStatusFailed {
		a.error(w, http.StatusBadRequest, "bad_request", `status must be "completed" or "failed"`)
		return
	}
	if cb.ErrorMessage != "" {
		// Accepted for observability, never persisted.
		a.Logger.Warn().Str("job_id", cb.JobID).Str("worker_error", cb.ErrorMessage).Msg("worker reported error detail")
	}

	if status == domain.JobStatusCompleted && strings.TrimSpace(cb.VideoURL) == "" {
		// A completed callback without a result would otherwise leave the
		// job in-flight forever; flip it to failed, and still answer with a
		// client error so the worker can alert on its own malformed call.
		if _, err := a.SQL.Exec(r.Context(), sqlinline.QFinalizePodcast, cb.JobID, string(domain.JobStatusFailed), ""); err != nil {
			a.Logger.Error().Err(err).Str("job_id", cb.JobID).Msg("failed to fail job on malformed callback")
		}
		a.error(w, http.StatusBadRequest, "bad_request", "videoUrl is required for completed status")
		return
	}

	tag, err := a.SQL.Exec(r.Context(), sqlinline.QFinalizePodcast, cb.JobID, string(status), strings.TrimSpace(cb.VideoURL))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to record completion")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "unknown job id")
		return
	}

	a.Logger.Info().Str("job_id", cb.JobID).Str("status", string(status)).Msg("job finalized")
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func callbackSecret(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-Webhook-Secret"))
}
