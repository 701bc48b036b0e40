package handlers

import "net/http"

// Health is the liveness probe. It deliberately touches no dependencies;
// database trouble shows up in the admission path, not here.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
