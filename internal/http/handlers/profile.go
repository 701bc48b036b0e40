package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/sqlinline"
)

func (a *App) ProfileGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectProfile, userID)
	var profile domain.Profile
	if err := row.Scan(&profile.UserID, &profile.Credits, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "profile not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"user_id": profile.UserID,
		"credits": profile.Credits,
	})
}
