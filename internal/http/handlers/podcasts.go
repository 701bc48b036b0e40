package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/sqlinline"
)

type submitPodcastRequest struct {
	AppearanceMode  string `json:"appearanceMode"`
	Ethnicity       string `json:"ethnicity"`
	Hair            string `json:"hair"`
	ImageURL        string `json:"imageUrl"`
	ContentMode     string `json:"contentMode"`
	Topic           string `json:"topic"`
	Script          string `json:"script"`
	AudioURL        string `json:"audioUrl"`
	VideoResolution string `json:"videoResolution"`
	AspectRatio     string `json:"aspectRatio"`
}

// submission normalizes the wire shape into the tagged union. Requests
// from older clients omit the mode selectors, so they default from the
// populated fields.
func (req *submitPodcastRequest) submission() domain.Submission {
	mode := domain.AppearanceMode(req.AppearanceMode)
	if req.AppearanceMode == "" {
		mode = domain.AppearanceGenerated
		if req.ImageURL != "" {
			mode = domain.AppearanceCustomImage
		}
	}
	contentMode := domain.ContentMode(req.ContentMode)
	if req.ContentMode == "" {
		switch {
		case req.Script != "":
			contentMode = domain.ContentScript
		case req.AudioURL != "":
			contentMode = domain.ContentAudio
		default:
			contentMode = domain.ContentTopic
		}
	}
	return domain.Submission{
		Appearance: domain.Appearance{
			Mode:      mode,
			Ethnicity: strings.TrimSpace(req.Ethnicity),
			Hair:      strings.TrimSpace(req.Hair),
			ImageURL:  strings.TrimSpace(req.ImageURL),
		},
		Content: domain.Content{
			Mode:     contentMode,
			Topic:    strings.TrimSpace(req.Topic),
			Script:   strings.TrimSpace(req.Script),
			AudioURL: strings.TrimSpace(req.AudioURL),
		},
		Resolution:  domain.Resolution(req.VideoResolution),
		AspectRatio: domain.AspectRatio(req.AspectRatio),
	}
}

type jobResponse struct {
	JobID            string `json:"job_id"`
	Status           string `json:"status"`
	RemainingCredits int    `json:"remaining_credits"`
}

// PodcastsSubmit admits a new generation job: validate, best-effort
// in-flight check, atomic credit reserve + row insert, then fire-and-forget
// dispatch to the worker.
func (a *App) PodcastsSubmit(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req submitPodcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	sub := req.submission()
	if err := sub.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	a.admitAndRespond(w, r, userID, sub)
}

// admitAndRespond runs the admission sequence shared by the JSON and the
// multipart submission paths. The submission must already be validated.
func (a *App) admitAndRespond(w http.ResponseWriter, r *http.Request, userID string, sub domain.Submission) {
	locale := middleware.LocaleFromContext(r.Context())

	job, remaining, err := a.admit(r.Context(), userID, sub)
	switch {
	case errors.Is(err, domain.ErrActiveJobExists):
		a.error(w, http.StatusConflict, "active_job_limit_reached", businessMessage("active_job_limit_reached", locale))
		return
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "insufficient_credits", businessMessage("insufficient_credits", locale))
		return
	case err != nil:
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("admission failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create podcast job")
		return
	}

	a.dispatchJob(job)
	a.json(w, http.StatusOK, jobResponse{
		JobID:            job.ID,
		Status:           string(domain.JobStatusProcessing),
		RemainingCredits: remaining,
	})
}

// admit performs steps 2-5 of the admission contract. The credit check and
// the row insert happen inside one database function call; the in-flight
// check before it is deliberately best effort (credit exhaustion is the
// real backstop against double admission).
func (a *App) admit(ctx context.Context, userID string, sub domain.Submission) (domain.Job, int, error) {
	jobID := uuid.NewString()

	var activeID string
	err := a.SQL.QueryRow(ctx, sqlinline.QSelectActivePodcast, userID).Scan(&activeID)
	switch {
	case err == nil:
		return domain.Job{}, 0, domain.ErrActiveJobExists
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.Job{}, 0, err
	}

	cost := sub.CreditCost(a.Config.CreditsPerPodcast)
	row := a.SQL.QueryRow(ctx, sqlinline.QReserveCreditsAndCreatePodcast,
		userID, jobID,
		string(sub.Appearance.Mode), sub.Appearance.Ethnicity, sub.Appearance.Hair, sub.Appearance.ImageURL,
		string(sub.Content.Mode), sub.Content.Topic, sub.Content.Script, sub.Content.AudioURL,
		string(sub.Resolution), string(sub.AspectRatio), cost,
	)
	var createdID string
	var remaining int
	if err := row.Scan(&createdID, &remaining); err != nil {
		if strings.Contains(err.Error(), "insufficient_credits") {
			return domain.Job{}, 0, domain.ErrInsufficientCredits
		}
		return domain.Job{}, 0, err
	}

	return domain.Job{
		ID:           createdID,
		UserID:       userID,
		Appearance:   sub.Appearance,
		Content:      sub.Content,
		Resolution:   sub.Resolution,
		AspectRatio:  sub.AspectRatio,
		CreditsSpent: cost,
		Status:       domain.JobStatusProcessing,
	}, remaining, nil
}

func (a *App) PodcastStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectPodcastForUser, jobID, userID)
	var job domain.Job
	var appearanceMode, contentMode, resolution, aspect, status string
	err := row.Scan(&job.ID, &job.UserID, &appearanceMode, &job.Appearance.Ethnicity, &job.Appearance.Hair,
		&job.Appearance.ImageURL, &contentMode, &job.Content.Topic, &job.Content.Script,
		&job.Content.AudioURL, &resolution, &aspect, &job.CreditsSpent,
		&status, &job.VideoURL, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "podcast not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"job_id":           job.ID,
		"appearance_mode":  appearanceMode,
		"ethnicity":        job.Appearance.Ethnicity,
		"hair":             job.Appearance.Hair,
		"image_url":        job.Appearance.ImageURL,
		"content_mode":     contentMode,
		"topic":            job.Content.Topic,
		"video_resolution": resolution,
		"aspect_ratio":     aspect,
		"credits_spent":    job.CreditsSpent,
		"status":           status,
		"video_url":        job.VideoURL,
		"created_at":       job.CreatedAt,
		"updated_at":       job.UpdatedAt,
	})
}

const maxProjectListSize = 50

func (a *App) PodcastsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListPodcastsForUser, userID, maxProjectListSize)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list podcasts")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var jobID, appearanceMode, contentMode, topic, resolution, aspect, status, videoURL string
		var creditsSpent int
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&jobID, &appearanceMode, &contentMode, &topic, &resolution,
			&aspect, &creditsSpent, &status, &videoURL, &createdAt, &updatedAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"job_id":           jobID,
			"appearance_mode":  appearanceMode,
			"content_mode":     contentMode,
			"topic":            topic,
			"video_resolution": resolution,
			"aspect_ratio":     aspect,
			"credits_spent":    creditsSpent,
			"status":           status,
			"video_url":        videoURL,
			"created_at":       createdAt,
			"updated_at":       updatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
