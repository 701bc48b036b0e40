package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/storage"
)

// Dispatcher hands admitted jobs to the external rendering worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, job domain.Job) error
}

// App bundles the dependencies shared by all HTTP handlers. It is built
// once at startup and injected; there is no ambient global state.
type App struct {
	Config     *infra.Config
	Logger     zerolog.Logger
	SQL        infra.SQLExecutor
	Dispatcher Dispatcher
	Uploads    storage.ObjectStore

	// StaticDir, when set, exposes the filesystem upload store under
	// /static for development environments.
	StaticDir string
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorResponse{Error: errCode, Message: message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// dispatchJob fires the outbound worker call without blocking the client
// response. Failure is logged and nothing else: the job stays in-flight
// and credits stay spent (see the sweeper for the operational backstop).
func (a *App) dispatchJob(job domain.Job) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.DispatchTimeout)
		defer cancel()
		if err := a.Dispatcher.Dispatch(ctx, job); err != nil {
			a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("dispatch failed; job left in-flight")
		}
	}()
}
