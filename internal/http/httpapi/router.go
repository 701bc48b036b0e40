package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the full HTTP surface. countryLookup may be nil when no
// GeoIP database is configured.
func NewRouter(app *handlers.App, countryLookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(corsOrigins(app)),
		middleware.I18N(app.Config.DefaultLocale, countryLookup),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/healthz", app.Health)

	if app.StaticDir != "" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(app.StaticDir)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	// Worker callback: shared-secret auth inside the handler, no session.
	r.Post("/api/webhooks/video-ready", app.WorkerVideoReady)

	// Authenticated client surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))
		r.Post("/api/podcasts", app.PodcastsSubmit)
		r.Post("/api/podcasts/custom-image", app.PodcastsSubmitCustomImage)
		r.Get("/api/podcasts", app.PodcastsList)
		r.Get("/api/podcasts/{job_id}", app.PodcastStatus)
		r.Get("/api/profile", app.ProfileGet)
	})

	return r
}

func corsOrigins(app *handlers.App) []string {
	if len(app.Config.CORSOrigins) > 0 {
		return app.Config.CORSOrigins
	}
	if app.Config.AppEnv == "development" {
		return []string{"http://localhost:3000", "http://localhost:8080"}
	}
	return nil
}
