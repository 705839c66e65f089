package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"emojibooth/internal/http/handlers"
	"emojibooth/internal/infra"
	"emojibooth/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/booth/sessions", func(r chi.Router) {
		r.Post("/", app.CreateSession)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.GetSession)
			r.Post("/generate", app.Generate)
			r.Get("/archive", app.Archive)
			r.Post("/collage", app.Collage)
			r.Route("/emotions/{emotion_id}", func(r chi.Router) {
				r.Post("/regenerate", app.Regenerate)
				r.Get("/download", app.Download)
			})
		})
	})

	return r
}
