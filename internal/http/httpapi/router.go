package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"influencerd/internal/http/handlers"
	"influencerd/internal/middleware"
)

// NewRouter builds the route table for the API surface.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/character/generate", app.CharacterGenerate)
		r.Post("/video/generate", app.VideoGenerate)
		r.Post("/video/compose", app.VideoCompose)
		r.Post("/voiceover/generate", app.VoiceoverGenerate)
		r.Post("/subtitle/generate", app.SubtitleGenerate)
		r.Get("/job/{job_id}", app.JobStatus)
		r.Get("/download/{filename}", app.Download)
	})

	return r
}
