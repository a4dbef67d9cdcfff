package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"datasetgen/internal/http/handlers"
	"datasetgen/internal/middleware"
)

type RouterOptions struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	// The stream is long lived and stays outside the rate limit.
	r.Get("/v1/batch/stream", app.StreamBatch)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin))

		r.Get("/v1/poses", app.ListPoses)

		r.Put("/v1/credentials", app.PutCredentials)
		r.Delete("/v1/credentials", app.DeleteCredentials)

		r.Put("/v1/reference", app.PutReference)
		r.Post("/v1/profile/analyze", app.AnalyzeProfile)
		r.Put("/v1/profile", app.PutProfile)
		r.Put("/v1/settings", app.PutSettings)
		r.Put("/v1/selection", app.PutSelection)

		r.Post("/v1/batch", app.StartBatch)
		r.Get("/v1/batch", app.GetBatch)
		r.Post("/v1/batch/stop", app.StopBatch)

		r.Get("/v1/gallery", app.ListGallery)
		r.Delete("/v1/gallery", app.ClearGallery)
		r.Get("/v1/gallery/{id}", app.GetGalleryImage)
	})

	return r
}
