package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"secure-file-share/internal/access"
	"secure-file-share/internal/config"
	"secure-file-share/internal/handler"
	"secure-file-share/internal/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	File     *handler.FileHandler
	Download *handler.DownloadHandler
	Stats    *handler.StatsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/files", func(files chi.Router) {
			files.Use(authMiddleware.RequireAuth)
			files.With(authMiddleware.RequireOperation(access.OpUpload)).Post("/upload", h.File.Upload)
			files.With(authMiddleware.RequireOperation(access.OpListFiles)).Get("/list", h.File.List)
			files.With(authMiddleware.RequireOperation(access.OpRequestDownloadLink)).Get("/download/{file_id}", h.File.DownloadLink)
		})

		// Anonymous: possession of a valid token is the credential.
		api.Get("/secure-download/{token}", h.Download.Exchange)

		api.Get("/stats/live", h.Stats.Live)
	})

	return r
}
