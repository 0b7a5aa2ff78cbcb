package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fsgate/internal/config"
	"fsgate/internal/handler"
	"fsgate/internal/middleware"
)

type Handlers struct {
	File       *handler.FileHandler
	Directory  *handler.DirectoryHandler
	Operations *handler.OperationsHandler
	Audit      *handler.AuditHandler
}

func New(cfg *config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/read_file", h.File.Read)
	r.Post("/write_file", h.File.Write)
	r.Post("/edit_file", h.File.Edit)

	r.Post("/create_directory", h.Directory.Create)
	r.Post("/list_directory", h.Directory.List)
	r.Post("/directory_tree", h.Directory.Tree)
	r.Post("/search_files", h.Directory.SearchFiles)
	r.Post("/search_content", h.Directory.SearchContent)

	r.Post("/delete_path", h.Operations.Delete)
	r.Post("/move_path", h.Operations.Move)
	r.Post("/get_metadata", h.Operations.Metadata)
	r.Get("/list_allowed_directories", h.Operations.ListAllowedDirectories)

	r.Get("/audit", h.Audit.List)

	return r
}
