package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"backdrop-api/internal/http-server/handler/removal"
	"backdrop-api/internal/http-server/handler/system"
	"backdrop-api/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/zlog"
)

type Handler struct {
	RemovalHandler *removal.RemovalHandler
	SystemHandler  *system.SystemHandler
	// StaticDir holds a built single-page client. Empty disables static serving.
	StaticDir string
}

func SetupRouter(h *Handler, logger *zlog.Zerolog) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware)

	r.Use(func(next http.Handler) http.Handler {
		logged := middleware.LoggingMiddleware(logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isQuietPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			logged.ServeHTTP(w, r)
		})
	})

	r.Get("/health", h.SystemHandler.Health)
	r.Get("/methods", h.SystemHandler.Methods)
	r.Post("/removebg", h.RemovalHandler.RemoveBackground)
	r.Post("/remove-video-bg", h.SystemHandler.RemoveVideoBackground)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.SystemHandler.Health)
		r.Get("/methods", h.SystemHandler.Methods)
		r.Post("/remove-bg", h.RemovalHandler.RemoveBackground)
		r.Post("/remove-video-bg", h.SystemHandler.RemoveVideoBackground)
	})

	if h.StaticDir == "" {
		r.Get("/", h.SystemHandler.Index)
		return r
	}

	staticDir := h.StaticDir
	files := http.FileServer(http.Dir(staticDir))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		path := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		serveHTML(w, r, staticDir)
	})

	return r
}

func isQuietPath(path string) bool {
	return path == "/metrics" || path == "/health" || strings.HasPrefix(path, "/assets/")
}

func serveHTML(w http.ResponseWriter, r *http.Request, staticDir string) {
	indexPath := filepath.Join(staticDir, "index.html")

	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		http.Error(w, "HTML template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, indexPath)
}
