package system

import (
	"encoding/json"
	"net/http"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/http-server/handler/dto"

	"github.com/wb-go/wbf/zlog"
)

const videoDescription = "Video background removal is not yet implemented"

// SystemHandler serves the informational endpoints: health, the method
// listing, the root index and the video placeholder.
type SystemHandler struct {
	methods methodsProvider
	logger  *zlog.Zerolog
}

func NewSystemHandler(methods methodsProvider, logger *zlog.Zerolog) *SystemHandler {
	return &SystemHandler{
		methods: methods,
		logger:  logger,
	}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:        "healthy",
		Service:       domain.ServiceName,
		Message:       "BackdropAI server is running",
		Version:       domain.ServiceVersion,
		APIConfigured: h.methods.APIConfigured(),
	})
}

func (h *SystemHandler) Methods(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.MethodsResponse{
		Image: h.methods.Methods(),
		Video: dto.VideoMethods{
			Status:      "not_implemented",
			Description: videoDescription,
		},
	})
}

func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.IndexResponse{
		Message: "BackdropAI Backend",
		Version: domain.ServiceVersion,
		Endpoints: map[string]string{
			"removebg":        "POST /removebg - Remove background from an image",
			"api/remove-bg":   "POST /api/remove-bg - Remove background from an image",
			"remove-video-bg": "POST /remove-video-bg - Video background removal (not implemented)",
			"methods":         "GET /methods - List removal methods",
			"health":          "GET /health - Health check",
			"metrics":         "GET /metrics - Prometheus metrics",
		},
	})
}

func (h *SystemHandler) RemoveVideoBackground(w http.ResponseWriter, r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
	h.logger.Info().Str("path", r.URL.Path).Msg("Video removal requested")

	h.respondJSON(w, http.StatusNotImplemented, dto.ErrorResponse{
		Error:   "Video background removal not implemented yet",
		Message: "This feature will be added soon",
	})
}

func (h *SystemHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
