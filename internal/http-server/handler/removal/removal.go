package removal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/http-server/handler/dto"
	"backdrop-api/internal/staging"
	removal_uc "backdrop-api/internal/usecase/removal"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

const (
	maxMemory = 8 << 20
	// room for multipart boundaries and the small form fields
	formOverhead = 1 << 20
)

type RemovalHandler struct {
	usecase  removalUsecase
	stager   fileStager
	maxBytes int64
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewRemovalHandler(usecase removalUsecase, stager fileStager, maxBytes int64, logger *zlog.Zerolog) *RemovalHandler {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxUploadSize
	}
	return &RemovalHandler{
		usecase:  usecase,
		stager:   stager,
		maxBytes: maxBytes,
		validate: validator.New(),
		logger:   logger,
	}
}

// RemoveBackground accepts a multipart upload with a "file" part and the
// optional "type" and "method" fields, and answers with the processed bytes.
func (h *RemovalHandler) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := uuid.New().String()
	w.Header().Set("X-Request-ID", requestID)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.handleError(w, requestID, ErrFileTooLarge)
			return
		}
		h.logger.Warn().Err(err).Str("request_id", requestID).Msg("Failed to parse multipart form")
		h.handleError(w, requestID, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn().Err(err).Str("request_id", requestID).Msg("Failed to remove multipart temp files")
		}
	}()

	req := dto.RemovalRequest{
		Type:   strings.ToLower(strings.TrimSpace(r.FormValue("type"))),
		Method: strings.ToLower(strings.TrimSpace(r.FormValue("method"))),
	}
	if err := h.validate.Struct(req); err != nil {
		h.handleError(w, requestID, fmt.Errorf("%w: %v", removal_uc.ErrInvalidRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// a file input left empty arrives as a part with filename="", which
			// the parser stores as a plain value
			if _, ok := r.MultipartForm.Value["file"]; ok {
				h.handleError(w, requestID, ErrNoFileSelected)
				return
			}
			h.handleError(w, requestID, ErrNoFile)
			return
		}
		h.handleError(w, requestID, fmt.Errorf("%w: %v", ErrInvalidForm, err))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.handleError(w, requestID, ErrFileTooLarge)
		return
	}
	if domain.MediaKind(req.Type) == domain.KindVideo {
		h.handleError(w, requestID, fmt.Errorf("%w: video background removal", removal_uc.ErrNotImplemented))
		return
	}

	staged, err := h.stager.Stage(ctx, requestID, header.Filename, file, h.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, staging.ErrFileTooLarge):
			err = ErrFileTooLarge
		case errors.Is(err, staging.ErrEmptyFile):
			err = ErrEmptyFile
		}
		h.handleError(w, requestID, err)
		return
	}
	defer h.stager.Remove(staged)

	contentType := effectiveContentType(staged.ContentType, header.Header.Get("Content-Type"))
	kind, ok := domain.KindFromContentType(contentType)
	if !ok {
		h.handleError(w, requestID, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType))
		return
	}

	data, err := h.stager.ReadAll(staged)
	if err != nil {
		h.handleError(w, requestID, err)
		return
	}

	result, err := h.usecase.RemoveBackground(ctx, &domain.UploadRequest{
		ID:          requestID,
		Filename:    header.Filename,
		Data:        data,
		ContentType: contentType,
		Kind:        kind,
		Method:      domain.Method(req.Method),
	})
	if err != nil {
		h.handleError(w, requestID, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", resultFilename(header.Filename, result.ContentType)))
	w.Header().Set("X-Processing-Method", string(result.Strategy))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Data); err != nil {
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to write result")
	}
}

func (h *RemovalHandler) handleError(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		h.respondError(w, http.StatusBadRequest, "No file uploaded", nil)
	case errors.Is(err, ErrNoFileSelected):
		h.respondError(w, http.StatusBadRequest, "No file selected", nil)
	case errors.Is(err, ErrEmptyFile):
		h.respondError(w, http.StatusBadRequest, "Uploaded file is empty", nil)
	case errors.Is(err, ErrInvalidForm):
		h.respondError(w, http.StatusBadRequest, "Invalid request format", err)
	case errors.Is(err, ErrUnsupportedMedia), errors.Is(err, removal_uc.ErrUnsupportedMedia):
		h.respondError(w, http.StatusBadRequest, "File must be an image or a video", err)
	case errors.Is(err, removal_uc.ErrInvalidRequest):
		h.respondError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, ErrFileTooLarge):
		h.logger.Warn().Str("request_id", requestID).Int64("limit", h.maxBytes).Msg("Upload too large")
		h.respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File is too large (max %d MB)", h.maxBytes/(1<<20)), nil)
	case errors.Is(err, removal_uc.ErrImageTooLarge):
		h.respondError(w, http.StatusRequestEntityTooLarge, "Image dimensions are too large", err)
	case errors.Is(err, removal_uc.ErrNotImplemented):
		h.respondError(w, http.StatusNotImplemented, notImplementedMessage(err), nil)
	case errors.Is(err, removal_uc.ErrAPIKeyMissing):
		h.respondError(w, http.StatusInternalServerError, "Background removal API key is not configured", err)
	case errors.Is(err, removal_uc.ErrRemoteAPI):
		h.respondError(w, http.StatusInternalServerError, "Background removal service failed", err)
	default:
		h.logger.Error().Err(err).Str("request_id", requestID).Msg("Removal request failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to process image", err)
	}
}

func notImplementedMessage(err error) string {
	if strings.Contains(err.Error(), "video") {
		return "Video background removal is not yet implemented"
	}
	return "Requested method is not implemented"
}

// effectiveContentType prefers the sniffed type and falls back to the
// declared one when sniffing found nothing specific.
func effectiveContentType(sniffed, declared string) string {
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}
	sniffed = strings.TrimSpace(sniffed)
	if sniffed != "" && sniffed != "application/octet-stream" {
		return sniffed
	}
	return strings.TrimSpace(declared)
}

func resultFilename(original, contentType string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		name = "image"
	}

	if e := domain.ExtensionForContentType(contentType); e != "" {
		ext = e
	}
	if ext == "" {
		ext = ".png"
	}
	return name + "_nobg" + ext
}

func (h *RemovalHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *RemovalHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	if err != nil {
		response.Details = err.Error()
	}

	h.respondJSON(w, status, response)
}
