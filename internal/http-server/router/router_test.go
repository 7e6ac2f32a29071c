package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"backdrop-api/internal/broker"
	"backdrop-api/internal/http-server/handler/removal"
	"backdrop-api/internal/http-server/handler/system"
	"backdrop-api/internal/staging"
	removal_uc "backdrop-api/internal/usecase/removal"
	"backdrop-api/internal/usecase/removal/strategies"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, staticDir string) http.Handler {
	t.Helper()
	logger := zerolog.Nop()

	stager, err := staging.NewStager(t.TempDir(), &logger)
	require.NoError(t, err)

	uc := removal_uc.NewRemovalUsecase(false, broker.NopPublisher{}, &logger,
		strategies.NewPassThrough(),
		strategies.NewCornerSampler(50, 0),
		strategies.NewBrightnessThreshold(240, 0),
	)

	return SetupRouter(&Handler{
		RemovalHandler: removal.NewRemovalHandler(uc, stager, 0, &logger),
		SystemHandler:  system.NewSystemHandler(uc, &logger),
		StaticDir:      staticDir,
	}, &logger)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, "")

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/api/health", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/methods", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/api/methods", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/", wantStatus: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{method: http.MethodPost, path: "/api/remove-video-bg", wantStatus: http.StatusNotImplemented},
		{method: http.MethodPost, path: "/remove-video-bg", wantStatus: http.StatusNotImplemented},
		{method: http.MethodPost, path: "/removebg", wantStatus: http.StatusBadRequest},
		{method: http.MethodPost, path: "/api/remove-bg", wantStatus: http.StatusBadRequest},
		{method: http.MethodGet, path: "/removebg", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	r := newTestRouter(t, dir)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{path: "/", wantStatus: http.StatusOK, wantBody: "spa"},
		{path: "/pricing", wantStatus: http.StatusOK, wantBody: "spa"},
		{path: "/app.js", wantStatus: http.StatusOK, wantBody: "console.log"},
		{path: "/api/unknown", wantStatus: http.StatusNotFound},
		{path: "/health", wantStatus: http.StatusOK, wantBody: "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
