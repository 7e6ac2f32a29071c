package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/http-server/handler/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "healthy", Service: domain.ServiceName, Version: "1.0.0"})
		case "/methods":
			_ = json.NewEncoder(w).Encode(dto.MethodsResponse{
				Image: []domain.MethodInfo{{Name: domain.MethodSimple, Strategy: domain.StrategyBrightness, Available: true}},
				Video: dto.VideoMethods{Status: "not_implemented"},
			})
		case "/removebg":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Content-Disposition", `inline; filename="photo_nobg.png"`)
			w.Header().Set("X-Processing-Method", "pass-through")
			_, _ = w.Write([]byte("method=" + r.FormValue("method")))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestHealthCommand(t *testing.T) {
	server := newBackend(t)

	out, err := execute(t, "health", "--backend", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "status=healthy")
}

func TestMethodsCommand(t *testing.T) {
	server := newBackend(t)

	out, err := execute(t, "methods", "--backend", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "brightness-threshold")
	assert.Contains(t, out, "not_implemented")
}

func TestRemoveCommand(t *testing.T) {
	server := newBackend(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(input, []byte("not really a jpeg"), 0o644))

	_, err := execute(t, "remove", input, "--method", "LOCAL", "--backend", server.URL)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "photo_nobg.png"))
	require.NoError(t, err)
	assert.Equal(t, "method=local", string(got))
}

func TestRemoveCommand_MissingFile(t *testing.T) {
	server := newBackend(t)

	_, err := execute(t, "remove", filepath.Join(t.TempDir(), "missing.png"), "--backend", server.URL)
	assert.Error(t, err)
}
