package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/http-server/handler/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RemoveBackground(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/removebg", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "image", r.FormValue("type"))
		assert.Equal(t, "simple", r.FormValue("method"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "cat.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, []byte("jpeg-bytes"), data)

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `inline; filename="cat_nobg.png"`)
		w.Header().Set("X-Processing-Method", "brightness-threshold")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	c := New(server.URL+"/", time.Second)
	result, err := c.RemoveBackground(context.Background(), Upload{
		Filename:    "cat.jpg",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
		Method:      domain.MethodSimple,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), result.Data)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, "cat_nobg.png", result.Filename)
	assert.Equal(t, "brightness-threshold", result.Strategy)
}

func TestClient_APIErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "json error",
			status:      http.StatusBadRequest,
			body:        `{"error":"Bad Request","message":"No file uploaded"}`,
			wantMessage: "No file uploaded",
		},
		{
			name:        "plain text error",
			status:      http.StatusBadGateway,
			body:        "upstream down",
			wantMessage: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL, time.Second).RemoveBackground(context.Background(), Upload{Filename: "a.png", Data: []byte("x")})

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Body.Message)
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestClient_HealthAndMethods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_ = json.NewEncoder(w).Encode(dto.HealthResponse{Status: "healthy", APIConfigured: true})
		case "/methods":
			_ = json.NewEncoder(w).Encode(dto.MethodsResponse{
				Image: []domain.MethodInfo{{Name: domain.MethodLocal, Strategy: domain.StrategyPassThrough}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL, time.Second)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.APIConfigured)

	methods, err := c.Methods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods.Image, 1)
	assert.Equal(t, domain.MethodLocal, methods.Image[0].Name)
}
