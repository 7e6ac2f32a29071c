package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/http-server/handler/dto"

	"github.com/go-resty/resty/v2"
)

type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
	Type        domain.MediaKind
	Method      domain.Method
}

type Result struct {
	Data        []byte
	ContentType string
	Strategy    string
	Filename    string
	RequestID   string
}

// Client talks to the removal backend over HTTP.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("User-Agent", "backdrop-cli/"+domain.ServiceVersion),
	}
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var resp dto.HealthResponse
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Methods(ctx context.Context) (*dto.MethodsResponse, error) {
	var resp dto.MethodsResponse
	if err := c.getJSON(ctx, "/methods", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveBackground posts the upload to /removebg and returns the processed bytes.
func (c *Client) RemoveBackground(ctx context.Context, u Upload) (*Result, error) {
	kind := u.Type
	if kind == "" {
		kind = domain.KindImage
	}
	fields := map[string]string{"type": string(kind)}
	if u.Method != "" {
		fields["method"] = string(u.Method)
	}
	ct := u.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(fields).
		SetMultipartField("file", u.Filename, ct, bytes.NewReader(u.Data)).
		Post("/removebg")
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	return &Result{
		Data:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		Strategy:    resp.Header().Get("X-Processing-Method"),
		Filename:    dispositionFilename(resp.Header().Get("Content-Disposition")),
		RequestID:   resp.Header().Get("X-Request-ID"),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to reach backend: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeAPIError reads the backend's JSON error body, falling back to the raw
// text when the body is not one.
func decodeAPIError(resp *resty.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode()}

	raw := resp.Body()
	if err := json.Unmarshal(raw, &apiErr.Body); err != nil || apiErr.Body.Error == "" {
		apiErr.Body.Error = http.StatusText(resp.StatusCode())
		if text := strings.TrimSpace(string(raw)); text != "" && apiErr.Body.Message == "" {
			apiErr.Body.Message = text
		}
	}
	return apiErr
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
