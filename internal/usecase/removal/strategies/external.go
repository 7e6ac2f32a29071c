package strategies

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backdrop-api/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/wb-go/wbf/zlog"
	"golang.org/x/time/rate"
)

// ExternalAPI forwards the upload to a remove.bg compatible service and returns
// whatever image it answers with. Failures are not retried and there is no
// local fallback.
type ExternalAPI struct {
	apiKey  string
	apiURL  string
	client  *resty.Client
	limiter *rate.Limiter
	logger  *zlog.Zerolog
}

type ExternalOptions struct {
	APIKey     string
	APIURL     string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

func NewExternalAPI(opts ExternalOptions, logger *zlog.Zerolog) *ExternalAPI {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "BackdropAI/"+domain.ServiceVersion).
		SetHeader("Accept", "image/png, application/json")

	return &ExternalAPI{
		apiKey:  opts.APIKey,
		apiURL:  opts.APIURL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		logger:  logger,
	}
}

func (e *ExternalAPI) Name() domain.StrategyName {
	return domain.StrategyExternal
}

func (e *ExternalAPI) Configured() bool {
	return e.apiKey != ""
}

func (e *ExternalAPI) Process(ctx context.Context, data []byte) ([]byte, string, error) {
	if !e.Configured() {
		return nil, "", ErrAPIKeyMissing
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyInput
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("%w: rate limiter: %v", ErrRemoteAPI, err)
	}

	var remoteErr remoteErrorBody
	start := time.Now()
	resp, err := e.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", e.apiKey).
		SetFileReader("image_file", "upload", bytes.NewReader(data)).
		SetFormData(map[string]string{"size": "auto"}).
		SetError(&remoteErr).
		Post(e.apiURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	}

	e.logger.Debug().
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("External API responded")

	if resp.StatusCode() != http.StatusOK {
		return nil, "", fmt.Errorf("%w: status %d: %s", ErrRemoteAPI, resp.StatusCode(), remoteErrorMessage(&remoteErr, resp.Body()))
	}

	out := resp.Body()
	if len(out) == 0 {
		return nil, "", fmt.Errorf("%w: empty body", ErrRemoteResponse)
	}

	respType := resp.Header().Get("Content-Type")
	if i := strings.Index(respType, ";"); i >= 0 {
		respType = respType[:i]
	}
	respType = strings.TrimSpace(respType)
	if !strings.HasPrefix(respType, "image/") {
		return nil, "", fmt.Errorf("%w: content type %q", ErrRemoteResponse, respType)
	}

	return out, respType, nil
}

type remoteErrorBody struct {
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// remoteErrorMessage prefers the decoded error list and falls back to the raw body.
func remoteErrorMessage(parsed *remoteErrorBody, raw []byte) string {
	if parsed != nil && len(parsed.Errors) > 0 {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msg := e.Title
			if e.Detail != "" {
				msg += " (" + e.Detail + ")"
			}
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; ")
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "no error details"
	}
	if len(text) > 512 {
		text = text[:512]
	}
	return text
}
