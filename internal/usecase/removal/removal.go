package removal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"backdrop-api/internal/domain"
	"backdrop-api/internal/metrics"
	"backdrop-api/internal/usecase/removal/strategies"

	"github.com/wb-go/wbf/zlog"
)

const eventTimeout = 10 * time.Second

// methodOrder is the order methods are listed in.
var methodOrder = []domain.Method{
	domain.MethodAuto,
	domain.MethodAPI,
	domain.MethodAdvanced,
	domain.MethodJimp,
	domain.MethodSimple,
	domain.MethodLocal,
}

var staticMethods = map[domain.Method]domain.StrategyName{
	domain.MethodAPI:      domain.StrategyExternal,
	domain.MethodAdvanced: domain.StrategyCorner,
	domain.MethodJimp:     domain.StrategyCorner,
	domain.MethodSimple:   domain.StrategyBrightness,
	domain.MethodLocal:    domain.StrategyPassThrough,
}

// RemovalUsecase dispatches an upload to exactly one strategy. Audit events
// are published in the background and never affect the response.
type RemovalUsecase struct {
	strategies    map[domain.StrategyName]strategy
	apiConfigured bool
	publisher     eventPublisher
	logger        *zlog.Zerolog
	wg            sync.WaitGroup
}

func NewRemovalUsecase(apiConfigured bool, publisher eventPublisher, logger *zlog.Zerolog, list ...strategy) *RemovalUsecase {
	table := make(map[domain.StrategyName]strategy, len(list))
	for _, s := range list {
		table[s.Name()] = s
	}

	return &RemovalUsecase{
		strategies:    table,
		apiConfigured: apiConfigured,
		publisher:     publisher,
		logger:        logger,
	}
}

// Resolve maps a method selector onto a strategy name. The empty selector
// behaves like "auto".
func (u *RemovalUsecase) Resolve(method domain.Method) (domain.StrategyName, error) {
	if method == "" || method == domain.MethodAuto {
		if u.apiConfigured {
			return domain.StrategyExternal, nil
		}
		return domain.StrategyCorner, nil
	}

	name, ok := staticMethods[method]
	if !ok {
		return "", fmt.Errorf("%w: method %q", ErrNotImplemented, method)
	}
	return name, nil
}

func (u *RemovalUsecase) RemoveBackground(ctx context.Context, req *domain.UploadRequest) (*domain.ProcessingResult, error) {
	start := time.Now()
	event := &domain.ProcessingEvent{
		RequestID: req.ID,
		Kind:      req.Kind,
		Method:    req.Method,
		InputSize: int64(len(req.Data)),
		CreatedAt: start,
	}

	result, err := u.dispatch(ctx, req, event)

	event.Duration = time.Since(start)
	switch {
	case err == nil:
		event.Status = domain.EventSucceeded
		event.OutputSize = int64(len(result.Data))
	case errors.Is(err, ErrNotImplemented):
		event.Status = domain.EventNotImplemented
		event.Error = err.Error()
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnsupportedMedia), errors.Is(err, ErrImageTooLarge):
		event.Status = domain.EventRejected
		event.Error = err.Error()
	default:
		event.Status = domain.EventFailed
		event.Error = err.Error()
	}
	u.publish(event)

	if err != nil {
		u.logger.Error().
			Err(err).
			Str("request_id", req.ID).
			Str("method", string(req.Method)).
			Str("strategy", string(event.Strategy)).
			Msg("Background removal failed")
		return nil, err
	}

	u.logger.Info().
		Str("request_id", req.ID).
		Str("strategy", string(result.Strategy)).
		Int("input_size", len(req.Data)).
		Int("output_size", len(result.Data)).
		Dur("duration", event.Duration).
		Msg("Background removed")

	return result, nil
}

func (u *RemovalUsecase) dispatch(ctx context.Context, req *domain.UploadRequest, event *domain.ProcessingEvent) (*domain.ProcessingResult, error) {
	switch req.Kind {
	case domain.KindVideo:
		return nil, fmt.Errorf("%w: video background removal", ErrNotImplemented)
	case domain.KindImage:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMedia, req.Kind)
	}

	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrInvalidRequest)
	}

	name, err := u.Resolve(req.Method)
	if err != nil {
		return nil, err
	}
	event.Strategy = name

	s, ok := u.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: strategy %q", ErrNotImplemented, name)
	}

	metrics.RecordUpload(string(req.Kind), int64(len(req.Data)))

	started := time.Now()
	out, contentType, err := s.Process(ctx, req.Data)
	if err != nil {
		metrics.RecordRemoval(string(name), string(domain.EventFailed), time.Since(started).Seconds())
		return nil, classify(err)
	}
	metrics.RecordRemoval(string(name), string(domain.EventSucceeded), time.Since(started).Seconds())

	return &domain.ProcessingResult{
		Data:        out,
		ContentType: contentType,
		Strategy:    name,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, strategies.ErrAPIKeyMissing):
		return fmt.Errorf("%w: %v", ErrAPIKeyMissing, err)
	case errors.Is(err, strategies.ErrRemoteAPI), errors.Is(err, strategies.ErrRemoteResponse):
		return fmt.Errorf("%w: %v", ErrRemoteAPI, err)
	case errors.Is(err, strategies.ErrEmptyInput):
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	case errors.Is(err, strategies.ErrImageTooLarge):
		return fmt.Errorf("%w: %v", ErrImageTooLarge, err)
	default:
		return fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
}

// Methods lists every accepted selector with the strategy it currently
// resolves to.
func (u *RemovalUsecase) Methods() []domain.MethodInfo {
	infos := make([]domain.MethodInfo, 0, len(methodOrder))
	for _, m := range methodOrder {
		name, err := u.Resolve(m)
		if err != nil {
			continue
		}

		_, registered := u.strategies[name]
		available := registered && (name != domain.StrategyExternal || u.apiConfigured)

		infos = append(infos, domain.MethodInfo{
			Name:        m,
			Strategy:    name,
			Description: domain.StrategyDescriptions[name],
			Available:   available,
		})
	}
	return infos
}

func (u *RemovalUsecase) APIConfigured() bool {
	return u.apiConfigured
}

func (u *RemovalUsecase) publish(event *domain.ProcessingEvent) {
	if u.publisher == nil {
		return
	}

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()

		if err := u.publisher.Publish(ctx, event); err != nil {
			metrics.RecordEvent("failed")
			u.logger.Warn().Err(err).Str("request_id", event.RequestID).Msg("Failed to publish processing event")
			return
		}
		metrics.RecordEvent("sent")
	}()
}

// Wait blocks until every pending audit event has been handed off.
func (u *RemovalUsecase) Wait() {
	u.wg.Wait()
}
