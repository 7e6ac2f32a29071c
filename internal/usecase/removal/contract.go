package removal

import (
	"context"

	"backdrop-api/internal/domain"
)

type strategy interface {
	Name() domain.StrategyName
	Process(ctx context.Context, data []byte) ([]byte, string, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event *domain.ProcessingEvent) error
}
