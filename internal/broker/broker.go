package broker

import (
	"context"

	"backdrop-api/internal/domain"
)

// Publisher hands audit events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, event *domain.ProcessingEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *domain.ProcessingEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
