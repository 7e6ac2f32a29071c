package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"backdrop-api/internal/config"
	"backdrop-api/internal/domain"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type sender interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key, value []byte) error
	Close() error
}

// ProducerClient publishes processing events to the events topic, keyed by
// request ID.
type ProducerClient struct {
	producer sender
	brokers  []string
	strategy retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic),
		brokers:  cfg.Kafka.Brokers,
		strategy: cfg.DefaultRetryStrategy(),
	}
}

// Ping dials the brokers in order and reports success on the first that answers.
func (p *ProducerClient) Ping(ctx context.Context) error {
	var lastErr error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		return fmt.Errorf("no brokers configured")
	}
	return fmt.Errorf("failed to reach kafka: %w", lastErr)
}

func (p *ProducerClient) Publish(ctx context.Context, event *domain.ProcessingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.producer.SendWithRetry(ctx, p.strategy, []byte(event.RequestID), value); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
