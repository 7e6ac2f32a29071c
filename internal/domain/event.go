package domain

import "time"

type EventStatus string

const (
	EventSucceeded      EventStatus = "succeeded"
	EventFailed         EventStatus = "failed"
	EventRejected       EventStatus = "rejected"
	EventNotImplemented EventStatus = "not_implemented"
)

// ProcessingEvent is published once per removal request. It carries sizes and
// outcome only, never media bytes.
type ProcessingEvent struct {
	RequestID  string        `json:"request_id"`
	Kind       MediaKind     `json:"kind"`
	Method     Method        `json:"method"`
	Strategy   StrategyName  `json:"strategy,omitempty"`
	InputSize  int64         `json:"input_size"`
	OutputSize int64         `json:"output_size"`
	Status     EventStatus   `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	CreatedAt  time.Time     `json:"created_at"`
}
