package bus

import "swapRouter/internal/model"

// EventBus publishes domain events for downstream services.
type EventBus interface {
	Publish(event model.Event) error
	Close() error
}
