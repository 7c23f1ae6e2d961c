package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/apmw/freshbrand-backend/pkg/enums"
)

// Event types emitted on the orders topic.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
	EventOrderDeleted       = "order.deleted"
)

// Event is the payload published for order lifecycle changes.
type Event struct {
	Type          string              `json:"type"`
	OrderID       uuid.UUID           `json:"order_id"`
	UserID        uuid.UUID           `json:"user_id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	TotalPaise    int64               `json:"total_paise"`
	OccurredAt    time.Time           `json:"occurred_at"`
}

// PubSubPublisher publishes order events to the configured Pub/Sub topic.
type PubSubPublisher struct {
	publisher *pubsub.Publisher
}

// NewPubSubPublisher wraps a Pub/Sub topic publisher.
func NewPubSubPublisher(publisher *pubsub.Publisher) (*PubSubPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("pubsub publisher is required")
	}
	return &PubSubPublisher{publisher: publisher}, nil
}

// Publish sends the event and waits for the server ack.
func (p *PubSubPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"type":     event.Type,
			"order_id": event.OrderID.String(),
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}
