// Package events publishes order lifecycle events to the broker.
package events

import (
	"context"
	"encoding/json"

	"barpos/internal/connections/rabbitmq"
	"barpos/internal/domain"
)

type Publisher struct {
	client *rabbitmq.Client
}

func NewPublisher(client *rabbitmq.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish sends the event on the events exchange; the event type is the
// routing key.
func (p *Publisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, rabbitmq.EventsExchange, ev.Type, body)
}
