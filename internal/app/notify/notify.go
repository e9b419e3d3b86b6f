// Package notify consumes order lifecycle events and surfaces them as
// operator notifications (stdout log lines for now).
package notify

import (
	"context"
	"encoding/json"

	"barpos/internal/common/logger"
	"barpos/internal/config"
	"barpos/internal/connections/rabbitmq"
	"barpos/internal/domain"
)

// Run subscribes to the notifications queue until ctx is cancelled.
func Run(ctx context.Context, cfg config.App) error {
	lg := logger.New("notification-subscriber")

	rmq, err := rabbitmq.Dial(cfg.Rabbit)
	if err != nil {
		return err
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return err
	}

	deliveries, err := rmq.Consume(rabbitmq.NotificationsQueue, "notification-subscriber", 1)
	if err != nil {
		return err
	}
	lg.Info("subscribed", map[string]any{"queue": rabbitmq.NotificationsQueue})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var ev domain.OrderEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				lg.Error("bad_event_payload", err, map[string]any{"routing_key": d.RoutingKey})
				_ = d.Nack(false, false) // dead-letter it
				continue
			}
			lg.Info("notification", map[string]any{
				"event":        ev.Type,
				"order_id":     ev.OrderID,
				"order_type":   ev.OrderType,
				"table_number": ev.TableNumber,
				"customer":     ev.CustomerName,
				"total":        ev.TotalAmount.StringFixed(2),
			})
			_ = d.Ack(false)
		}
	}
}
