package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/observability"
)

// OrderEventMessage is the broker payload of one order status transition.
type OrderEventMessage struct {
	OrderID string        `json:"orderId"`
	From    string        `json:"from"`
	To      string        `json:"to"`
	Order   *domain.Order `json:"order"`
}

func (m OrderEventMessage) Validate() error {
	if strings.TrimSpace(m.OrderID) == "" {
		return fmt.Errorf("orderId is required")
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("to is required")
	}
	if m.Order == nil {
		return fmt.Errorf("order is required")
	}
	return nil
}

// ListenerHandler feeds consumed events to listener. Dispatch failures are
// recorded by the listener itself, so every valid event is acknowledged.
func ListenerHandler(listener domain.OrderStatusListener) MessageHandler {
	return func(ctx context.Context, msg OrderEventMessage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		listener.OnOrderStatusChanged(
			ctx,
			strings.TrimSpace(msg.OrderID),
			strings.TrimSpace(msg.From),
			strings.TrimSpace(msg.To),
			msg.Order,
		)
		return nil
	}
}

func withCorrelationID(ctx context.Context, correlationID string) context.Context {
	if strings.TrimSpace(correlationID) == "" {
		return ctx
	}
	return observability.WithRequestID(ctx, correlationID)
}
