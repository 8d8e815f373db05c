package queue

import (
	"context"
)

const (
	// OrderEventsQueue carries order status transitions published by the shop.
	OrderEventsQueue = "order.status_changed"
	// OrderEventsDLQ receives payloads that could not be decoded or validated.
	OrderEventsDLQ = "dlq.order.status_changed"

	dlxExchangeName = "feishu_order_notify.dlx"
	dlqRoutingKey   = OrderEventsQueue
)

// MessageHandler handles a consumed order event. A non-nil error requeues the
// delivery.
type MessageHandler func(ctx context.Context, msg OrderEventMessage) error

// Consumer consumes order events from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler MessageHandler) error
	Close() error
}
