package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NotProvided replaces empty customer fields in notifications.
const NotProvided = "not provided"

// OrderRecord is the read-only view of a shop order supplied with a status change.
type OrderRecord interface {
	BillingFirstName() string
	BillingLastName() string
	BillingEmail() string
	Total() decimal.Decimal
	Currency() string
	Status() string
	StatusLabel() string
	Items() []LineItem
}

type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order is the wire form of an order record, as posted by the shop or published
// on the order events queue.
type Order struct {
	FirstName     string          `json:"billingFirstName"`
	LastName      string          `json:"billingLastName"`
	Email         string          `json:"billingEmail"`
	TotalAmount   decimal.Decimal `json:"total"`
	CurrencyCode  string          `json:"currency"`
	StatusSlug    string          `json:"status"`
	StatusDisplay string          `json:"statusLabel,omitempty"`
	LineItems     []LineItem      `json:"items"`
}

var _ OrderRecord = (*Order)(nil)

func (o *Order) BillingFirstName() string { return o.FirstName }
func (o *Order) BillingLastName() string  { return o.LastName }
func (o *Order) BillingEmail() string     { return o.Email }
func (o *Order) Total() decimal.Decimal   { return o.TotalAmount }
func (o *Order) Currency() string         { return o.CurrencyCode }
func (o *Order) Status() string           { return o.StatusSlug }
func (o *Order) Items() []LineItem        { return o.LineItems }

func (o *Order) StatusLabel() string {
	if label := strings.TrimSpace(o.StatusDisplay); label != "" {
		return label
	}
	return StatusLabel(o.StatusSlug)
}

// OrderSnapshot is the transient view of an order used for one dispatch.
type OrderSnapshot struct {
	OrderID      string
	StatusLabel  string
	CustomerName string
	Email        string
	Total        string
	Items        []LineItem
}

// NewOrderSnapshot derives a snapshot from an order record. Missing name and
// email degrade to NotProvided.
func NewOrderSnapshot(orderID string, order OrderRecord) OrderSnapshot {
	snapshot := OrderSnapshot{
		OrderID:      strings.TrimSpace(orderID),
		CustomerName: NotProvided,
		Email:        NotProvided,
	}
	if order == nil {
		return snapshot
	}

	label := strings.TrimSpace(order.StatusLabel())
	if label == "" {
		label = StatusLabel(order.Status())
	}
	snapshot.StatusLabel = label

	if name := strings.TrimSpace(order.BillingFirstName() + " " + order.BillingLastName()); name != "" {
		snapshot.CustomerName = name
	}
	if email := strings.TrimSpace(order.BillingEmail()); email != "" {
		snapshot.Email = email
	}

	snapshot.Total = strings.TrimSpace(fmt.Sprintf("%s %s", order.Total().StringFixed(2), order.Currency()))

	items := order.Items()
	snapshot.Items = make([]LineItem, len(items))
	copy(snapshot.Items, items)

	return snapshot
}

// ItemsText renders line items one per line as "- <name> x<quantity>".
func (s OrderSnapshot) ItemsText() string {
	var b strings.Builder
	for _, item := range s.Items {
		fmt.Fprintf(&b, "- %s x%d\n", item.Name, item.Quantity)
	}
	return b.String()
}

// OrderStatusListener is called by the shop once per order status transition.
// It returns the dispatch outcome, or nil when no notification was attempted.
type OrderStatusListener interface {
	OnOrderStatusChanged(ctx context.Context, orderID string, from string, to string, order OrderRecord) *DispatchOutcome
}
