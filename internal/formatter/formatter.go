// Package formatter renders order notifications as plain chat text.
package formatter

import (
	"strings"
	"time"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
)

// TimeLayout is the local timestamp layout used in messages and the activity log.
const TimeLayout = "2006-01-02 15:04:05"

// Format renders snapshot as the multi-line order notification. now should
// already be in the shop's local time zone.
func Format(snapshot domain.OrderSnapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString("📦 Order status: " + snapshot.StatusLabel + "\n")
	b.WriteString("Time: " + now.Format(TimeLayout) + "\n")
	b.WriteString("Customer: " + fallback(snapshot.CustomerName) + "\n")
	b.WriteString("Email: " + fallback(snapshot.Email) + "\n")
	b.WriteString("Total: " + snapshot.Total + "\n")
	b.WriteString("Order ID: #" + snapshot.OrderID + "\n\n")
	b.WriteString("📦 Items:\n")
	b.WriteString(snapshot.ItemsText())

	return b.String()
}

// TestMessage is the canned text sent by a manual test send.
func TestMessage(now time.Time) string {
	return "📢 Test message: your Feishu webhook is configured correctly!\nTime: " + now.Format(TimeLayout)
}

func fallback(value string) string {
	if strings.TrimSpace(value) == "" {
		return domain.NotProvided
	}
	return value
}
