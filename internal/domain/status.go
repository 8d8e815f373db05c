package domain

// OrderStatus is a registered order lifecycle state of the shop.
type OrderStatus struct {
	Slug  string
	Label string
}

var orderStatuses = []OrderStatus{
	{Slug: "pending", Label: "Pending payment"},
	{Slug: "processing", Label: "Processing"},
	{Slug: "on-hold", Label: "On hold"},
	{Slug: "completed", Label: "Completed"},
	{Slug: "cancelled", Label: "Cancelled"},
	{Slug: "refunded", Label: "Refunded"},
	{Slug: "failed", Label: "Failed"},
	{Slug: "checkout-draft", Label: "Draft"},
}

// DefaultWatchedStatuses preselects statuses on a fresh settings form.
var DefaultWatchedStatuses = []string{"pending", "on-hold", "processing", "completed"}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// StatusLabel returns the display label for slug, or slug itself when unknown.
func StatusLabel(slug string) string {
	for _, status := range orderStatuses {
		if status.Slug == slug {
			return status.Label
		}
	}
	return slug
}
