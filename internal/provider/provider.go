package provider

import (
	"context"
)

// Provider is the outbound chat webhook delivery port.
type Provider interface {
	Send(ctx context.Context, suffix string, text string) (*ProviderResponse, error)
	WebhookURL(suffix string) string
	BaseURL() string
}

// ProviderResponse stores webhook call metadata for the activity log.
type ProviderResponse struct {
	StatusCode int
	Body       string
}
