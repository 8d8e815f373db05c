package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultWebhookTimeout = 15 * time.Second
	msgTypeText           = "text"
)

type textContent struct {
	Text string `json:"text"`
}

type webhookRequest struct {
	MsgType string      `json:"msg_type"`
	Content textContent `json:"content"`
}

type webhookResponse struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
}

var _ Provider = (*FeishuProvider)(nil)

// FeishuProvider posts text messages to Feishu custom bot webhooks.
type FeishuProvider struct {
	client  *resty.Client
	baseURL string
}

func NewFeishuProvider(baseURL string, timeout time.Duration) (*FeishuProvider, error) {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)

	return NewFeishuProviderWithClient(baseURL, client)
}

func NewFeishuProviderWithClient(baseURL string, client *resty.Client) (*FeishuProvider, error) {
	trimmedBase := strings.TrimSpace(baseURL)
	if trimmedBase == "" {
		return nil, fmt.Errorf("webhook base url is required")
	}
	if _, err := url.ParseRequestURI(trimmedBase); err != nil {
		return nil, fmt.Errorf("invalid webhook base url: %w", err)
	}
	if !strings.HasSuffix(trimmedBase, "/") {
		trimmedBase += "/"
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultWebhookTimeout)
	}
	client.SetRetryCount(0)

	return &FeishuProvider{
		client:  client,
		baseURL: trimmedBase,
	}, nil
}

// BaseURL is the webhook prefix every suffix is appended to.
func (p *FeishuProvider) BaseURL() string {
	return p.baseURL
}

func (p *FeishuProvider) WebhookURL(suffix string) string {
	return p.baseURL + suffix
}

// Send posts text to the webhook identified by suffix. Any response other than
// HTTP 200 with a zero (or absent) "code" is returned as a *ProviderError.
func (p *FeishuProvider) Send(ctx context.Context, suffix string, text string) (*ProviderResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(suffix) == "" {
		return nil, fmt.Errorf("webhook suffix is required")
	}

	reqBody := webhookRequest{
		MsgType: msgTypeText,
		Content: textContent{Text: text},
	}

	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(p.WebhookURL(suffix))
	if err != nil {
		return nil, &ProviderError{
			Kind:    KindTransport,
			Message: "request failed",
			Cause:   err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Kind:    KindTransport,
			Message: "empty response",
		}
	}

	statusCode := response.StatusCode()
	responseBody := strings.TrimSpace(response.String())

	if statusCode != http.StatusOK {
		return nil, &ProviderError{
			Kind:       KindHTTP,
			StatusCode: statusCode,
			Body:       responseBody,
		}
	}

	var decoded webhookResponse
	if err := json.Unmarshal([]byte(responseBody), &decoded); err == nil && decoded.Code != nil && *decoded.Code != 0 {
		return nil, &ProviderError{
			Kind:       KindRemote,
			StatusCode: statusCode,
			RemoteCode: *decoded.Code,
			Message:    decoded.Msg,
			Body:       responseBody,
		}
	}

	return &ProviderResponse{
		StatusCode: statusCode,
		Body:       responseBody,
	}, nil
}
