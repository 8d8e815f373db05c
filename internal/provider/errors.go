package provider

import (
	"errors"
	"fmt"
	"strings"
)

// CodeWebhookSuffixInvalid is returned by Feishu when the hook token is wrong,
// expired, or the bot was removed from the chat.
const CodeWebhookSuffixInvalid = 19021

// ErrWebhookSuffixInvalid matches a ProviderError carrying CodeWebhookSuffixInvalid.
var ErrWebhookSuffixInvalid = errors.New("webhook suffix is invalid")

// ErrorKind tells where a delivery failed.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindHTTP      ErrorKind = "http"
	KindRemote    ErrorKind = "remote"
)

// ProviderError classifies webhook call failures.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	RemoteCode int
	Message    string
	Body       string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}

	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("HTTP error: %d", e.StatusCode)
	case KindRemote:
		if e.RemoteCode == CodeWebhookSuffixInvalid {
			return invalidSuffixMessage
		}
		return fmt.Sprintf("feishu returned error: [%d] %s", e.RemoteCode, e.remoteMessage())
	default:
		parts := []string{"request failed"}
		if msg := strings.TrimSpace(e.Message); msg != "" && msg != parts[0] {
			parts = append(parts, msg)
		}
		if e.Cause != nil {
			parts = append(parts, e.Cause.Error())
		}
		return strings.Join(parts, ": ")
	}
}

// Detail is the short failure reason recorded in the activity log.
func (e *ProviderError) Detail() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindRemote && e.RemoteCode != CodeWebhookSuffixInvalid {
		return e.remoteMessage()
	}
	return e.Error()
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *ProviderError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == ErrWebhookSuffixInvalid && e.Kind == KindRemote && e.RemoteCode == CodeWebhookSuffixInvalid
}

func (e *ProviderError) remoteMessage() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return "unknown error"
}

const invalidSuffixMessage = "webhook suffix is invalid (code 19021). Please check:\n" +
	"1. the suffix was copied completely\n" +
	"2. the suffix has not expired\n" +
	"3. the Feishu bot has not been removed from the chat"
