package domain

import (
	"fmt"
	"time"
)

// Result classifies a dispatch attempt.
type Result string

const (
	ResultSuccess        Result = "SUCCESS"
	ResultHTTPError      Result = "HTTP_ERROR"
	ResultRemoteError    Result = "REMOTE_ERROR"
	ResultTransportError Result = "TRANSPORT_ERROR"
)

func (r Result) String() string { return string(r) }

func (r Result) IsValid() bool {
	switch r {
	case ResultSuccess, ResultHTTPError, ResultRemoteError, ResultTransportError:
		return true
	}
	return false
}

// DispatchOutcome records one delivery attempt and the order it described.
type DispatchOutcome struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Result       Result    `json:"result"`
	HTTPStatus   int       `json:"httpStatus,omitempty"`
	RemoteCode   int       `json:"remoteCode,omitempty"`
	Message      string    `json:"message,omitempty"`
	ErrorDetails string    `json:"errorDetails,omitempty"`

	OrderID     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
	Customer    string `json:"customer"`
	Email       string `json:"email"`
	Total       string `json:"total"`
	Items       string `json:"items"`
}

func (o DispatchOutcome) Succeeded() bool {
	return o.Result == ResultSuccess
}

// Summary is the one-line delivery status shown in the activity table.
func (o DispatchOutcome) Summary() string {
	switch o.Result {
	case ResultSuccess:
		return "✅ Success"
	case ResultHTTPError:
		return fmt.Sprintf("❌ HTTP error: %d", o.HTTPStatus)
	default:
		return "❌ Failed: " + o.Message
	}
}
