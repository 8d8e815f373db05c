package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testOrder(status string) *domain.Order {
	return &domain.Order{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		TotalAmount:  decimal.RequireFromString("25.5"),
		CurrencyCode: "USD",
		StatusSlug:   status,
		LineItems:    []domain.LineItem{{Name: "Widget", Quantity: 2}},
	}
}

func TestShouldNotify(t *testing.T) {
	t.Parallel()

	settings := domain.Settings{WatchedStatuses: []string{"completed", "processing"}}

	testCases := []struct {
		status string
		want   bool
	}{
		{status: "completed", want: true},
		{status: "processing", want: true},
		{status: "pending", want: false},
		{status: "", want: false},
		{status: "wc-completed", want: false},
	}

	for _, tc := range testCases {
		if got := ShouldNotify(settings, tc.status); got != tc.want {
			t.Fatalf("ShouldNotify(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestOnOrderStatusChangedUnwatchedStatusIsFiltered(t *testing.T) {
	t.Parallel()

	reader := &fakeSettingsReader{settings: domain.Settings{
		WebhookSuffix:   testSuffix,
		WatchedStatuses: []string{"completed"},
	}}
	dispatcher := &fakeDispatcher{}
	svc, err := NewOrderEventService(reader, dispatcher, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrderEventService() error = %v", err)
	}

	outcome := svc.OnOrderStatusChanged(context.Background(), "1042", "pending", "processing", testOrder("processing"))
	if outcome != nil {
		t.Fatalf("outcome = %+v, want nil", outcome)
	}
	if dispatcher.calls != 0 {
		t.Fatalf("dispatch calls = %d, want 0", dispatcher.calls)
	}
}

func TestOnOrderStatusChangedDispatchesWatchedStatus(t *testing.T) {
	t.Parallel()

	settings := domain.Settings{WebhookSuffix: testSuffix, WatchedStatuses: []string{"completed"}}
	reader := &fakeSettingsReader{settings: settings}
	dispatcher := &fakeDispatcher{}
	svc, err := NewOrderEventService(reader, dispatcher, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrderEventService() error = %v", err)
	}

	outcome := svc.OnOrderStatusChanged(context.Background(), "1042", "processing", "completed", testOrder("completed"))
	if outcome == nil || !outcome.Succeeded() {
		t.Fatalf("outcome = %+v, want success", outcome)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("dispatch calls = %d, want 1", dispatcher.calls)
	}
	if dispatcher.settings.WebhookSuffix != testSuffix {
		t.Fatalf("dispatched with suffix %q", dispatcher.settings.WebhookSuffix)
	}

	snapshot := dispatcher.snapshot
	if snapshot.OrderID != "1042" || snapshot.StatusLabel != "Completed" {
		t.Fatalf("snapshot = %+v", snapshot)
	}
	if snapshot.CustomerName != "Ada Lovelace" || snapshot.Total != "25.50 USD" {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestOnOrderStatusChangedReadsSettingsPerEvent(t *testing.T) {
	t.Parallel()

	reader := &fakeSettingsReader{settings: domain.Settings{
		WebhookSuffix:   testSuffix,
		WatchedStatuses: []string{"completed"},
	}}
	dispatcher := &fakeDispatcher{}
	svc, err := NewOrderEventService(reader, dispatcher, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrderEventService() error = %v", err)
	}

	svc.OnOrderStatusChanged(context.Background(), "1", "processing", "completed", testOrder("completed"))

	reader.settings.WatchedStatuses = []string{"cancelled"}
	svc.OnOrderStatusChanged(context.Background(), "2", "processing", "completed", testOrder("completed"))

	if reader.calls != 2 {
		t.Fatalf("settings reads = %d, want 2", reader.calls)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("dispatch calls = %d, want 1", dispatcher.calls)
	}
}

func TestOnOrderStatusChangedDropsEvents(t *testing.T) {
	t.Parallel()

	watched := domain.Settings{WebhookSuffix: testSuffix, WatchedStatuses: []string{"completed"}}

	testCases := []struct {
		name        string
		reader      *fakeSettingsReader
		order       domain.OrderRecord
		wantLog     string
	}{
		{
			name:        "settings unavailable",
			reader:      &fakeSettingsReader{err: errors.New("db down")},
			order:       testOrder("completed"),
			wantLog:     "failed to load settings, dropping order event",
		},
		{
			name:        "order missing",
			reader:      &fakeSettingsReader{settings: watched},
			order:       nil,
			wantLog:     "order record missing, dropping order event",
		},
		{
			name:        "unknown status",
			reader:      &fakeSettingsReader{settings: domain.Settings{WebhookSuffix: testSuffix, WatchedStatuses: []string{"shipped"}}},
			order:       testOrder("completed"),
			wantLog:     "order status not watched",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			core, recorded := observer.New(zapcore.DebugLevel)
			dispatcher := &fakeDispatcher{}
			svc, err := NewOrderEventService(tc.reader, dispatcher, zap.New(core))
			if err != nil {
				t.Fatalf("NewOrderEventService() error = %v", err)
			}

			outcome := svc.OnOrderStatusChanged(context.Background(), "1042", "processing", "completed", tc.order)
			if outcome != nil {
				t.Fatalf("outcome = %+v, want nil", outcome)
			}
			if dispatcher.calls != 0 {
				t.Fatalf("dispatch calls = %d, want 0", dispatcher.calls)
			}
			if recorded.FilterMessage(tc.wantLog).Len() != 1 {
				t.Fatalf("expected log %q", tc.wantLog)
			}
		})
	}
}

func TestOnOrderStatusChangedUnconfiguredWebhook(t *testing.T) {
	t.Parallel()

	reader := &fakeSettingsReader{settings: domain.Settings{WatchedStatuses: []string{"completed"}}}
	dispatcher := &fakeDispatcher{
		dispatchF: func(domain.Settings, domain.OrderSnapshot) *domain.DispatchOutcome { return nil },
	}
	svc, err := NewOrderEventService(reader, dispatcher, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOrderEventService() error = %v", err)
	}

	if outcome := svc.OnOrderStatusChanged(context.Background(), "1042", "processing", "completed", testOrder("completed")); outcome != nil {
		t.Fatalf("outcome = %+v, want nil", outcome)
	}
	if dispatcher.calls != 1 {
		t.Fatalf("dispatch calls = %d, want 1", dispatcher.calls)
	}
}

func TestNewOrderEventServiceValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewOrderEventService(nil, &fakeDispatcher{}, nil); err == nil {
		t.Fatal("expected error for nil settings reader")
	}
	if _, err := NewOrderEventService(&fakeSettingsReader{}, nil, nil); err == nil {
		t.Fatal("expected error for nil dispatcher")
	}
}
