package service

import (
	"context"
	"fmt"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/observability"
	"go.uber.org/zap"
)

type SettingsReader interface {
	Current(ctx context.Context) (domain.Settings, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, settings domain.Settings, snapshot domain.OrderSnapshot) *domain.DispatchOutcome
}

// ShouldNotify is the status filter: only transitions into a watched status
// produce a notification.
func ShouldNotify(settings domain.Settings, newStatus string) bool {
	return settings.Watches(newStatus)
}

var _ domain.OrderStatusListener = (*OrderEventService)(nil)

// OrderEventService gates order status changes and dispatches watched ones.
type OrderEventService struct {
	settings   SettingsReader
	dispatcher Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

func NewOrderEventService(settings SettingsReader, dispatcher Dispatcher, logger *zap.Logger) (*OrderEventService, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings reader is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrderEventService{
		settings:   settings,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

func (s *OrderEventService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// OnOrderStatusChanged reads the settings fresh, applies the status filter and
// dispatches synchronously. Failures are logged and never returned to the shop.
func (s *OrderEventService) OnOrderStatusChanged(
	ctx context.Context,
	orderID string,
	from string,
	to string,
	order domain.OrderRecord,
) *domain.DispatchOutcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.LoggerFor(ctx, s.logger).With(
		zap.String("orderId", orderID),
		zap.String("from", from),
		zap.String("to", to),
	)

	settings, err := s.settings.Current(ctx)
	if err != nil {
		s.metrics.IncOrderEvent("settings_error")
		logger.Error("failed to load settings, dropping order event", zap.Error(err))
		return nil
	}

	if !ShouldNotify(settings, to) {
		s.metrics.IncOrderEvent("filtered")
		logger.Debug("order status not watched")
		return nil
	}

	if order == nil {
		s.metrics.IncOrderEvent("missing_order")
		logger.Warn("order record missing, dropping order event")
		return nil
	}

	outcome := s.dispatcher.Dispatch(ctx, settings, domain.NewOrderSnapshot(orderID, order))
	if outcome == nil {
		s.metrics.IncOrderEvent("unconfigured")
		return nil
	}

	s.metrics.IncOrderEvent("notified")
	return outcome
}
