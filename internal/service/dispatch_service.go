package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/feishu-order-notify/internal/activitylog"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/formatter"
	"github.com/kursadbilgin/feishu-order-notify/internal/observability"
	"github.com/kursadbilgin/feishu-order-notify/internal/provider"
	"go.uber.org/zap"
)

// DispatchService delivers order notifications to the configured Feishu webhook.
type DispatchService struct {
	provider provider.Provider
	activity activitylog.Store
	location *time.Location
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
	newID    func() string
}

func NewDispatchService(
	provider provider.Provider,
	activity activitylog.Store,
	location *time.Location,
	logger *zap.Logger,
) (*DispatchService, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity store is required")
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchService{
		provider: provider,
		activity: activity,
		location: location,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

func (s *DispatchService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Dispatch posts the notification for snapshot and records the outcome in the
// activity log. It returns nil without any request when no webhook suffix is
// configured. Delivery failures are reported in the outcome, never as errors.
func (s *DispatchService) Dispatch(ctx context.Context, settings domain.Settings, snapshot domain.OrderSnapshot) *domain.DispatchOutcome {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.LoggerFor(ctx, s.logger).With(zap.String("orderId", snapshot.OrderID))

	suffix := domain.ResolveSuffix(settings.WebhookSuffix, s.provider.BaseURL())
	if suffix == "" {
		logger.Debug("webhook suffix not configured, skipping dispatch")
		return nil
	}

	now := s.now().In(s.location)
	text := formatter.Format(snapshot, now)

	sendStart := s.now()
	resp, sendErr := s.provider.Send(ctx, suffix, text)
	elapsed := s.now().Sub(sendStart)

	outcome := domain.DispatchOutcome{
		ID:          s.newID(),
		Timestamp:   now,
		OrderID:     snapshot.OrderID,
		OrderStatus: snapshot.StatusLabel,
		Customer:    snapshot.CustomerName,
		Email:       snapshot.Email,
		Total:       snapshot.Total,
		Items:       snapshot.ItemsText(),
	}
	classifyOutcome(&outcome, resp, sendErr)

	s.metrics.IncDispatch(outcome.Result.String(), elapsed)
	if outcome.Succeeded() {
		logger.Info("order notification delivered", zap.Duration("duration", elapsed))
	} else {
		logger.Warn("order notification failed",
			zap.String("result", outcome.Result.String()),
			zap.Int("httpStatus", outcome.HTTPStatus),
			zap.Int("remoteCode", outcome.RemoteCode),
			zap.String("message", outcome.Message),
		)
	}

	if err := s.activity.Append(ctx, outcome); err != nil {
		s.metrics.IncActivityLogError()
		logger.Error("failed to record dispatch outcome", zap.Error(err))
	}

	return &outcome
}

// SendTest posts a canned message to the configured webhook. Unlike Dispatch it
// validates the suffix shape locally first and never touches the activity log.
func (s *DispatchService) SendTest(ctx context.Context, settings domain.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}

	suffix := domain.ResolveTestSuffix(settings.WebhookSuffix, s.provider.BaseURL())
	if suffix == "" {
		s.metrics.IncTestSend("config_error")
		return fmt.Errorf("%w: webhook suffix is not configured", domain.ErrConfig)
	}
	if !domain.ValidSuffixShape(suffix) {
		s.metrics.IncTestSend("config_error")
		return fmt.Errorf("%w: webhook suffix format is invalid, expected a 36-character UUID-shaped token", domain.ErrConfig)
	}

	if _, err := s.provider.Send(ctx, suffix, formatter.TestMessage(s.now().In(s.location))); err != nil {
		s.metrics.IncTestSend("failed")
		observability.LoggerFor(ctx, s.logger).Warn("test message failed", zap.Error(err))
		return err
	}

	s.metrics.IncTestSend("success")
	return nil
}

func classifyOutcome(outcome *domain.DispatchOutcome, resp *provider.ProviderResponse, sendErr error) {
	if sendErr == nil {
		outcome.Result = domain.ResultSuccess
		if resp != nil {
			outcome.HTTPStatus = resp.StatusCode
		}
		return
	}

	var providerErr *provider.ProviderError
	if !errors.As(sendErr, &providerErr) {
		outcome.Result = domain.ResultTransportError
		outcome.Message = sendErr.Error()
		return
	}

	outcome.Message = providerErr.Detail()
	outcome.ErrorDetails = providerErr.Body
	switch providerErr.Kind {
	case provider.KindHTTP:
		outcome.Result = domain.ResultHTTPError
		outcome.HTTPStatus = providerErr.StatusCode
	case provider.KindRemote:
		outcome.Result = domain.ResultRemoteError
		outcome.HTTPStatus = providerErr.StatusCode
		outcome.RemoteCode = providerErr.RemoteCode
	default:
		outcome.Result = domain.ResultTransportError
	}
}
