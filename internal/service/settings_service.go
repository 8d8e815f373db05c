package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kursadbilgin/feishu-order-notify/internal/activitylog"
	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"github.com/kursadbilgin/feishu-order-notify/internal/repository"
	"go.uber.org/zap"
)

// SettingsDiagnostics helps admins spot a mistyped webhook suffix.
type SettingsDiagnostics struct {
	WebhookURL      string
	SuffixValid     bool
	SuggestedSuffix string
}

type SettingsService struct {
	settings repository.SettingsRepository
	activity activitylog.Store
	baseURL  string
	logger   *zap.Logger
}

func NewSettingsService(
	settings repository.SettingsRepository,
	activity activitylog.Store,
	baseURL string,
	logger *zap.Logger,
) (*SettingsService, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if activity == nil {
		return nil, fmt.Errorf("activity store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SettingsService{
		settings: settings,
		activity: activity,
		baseURL:  baseURL,
		logger:   logger,
	}, nil
}

// Current returns the stored settings, or empty settings when none were saved.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	stored, err := s.settings.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Settings{}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return *stored, nil
}

// Form returns the values shown on the settings form; a fresh install
// preselects the default statuses.
func (s *SettingsService) Form(ctx context.Context) (domain.Settings, error) {
	stored, err := s.settings.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		defaults := make([]string, len(domain.DefaultWatchedStatuses))
		copy(defaults, domain.DefaultWatchedStatuses)
		return domain.Settings{WatchedStatuses: defaults}, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return *stored, nil
}

func (s *SettingsService) Save(ctx context.Context, input domain.Settings) (domain.Settings, error) {
	clean := input.Sanitize(s.baseURL)
	if err := s.settings.Save(ctx, &clean); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("settings saved",
		zap.Bool("webhookConfigured", clean.WebhookSuffix != ""),
		zap.Strings("watchedStatuses", clean.WatchedStatuses),
	)
	return clean, nil
}

// Uninstall removes the settings record and the activity log.
func (s *SettingsService) Uninstall(ctx context.Context) error {
	var errs []error
	if err := s.settings.Delete(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete settings: %w", err))
	}
	if err := s.activity.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear activity log: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.logger.Info("settings and activity log removed")
	return nil
}

func (s *SettingsService) Activity(ctx context.Context) ([]domain.DispatchOutcome, error) {
	outcomes, err := s.activity.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return outcomes, nil
}

func (s *SettingsService) Diagnose(settings domain.Settings) SettingsDiagnostics {
	suffix := domain.ResolveSuffix(settings.WebhookSuffix, s.baseURL)
	diagnostics := SettingsDiagnostics{
		SuffixValid:     domain.ValidSuffixShape(suffix),
		SuggestedSuffix: domain.SuggestedSuffix(suffix),
	}
	if suffix != "" {
		diagnostics.WebhookURL = s.baseURL + suffix
	}
	return diagnostics
}
