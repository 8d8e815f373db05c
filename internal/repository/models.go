package repository

import (
	"time"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
)

// SettingsModel is the persistence model for the settings table.
type SettingsModel struct {
	Name            string   `gorm:"type:varchar(64);primaryKey"`
	WebhookSuffix   string   `gorm:"type:text;not null"`
	WatchedStatuses []string `gorm:"type:text;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SettingsModel) TableName() string {
	return "settings"
}

func settingsModelFromDomain(name string, s *domain.Settings) *SettingsModel {
	if s == nil {
		return nil
	}

	statuses := make([]string, len(s.WatchedStatuses))
	copy(statuses, s.WatchedStatuses)

	return &SettingsModel{
		Name:            name,
		WebhookSuffix:   s.WebhookSuffix,
		WatchedStatuses: statuses,
	}
}

func settingsModelToDomain(m *SettingsModel) *domain.Settings {
	if m == nil {
		return nil
	}

	statuses := make([]string, len(m.WatchedStatuses))
	copy(statuses, m.WatchedStatuses)

	return &domain.Settings{
		WebhookSuffix:   m.WebhookSuffix,
		WatchedStatuses: statuses,
	}
}
