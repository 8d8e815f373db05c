package repository

import (
	"context"
	"errors"

	"github.com/kursadbilgin/feishu-order-notify/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, s *domain.Settings) error
	Delete(ctx context.Context) error
}

// GormSettingsRepo stores the settings as one named row.
type GormSettingsRepo struct {
	db   *gorm.DB
	name string
}

func NewGormSettingsRepo(db *gorm.DB) *GormSettingsRepo {
	return &GormSettingsRepo{db: db, name: domain.SettingsName}
}

func (r *GormSettingsRepo) Get(ctx context.Context) (*domain.Settings, error) {
	var model SettingsModel
	err := r.db.WithContext(ctx).First(&model, "name = ?", r.name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return settingsModelToDomain(&model), nil
}

func (r *GormSettingsRepo) Save(ctx context.Context, s *domain.Settings) error {
	model := settingsModelFromDomain(r.name, s)
	if model == nil {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"webhook_suffix", "watched_statuses", "updated_at"}),
		}).
		Create(model).Error
}

func (r *GormSettingsRepo) Delete(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("name = ?", r.name).
		Delete(&SettingsModel{}).Error
}
