package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get 单例配置，不存在则落默认值
func (r *SettingsRepository) Get() (*model.SystemSettings, error) {
	var settings model.SystemSettings
	err := r.DB.First(&settings, model.SystemSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = model.SystemSettings{
			ID:            model.SystemSettingsID,
			FeedbackEmail: model.DefaultFeedbackEmail,
		}
		if err := r.DB.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(settings *model.SystemSettings) error {
	settings.ID = model.SystemSettingsID
	return r.DB.Save(settings).Error
}
