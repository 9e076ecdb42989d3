package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"
)

type SettingsService struct {
	SettingsRepo *repository.SettingsRepository
}

func NewSettingsService(settingsRepo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{SettingsRepo: settingsRepo}
}

func (s *SettingsService) Get() (*model.SystemSettings, error) {
	return s.SettingsRepo.Get()
}

// UpdateFeedbackEmail 仅 super_admin 可改
func (s *SettingsService) UpdateFeedbackEmail(email string, actor *util.Claims) (*model.SystemSettings, error) {
	if actor.Role != model.SuperAdmin {
		return nil, util.ErrPermissionDenied
	}

	settings, err := s.SettingsRepo.Get()
	if err != nil {
		return nil, err
	}
	settings.FeedbackEmail = email
	settings.UpdatedByID = &actor.UserID
	if err := s.SettingsRepo.Save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
