package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// GetOrCreate 按用户名取档案，不存在则建初始档案
func (r *ProfileRepository) GetOrCreate(userName string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.Where("user_name = ?", userName).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = model.UserProfile{
			UserName: userName,
			TotalXP:  0,
			Level:    1,
		}
		if err := r.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUserName(userName string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.Where("user_name = ?", userName).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(profile *model.UserProfile) error {
	return r.DB.Save(profile).Error
}

// Leaderboard 按总经验值降序
func (r *ProfileRepository) Leaderboard(limit int) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	err := r.DB.Order("total_xp DESC").Limit(limit).Find(&profiles).Error
	return profiles, err
}

// RankOf 用户在总榜中的名次（比他分高的人数 + 1）
func (r *ProfileRepository) RankOf(profile *model.UserProfile) (int, error) {
	var higher int64
	err := r.DB.Model(&model.UserProfile{}).
		Where("total_xp > ?", profile.TotalXP).
		Count(&higher).Error
	return int(higher) + 1, err
}
