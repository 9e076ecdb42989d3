package repository

import (
	"heritage_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) FindAll() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) FindByID(id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.First(&achievement, id).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

// FindUnlocked 返回档案已解锁的成就 ID 集合
func (r *AchievementRepository) FindUnlocked(profileID uint) (map[uint]bool, error) {
	var rows []model.UserAchievement
	err := r.DB.Where("profile_id = ?", profileID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	unlocked := make(map[uint]bool, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = true
	}
	return unlocked, nil
}

func (r *AchievementRepository) FindUserAchievements(profileID uint) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	err := r.DB.Where("profile_id = ?", profileID).
		Order("unlocked_at DESC").
		Preload("Achievement").
		Find(&rows).Error
	return rows, err
}

func (r *AchievementRepository) Unlock(profileID, achievementID uint) error {
	return r.DB.Create(&model.UserAchievement{
		ProfileID:     profileID,
		AchievementID: achievementID,
	}).Error
}
