package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	DB *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(feedback *model.Feedback) error {
	return r.DB.Create(feedback).Error
}

func (r *FeedbackRepository) List(offset, limit int) ([]model.Feedback, int64, error) {
	var items []model.Feedback
	var total int64

	if err := r.DB.Model(&model.Feedback{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *FeedbackRepository) FindByID(id uint) (*model.Feedback, error) {
	var fb model.Feedback
	if err := r.DB.First(&fb, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &fb, nil
}

func (r *FeedbackRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Feedback{}, id).Error
}

// CountRecentByEmail 统计该邮箱在时间窗口内的提交数，用于限流
func (r *FeedbackRepository) CountRecentByEmail(email string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Feedback{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&count).Error
	return count, err
}

// LatestByEmail 返回该邮箱最近一次提交，用于计算剩余等待时间
func (r *FeedbackRepository) LatestByEmail(email string) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.DB.Where("email = ?", email).Order("created_at DESC").First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
