package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// CommentFilter 留言列表的筛选条件
type CommentFilter struct {
	SiteRefID *uint
	UserName  string
	Since     *time.Time
	Until     *time.Time
}

func (r *CommentRepository) List(filter CommentFilter, offset, limit int) ([]model.Comment, int64, error) {
	query := r.DB.Model(&model.Comment{})
	if filter.SiteRefID != nil {
		query = query.Where("site_ref_id = ?", *filter.SiteRefID)
	}
	if filter.UserName != "" {
		query = query.Where("user_name = ?", filter.UserName)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}
	if filter.Until != nil {
		query = query.Where("created_at <= ?", *filter.Until)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

func (r *CommentRepository) FindReported(offset, limit int) ([]model.Comment, int64, error) {
	query := r.DB.Model(&model.Comment{}).Where("is_reported = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Order("report_count DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, total, err
}

// LatestByUserName 同名用户最近一条留言，限流用
func (r *CommentRepository) LatestByUserName(userName string) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.Where("user_name = ?", userName).Order("created_at DESC").First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) Update(comment *model.Comment) error {
	return r.DB.Save(comment).Error
}

func (r *CommentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Comment{}, id).Error
}
