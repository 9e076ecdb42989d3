package service

import (
	"context"
	"encoding/json"
	"fmt"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"
	"heritage_edu_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CommentRateWindow 同名用户两条留言之间的最短间隔
const CommentRateWindow = 2 * time.Minute

// CommentService 地点留言。限流优先走 Redis SET NX，Redis 不可用时
// 回落到查库比对最近一条的时间。
type CommentService struct {
	CommentRepo *repository.CommentRepository
	SiteRepo    *repository.SiteRepository
	Redis       *redis.Client
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	siteRepo *repository.SiteRepository,
	rdb *redis.Client,
) *CommentService {
	return &CommentService{
		CommentRepo: commentRepo,
		SiteRepo:    siteRepo,
		Redis:       rdb,
	}
}

// CommentInput 发表留言入参
type CommentInput struct {
	SiteRefID uint     `json:"site" binding:"required"`
	UserName  string   `json:"user_name" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	Images    []string `json:"images"`
}

// checkRateLimit 返回 ErrRateLimited 表示窗口内已有留言。
// SETNX 在入库前占位，留言写库失败时该名字的窗口也已被占用，
// 只能等窗口过期，按尽力而为处理
func (s *CommentService) checkRateLimit(ctx context.Context, userName string) error {
	if s.Redis != nil {
		key := fmt.Sprintf("comment_rate:%s", userName)
		ok, err := s.Redis.SetNX(ctx, key, 1, CommentRateWindow).Result()
		if err == nil {
			if !ok {
				return util.ErrRateLimited
			}
			return nil
		}
		logger.Log.Warn("comment rate limit redis check failed, falling back to db",
			zap.Error(err))
	}

	latest, err := s.CommentRepo.LatestByUserName(userName)
	if err != nil {
		return err
	}
	if latest != nil && time.Since(latest.CreatedAt) < CommentRateWindow {
		return util.ErrRateLimited
	}
	return nil
}

func (s *CommentService) Create(ctx context.Context, in CommentInput, actor *util.Claims) (*model.Comment, error) {
	if len(in.Images) > model.MaxCommentImages {
		return nil, util.ErrTooManyImages
	}
	if _, err := s.SiteRepo.FindByID(in.SiteRefID); err != nil {
		return nil, err
	}
	if err := s.checkRateLimit(ctx, in.UserName); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		SiteRefID: in.SiteRefID,
		UserName:  in.UserName,
		Content:   in.Content,
	}
	if len(in.Images) > 0 {
		data, err := json.Marshal(in.Images)
		if err != nil {
			return nil, err
		}
		comment.Images = datatypes.JSON(data)
	}
	if actor != nil {
		comment.UserID = &actor.UserID
	}

	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListInput 留言列表入参，日期是 2006-01-02 格式
type ListInput struct {
	SiteRefID uint
	UserName  string
	DateFrom  string
	DateTo    string
	Page      int
	PageSize  int
}

func (s *CommentService) List(in ListInput) ([]model.Comment, int64, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 || in.PageSize > 100 {
		in.PageSize = 20
	}

	filter := repository.CommentFilter{UserName: in.UserName}
	if in.SiteRefID > 0 {
		filter.SiteRefID = &in.SiteRefID
	}
	if in.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", in.DateFrom); err == nil {
			filter.Since = &t
		}
	}
	if in.DateTo != "" {
		if t, err := time.Parse("2006-01-02", in.DateTo); err == nil {
			// 含当天
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.Until = &end
		}
	}

	return s.CommentRepo.List(filter, (in.Page-1)*in.PageSize, in.PageSize)
}

// Report 举报去重：同名用户只计一次
func (s *CommentService) Report(commentID uint, reporterName string) (*model.Comment, error) {
	comment, err := s.CommentRepo.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.HasReported(reporterName) {
		return comment, util.ErrAlreadyReported
	}
	if err := comment.AddReporter(reporterName); err != nil {
		return nil, err
	}
	if err := s.CommentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete 本人按用户名可删，教师及以上可删任意留言
func (s *CommentService) Delete(commentID uint, requesterName string, role model.UserRole) error {
	comment, err := s.CommentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.UserName != requesterName && !role.IsElevated() {
		return util.ErrPermissionDenied
	}
	return s.CommentRepo.Delete(commentID)
}

// ListReported 审核队列，按举报次数降序
func (s *CommentService) ListReported(page, pageSize int) ([]model.Comment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.CommentRepo.FindReported((page-1)*pageSize, pageSize)
}
