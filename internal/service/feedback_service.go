package service

import (
	"fmt"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/pkg/logger"
	"heritage_edu_backend/pkg/mailer"
	"math"
	"time"

	"go.uber.org/zap"
)

// FeedbackRateWindow 同一邮箱两次提交之间的最短间隔
const FeedbackRateWindow = 5 * time.Minute

type FeedbackService struct {
	FeedbackRepo *repository.FeedbackRepository
	SiteRepo     *repository.SiteRepository
	SettingsRepo *repository.SettingsRepository
	Mailer       *mailer.Mailer
}

func NewFeedbackService(
	feedbackRepo *repository.FeedbackRepository,
	siteRepo *repository.SiteRepository,
	settingsRepo *repository.SettingsRepository,
	m *mailer.Mailer,
) *FeedbackService {
	return &FeedbackService{
		FeedbackRepo: feedbackRepo,
		SiteRepo:     siteRepo,
		SettingsRepo: settingsRepo,
		Mailer:       m,
	}
}

// RateLimitError 限流错误，携带剩余等待分钟数
type RateLimitError struct {
	MinutesLeft int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("please wait %d more minute(s) before submitting again", e.MinutesLeft)
}

// Submit 落库后异步发邮件，邮件失败只记日志
func (s *FeedbackService) Submit(feedback *model.Feedback) error {
	site, err := s.SiteRepo.FindByID(feedback.SiteRefID)
	if err != nil {
		return err
	}

	if feedback.Email != "" {
		latest, err := s.FeedbackRepo.LatestByEmail(feedback.Email)
		if err == nil && latest != nil {
			elapsed := time.Since(latest.CreatedAt)
			if elapsed < FeedbackRateWindow {
				left := int(math.Ceil((FeedbackRateWindow - elapsed).Minutes()))
				if left < 1 {
					left = 1
				}
				return &RateLimitError{MinutesLeft: left}
			}
		}
	}

	if err := s.FeedbackRepo.Create(feedback); err != nil {
		return err
	}

	go s.notify(feedback, site)
	return nil
}

func (s *FeedbackService) notify(feedback *model.Feedback, site *model.Site) {
	if !s.Mailer.Enabled() {
		return
	}

	to := model.DefaultFeedbackEmail
	if settings, err := s.SettingsRepo.Get(); err == nil && settings.FeedbackEmail != "" {
		to = settings.FeedbackEmail
	}

	subject := fmt.Sprintf("New feedback for %s [%s]", site.Name, feedback.Category)
	body := fmt.Sprintf(
		"Site: %s\nFrom: %s <%s>\nCategory: %s\n\n%s\n",
		site.Name, feedback.Name, feedback.Email, feedback.Category, feedback.Message,
	)
	if feedback.ImageURL != "" {
		body += fmt.Sprintf("\nAttached image: %s\n", feedback.ImageURL)
	}

	if err := s.Mailer.Send([]string{to}, subject, body); err != nil {
		logger.Log.Warn("feedback notification mail failed",
			zap.String("to", to),
			zap.Uint("feedback_id", feedback.ID),
			zap.Error(err))
	}
}

func (s *FeedbackService) Delete(id uint) error {
	if _, err := s.FeedbackRepo.FindByID(id); err != nil {
		return err
	}
	return s.FeedbackRepo.Delete(id)
}

func (s *FeedbackService) List(page, pageSize int) ([]model.Feedback, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.FeedbackRepo.List((page-1)*pageSize, pageSize)
}
