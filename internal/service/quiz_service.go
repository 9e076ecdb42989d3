package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"
	"time"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	SiteRepo    *repository.SiteRepository
	Progression *ProgressionService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	siteRepo *repository.SiteRepository,
	progression *ProgressionService,
) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		SiteRepo:    siteRepo,
		Progression: progression,
	}
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	return s.QuizRepo.FindByID(id)
}

// ListQuizzes 可按地点过滤
func (s *QuizService) ListQuizzes(siteRefID uint) ([]model.Quiz, error) {
	if siteRefID > 0 {
		return s.QuizRepo.FindBySite(siteRefID)
	}
	return s.QuizRepo.FindAll()
}

// QuizInput 创建/更新题目的入参
type QuizInput struct {
	SiteRefID     uint   `json:"site" binding:"required"`
	Question      string `json:"question" binding:"required"`
	OptionA       string `json:"option_a" binding:"required"`
	OptionB       string `json:"option_b" binding:"required"`
	OptionC       string `json:"option_c" binding:"required"`
	OptionD       string `json:"option_d" binding:"required"`
	CorrectAnswer string `json:"correct_answer" binding:"required"`
	XPReward      int    `json:"xp_reward"`
}

func (s *QuizService) CreateQuiz(in QuizInput) (*model.Quiz, error) {
	if !model.IsValidAnswer(in.CorrectAnswer) {
		return nil, util.ErrInvalidAnswer
	}
	if _, err := s.SiteRepo.FindByID(in.SiteRefID); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		SiteRefID:     in.SiteRefID,
		Question:      in.Question,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: in.CorrectAnswer,
		XPReward:      in.XPReward,
	}
	if quiz.XPReward <= 0 {
		quiz.XPReward = 10
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(id uint, in QuizInput) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !model.IsValidAnswer(in.CorrectAnswer) {
		return nil, util.ErrInvalidAnswer
	}

	quiz.SiteRefID = in.SiteRefID
	quiz.Question = in.Question
	quiz.OptionA = in.OptionA
	quiz.OptionB = in.OptionB
	quiz.OptionC = in.OptionC
	quiz.OptionD = in.OptionD
	quiz.CorrectAnswer = in.CorrectAnswer
	if in.XPReward > 0 {
		quiz.XPReward = in.XPReward
	}
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(id uint) error {
	if _, err := s.QuizRepo.FindByID(id); err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

// SubmitResult 作答结果，重复作答时 Attempt 是已有记录
type SubmitResult struct {
	Attempt      *model.QuizAttempt  `json:"attempt"`
	Correct      bool                `json:"correct"`
	XPEarned     int                 `json:"xp_earned"`
	Profile      *model.UserProfile  `json:"profile,omitempty"`
	Achievements []model.Achievement `json:"new_achievements,omitempty"`
}

// SubmitAnswer 一题一人只记一次。答错也记录，并照常触发成就评估
// （答题数类成就按作答计，不要求答对）。startedAt 无法解析时耗时记 0。
func (s *QuizService) SubmitAnswer(quizID uint, userName, answer, startedAt string) (*SubmitResult, error) {
	if !model.IsValidAnswer(answer) {
		return nil, util.ErrInvalidAnswer
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}

	existing, err := s.QuizRepo.FindAttempt(quizID, userName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &SubmitResult{
			Attempt:  existing,
			Correct:  existing.IsCorrect,
			XPEarned: 0,
		}, util.ErrAlreadyAttempted
	}

	attempt := &model.QuizAttempt{
		QuizID:     quizID,
		UserName:   userName,
		UserAnswer: answer,
		IsCorrect:  answer == quiz.CorrectAnswer,
	}

	if startedAt != "" {
		if t, perr := time.Parse(time.RFC3339, startedAt); perr == nil {
			attempt.StartedAt = &t
			elapsed := int(time.Since(t).Seconds())
			if elapsed > 0 {
				attempt.TimeTaken = elapsed
			}
		}
	}

	if attempt.IsCorrect {
		attempt.XPEarned = quiz.XPReward
	}

	if err := s.QuizRepo.CreateAttempt(attempt); err != nil {
		// 唯一索引兜底并发重复提交
		if dup, derr := s.QuizRepo.FindAttempt(quizID, userName); derr == nil && dup != nil {
			return &SubmitResult{Attempt: dup, Correct: dup.IsCorrect}, util.ErrAlreadyAttempted
		}
		return nil, err
	}

	profile, unlocked, err := s.Progression.GrantXP(userName, attempt.XPEarned)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Attempt:      attempt,
		Correct:      attempt.IsCorrect,
		XPEarned:     attempt.XPEarned,
		Profile:      profile,
		Achievements: unlocked,
	}, nil
}

// CheckAttempts 批量查询用户对一组题目的作答情况
func (s *QuizService) CheckAttempts(userName string, quizIDs []uint) (map[uint]bool, error) {
	attempted, err := s.QuizRepo.FindAttemptedQuizIDs(userName, quizIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]bool, len(quizIDs))
	for _, id := range quizIDs {
		result[id] = false
	}
	for _, id := range attempted {
		result[id] = true
	}
	return result, nil
}

func (s *QuizService) UserAttempts(userName string) ([]model.QuizAttempt, error) {
	return s.QuizRepo.FindAttemptsByUser(userName)
}

// AttemptLeaderboard 按答题累计 XP 的榜单，对战匹配也用它选人
func (s *QuizService) AttemptLeaderboard(siteRefID uint, limit int) ([]repository.AttemptXPRow, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.QuizRepo.AttemptLeaderboard(siteRefID, limit)
}
