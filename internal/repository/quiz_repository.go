package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByIDs(ids []uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("id IN ?", ids).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Order("id").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindBySite(siteRefID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("site_ref_id = ?", siteRefID).Order("id").Find(&quizzes).Error
	return quizzes, err
}

// FindRandom 随机抽取 count 道题，不足则全量返回
func (r *QuizRepository) FindRandom(count int) ([]model.Quiz, error) {
	randFn := "RAND()"
	if r.DB.Dialector.Name() == "sqlite" {
		randFn = "RANDOM()"
	}
	var quizzes []model.Quiz
	err := r.DB.Order(randFn).Limit(count).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

// --- attempts ---

func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) FindAttempt(quizID uint, userName string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND user_name = ?", quizID, userName).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizRepository) FindAttemptsByUser(userName string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_name = ?", userName).Order("created_at DESC").Find(&attempts).Error
	return attempts, err
}

// FindAttemptedQuizIDs 返回用户已作答的题目 ID 集合
func (r *QuizRepository) FindAttemptedQuizIDs(userName string, quizIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_name = ? AND quiz_id IN ?", userName, quizIDs).
		Pluck("quiz_id", &ids).Error
	return ids, err
}

func (r *QuizRepository) CountCorrectAttempts(userName string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_name = ? AND is_correct = ?", userName, true).
		Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountAttempts(userName string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_name = ?", userName).
		Count(&count).Error
	return count, err
}

// AttemptXPRow 按用户聚合的答题经验值
type AttemptXPRow struct {
	UserName string `json:"user_name"`
	TotalXP  int    `json:"total_xp"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
}

// AttemptLeaderboard 按答题累计 XP 排序的榜单，siteRefID 为 0 时不过滤地点
func (r *QuizRepository) AttemptLeaderboard(siteRefID uint, limit int) ([]AttemptXPRow, error) {
	var rows []AttemptXPRow
	query := r.DB.Model(&model.QuizAttempt{}).
		Select("user_name, SUM(xp_earned) AS total_xp, SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) AS correct, COUNT(*) AS total")
	if siteRefID > 0 {
		query = query.
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.site_ref_id = ?", siteRefID)
	}
	err := query.
		Group("user_name").
		Order("total_xp DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountDistinctSitesAttempted 用户答过题的不同遗址数
func (r *QuizRepository) CountDistinctSitesAttempted(userName string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.user_name = ?", userName).
		Distinct("quizzes.site_ref_id").
		Count(&count).Error
	return count, err
}

// FastestCorrectTime 用户正确作答的最短耗时（秒），无记录返回 nil
func (r *QuizRepository) FastestCorrectTime(userName string) (*int, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_name = ? AND is_correct = ? AND time_taken > 0", userName, true).
		Order("time_taken ASC").First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt.TimeTaken, nil
}

// HasEarlyMorningAttempt 是否存在早上 8 点前的作答记录
func (r *QuizRepository) HasEarlyMorningAttempt(userName string) (bool, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_name = ?", userName).Find(&attempts).Error
	if err != nil {
		return false, err
	}
	for _, a := range attempts {
		if a.CreatedAt.Hour() < 8 {
			return true, nil
		}
	}
	return false, nil
}
