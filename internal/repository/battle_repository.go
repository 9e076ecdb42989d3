package repository

import (
	"errors"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"

	"gorm.io/gorm"
)

type BattleRepository struct {
	DB *gorm.DB
}

func NewBattleRepository(db *gorm.DB) *BattleRepository {
	return &BattleRepository{DB: db}
}

func (r *BattleRepository) Create(battle *model.QuizBattle) error {
	return r.DB.Create(battle).Error
}

func (r *BattleRepository) FindByID(id uint) (*model.QuizBattle, error) {
	var battle model.QuizBattle
	err := r.DB.First(&battle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrBattleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &battle, nil
}

func (r *BattleRepository) FindAll() ([]model.QuizBattle, error) {
	var battles []model.QuizBattle
	err := r.DB.Order("scheduled_start_time DESC").Find(&battles).Error
	return battles, err
}

func (r *BattleRepository) FindByStatus(status model.BattleStatus) ([]model.QuizBattle, error) {
	var battles []model.QuizBattle
	err := r.DB.Where("status = ?", status).Order("scheduled_start_time").Find(&battles).Error
	return battles, err
}

// FindActive 返回待开始和进行中的对战，供状态推进使用
func (r *BattleRepository) FindActive() ([]model.QuizBattle, error) {
	var battles []model.QuizBattle
	err := r.DB.Where("status IN ?", []model.BattleStatus{
		model.BattlePending, model.BattleInProgress,
	}).Find(&battles).Error
	return battles, err
}

func (r *BattleRepository) Update(battle *model.QuizBattle) error {
	return r.DB.Save(battle).Error
}

func (r *BattleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.QuizBattle{}, id).Error
}

// --- participants ---

func (r *BattleRepository) CreateParticipant(p *model.QuizBattleParticipant) error {
	return r.DB.Create(p).Error
}

func (r *BattleRepository) FindParticipant(battleID uint, userName string) (*model.QuizBattleParticipant, error) {
	var p model.QuizBattleParticipant
	err := r.DB.Where("battle_id = ? AND user_name = ?", battleID, userName).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotBattleMember
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindParticipants 按成绩排序：得分降序，用时升序
func (r *BattleRepository) FindParticipants(battleID uint) ([]model.QuizBattleParticipant, error) {
	var participants []model.QuizBattleParticipant
	err := r.DB.Where("battle_id = ?", battleID).
		Order("score DESC, time_completed ASC").
		Find(&participants).Error
	return participants, err
}

func (r *BattleRepository) UpdateParticipant(p *model.QuizBattleParticipant) error {
	return r.DB.Save(p).Error
}

// UpdateParticipantAnswers 条件更新：只有 total_answered 仍是读取时的值才写入。
// 并发提交同一题时只有先到的一方生效，后到的 RowsAffected 为 0。
func (r *BattleRepository) UpdateParticipantAnswers(p *model.QuizBattleParticipant, prevAnswered int) (bool, error) {
	res := r.DB.Model(&model.QuizBattleParticipant{}).
		Where("id = ? AND total_answered = ?", p.ID, prevAnswered).
		Updates(map[string]interface{}{
			"answers":         p.Answers,
			"score":           p.Score,
			"correct_answers": p.CorrectAnswers,
			"total_answered":  len(p.AnswerMap()),
			"finished_at":     p.FinishedAt,
			"time_completed":  p.TimeCompleted,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BattleRepository) FindBattlesByUser(userName string) ([]model.QuizBattleParticipant, error) {
	var participants []model.QuizBattleParticipant
	err := r.DB.Where("user_name = ?", userName).Find(&participants).Error
	return participants, err
}

// CountBattleWins 用户在已结束对战中获得第一名的次数
func (r *BattleRepository) CountBattleWins(userName string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizBattleParticipant{}).
		Joins("JOIN quiz_battles ON quiz_battles.id = quiz_battle_participants.battle_id").
		Where("quiz_battle_participants.user_name = ? AND quiz_battle_participants.rank = ? AND quiz_battles.status = ?",
			userName, 1, model.BattleCompleted).
		Count(&count).Error
	return count, err
}

// PerfectBattleCorrect 触发 perfect_score 成就所需的单场答对题数
const PerfectBattleCorrect = 5

// HasPerfectBattle 用户是否在某场对战中答对过至少 PerfectBattleCorrect 题，
// 不要求对战已结束，也不要求全对
func (r *BattleRepository) HasPerfectBattle(userName string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuizBattleParticipant{}).
		Where("user_name = ? AND correct_answers >= ?", userName, PerfectBattleCorrect).
		Count(&count).Error
	return count > 0, err
}
