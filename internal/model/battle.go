package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BattleStatus string

const (
	BattlePending    BattleStatus = "pending"
	BattleInProgress BattleStatus = "in_progress"
	BattleCompleted  BattleStatus = "completed"
	BattleCancelled  BattleStatus = "cancelled"
)

const (
	// MinBattleParticipants 创建对战最少人数
	MinBattleParticipants = 2
	// MaxBattleParticipants 创建对战最多人数
	MaxBattleParticipants = 8
)

// QuizBattle 定时多人答题对战，题目与参与者快照存成 JSON 列
// swagger:model QuizBattle
type QuizBattle struct {
	BaseModel
	ScheduledStartTime time.Time      `gorm:"not null" json:"scheduled_start_time"`
	DurationMinutes    int            `gorm:"default:10" json:"duration_minutes"`
	Status             BattleStatus   `gorm:"size:20;default:'pending';index" json:"status"`
	Questions          datatypes.JSON `gorm:"not null" json:"questions"`
	Participants       datatypes.JSON `gorm:"not null" json:"participants"`
}

func (QuizBattle) TableName() string {
	return "quiz_battles"
}

// EndTime 计划结束时间
func (b *QuizBattle) EndTime() time.Time {
	return b.ScheduledStartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// EffectiveStatus 根据墙钟推导当前应处的状态，不落库。
// 状态只会向前推进；cancelled/completed 为终态。
func (b *QuizBattle) EffectiveStatus(now time.Time) BattleStatus {
	switch b.Status {
	case BattlePending:
		if !now.Before(b.ScheduledStartTime) {
			if !now.Before(b.EndTime()) {
				return BattleCompleted
			}
			return BattleInProgress
		}
	case BattleInProgress:
		if !now.Before(b.EndTime()) {
			return BattleCompleted
		}
	}
	return b.Status
}

// QuestionIDs 解 JSON 列，损坏时返回空列表
func (b *QuizBattle) QuestionIDs() []uint {
	var ids []uint
	if len(b.Questions) > 0 {
		_ = json.Unmarshal(b.Questions, &ids)
	}
	return ids
}

// ParticipantNames 解 JSON 列
func (b *QuizBattle) ParticipantNames() []string {
	var names []string
	if len(b.Participants) > 0 {
		_ = json.Unmarshal(b.Participants, &names)
	}
	return names
}

func (b *QuizBattle) HasQuestion(quizID uint) bool {
	for _, id := range b.QuestionIDs() {
		if id == quizID {
			return true
		}
	}
	return false
}

func (b *QuizBattle) HasParticipant(userName string) bool {
	for _, n := range b.ParticipantNames() {
		if n == userName {
			return true
		}
	}
	return false
}

// ParticipantAnswer 单题作答记录，按 quizID 存入参与者的答案表
type ParticipantAnswer struct {
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"is_correct"`
	TimeTaken int    `json:"time_taken"`
}

// QuizBattleParticipant 每个 (battle, user_name) 唯一
type QuizBattleParticipant struct {
	BaseModel
	BattleID       uint           `gorm:"index:idx_battle_user,unique;not null" json:"battle"`
	Battle         *QuizBattle    `gorm:"foreignKey:BattleID" json:"-"`
	UserName       string         `gorm:"size:200;index:idx_battle_user,unique;not null" json:"user_name"`
	Score          int            `gorm:"default:0" json:"score"`
	CorrectAnswers int            `gorm:"default:0" json:"correct_answers"`
	TotalAnswered  int            `gorm:"default:0" json:"total_answered"`
	TimeCompleted  *int           `json:"time_completed"`
	Answers        datatypes.JSON `json:"answers"`
	Rank           *int           `json:"rank"`
	FinishedAt     *time.Time     `json:"finished_at"`
}

func (QuizBattleParticipant) TableName() string {
	return "quiz_battle_participants"
}

// AnswerMap 解 JSON 列，键为 quizID 的十进制字符串
func (p *QuizBattleParticipant) AnswerMap() map[string]ParticipantAnswer {
	m := map[string]ParticipantAnswer{}
	if len(p.Answers) > 0 {
		_ = json.Unmarshal(p.Answers, &m)
	}
	return m
}

// SetAnswerMap 序列化回 JSON 列
func (p *QuizBattleParticipant) SetAnswerMap(m map[string]ParticipantAnswer) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	p.Answers = datatypes.JSON(data)
	return nil
}

// BeforeSave TotalAnswered 始终由答案表大小推导
func (p *QuizBattleParticipant) BeforeSave(tx *gorm.DB) error {
	p.TotalAnswered = len(p.AnswerMap())
	return nil
}
