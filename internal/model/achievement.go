package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type AchievementType string

const (
	AchQuizMaster   AchievementType = "quiz_master"
	AchSpeedDemon   AchievementType = "speed_demon"
	AchBattleWinner AchievementType = "battle_winner"
	AchExplorer     AchievementType = "explorer"
	AchFirstQuiz    AchievementType = "first_quiz"
	AchStreakMaster AchievementType = "streak_master"
	AchPerfectScore AchievementType = "perfect_score"
	AchEarlyBird    AchievementType = "early_bird"
)

// AchievementRequirement 解锁条件，种子目录里每条成就只设置其中一两个字段
type AchievementRequirement struct {
	TotalQuizzes     int  `json:"total_quizzes,omitempty"`
	Level            int  `json:"level,omitempty"`
	FastestTime      int  `json:"fastest_time,omitempty"`
	PerfectBattle    bool `json:"perfect_battle,omitempty"`
	BattleWins       int  `json:"battle_wins,omitempty"`
	UniqueSites      int  `json:"unique_sites,omitempty"`
	EarlyMorningQuiz bool `json:"early_morning_quiz,omitempty"`
}

// Achievement 静态成就目录
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name        string          `gorm:"size:100;unique;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Icon        string          `gorm:"size:50" json:"icon"`
	Type        AchievementType `gorm:"column:achievement_type;size:20;not null" json:"achievement_type"`
	XPReward    int             `gorm:"default:50" json:"xp_reward"`
	Requirement datatypes.JSON  `gorm:"not null" json:"requirement"`
	Rarity      string          `gorm:"size:20;default:'common'" json:"rarity"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// ParsedRequirement 解 JSON 条件，损坏时返回零值（永不满足）
func (a *Achievement) ParsedRequirement() AchievementRequirement {
	var req AchievementRequirement
	if len(a.Requirement) > 0 {
		_ = json.Unmarshal(a.Requirement, &req)
	}
	return req
}

// UserAchievement 解锁记录，(user, achievement) 唯一，解锁后不撤销
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID     uint         `gorm:"index:idx_profile_achievement,unique;not null" json:"user"`
	Profile       *UserProfile `gorm:"foreignKey:ProfileID" json:"-"`
	AchievementID uint         `gorm:"index:idx_profile_achievement,unique;not null" json:"achievement"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID" json:"-"`
	UnlockedAt    time.Time    `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
