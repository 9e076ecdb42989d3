package model

import (
	"time"
)

const (
	SystemSettingsID     uint = 1
	DefaultFeedbackEmail      = "admin@example.com"
)

// SystemSettings 全局唯一配置行（pk=1），get-or-create 访问
type SystemSettings struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FeedbackEmail string    `gorm:"size:254;default:'admin@example.com'" json:"feedback_email"`
	UpdatedAt     time.Time `json:"updated_at"`
	UpdatedByID   *uint     `json:"updated_by"`
	UpdatedBy     *User     `gorm:"foreignKey:UpdatedByID" json:"-"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}
