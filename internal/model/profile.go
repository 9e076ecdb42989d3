package model

import (
	"gorm.io/gorm"
)

// UserProfile 按用户名（而非 users.id）索引的游戏化档案，首次访问时懒创建
// swagger:model UserProfile
type UserProfile struct {
	BaseModel
	UserName    string `gorm:"size:200;unique;not null" json:"user_name"`
	AvatarURL   string `gorm:"size:255" json:"avatar"`
	TotalXP     int    `gorm:"default:0" json:"total_xp"`
	Level       int    `gorm:"default:1" json:"level"`
	DisplayName string `gorm:"size:200" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// XPRequiredForLevel 达到 level 所需的累计 XP
// Level 1: 0, Level 2: 100, Level 3: 300 (100+200), Level 4: 600, ...
func XPRequiredForLevel(level int) int {
	total := 0
	for i := 1; i < level; i++ {
		total += i * 100
	}
	return total
}

// LevelForXP 满足 XPRequiredForLevel(n) <= totalXP 的最大 n
func LevelForXP(totalXP int) int {
	level := 1
	for totalXP >= XPRequiredForLevel(level+1) {
		level++
	}
	return level
}

// XPForNextLevel 升到下一级还差的那一段长度（当前级 * 100）
func (p *UserProfile) XPForNextLevel() int {
	return p.Level * 100
}

// CurrentLevelXP 当前等级内已积累的 XP
func (p *UserProfile) CurrentLevelXP() int {
	return p.TotalXP - XPRequiredForLevel(p.Level)
}

// XPProgressPercentage 当前等级进度百分比 [0,100]
func (p *UserProfile) XPProgressPercentage() float64 {
	next := p.XPForNextLevel()
	if next == 0 {
		return 100
	}
	pct := float64(p.CurrentLevelXP()) / float64(next) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// AddXP 增加 XP 并重算等级，等级只由 TotalXP 推导
func (p *UserProfile) AddXP(amount int) {
	p.TotalXP += amount
	p.Level = LevelForXP(p.TotalXP)
}

// BeforeSave 每次落库前重算等级，保证等级与 TotalXP 一致
func (p *UserProfile) BeforeSave(tx *gorm.DB) error {
	p.Level = LevelForXP(p.TotalXP)
	return nil
}
