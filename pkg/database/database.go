package database

import (
	"fmt"
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/model"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式下表结构由 -migrate/-migrate-only 显式触发
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
		SeedAchievements(db)
	}

	return db, nil
}

// Migrate 建表/加索引，测试里用 sqlite 也走同一份
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Site{},
		&model.Feedback{},
		&model.Quiz{},
		&model.QuizAttempt{},
		&model.QuizBattle{},
		&model.QuizBattleParticipant{},
		&model.UserProfile{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Comment{},
		&model.SystemSettings{},
	)
}

func mustJSON(s string) datatypes.JSON {
	return datatypes.JSON([]byte(s))
}

// SeedAchievements 默认成就目录，已存在的按名字跳过
func SeedAchievements(db *gorm.DB) {
	achievements := []model.Achievement{
		{Name: "First Quiz", Description: "Complete your first quiz question", Icon: "Play",
			Type: model.AchFirstQuiz, XPReward: 10, Requirement: mustJSON(`{"total_quizzes": 1}`), Rarity: "common"},
		{Name: "Quiz Novice", Description: "Complete 10 quiz questions", Icon: "BookOpen",
			Type: model.AchQuizMaster, XPReward: 50, Requirement: mustJSON(`{"total_quizzes": 10}`), Rarity: "common"},
		{Name: "Quiz Expert", Description: "Complete 50 quiz questions", Icon: "Brain",
			Type: model.AchQuizMaster, XPReward: 150, Requirement: mustJSON(`{"total_quizzes": 50}`), Rarity: "rare"},
		{Name: "Quiz Master", Description: "Complete 100 quiz questions", Icon: "Trophy",
			Type: model.AchQuizMaster, XPReward: 300, Requirement: mustJSON(`{"total_quizzes": 100}`), Rarity: "epic"},
		{Name: "Speed Demon", Description: "Answer correctly within 5 seconds", Icon: "Zap",
			Type: model.AchSpeedDemon, XPReward: 25, Requirement: mustJSON(`{"fastest_time": 5}`), Rarity: "rare"},
		{Name: "Perfect Score", Description: "Get 5 or more correct answers in a battle", Icon: "Star",
			Type: model.AchPerfectScore, XPReward: 100, Requirement: mustJSON(`{"perfect_battle": true}`), Rarity: "epic"},
		{Name: "Battle Winner", Description: "Win your first battle", Icon: "Crown",
			Type: model.AchBattleWinner, XPReward: 75, Requirement: mustJSON(`{"battle_wins": 1}`), Rarity: "rare"},
		{Name: "Explorer", Description: "Explore 5 different heritage sites", Icon: "MapPin",
			Type: model.AchExplorer, XPReward: 40, Requirement: mustJSON(`{"unique_sites": 5}`), Rarity: "common"},
		{Name: "Early Bird", Description: "Complete a quiz before 8 AM", Icon: "Sun",
			Type: model.AchEarlyBird, XPReward: 30, Requirement: mustJSON(`{"early_morning_quiz": true}`), Rarity: "rare"},
		{Name: "Level 5", Description: "Reach level 5", Icon: "TrendingUp",
			Type: model.AchQuizMaster, XPReward: 100, Requirement: mustJSON(`{"level": 5}`), Rarity: "rare"},
		{Name: "Level 10", Description: "Reach level 10", Icon: "Award",
			Type: model.AchQuizMaster, XPReward: 200, Requirement: mustJSON(`{"level": 10}`), Rarity: "epic"},
		{Name: "Legend", Description: "Reach level 25", Icon: "Gem",
			Type: model.AchQuizMaster, XPReward: 500, Requirement: mustJSON(`{"level": 25}`), Rarity: "legendary"},
	}

	for _, a := range achievements {
		var count int64
		db.Model(&model.Achievement{}).Where("name = ?", a.Name).Count(&count)
		if count == 0 {
			db.Create(&a)
		}
	}
}
