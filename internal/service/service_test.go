package service

import (
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/pkg/database"
	"heritage_edu_backend/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 内存 sqlite，表结构与生产共用同一份迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	users       *repository.UserRepository
	sites       *repository.SiteRepository
	quizzes     *repository.QuizRepository
	battles     *repository.BattleRepository
	profiles    *repository.ProfileRepository
	comments    *repository.CommentRepository
	feedbacks   *repository.FeedbackRepository
	settings    *repository.SettingsRepository
	progression *ProgressionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	database.SeedAchievements(db)

	users := repository.NewUserRepository(db)
	sites := repository.NewSiteRepository(db)
	quizzes := repository.NewQuizRepository(db)
	battles := repository.NewBattleRepository(db)
	profiles := repository.NewProfileRepository(db)
	achievements := repository.NewAchievementRepository(db)

	return &testEnv{
		db:          db,
		users:       users,
		sites:       sites,
		quizzes:     quizzes,
		battles:     battles,
		profiles:    profiles,
		comments:    repository.NewCommentRepository(db),
		feedbacks:   repository.NewFeedbackRepository(db),
		settings:    repository.NewSettingsRepository(db),
		progression: NewProgressionService(profiles, achievements, quizzes, battles),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret",
			ExpireTime: time.Hour,
		},
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role model.UserRole) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Username: username, Password: string(hashed), Role: role}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createSite(t *testing.T, siteID, name string) *model.Site {
	t.Helper()
	site := &model.Site{
		SiteID:             siteID,
		Name:               name,
		GeoJSON:            []byte(`{"type":"Feature","geometry":{"type":"Point","coordinates":[21.43,42.0]},"properties":{}}`),
		ConservationStatus: model.StatusGood,
	}
	require.NoError(t, e.sites.Create(site))
	return site
}

func (e *testEnv) createQuiz(t *testing.T, siteRefID uint, correct string, xp int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		SiteRefID:     siteRefID,
		Question:      "test question",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: correct,
		XPReward:      xp,
	}
	require.NoError(t, e.quizzes.Create(quiz))
	return quiz
}
