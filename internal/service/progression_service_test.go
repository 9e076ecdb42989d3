package service

import (
	"heritage_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func achievementNames(list []model.Achievement) []string {
	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	return names
}

func achievementXP(list []model.Achievement) int {
	total := 0
	for _, a := range list {
		total += a.XPReward
	}
	return total
}

func TestGrantXPCreatesProfile(t *testing.T) {
	env := newTestEnv(t)

	profile, unlocked, err := env.progression.GrantXP("newbie", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, profile.TotalXP)
	assert.Equal(t, 1, profile.Level)
	assert.Empty(t, unlocked, "no quiz attempts yet, nothing to unlock")
}

func TestLevelAchievementCascade(t *testing.T) {
	env := newTestEnv(t)

	// 1000 XP 正好到 5 级，Level 5 成就再奖 100
	profile, unlocked, err := env.progression.GrantXP("climber", 1000)
	require.NoError(t, err)

	names := achievementNames(unlocked)
	assert.Contains(t, names, "Level 5")
	assert.Equal(t, 1100, profile.TotalXP)
	assert.Equal(t, 5, profile.Level)
}

func TestLevelAchievementsUnlockTogether(t *testing.T) {
	env := newTestEnv(t)

	profile, unlocked, err := env.progression.GrantXP("veteran", 4500)
	require.NoError(t, err)

	names := achievementNames(unlocked)
	assert.Contains(t, names, "Level 5")
	assert.Contains(t, names, "Level 10")
	assert.Equal(t, 4800, profile.TotalXP)
	assert.Equal(t, 10, profile.Level)
}

func TestAchievementsNotDoubleGranted(t *testing.T) {
	env := newTestEnv(t)

	_, first, err := env.progression.GrantXP("steady", 1000)
	require.NoError(t, err)
	assert.Contains(t, achievementNames(first), "Level 5")

	// 再加 XP 不会重复解锁同一成就
	profile, second, err := env.progression.GrantXP("steady", 10)
	require.NoError(t, err)
	assert.NotContains(t, achievementNames(second), "Level 5")
	assert.Equal(t, 1110, profile.TotalXP)
}

func TestSpeedDemonRequiresFastCorrectAnswer(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "markovi-kuli", "Markovi Kuli")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	attempt := &model.QuizAttempt{
		QuizID:     quiz.ID,
		UserName:   "flash",
		UserAnswer: "A",
		IsCorrect:  true,
		XPEarned:   10,
		TimeTaken:  3,
	}
	require.NoError(t, env.quizzes.CreateAttempt(attempt))

	_, unlocked, err := env.progression.GrantXP("flash", 10)
	require.NoError(t, err)

	names := achievementNames(unlocked)
	assert.Contains(t, names, "Speed Demon")
	assert.Contains(t, names, "First Quiz")
}

func TestEarlyBirdCountsAnyPreEightAttempt(t *testing.T) {
	env := newTestEnv(t)
	site := env.createSite(t, "night-site", "Night Site")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	// 凌晨三点的作答也算早起，门槛只看是否早于 8 点
	now := time.Now()
	attempt := &model.QuizAttempt{
		QuizID: quiz.ID, UserName: "owl", UserAnswer: "A", IsCorrect: true, XPEarned: 10,
	}
	attempt.CreatedAt = time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, time.Local)
	require.NoError(t, env.quizzes.CreateAttempt(attempt))

	early, err := env.quizzes.HasEarlyMorningAttempt("owl")
	require.NoError(t, err)
	assert.True(t, early)

	_, unlocked, err := env.progression.GrantXP("owl", 0)
	require.NoError(t, err)
	assert.Contains(t, achievementNames(unlocked), "Early Bird")
}

func TestExplorerCountsDistinctSites(t *testing.T) {
	env := newTestEnv(t)

	// 同一个地点答多题不算探索多个地点
	site := env.createSite(t, "single", "Single Site")
	for i := 0; i < 5; i++ {
		quiz := env.createQuiz(t, site.ID, "A", 10)
		require.NoError(t, env.quizzes.CreateAttempt(&model.QuizAttempt{
			QuizID: quiz.ID, UserName: "walker", UserAnswer: "A", IsCorrect: true, XPEarned: 10,
		}))
	}
	_, unlocked, err := env.progression.GrantXP("walker", 0)
	require.NoError(t, err)
	assert.NotContains(t, achievementNames(unlocked), "Explorer")

	// 补满 5 个不同地点后解锁
	for i := 0; i < 4; i++ {
		s := env.createSite(t, "multi-"+string(rune('a'+i)), "Site")
		quiz := env.createQuiz(t, s.ID, "A", 10)
		require.NoError(t, env.quizzes.CreateAttempt(&model.QuizAttempt{
			QuizID: quiz.ID, UserName: "walker", UserAnswer: "A", IsCorrect: true, XPEarned: 10,
		}))
	}
	_, unlocked, err = env.progression.GrantXP("walker", 0)
	require.NoError(t, err)
	assert.Contains(t, achievementNames(unlocked), "Explorer")
}

func TestListAchievementsMarksUnlocked(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.progression.GrantXP("browser", 1000)
	require.NoError(t, err)

	views, err := env.progression.ListAchievements("browser")
	require.NoError(t, err)
	require.NotEmpty(t, views)

	var level5Unlocked, legendUnlocked bool
	for _, v := range views {
		switch v.Name {
		case "Level 5":
			level5Unlocked = v.Unlocked
		case "Legend":
			legendUnlocked = v.Unlocked
		}
	}
	assert.True(t, level5Unlocked)
	assert.False(t, legendUnlocked)
}

func TestUpdateProfileFields(t *testing.T) {
	env := newTestEnv(t)

	name := "Explorer Ana"
	bio := "History student from Ohrid"
	view, err := env.progression.UpdateProfile("ana", ProfileUpdate{
		DisplayName: &name,
		Bio:         &bio,
	})
	require.NoError(t, err)
	assert.Equal(t, name, view.DisplayName)
	assert.Equal(t, bio, view.Bio)

	// 未提供的字段保持原样
	avatar := "/uploads/ana.png"
	view, err = env.progression.UpdateProfile("ana", ProfileUpdate{AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, name, view.DisplayName)
	assert.Equal(t, avatar, view.AvatarURL)
}

func TestLeaderboardOrder(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.progression.GrantXP("first", 300)
	require.NoError(t, err)
	_, _, err = env.progression.GrantXP("second", 200)
	require.NoError(t, err)
	_, _, err = env.progression.GrantXP("third", 100)
	require.NoError(t, err)

	entries, err := env.progression.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].UserName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "third", entries[2].UserName)
}

func TestGetProfileRank(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.progression.GrantXP("leader", 500)
	require.NoError(t, err)
	_, _, err = env.progression.GrantXP("runner", 100)
	require.NoError(t, err)

	view, err := env.progression.GetProfile("runner")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Rank)
	assert.Equal(t, 100, view.TotalXP)
	assert.Equal(t, 2, view.Level)
}
