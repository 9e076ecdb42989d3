package service

import (
	"heritage_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAnswerCorrect(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "skopje-fortress", "Skopje Fortress")
	quiz := env.createQuiz(t, site.ID, "B", 10)

	result, err := svc.SubmitAnswer(quiz.ID, "alice", "B", "")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 10, result.XPEarned)
	require.NotNil(t, result.Profile)

	// 首答即解锁 First Quiz，档案 XP = 答题所得 + 成就奖励
	names := achievementNames(result.Achievements)
	assert.Contains(t, names, "First Quiz")
	assert.Equal(t, 10+achievementXP(result.Achievements), result.Profile.TotalXP)
}

func TestSubmitAnswerIncorrectStillCountsAttempt(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "ohrid", "Ohrid Old Town")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	result, err := svc.SubmitAnswer(quiz.ID, "bob", "C", "")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, 0, result.XPEarned)

	// 答错也算一次作答，First Quiz 照常解锁
	names := achievementNames(result.Achievements)
	assert.Contains(t, names, "First Quiz")
	assert.Equal(t, achievementXP(result.Achievements), result.Profile.TotalXP)
}

func TestSubmitAnswerDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "stobi", "Stobi")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	first, err := svc.SubmitAnswer(quiz.ID, "alice", "A", "")
	require.NoError(t, err)

	// 二刷：拒绝并带回已有记录
	second, err := svc.SubmitAnswer(quiz.ID, "alice", "B", "")
	assert.ErrorIs(t, err, util.ErrAlreadyAttempted)
	require.NotNil(t, second)
	assert.Equal(t, first.Attempt.ID, second.Attempt.ID)
	assert.Equal(t, "A", second.Attempt.UserAnswer)
	assert.Equal(t, 0, second.XPEarned)

	// XP 没有二次累计
	profile, err := env.profiles.GetOrCreate("alice")
	require.NoError(t, err)
	assert.Equal(t, first.Profile.TotalXP, profile.TotalXP)
}

func TestSubmitAnswerInvalidOption(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "heraclea", "Heraclea")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	_, err := svc.SubmitAnswer(quiz.ID, "alice", "E", "")
	assert.ErrorIs(t, err, util.ErrInvalidAnswer)
}

func TestSubmitAnswerBadStartedAt(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "kokino", "Kokino")
	quiz := env.createQuiz(t, site.ID, "A", 10)

	// 无法解析的起始时间不报错，耗时记 0
	result, err := svc.SubmitAnswer(quiz.ID, "alice", "A", "not-a-timestamp")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Attempt.TimeTaken)
	assert.Nil(t, result.Attempt.StartedAt)
}

func TestCheckAttempts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "bargala", "Bargala")
	q1 := env.createQuiz(t, site.ID, "A", 10)
	q2 := env.createQuiz(t, site.ID, "B", 10)

	_, err := svc.SubmitAnswer(q1.ID, "alice", "A", "")
	require.NoError(t, err)

	attempted, err := svc.CheckAttempts("alice", []uint{q1.ID, q2.ID})
	require.NoError(t, err)
	assert.True(t, attempted[q1.ID])
	assert.False(t, attempted[q2.ID])
}

func TestAttemptLeaderboardOrdering(t *testing.T) {
	env := newTestEnv(t)
	svc := NewQuizService(env.quizzes, env.sites, env.progression)

	site := env.createSite(t, "tetovo", "Painted Mosque")
	q1 := env.createQuiz(t, site.ID, "A", 10)
	q2 := env.createQuiz(t, site.ID, "B", 20)

	_, err := svc.SubmitAnswer(q1.ID, "alice", "A", "")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(q2.ID, "alice", "B", "")
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(q1.ID, "bob", "A", "")
	require.NoError(t, err)

	rows, err := svc.AttemptLeaderboard(0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0].UserName)
	assert.Equal(t, 30, rows[0].TotalXP)
	assert.Equal(t, "bob", rows[1].UserName)
}
