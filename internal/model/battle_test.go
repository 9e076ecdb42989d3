package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBattle(start time.Time, duration int, status BattleStatus) *QuizBattle {
	return &QuizBattle{
		ScheduledStartTime: start,
		DurationMinutes:    duration,
		Status:             status,
	}
}

func TestEffectiveStatusPending(t *testing.T) {
	now := time.Now()

	// 还没到点
	b := newBattle(now.Add(5*time.Minute), 10, BattlePending)
	assert.Equal(t, BattlePending, b.EffectiveStatus(now))

	// 到点未结束
	b = newBattle(now.Add(-1*time.Minute), 10, BattlePending)
	assert.Equal(t, BattleInProgress, b.EffectiveStatus(now))

	// 整场都已过去，pending 直接跳到 completed
	b = newBattle(now.Add(-30*time.Minute), 10, BattlePending)
	assert.Equal(t, BattleCompleted, b.EffectiveStatus(now))
}

func TestEffectiveStatusInProgress(t *testing.T) {
	now := time.Now()

	b := newBattle(now.Add(-5*time.Minute), 10, BattleInProgress)
	assert.Equal(t, BattleInProgress, b.EffectiveStatus(now))

	b = newBattle(now.Add(-15*time.Minute), 10, BattleInProgress)
	assert.Equal(t, BattleCompleted, b.EffectiveStatus(now))
}

func TestEffectiveStatusTerminal(t *testing.T) {
	now := time.Now()

	// 终态不再漂移
	b := newBattle(now.Add(-1*time.Hour), 10, BattleCompleted)
	assert.Equal(t, BattleCompleted, b.EffectiveStatus(now))

	b = newBattle(now.Add(-1*time.Minute), 10, BattleCancelled)
	assert.Equal(t, BattleCancelled, b.EffectiveStatus(now))
}

func TestBattleJSONColumns(t *testing.T) {
	b := &QuizBattle{
		Questions:    []byte(`[3,1,7]`),
		Participants: []byte(`["alice","bob"]`),
	}

	assert.Equal(t, []uint{3, 1, 7}, b.QuestionIDs())
	assert.Equal(t, []string{"alice", "bob"}, b.ParticipantNames())
	assert.True(t, b.HasQuestion(7))
	assert.False(t, b.HasQuestion(2))
	assert.True(t, b.HasParticipant("alice"))
	assert.False(t, b.HasParticipant("carol"))
}

func TestParticipantAnswerMapRoundtrip(t *testing.T) {
	p := &QuizBattleParticipant{}

	m := p.AnswerMap()
	assert.Empty(t, m)

	m["3"] = ParticipantAnswer{Answer: "A", IsCorrect: true, TimeTaken: 12}
	require.NoError(t, p.SetAnswerMap(m))

	got := p.AnswerMap()
	assert.Len(t, got, 1)
	assert.Equal(t, "A", got["3"].Answer)
	assert.True(t, got["3"].IsCorrect)
	assert.Equal(t, 12, got["3"].TimeTaken)
}
