package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

func timerValues(rec *recorder) []int {
	var out []int
	for _, m := range rec.typed(ws.TimerUpdate) {
		payload, ok := m.Data.(ws.TimerPayload)
		if ok {
			out = append(out, payload.SecondsLeft)
		}
	}
	return out
}

func TestCountdownSequence(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:      "Quizmaster",
		TimerEnabled:  true,
		TimerDuration: 3,
	})

	require.NoError(t, sess.StartGame("host-conn"))

	require.Eventually(t, func() bool {
		return len(rec.typed(ws.TimerExpired)) == 1
	}, time.Second, 5*time.Millisecond, "countdown should expire")

	assert.Equal(t, []int{3, 2, 1}, timerValues(rec), "counts down without a zero update")
	assert.Len(t, rec.typed(ws.TimerExpired), 1)
}

func TestBuzzCancelsCountdown(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:      "Quizmaster",
		TimerEnabled:  true,
		TimerDuration: 100,
	})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	require.NoError(t, sess.StartGame("host-conn"))

	// Let at least one tick land before the buzz.
	require.Eventually(t, func() bool {
		return len(timerValues(rec)) >= 2
	}, time.Second, time.Millisecond)

	require.NotNil(t, sess.PressBuzzer("conn-a"))
	ticksAtBuzz := len(timerValues(rec))

	// Any tick already past the stop signal loses the generation check.
	time.Sleep(100 * time.Millisecond)

	assert.LessOrEqual(t, len(timerValues(rec)), ticksAtBuzz+1, "countdown stops after the buzz")
	assert.Empty(t, rec.typed(ws.TimerExpired))
}

func TestRestartReplacesCountdown(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:      "Quizmaster",
		TimerEnabled:  true,
		TimerDuration: 2,
	})

	require.NoError(t, sess.StartGame("host-conn"))
	require.NoError(t, sess.StartGame("host-conn"))

	require.Eventually(t, func() bool {
		return len(rec.typed(ws.TimerExpired)) >= 1
	}, time.Second, 5*time.Millisecond)

	// Only the second incarnation may expire.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.typed(ws.TimerExpired), 1)
}

func TestCloseStopsCountdown(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:      "Quizmaster",
		TimerEnabled:  true,
		TimerDuration: 100,
	})

	require.NoError(t, sess.StartGame("host-conn"))
	sess.Close("test")

	ticks := len(timerValues(rec))
	time.Sleep(50 * time.Millisecond)

	assert.LessOrEqual(t, len(timerValues(rec)), ticks+1)
	assert.Empty(t, rec.typed(ws.TimerExpired))
}

func TestDisabledTimerNeverTicks(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	require.NoError(t, sess.StartGame("host-conn"))

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, timerValues(rec))
	assert.Empty(t, rec.typed(ws.TimerExpired))
}
