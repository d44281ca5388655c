package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

// recorder captures broadcasts for assertions. Safe for concurrent use since
// timer goroutines broadcast too.
type recorder struct {
	mu      sync.Mutex
	msgs    []*ws.Message
	dropped []string
}

func (r *recorder) Broadcast(msg *ws.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) DropRoom(roomCode string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, roomCode)
}

func (r *recorder) droppedRooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dropped...)
}

func (r *recorder) typed(msgType string) []*ws.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*ws.Message
	for _, m := range r.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) all() []*ws.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ws.Message(nil), r.msgs...)
}

func newTestRegistry(t *testing.T, rec *recorder) *Registry {
	t.Helper()

	reg := NewRegistry(Options{
		Broadcaster:  rec,
		ReapInterval: time.Hour,
		TickInterval: 10 * time.Millisecond,
	})
	t.Cleanup(reg.Close)

	return reg
}

func newTestSession(t *testing.T, rec *recorder, cfg domain.RoomConfig) *Session {
	t.Helper()

	reg := newTestRegistry(t, rec)

	sess, err := reg.CreateRoom(cfg)
	require.NoError(t, err)

	_, _, err = sess.Join("host-conn", cfg.HostName, "", domain.RoleHost)
	require.NoError(t, err)

	return sess
}

func TestConcurrentBuzzesSingleWinner(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:        "Quizmaster",
		MaxParticipants: 50,
	})

	const players = 20
	for i := 0; i < players; i++ {
		_, _, err := sess.Join(fmt.Sprintf("conn-%d", i), fmt.Sprintf("Player %d", i), "", domain.RoleParticipant)
		require.NoError(t, err)
	}

	require.NoError(t, sess.StartGame("host-conn"))

	var wg sync.WaitGroup
	var winners sync.Map
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if result := sess.PressBuzzer(fmt.Sprintf("conn-%d", i)); result != nil {
				winners.Store(i, result)
			}
		}(i)
	}
	wg.Wait()

	winnerCount := 0
	winners.Range(func(_, _ any) bool {
		winnerCount++
		return true
	})
	assert.Equal(t, 1, winnerCount, "exactly one press wins")

	room := sess.Snapshot()
	assert.True(t, room.IsBuzzerLocked)
	require.Len(t, room.BuzzResults, 1)

	assert.Len(t, rec.typed(ws.BuzzerLocked), 1, "one buzzerLocked broadcast")
}

func TestBuzzerLockedMatchesResults(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "Red", domain.RoleParticipant)
	require.NoError(t, err)

	// Before the game starts a press changes nothing.
	assert.Nil(t, sess.PressBuzzer("conn-a"))
	room := sess.Snapshot()
	assert.False(t, room.IsBuzzerLocked)
	assert.Empty(t, room.BuzzResults)

	require.NoError(t, sess.StartGame("host-conn"))

	result := sess.PressBuzzer("conn-a")
	require.NotNil(t, result)
	assert.Equal(t, "Alice", result.PlayerName)
	assert.Equal(t, "Red", result.TeamName)

	room = sess.Snapshot()
	assert.True(t, room.IsBuzzerLocked)
	require.Len(t, room.BuzzResults, 1)

	// A press against a locked buzzer is silent.
	assert.Nil(t, sess.PressBuzzer("host-conn"))
	assert.Len(t, sess.Snapshot().BuzzResults, 1)
}

func TestUnknownConnectionCannotBuzz(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	require.NoError(t, sess.StartGame("host-conn"))

	assert.Nil(t, sess.PressBuzzer("stranger"))
	assert.False(t, sess.Snapshot().IsBuzzerLocked)
}

func TestStartGameAwardsPreviousWinner(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	require.NoError(t, sess.StartGame("host-conn"))
	assert.Equal(t, 1, sess.Snapshot().CurrentRound)

	require.NotNil(t, sess.PressBuzzer("conn-a"))

	require.NoError(t, sess.StartGame("host-conn"))

	room := sess.Snapshot()
	assert.Equal(t, 2, room.CurrentRound)
	assert.False(t, room.IsBuzzerLocked)
	assert.Empty(t, room.BuzzResults)

	alice := room.FindPlayer("conn-a")
	require.NotNil(t, alice)
	assert.Equal(t, 1, alice.Score)
}

func TestStartGameRequiresHost(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	assert.ErrorIs(t, sess.StartGame("conn-a"), domain.ErrNotHost)
}

func TestResetBuzzerKeepsRoundAndScores(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	require.NoError(t, sess.StartGame("host-conn"))
	require.NotNil(t, sess.PressBuzzer("conn-a"))

	require.NoError(t, sess.ResetBuzzer("host-conn"))

	room := sess.Snapshot()
	assert.False(t, room.IsBuzzerLocked)
	assert.Empty(t, room.BuzzResults)
	assert.Equal(t, 1, room.CurrentRound, "round does not advance")
	assert.Equal(t, 0, room.FindPlayer("conn-a").Score, "no point awarded")

	assert.ErrorIs(t, sess.ResetBuzzer("conn-a"), domain.ErrNotHost)
}

func TestJoinFullRoom(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{
		HostName:        "Quizmaster",
		MaxParticipants: 2,
	})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	_, _, err = sess.Join("conn-b", "Bobby", "", domain.RoleParticipant)
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestJoinAfterGameStarted(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	require.NoError(t, sess.StartGame("host-conn"))

	_, _, err := sess.Join("conn-late", "Latecomer", "", domain.RoleParticipant)
	assert.ErrorIs(t, err, domain.ErrGameAlreadyStarted)
}

func TestHostLeaveClosesRoom(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	closed := sess.Leave("host-conn")
	assert.True(t, closed)
	assert.True(t, sess.Closed())

	assert.Len(t, rec.typed(ws.RoomClosed), 1)
	assert.Equal(t, []string{sess.Code()}, rec.droppedRooms(), "closing must disband the broadcast group")

	_, _, err = sess.Join("conn-b", "Bobby", "", domain.RoleParticipant)
	assert.ErrorIs(t, err, domain.ErrRoomClosed)
	assert.ErrorIs(t, sess.StartGame("host-conn"), domain.ErrRoomClosed)
}

func TestLastParticipantLeaveClosesRoom(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	_, _, err := sess.Join("conn-a", "Alice", "", domain.RoleParticipant)
	require.NoError(t, err)

	assert.False(t, sess.Leave("conn-a"), "host still present")
	assert.Len(t, rec.typed(ws.PlayerLeft), 1)

	assert.True(t, sess.Leave("host-conn"))
	assert.True(t, sess.Closed())
}

func TestLeaveUnknownConnection(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	assert.False(t, sess.Leave("stranger"))
	assert.False(t, sess.Closed())
}

func TestCloseIsIdempotent(t *testing.T) {
	rec := &recorder{}
	sess := newTestSession(t, rec, domain.RoomConfig{HostName: "Quizmaster"})

	sess.Close("test")
	sess.Close("test")

	assert.Len(t, rec.typed(ws.RoomClosed), 1)
	assert.Len(t, rec.droppedRooms(), 1)
}
