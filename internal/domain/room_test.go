package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCodeFormat(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code, err := GenerateRoomCode()
		require.NoError(t, err)
		require.Len(t, code, RoomCodeLength)

		for _, c := range code {
			assert.NotContains(t, "IO01", string(c), "ambiguous character in code %s", code)
			assert.Contains(t, roomCodeChars, string(c))
		}
	}
}

func TestNewRoomDefaults(t *testing.T) {
	room := NewRoom("abc234", RoomConfig{HostName: "Quizmaster"})

	assert.Equal(t, "ABC234", room.Code)
	assert.Equal(t, DefaultMaxParticipants, room.MaxParticipants)
	assert.Equal(t, DefaultTimerDuration, room.TimerDuration)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Zero(t, room.CurrentRound)
	assert.False(t, room.IsGameStarted)
}

func TestAddPlayerHostClaimsVacantSeat(t *testing.T) {
	room := NewRoom("ABC234", RoomConfig{HostName: "Quizmaster"})

	host := &Player{ID: "h1", Name: "Quizmaster", Role: RoleHost}
	require.NoError(t, room.AddPlayer(host))
	assert.Equal(t, "h1", room.HostID)
	assert.True(t, room.IsHost("h1"))

	// A second host role does not steal the seat.
	other := &Player{ID: "h2", Name: "Impostor", Role: RoleHost}
	require.NoError(t, room.AddPlayer(other))
	assert.Equal(t, "h1", room.HostID)
}

func TestRemovePlayerKeepsJoinOrder(t *testing.T) {
	room := NewRoom("ABC234", RoomConfig{HostName: "Quizmaster", MaxParticipants: 10})

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, room.AddPlayer(&Player{ID: id, Name: "Player " + id, Role: RoleParticipant}))
	}

	removed := room.RemovePlayer("b")
	require.NotNil(t, removed)
	assert.Equal(t, "b", removed.ID)

	var order []string
	for _, p := range room.Participants {
		order = append(order, p.ID)
	}
	assert.Equal(t, []string{"a", "c", "d"}, order)

	assert.Nil(t, room.RemovePlayer("missing"))
}

func TestBeginRoundScoring(t *testing.T) {
	room := NewRoom("ABC234", RoomConfig{HostName: "Quizmaster"})

	alice := &Player{ID: "a", Name: "Alice", Role: RoleParticipant}
	require.NoError(t, room.AddPlayer(alice))

	room.BeginRound()
	assert.Equal(t, 1, room.CurrentRound)
	assert.True(t, room.IsGameStarted)

	room.RecordBuzz(alice, time.Now())
	assert.True(t, room.IsBuzzerLocked)

	scored := room.BeginRound()
	require.NotNil(t, scored)
	assert.Equal(t, "Alice", scored.Name)
	assert.Equal(t, 1, alice.Score)
	assert.Equal(t, 2, room.CurrentRound)
	assert.False(t, room.IsBuzzerLocked)
	assert.Empty(t, room.BuzzResults)
}

func TestBeginRoundDepartedWinnerScoresNothing(t *testing.T) {
	room := NewRoom("ABC234", RoomConfig{HostName: "Quizmaster"})

	alice := &Player{ID: "a", Name: "Alice", Role: RoleParticipant}
	require.NoError(t, room.AddPlayer(alice))

	room.BeginRound()
	room.RecordBuzz(alice, time.Now())
	room.RemovePlayer("a")

	assert.Nil(t, room.BeginRound())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	room := NewRoom("ABC234", RoomConfig{HostName: "Quizmaster"})

	alice := &Player{ID: "a", Name: "Alice", Role: RoleParticipant}
	require.NoError(t, room.AddPlayer(alice))
	room.BeginRound()
	room.RecordBuzz(alice, time.Now())

	snapshot := room.Snapshot()

	alice.Score = 99
	room.ResetBuzzer()

	assert.Equal(t, 0, snapshot.Participants[0].Score)
	assert.Len(t, snapshot.BuzzResults, 1)
	assert.True(t, snapshot.IsBuzzerLocked)
}
