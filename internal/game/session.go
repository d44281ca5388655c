package game

import (
	"context"
	"sync"
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

// Session serializes every operation on one room behind a single mutex. Two
// racing buzzes therefore never interleave their check and set: whichever
// acquires the lock first wins the round, the other observes the lock and
// becomes a no-op.
type Session struct {
	mu     sync.Mutex
	room   *domain.Room
	closed bool

	// timerGen invalidates outstanding countdown incarnations; ticks compare
	// their generation under the session lock before emitting.
	timerGen  uint64
	timerStop chan struct{}

	deps *deps
}

func newSession(room *domain.Room, deps *deps) *Session {
	return &Session{
		room: room,
		deps: deps,
	}
}

func (s *Session) Code() string {
	return s.room.Code
}

// Snapshot returns a deep copy of the room state.
func (s *Session) Snapshot() *domain.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Snapshot()
}

// Join adds a player and broadcasts the new membership. The returned snapshot
// is what the gateway acknowledges to the joining connection.
func (s *Session) Join(connID, name, teamName string, role domain.Role) (*domain.Player, *domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, domain.ErrRoomClosed
	}

	player := &domain.Player{
		ID:       connID,
		Name:     name,
		TeamName: teamName,
		Role:     role,
		JoinedAt: time.Now(),
	}

	if err := s.room.AddPlayer(player); err != nil {
		return nil, nil, err
	}

	snapshot := s.room.Snapshot()
	s.deps.broadcaster.Broadcast(ws.NewPlayerJoined(s.room.Code, player))
	s.deps.broadcaster.Broadcast(ws.NewRoomUpdate(snapshot))

	record := domain.NewPlayerRecord(s.room.Code, player)
	s.deps.persist(s.room.Code, "add player", func(ctx context.Context) error {
		return s.deps.records.AddPlayer(ctx, record)
	})

	s.deps.logger.Info(logging.Game, logging.Session, "player joined", map[logging.ExtraKey]any{
		logging.RoomCode:     s.room.Code,
		logging.PlayerName:   name,
		logging.ConnectionID: connID,
	})

	return player, snapshot, nil
}

// StartGame begins a new round: the previous round's first buzzer scores a
// point, the buzzer unlocks, and the countdown restarts when enabled.
func (s *Session) StartGame(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomClosed
	}
	if !s.room.IsHost(connID) {
		return domain.ErrNotHost
	}

	firstStart := !s.room.IsGameStarted
	scored := s.room.BeginRound()

	s.deps.broadcaster.Broadcast(ws.NewGameStarted(s.room.Code))
	s.deps.broadcaster.Broadcast(ws.NewRoomUpdate(s.room.Snapshot()))

	if s.room.TimerEnabled && s.room.TimerDuration > 0 {
		s.startTimerLocked(s.room.TimerDuration)
	} else {
		s.cancelTimerLocked()
	}

	if firstStart {
		code := s.room.Code
		s.deps.persist(code, "activate room", func(ctx context.Context) error {
			return s.deps.records.UpdateRoomStatus(ctx, code, domain.StatusActive)
		})
	}

	extra := map[logging.ExtraKey]any{
		logging.RoomCode: s.room.Code,
		logging.Round:    s.room.CurrentRound,
	}
	if scored != nil {
		extra[logging.PlayerName] = scored.Name
	}
	s.deps.logger.Info(logging.Game, logging.Session, "round started", extra)

	return nil
}

// PressBuzzer claims the current round. Late presses, presses before the game
// starts and presses from unknown connections are silent no-ops; the caller
// learns the outcome from the broadcast, not from an error.
func (s *Session) PressBuzzer(connID string) *domain.BuzzResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.room.IsGameStarted || s.room.IsBuzzerLocked {
		return nil
	}

	player := s.room.FindPlayer(connID)
	if player == nil {
		return nil
	}

	result := s.room.RecordBuzz(player, time.Now())
	s.cancelTimerLocked()

	s.deps.broadcaster.Broadcast(ws.NewBuzzerLocked(s.room.Code, result))
	s.deps.broadcaster.Broadcast(ws.NewRoomUpdate(s.room.Snapshot()))

	s.deps.metrics.BuzzesTotal.Inc()
	s.deps.events.BuzzerLocked(s.room.Code, s.room.CurrentRound, result)

	record := domain.NewBuzzEventRecord(s.room.Code, s.room.CurrentRound, result)
	s.deps.persist(s.room.Code, "add buzz event", func(ctx context.Context) error {
		return s.deps.records.AddBuzzEvent(ctx, record)
	})

	s.deps.logger.Info(logging.Game, logging.Session, "buzzer locked", map[logging.ExtraKey]any{
		logging.RoomCode:   s.room.Code,
		logging.PlayerName: player.Name,
		logging.Round:      s.room.CurrentRound,
	})

	return result
}

// ResetBuzzer unlocks the buzzer without advancing the round or awarding
// points.
func (s *Session) ResetBuzzer(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrRoomClosed
	}
	if !s.room.IsHost(connID) {
		return domain.ErrNotHost
	}

	s.room.ResetBuzzer()

	s.deps.broadcaster.Broadcast(ws.NewBuzzerReset(s.room.Code))
	s.deps.broadcaster.Broadcast(ws.NewRoomUpdate(s.room.Snapshot()))

	return nil
}

// Leave removes the player. When the host leaves, or nobody remains, the room
// closes; the caller must then drop the session from the registry. Reports
// whether the room closed.
func (s *Session) Leave(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}

	player := s.room.RemovePlayer(connID)
	if player == nil {
		return false
	}

	if player.Role == domain.RoleHost || len(s.room.Participants) == 0 {
		s.closeLocked("host left or room empty")
		return true
	}

	s.deps.broadcaster.Broadcast(ws.NewPlayerLeft(s.room.Code, connID))
	s.deps.broadcaster.Broadcast(ws.NewRoomUpdate(s.room.Snapshot()))

	s.deps.logger.Info(logging.Game, logging.Session, "player left", map[logging.ExtraKey]any{
		logging.RoomCode:     s.room.Code,
		logging.PlayerName:   player.Name,
		logging.ConnectionID: connID,
	})

	return false
}

// Close shuts the session down: the countdown stops, members get a roomClosed
// broadcast and the durable record is archived. Idempotent.
func (s *Session) Close(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closeLocked(reason)
}

func (s *Session) closeLocked(reason string) {
	s.closed = true
	s.cancelTimerLocked()

	if s.room.IsGameStarted {
		s.room.Status = domain.StatusCompleted
	}

	s.deps.broadcaster.Broadcast(ws.NewRoomClosed(s.room.Code))
	s.deps.broadcaster.DropRoom(s.room.Code)
	s.deps.events.RoomClosed(s.room.Code)

	code := s.room.Code
	s.deps.persist(code, "archive room", func(ctx context.Context) error {
		return s.deps.records.ArchiveRoom(ctx, code)
	})

	s.deps.logger.Info(logging.Game, logging.Session, "room closed", map[logging.ExtraKey]any{
		logging.RoomCode: code,
		logging.Reason:   reason,
	})
}

// HasConnection reports whether connID belongs to a member of this room.
func (s *Session) HasConnection(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.room.FindPlayer(connID) != nil
}

// Closed reports whether the session has shut down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// expired reports whether the reaper should collect this room.
func (s *Session) expired(grace time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return true
	}
	return len(s.room.Participants) == 0 && time.Since(s.room.CreatedAt) > grace
}
