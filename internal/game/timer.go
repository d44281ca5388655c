package game

import (
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

// startTimerLocked replaces any running countdown with a fresh incarnation.
// Callers hold s.mu.
func (s *Session) startTimerLocked(durationSeconds int) {
	s.cancelTimerLocked()

	s.timerGen++
	s.timerStop = make(chan struct{})

	s.deps.broadcaster.Broadcast(ws.NewTimerUpdate(s.room.Code, durationSeconds))

	go s.runTimer(s.timerGen, s.timerStop, durationSeconds)
}

// cancelTimerLocked invalidates the current countdown. Any tick of a stale
// generation that is already past the stop channel still loses the generation
// check and emits nothing. Callers hold s.mu.
func (s *Session) cancelTimerLocked() {
	s.timerGen++
	if s.timerStop != nil {
		close(s.timerStop)
		s.timerStop = nil
	}
}

func (s *Session) runTimer(gen uint64, stop chan struct{}, secondsLeft int) {
	ticker := time.NewTicker(s.deps.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			secondsLeft--
			if !s.emitTick(gen, secondsLeft) {
				return
			}
		}
	}
}

// emitTick publishes one countdown step, or expiry at zero. Reports whether
// the countdown should keep running.
func (s *Session) emitTick(gen uint64, secondsLeft int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A buzz, a restart or a close bumped the generation; this incarnation
	// is dead and must stay silent.
	if gen != s.timerGen || s.closed || s.room.IsBuzzerLocked {
		return false
	}

	if secondsLeft <= 0 {
		s.timerStop = nil

		s.deps.broadcaster.Broadcast(ws.NewTimerExpired(s.room.Code))

		s.deps.logger.Debug(logging.Game, logging.Timer, "countdown expired", map[logging.ExtraKey]any{
			logging.RoomCode: s.room.Code,
			logging.Round:    s.room.CurrentRound,
		})
		return false
	}

	s.deps.broadcaster.Broadcast(ws.NewTimerUpdate(s.room.Code, secondsLeft))
	return true
}
