package game

import (
	"context"
	"sync"
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
)

// Registry owns the live rooms. It maps normalized room codes to sessions and
// guarantees a code never refers to two rooms at once.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Session

	deps            *deps
	maxCodeAttempts int
	reapInterval    time.Duration
	emptyRoomGrace  time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// RoomSummary is the read-only listing shape served over the REST surface.
type RoomSummary struct {
	Code            string    `json:"code"`
	HostName        string    `json:"hostName"`
	PlayerCount     int       `json:"playerCount"`
	MaxParticipants int       `json:"maxParticipants"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewRegistry builds a registry and starts its background reaper.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		rooms:           make(map[string]*Session),
		deps:            newDeps(opts),
		maxCodeAttempts: opts.MaxCodeAttempts,
		reapInterval:    opts.ReapInterval,
		emptyRoomGrace:  opts.EmptyRoomGrace,
		stop:            make(chan struct{}),
	}

	if r.maxCodeAttempts <= 0 {
		r.maxCodeAttempts = defaultMaxCodeAttempts
	}
	if r.reapInterval <= 0 {
		r.reapInterval = defaultReapInterval
	}
	if r.emptyRoomGrace <= 0 {
		r.emptyRoomGrace = defaultEmptyRoomGrace
	}

	r.wg.Add(1)
	go r.reapLoop()

	return r
}

// CreateRoom allocates a fresh room under a unique code and returns its
// session. The caller joins the host through Session.Join afterwards.
func (r *Registry) CreateRoom(cfg domain.RoomConfig) (*Session, error) {
	for attempt := 0; attempt < r.maxCodeAttempts; attempt++ {
		code, err := domain.GenerateRoomCode()
		if err != nil {
			return nil, err
		}

		room := domain.NewRoom(code, cfg)
		sess := newSession(room, r.deps)

		r.mu.Lock()
		if _, taken := r.rooms[code]; taken {
			r.mu.Unlock()
			continue
		}
		r.rooms[code] = sess
		r.mu.Unlock()

		r.deps.metrics.RoomsCreated.Inc()
		r.deps.metrics.ActiveRooms.Inc()
		r.deps.events.RoomCreated(room)

		record := domain.NewGameRoomRecord(room)
		r.deps.persist(code, "create room", func(ctx context.Context) error {
			return r.deps.records.CreateRoom(ctx, record)
		})

		r.deps.logger.Info(logging.Game, logging.Registry, "room created", map[logging.ExtraKey]any{
			logging.RoomCode:   code,
			logging.PlayerName: cfg.HostName,
		})

		return sess, nil
	}

	return nil, domain.ErrCodeGenerationExhausted
}

// Get looks a session up by code. The code is normalized first, so lowercase
// input from clients resolves.
func (r *Registry) Get(code string) (*Session, error) {
	code = domain.NormalizeRoomCode(code)

	r.mu.RLock()
	sess, ok := r.rooms[code]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return sess, nil
}

// Delete closes a session and removes it from the registry. Safe to call more
// than once for the same code.
func (r *Registry) Delete(code string) {
	code = domain.NormalizeRoomCode(code)

	r.mu.Lock()
	sess, ok := r.rooms[code]
	if ok {
		delete(r.rooms, code)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	sess.Close("removed from registry")
	r.deps.metrics.RoomsClosed.Inc()
	r.deps.metrics.ActiveRooms.Dec()
}

// ListActive returns a summary of every live room, for the REST listing.
func (r *Registry) ListActive() []RoomSummary {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.rooms))
	for _, sess := range r.rooms {
		sessions = append(sessions, sess)
	}
	r.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(sessions))
	for _, sess := range sessions {
		room := sess.Snapshot()

		summaries = append(summaries, RoomSummary{
			Code:            room.Code,
			HostName:        room.HostName,
			PlayerCount:     len(room.Participants),
			MaxParticipants: room.MaxParticipants,
			Status:          string(room.Status),
			CreatedAt:       room.CreatedAt,
		})
	}

	return summaries
}

// Count reports the number of live rooms.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Close stops the reaper and shuts every remaining session down.
func (r *Registry) Close() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	r.wg.Wait()

	r.mu.Lock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	r.mu.Unlock()

	for _, code := range codes {
		r.Delete(code)
	}
}

func (r *Registry) reapLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

// reap collects rooms that closed out of band or sat empty past the grace
// period.
func (r *Registry) reap() {
	r.mu.RLock()
	candidates := make(map[string]*Session, len(r.rooms))
	for code, sess := range r.rooms {
		candidates[code] = sess
	}
	r.mu.RUnlock()

	for code, sess := range candidates {
		if sess.expired(r.emptyRoomGrace) {
			r.deps.logger.Info(logging.Game, logging.Reaper, "reaping room", map[logging.ExtraKey]any{
				logging.RoomCode: code,
			})
			r.Delete(code)
		}
	}
}
