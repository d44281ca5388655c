// Package game holds the authoritative in-memory engine: the room registry,
// the per-room session state machine and the countdown timer. Everything that
// mutates a room goes through its session, one operation at a time.
package game

import (
	"context"
	"time"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/metrics"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

const (
	defaultMaxCodeAttempts = 10
	defaultReapInterval    = 5 * time.Minute
	defaultEmptyRoomGrace  = 30 * time.Minute
	defaultPersistTimeout  = 5 * time.Second
)

// Broadcaster fans a message out to every connection subscribed to its room.
// Implementations must never block the caller. DropRoom disbands a room's
// subscriber group once the room closes, so a later room reusing the code
// starts with no listeners.
type Broadcaster interface {
	Broadcast(msg *ws.Message)
	DropRoom(roomCode string)
}

// EventPublisher receives room lifecycle notifications for out-of-process
// consumers. Calls are best-effort and must not block.
type EventPublisher interface {
	RoomCreated(room *domain.Room)
	RoomClosed(roomCode string)
	BuzzerLocked(roomCode string, round int, result *domain.BuzzResult)
}

// Options configures a Registry. Zero values pick sensible defaults; nil
// collaborators become no-ops.
type Options struct {
	Broadcaster Broadcaster
	Records     domain.RecordStore
	Events      EventPublisher
	Logger      logging.Logger
	Metrics     *metrics.Metrics

	MaxCodeAttempts int
	ReapInterval    time.Duration
	EmptyRoomGrace  time.Duration

	// TickInterval is how long one countdown "second" lasts. Tests shrink it.
	TickInterval time.Duration

	PersistTimeout time.Duration
}

// deps are the collaborators shared by the registry and its sessions.
type deps struct {
	broadcaster    Broadcaster
	records        domain.RecordStore
	events         EventPublisher
	logger         logging.Logger
	metrics        *metrics.Metrics
	tickInterval   time.Duration
	persistTimeout time.Duration
}

func newDeps(opts Options) *deps {
	d := &deps{
		broadcaster:    opts.Broadcaster,
		records:        opts.Records,
		events:         opts.Events,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		tickInterval:   opts.TickInterval,
		persistTimeout: opts.PersistTimeout,
	}

	if d.broadcaster == nil {
		d.broadcaster = nopBroadcaster{}
	}
	if d.records == nil {
		d.records = nopRecordStore{}
	}
	if d.events == nil {
		d.events = nopEvents{}
	}
	if d.logger == nil {
		d.logger = logging.NewNopLogger()
	}
	if d.metrics == nil {
		d.metrics = metrics.New()
	}
	if d.tickInterval <= 0 {
		d.tickInterval = time.Second
	}
	if d.persistTimeout <= 0 {
		d.persistTimeout = defaultPersistTimeout
	}

	return d
}

// persist runs a record-store write off the hot path. Failures are logged and
// never roll back an in-memory transition.
func (d *deps) persist(roomCode, op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.persistTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.logger.Error(logging.Game, logging.Persistence, "record store write failed", map[logging.ExtraKey]any{
				logging.RoomCode:     roomCode,
				"Op":                 op,
				logging.ErrorMessage: err.Error(),
			})
		}
	}()
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(*ws.Message) {}
func (nopBroadcaster) DropRoom(string)       {}

type nopEvents struct{}

func (nopEvents) RoomCreated(*domain.Room)                     {}
func (nopEvents) RoomClosed(string)                            {}
func (nopEvents) BuzzerLocked(string, int, *domain.BuzzResult) {}

// NopRecordStore returns a record store that drops writes and has no
// history. It stands in when no database is configured.
func NopRecordStore() domain.RecordStore {
	return nopRecordStore{}
}

type nopRecordStore struct{}

func (nopRecordStore) CreateRoom(context.Context, *domain.GameRoomRecord) error { return nil }
func (nopRecordStore) UpdateRoomStatus(context.Context, string, domain.RoomStatus) error {
	return nil
}
func (nopRecordStore) ArchiveRoom(context.Context, string) error             { return nil }
func (nopRecordStore) AddPlayer(context.Context, *domain.PlayerRecord) error { return nil }
func (nopRecordStore) AddBuzzEvent(context.Context, *domain.BuzzEventRecord) error {
	return nil
}
func (nopRecordStore) GetHistory(context.Context, string) (*domain.RoomHistory, error) {
	return nil, domain.ErrRoomNotFound
}
func (nopRecordStore) Counts(context.Context) (domain.RecordCounts, error) {
	return domain.RecordCounts{}, nil
}
func (nopRecordStore) EnsureIndexes(context.Context) error { return nil }
