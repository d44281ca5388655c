package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GameRoomRecord is the coarse durable snapshot of a room. The in-memory
// session state stays authoritative; records trail it eventually.
type GameRoomRecord struct {
	ID            string     `bson:"_id" json:"id"`
	RoomCode      string     `bson:"room_code" json:"roomCode"`
	HostName      string     `bson:"host_name" json:"hostName"`
	Status        RoomStatus `bson:"status" json:"status"`
	MaxPlayers    int        `bson:"max_players" json:"maxPlayers"`
	TimerEnabled  bool       `bson:"timer_enabled" json:"timerEnabled"`
	TimerDuration int        `bson:"timer_duration" json:"timerDuration"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
	ArchivedAt    *time.Time `bson:"archived_at,omitempty" json:"archivedAt,omitempty"`
}

type PlayerRecord struct {
	ID           string    `bson:"_id" json:"id"`
	RoomCode     string    `bson:"room_code" json:"roomCode"`
	Name         string    `bson:"name" json:"name"`
	TeamName     string    `bson:"team_name,omitempty" json:"teamName,omitempty"`
	Role         Role      `bson:"role" json:"role"`
	ConnectionID string    `bson:"connection_id" json:"connectionId"`
	JoinedAt     time.Time `bson:"joined_at" json:"joinedAt"`
}

type BuzzEventRecord struct {
	ID          string    `bson:"_id" json:"id"`
	RoomCode    string    `bson:"room_code" json:"roomCode"`
	PlayerName  string    `bson:"player_name" json:"playerName"`
	TeamName    string    `bson:"team_name,omitempty" json:"teamName,omitempty"`
	RoundNumber int       `bson:"round_number" json:"roundNumber"`
	BuzzedAt    time.Time `bson:"buzzed_at" json:"buzzedAt"`
}

// RoomHistory bundles a room record with everything recorded against it.
type RoomHistory struct {
	Room       GameRoomRecord    `json:"room"`
	Players    []PlayerRecord    `json:"players"`
	BuzzEvents []BuzzEventRecord `json:"buzzEvents"`
}

// RecordCounts are all-time aggregates across every room ever created.
type RecordCounts struct {
	TotalRooms   int64 `json:"totalRooms"`
	TotalPlayers int64 `json:"totalPlayers"`
	TotalBuzzes  int64 `json:"totalBuzzes"`
}

type RecordStore interface {
	CreateRoom(ctx context.Context, record *GameRoomRecord) error
	UpdateRoomStatus(ctx context.Context, roomCode string, status RoomStatus) error
	ArchiveRoom(ctx context.Context, roomCode string) error
	AddPlayer(ctx context.Context, record *PlayerRecord) error
	AddBuzzEvent(ctx context.Context, record *BuzzEventRecord) error
	GetHistory(ctx context.Context, roomCode string) (*RoomHistory, error)
	Counts(ctx context.Context) (RecordCounts, error)
	EnsureIndexes(ctx context.Context) error
}

func NewGameRoomRecord(room *Room) *GameRoomRecord {
	return &GameRoomRecord{
		ID:            uuid.NewString(),
		RoomCode:      room.Code,
		HostName:      room.HostName,
		Status:        room.Status,
		MaxPlayers:    room.MaxParticipants,
		TimerEnabled:  room.TimerEnabled,
		TimerDuration: room.TimerDuration,
		CreatedAt:     room.CreatedAt,
	}
}

func NewPlayerRecord(roomCode string, p *Player) *PlayerRecord {
	return &PlayerRecord{
		ID:           uuid.NewString(),
		RoomCode:     roomCode,
		Name:         p.Name,
		TeamName:     p.TeamName,
		Role:         p.Role,
		ConnectionID: p.ID,
		JoinedAt:     p.JoinedAt,
	}
}

func NewBuzzEventRecord(roomCode string, round int, result *BuzzResult) *BuzzEventRecord {
	return &BuzzEventRecord{
		ID:          uuid.NewString(),
		RoomCode:    roomCode,
		PlayerName:  result.PlayerName,
		TeamName:    result.TeamName,
		RoundNumber: round,
		BuzzedAt:    time.UnixMilli(result.Timestamp),
	}
}
