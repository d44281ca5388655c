package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	RoomCodeLength = 6

	// Excludes visually confusable glyphs (I, O, 0, 1).
	roomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	DefaultMaxParticipants = 10
	DefaultTimerDuration   = 10
)

var charsetLen = big.NewInt(int64(len(roomCodeChars)))

type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusActive    RoomStatus = "active"
	StatusCompleted RoomStatus = "completed"
	StatusArchived  RoomStatus = "archived"
)

type Role string

const (
	RoleHost        Role = "host"
	RoleParticipant Role = "participant"
)

// Player is identified by its connection id; a reconnect is a new identity.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	TeamName string    `json:"teamName,omitempty"`
	Role     Role      `json:"role"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

// BuzzResult is immutable once recorded.
type BuzzResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName,omitempty"`
	Timestamp  int64  `json:"timestamp"` // Unix ms
}

// RoomConfig is the creation-time configuration of a room.
type RoomConfig struct {
	HostName        string
	MaxParticipants int
	TimerEnabled    bool
	TimerDuration   int // seconds
}

// Room is the aggregate root for one game. It is not safe for concurrent use;
// the session layer serializes every mutation behind its own lock.
type Room struct {
	Code            string        `json:"code"`
	HostID          string        `json:"hostId"`
	HostName        string        `json:"hostName"`
	MaxParticipants int           `json:"maxParticipants"`
	TimerEnabled    bool          `json:"timerEnabled"`
	TimerDuration   int           `json:"timerDuration"`
	Participants    []*Player     `json:"participants"`
	IsGameStarted   bool          `json:"isGameStarted"`
	IsBuzzerLocked  bool          `json:"isBuzzerLocked"`
	BuzzResults     []*BuzzResult `json:"buzzResults"`
	CurrentRound    int           `json:"currentRound"`
	Status          RoomStatus    `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

func NewRoom(code string, cfg RoomConfig) *Room {
	maxParticipants := cfg.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = DefaultMaxParticipants
	}
	timerDuration := cfg.TimerDuration
	if timerDuration <= 0 {
		timerDuration = DefaultTimerDuration
	}

	return &Room{
		Code:            NormalizeRoomCode(code),
		HostName:        cfg.HostName,
		MaxParticipants: maxParticipants,
		TimerEnabled:    cfg.TimerEnabled,
		TimerDuration:   timerDuration,
		Participants:    make([]*Player, 0, maxParticipants),
		BuzzResults:     make([]*BuzzResult, 0, 4),
		Status:          StatusWaiting,
		CreatedAt:       time.Now(),
	}
}

// AddPlayer appends a player in join order. The host role claims HostID when
// it is vacant.
func (r *Room) AddPlayer(p *Player) error {
	if p == nil {
		return ErrPlayerNotFound
	}
	if len(r.Participants) >= r.MaxParticipants {
		return ErrRoomFull
	}
	if r.IsGameStarted && p.Role != RoleHost {
		return ErrGameAlreadyStarted
	}

	r.Participants = append(r.Participants, p)
	if p.Role == RoleHost && r.HostID == "" {
		r.HostID = p.ID
	}

	return nil
}

func (r *Room) FindPlayer(id string) *Player {
	for _, p := range r.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer preserves join order of the rest.
func (r *Room) RemovePlayer(id string) *Player {
	for i, p := range r.Participants {
		if p.ID == id {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return p
		}
	}
	return nil
}

func (r *Room) IsHost(id string) bool {
	return r.HostID != "" && r.HostID == id
}

// RecordBuzz locks the buzzer and appends the result for the player. The
// caller has already checked IsGameStarted and IsBuzzerLocked under the
// session lock, so the check-and-set here is indivisible.
func (r *Room) RecordBuzz(p *Player, at time.Time) *BuzzResult {
	result := &BuzzResult{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		TeamName:   p.TeamName,
		Timestamp:  at.UnixMilli(),
	}

	r.IsBuzzerLocked = true
	r.BuzzResults = append(r.BuzzResults, result)

	return result
}

// BeginRound awards a point to the first buzzer of the previous round, then
// advances the round counter and unlocks the buzzer. Returns the player that
// scored, if any.
func (r *Room) BeginRound() *Player {
	var scored *Player
	if len(r.BuzzResults) > 0 {
		scored = r.FindPlayer(r.BuzzResults[0].PlayerID)
		if scored != nil {
			scored.Score++
		}
	}

	r.IsGameStarted = true
	r.IsBuzzerLocked = false
	r.CurrentRound++
	r.BuzzResults = r.BuzzResults[:0]
	r.Status = StatusActive

	return scored
}

// ResetBuzzer unlocks the buzzer and discards the current round's results
// without touching the round counter or scores.
func (r *Room) ResetBuzzer() {
	r.IsBuzzerLocked = false
	r.BuzzResults = r.BuzzResults[:0]
}

// Snapshot returns a deep copy safe to marshal outside the session lock.
func (r *Room) Snapshot() *Room {
	cp := *r

	cp.Participants = make([]*Player, len(r.Participants))
	for i, p := range r.Participants {
		player := *p
		cp.Participants[i] = &player
	}

	cp.BuzzResults = make([]*BuzzResult, len(r.BuzzResults))
	for i, b := range r.BuzzResults {
		result := *b
		cp.BuzzResults[i] = &result
	}

	return &cp
}

func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GenerateRoomCode draws RoomCodeLength characters from the unambiguous
// alphabet. Uniqueness against live rooms is the registry's job.
func GenerateRoomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(RoomCodeLength)

	for i := 0; i < RoomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(roomCodeChars[n.Int64()])
	}

	return sb.String(), nil
}
