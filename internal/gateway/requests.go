package gateway

import (
	"strings"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/validate"
)

const (
	minNameLength = 3
	maxNameLength = 20
	maxTeamLength = 20

	minParticipants = 1
	maxParticipants = 200

	minTimerSeconds = 5
	maxTimerSeconds = 300
)

var (
	validatePlayerName = validate.Field("playerName",
		validate.Required(),
		validate.LengthBetween(minNameLength, maxNameLength),
		validate.Matches(`^[a-zA-Z0-9 ]+$`, "must contain only letters, numbers and spaces"),
	)

	validateTeamName = validate.Field("teamName",
		validate.Optional(
			validate.MaxLength(maxTeamLength),
			validate.Matches(`^[a-zA-Z0-9 ]+$`, "must contain only letters, numbers and spaces"),
		),
	)

	validateRoomCode = validate.Field("roomCode",
		validate.Required(),
		validate.Length(domain.RoomCodeLength),
		validate.Matches(`^[A-Z0-9]+$`, "must contain only uppercase letters and digits"),
	)
)

// CreateRoomRequest is the createRoom payload. The sender becomes the host.
type CreateRoomRequest struct {
	PlayerName      string `json:"playerName"`
	TeamName        string `json:"teamName"`
	MaxParticipants int    `json:"maxParticipants"`
	TimerEnabled    bool   `json:"timerEnabled"`
	TimerDuration   int    `json:"timerDuration"`
}

func (r *CreateRoomRequest) Validate() error {
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	r.TeamName = strings.TrimSpace(r.TeamName)

	if err := validatePlayerName(r.PlayerName); err != nil {
		return err
	}
	if err := validateTeamName(r.TeamName); err != nil {
		return err
	}

	if r.MaxParticipants != 0 {
		if err := validate.IntBetween("maxParticipants", r.MaxParticipants, minParticipants, maxParticipants); err != nil {
			return err
		}
	}
	if r.TimerDuration != 0 {
		if err := validate.IntBetween("timerDuration", r.TimerDuration, minTimerSeconds, maxTimerSeconds); err != nil {
			return err
		}
	}

	return nil
}

// JoinRoomRequest is the joinRoom payload. Lowercase codes are accepted and
// normalized.
type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	TeamName   string `json:"teamName"`
}

func (r *JoinRoomRequest) Validate() error {
	r.RoomCode = domain.NormalizeRoomCode(r.RoomCode)
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	r.TeamName = strings.TrimSpace(r.TeamName)

	if err := validateRoomCode(r.RoomCode); err != nil {
		return err
	}
	if err := validatePlayerName(r.PlayerName); err != nil {
		return err
	}
	return validateTeamName(r.TeamName)
}
