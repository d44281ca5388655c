package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRoomRequest
		wantErr bool
	}{
		{
			name: "valid minimal",
			req:  CreateRoomRequest{PlayerName: "Quizmaster"},
		},
		{
			name: "valid full",
			req: CreateRoomRequest{
				PlayerName:      "Quiz Master 1",
				TeamName:        "Red Team",
				MaxParticipants: 200,
				TimerEnabled:    true,
				TimerDuration:   300,
			},
		},
		{
			name:    "name too short",
			req:     CreateRoomRequest{PlayerName: "ab"},
			wantErr: true,
		},
		{
			name:    "name too long",
			req:     CreateRoomRequest{PlayerName: strings.Repeat("a", 21)},
			wantErr: true,
		},
		{
			name:    "name with symbols",
			req:     CreateRoomRequest{PlayerName: "Quiz<script>"},
			wantErr: true,
		},
		{
			name:    "name only whitespace",
			req:     CreateRoomRequest{PlayerName: "   "},
			wantErr: true,
		},
		{
			name:    "team name too long",
			req:     CreateRoomRequest{PlayerName: "Quizmaster", TeamName: strings.Repeat("b", 21)},
			wantErr: true,
		},
		{
			name:    "too many participants",
			req:     CreateRoomRequest{PlayerName: "Quizmaster", MaxParticipants: 201},
			wantErr: true,
		},
		{
			name:    "negative participants",
			req:     CreateRoomRequest{PlayerName: "Quizmaster", MaxParticipants: -1},
			wantErr: true,
		},
		{
			name:    "timer too short",
			req:     CreateRoomRequest{PlayerName: "Quizmaster", TimerEnabled: true, TimerDuration: 4},
			wantErr: true,
		},
		{
			name:    "timer too long",
			req:     CreateRoomRequest{PlayerName: "Quizmaster", TimerEnabled: true, TimerDuration: 301},
			wantErr: true,
		},
		{
			name: "timer enabled with default duration",
			req:  CreateRoomRequest{PlayerName: "Quizmaster", TimerEnabled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRoomRequestTrimsNames(t *testing.T) {
	req := CreateRoomRequest{PlayerName: "  Quizmaster  ", TeamName: " Red "}
	require.NoError(t, req.Validate())

	assert.Equal(t, "Quizmaster", req.PlayerName)
	assert.Equal(t, "Red", req.TeamName)
}

func TestJoinRoomRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     JoinRoomRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  JoinRoomRequest{RoomCode: "ABC234", PlayerName: "Alice"},
		},
		{
			name: "lowercase code normalized",
			req:  JoinRoomRequest{RoomCode: "abc234", PlayerName: "Alice"},
		},
		{
			name:    "code too short",
			req:     JoinRoomRequest{RoomCode: "ABC", PlayerName: "Alice"},
			wantErr: true,
		},
		{
			name:    "code with punctuation",
			req:     JoinRoomRequest{RoomCode: "ABC-23", PlayerName: "Alice"},
			wantErr: true,
		},
		{
			name:    "missing code",
			req:     JoinRoomRequest{PlayerName: "Alice"},
			wantErr: true,
		},
		{
			name:    "missing name",
			req:     JoinRoomRequest{RoomCode: "ABC234"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJoinRoomRequestNormalizesCode(t *testing.T) {
	req := JoinRoomRequest{RoomCode: " abc234 ", PlayerName: "Alice"}
	require.NoError(t, req.Validate())

	assert.Equal(t, "ABC234", req.RoomCode)
}
