package rooms

import "github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"

// listRoomsResponse represents the listing of live rooms
type listRoomsResponse struct {
	Rooms []game.RoomSummary `json:"rooms"`
	Count int                `json:"count"`
}
