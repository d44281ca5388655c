package stats

// statsResponse represents aggregate service statistics
type statsResponse struct {
	ActiveRooms     int    `json:"activeRooms"`     // Rooms currently live
	LiveConnections int    `json:"liveConnections"` // Open websocket connections
	TotalRooms      int64  `json:"totalRooms"`      // Rooms ever created
	TotalPlayers    int64  `json:"totalPlayers"`    // Players ever joined
	TotalBuzzes     int64  `json:"totalBuzzes"`     // Winning buzzes ever recorded
	Uptime          string `json:"uptime"`          // Server uptime since start
}
