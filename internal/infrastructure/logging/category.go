package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	Game            Category = "Game"
	WebSocket       Category = "WebSocket"
	Mongo           Category = "Mongo"
	RabbitMQ        Category = "RabbitMQ"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
)

const (
	// General
	Startup      SubCategory = "Startup"
	Shutdown     SubCategory = "Shutdown"
	RateLimiting SubCategory = "RateLimiting"

	// Game
	Registry    SubCategory = "Registry"
	Session     SubCategory = "Session"
	Timer       SubCategory = "Timer"
	Reaper      SubCategory = "Reaper"
	Persistence SubCategory = "Persistence"

	// WebSocket
	Broadcast  SubCategory = "Broadcast"
	Connection SubCategory = "Connection"
	Dispatch   SubCategory = "Dispatch"

	ExternalService SubCategory = "ExternalService"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	RoomCode     ExtraKey = "RoomCode"
	PlayerName   ExtraKey = "PlayerName"
	ConnectionID ExtraKey = "ConnectionId"
	Round        ExtraKey = "Round"
	ClientIp     ExtraKey = "ClientIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
	Reason       ExtraKey = "Reason"
)
