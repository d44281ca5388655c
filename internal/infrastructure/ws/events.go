package ws

// Client -> server message types.
const (
	CreateRoom  = "createRoom"
	JoinRoom    = "joinRoom"
	StartGame   = "startGame"
	PressBuzzer = "pressBuzzer"
	ResetBuzzer = "resetBuzzer"
	LeaveRoom   = "leaveRoom"
)

// Server -> client event types.
const (
	RoomCreated  = "roomCreated"
	RoomUpdate   = "roomUpdate"
	PlayerJoined = "playerJoined"
	PlayerLeft   = "playerLeft"
	GameStarted  = "gameStarted"
	BuzzerLocked = "buzzerLocked"
	BuzzerReset  = "buzzerReset"
	TimerUpdate  = "timerUpdate"
	TimerExpired = "timerExpired"
	RoomClosed   = "roomClosed"
	ErrorEvent   = "error"
)
