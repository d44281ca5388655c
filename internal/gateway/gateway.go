// Package gateway bridges websocket connections to the game engine. It owns
// the upgrade endpoint, decodes inbound frames, validates their payloads and
// dispatches them to the room sessions.
package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/logging"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/metrics"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

type Gateway struct {
	registry *game.Registry
	hub      *ws.Hub
	logger   logging.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

func New(registry *game.Registry, hub *ws.Hub, logger logging.Logger, m *metrics.Metrics) *Gateway {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if m == nil {
		m = metrics.New()
	}

	return &Gateway{
		registry: registry,
		hub:      hub,
		logger:   logger,
		metrics:  m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser clients are served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the request and runs the connection's pumps. The write
// pump gets its own goroutine; the read pump takes over this one.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn(logging.WebSocket, logging.Connection, "upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, uuid.NewString())
	g.hub.Register(client)
	g.metrics.LiveConnections.Inc()

	g.logger.Info(logging.WebSocket, logging.Connection, "client connected", map[logging.ExtraKey]any{
		logging.ConnectionID: client.ID,
	})

	go client.WritePump()
	client.ReadPump(g)
}

// HandleMessage dispatches one decoded frame. It runs on the client's read
// goroutine, so per-connection handling is naturally sequential.
func (g *Gateway) HandleMessage(c *ws.Client, env *ws.Envelope) {
	switch env.Type {
	case ws.CreateRoom:
		g.handleCreateRoom(c, env.Data)
	case ws.JoinRoom:
		g.handleJoinRoom(c, env.Data)
	case ws.StartGame:
		g.handleStartGame(c)
	case ws.PressBuzzer:
		g.handlePressBuzzer(c)
	case ws.ResetBuzzer:
		g.handleResetBuzzer(c)
	case ws.LeaveRoom:
		g.handleLeaveRoom(c)
	default:
		c.Send(ws.NewError("unknown message type"))
	}
}

// HandleDisconnect treats a dropped transport like an explicit leave.
func (g *Gateway) HandleDisconnect(c *ws.Client) {
	g.handleLeaveRoom(c)
	g.hub.Unregister(c)
	g.metrics.LiveConnections.Dec()

	g.logger.Info(logging.WebSocket, logging.Connection, "client disconnected", map[logging.ExtraKey]any{
		logging.ConnectionID: c.ID,
	})
}

func (g *Gateway) handleCreateRoom(c *ws.Client, data json.RawMessage) {
	if g.inLiveRoom(c) {
		c.Send(ws.NewError("already in a room"))
		return
	}

	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.Send(ws.NewError("malformed createRoom payload"))
		return
	}
	if err := req.Validate(); err != nil {
		g.logger.Warn(logging.Validation, logging.Dispatch, "createRoom rejected", map[logging.ExtraKey]any{
			logging.ConnectionID: c.ID,
			logging.ErrorMessage: err.Error(),
		})
		c.Send(ws.NewError(err.Error()))
		return
	}

	sess, err := g.registry.CreateRoom(domain.RoomConfig{
		HostName:        req.PlayerName,
		MaxParticipants: req.MaxParticipants,
		TimerEnabled:    req.TimerEnabled,
		TimerDuration:   req.TimerDuration,
	})
	if err != nil {
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	_, snapshot, err := sess.Join(c.ID, req.PlayerName, req.TeamName, domain.RoleHost)
	if err != nil {
		g.registry.Delete(sess.Code())
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	// Subscribe after joining; the originator gets the snapshot through the
	// ack, not through the membership broadcasts.
	g.hub.Join(c, sess.Code())

	c.Room = sess.Code()
	c.Send(ws.NewRoomCreated(snapshot))
}

func (g *Gateway) handleJoinRoom(c *ws.Client, data json.RawMessage) {
	if g.inLiveRoom(c) {
		c.Send(ws.NewError("already in a room"))
		return
	}

	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.Send(ws.NewError("malformed joinRoom payload"))
		return
	}
	if err := req.Validate(); err != nil {
		g.logger.Warn(logging.Validation, logging.Dispatch, "joinRoom rejected", map[logging.ExtraKey]any{
			logging.ConnectionID: c.ID,
			logging.ErrorMessage: err.Error(),
		})
		c.Send(ws.NewError(err.Error()))
		return
	}

	sess, err := g.registry.Get(req.RoomCode)
	if err != nil {
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	_, snapshot, err := sess.Join(c.ID, req.PlayerName, req.TeamName, domain.RoleParticipant)
	if err != nil {
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	// Subscribe after joining; the originator gets the snapshot through the
	// ack, not through the membership broadcasts.
	g.hub.Join(c, sess.Code())

	c.Room = sess.Code()
	c.Send(ws.NewRoomUpdate(snapshot))
}

func (g *Gateway) handleStartGame(c *ws.Client) {
	sess, err := g.sessionFor(c)
	if err != nil {
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	if err := sess.StartGame(c.ID); err != nil {
		c.Send(ws.NewError(clientMessage(err)))
	}
}

func (g *Gateway) handlePressBuzzer(c *ws.Client) {
	sess, err := g.sessionFor(c)
	if err != nil {
		// A press that races the room closing is not an error worth
		// reporting; losing silently is the contract.
		return
	}

	sess.PressBuzzer(c.ID)
}

func (g *Gateway) handleResetBuzzer(c *ws.Client) {
	sess, err := g.sessionFor(c)
	if err != nil {
		c.Send(ws.NewError(clientMessage(err)))
		return
	}

	if err := sess.ResetBuzzer(c.ID); err != nil {
		c.Send(ws.NewError(clientMessage(err)))
	}
}

func (g *Gateway) handleLeaveRoom(c *ws.Client) {
	if c.Room == "" {
		return
	}

	code := c.Room
	c.Room = ""

	sess, err := g.registry.Get(code)
	if err == nil {
		if closed := sess.Leave(c.ID); closed {
			g.registry.Delete(code)
		}
	}

	g.hub.Leave(c, code)
}

// inLiveRoom reports whether the client is a member of a room that still
// exists. A code left behind by a closed room is cleared so the connection
// can create or join again, even when a fresh room has reused the code.
func (g *Gateway) inLiveRoom(c *ws.Client) bool {
	if c.Room == "" {
		return false
	}

	sess, err := g.registry.Get(c.Room)
	if err != nil || !sess.HasConnection(c.ID) {
		g.hub.Leave(c, c.Room)
		c.Room = ""
		return false
	}
	return true
}

func (g *Gateway) sessionFor(c *ws.Client) (*game.Session, error) {
	if c.Room == "" {
		return nil, domain.ErrRoomNotFound
	}
	return g.registry.Get(c.Room)
}

// clientMessage maps engine errors onto the strings clients see.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, domain.ErrRoomFull):
		return "room is full"
	case errors.Is(err, domain.ErrRoomClosed):
		return "room is closed"
	case errors.Is(err, domain.ErrNotHost):
		return "only the host can do that"
	case errors.Is(err, domain.ErrGameAlreadyStarted):
		return "game already started"
	case errors.Is(err, domain.ErrCodeGenerationExhausted):
		return "could not allocate a room code, try again"
	default:
		return "internal error"
	}
}
