package gateway

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/domain"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/game"
	"github.com/mohitmore375-rgb/buzzer-app-backand/internal/infrastructure/ws"
)

// frame mirrors the outbound envelope as a client decodes it.
type frame struct {
	Type string          `json:"type"`
	Room string          `json:"room"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*game.Registry, *ws.Hub, *httptest.Server) {
	t.Helper()

	hub := ws.NewHub()
	reg := game.NewRegistry(game.Options{
		Broadcaster:  hub,
		ReapInterval: time.Hour,
	})
	t.Cleanup(reg.Close)

	gw := New(reg, hub, nil, nil)
	srv := httptest.NewServer(http.HandlerFunc(gw.ServeWS))
	t.Cleanup(srv.Close)

	return reg, hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": msgType,
		"data": payload,
	}))
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

// expectSilence fails when anything arrives within the window. The read
// deadline poisons the connection, so this must be the last read on it.
func expectSilence(t *testing.T, conn *websocket.Conn, window time.Duration) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(window)))
	_, raw, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("expected no delivery, got %s", raw)
	}

	var nerr net.Error
	require.ErrorAs(t, err, &nerr)
	require.True(t, nerr.Timeout(), "read failed for a reason other than the deadline: %v", err)
}

func createTestRoom(t *testing.T, conn *websocket.Conn, hostName string) string {
	t.Helper()

	send(t, conn, ws.CreateRoom, CreateRoomRequest{PlayerName: hostName})
	ack := readFrame(t, conn)
	require.Equal(t, ws.RoomCreated, ack.Type)
	require.NotEmpty(t, ack.Room)

	return ack.Room
}

func TestHostLeaveTearsDownRoom(t *testing.T) {
	reg, hub, srv := newTestServer(t)

	host := dial(t, srv)
	code := createTestRoom(t, host, "Quizmaster")

	participant := dial(t, srv)
	send(t, participant, ws.JoinRoom, JoinRoomRequest{RoomCode: code, PlayerName: "Alice"})
	ack := readFrame(t, participant)
	require.Equal(t, ws.RoomUpdate, ack.Type)

	send(t, host, ws.LeaveRoom, nil)

	closedFrame := readFrame(t, participant)
	assert.Equal(t, ws.RoomClosed, closedFrame.Type)
	assert.Equal(t, code, closedFrame.Room)

	_, err := reg.Get(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	// The freed code must not carry the old subscribers along: the survivor
	// can open a fresh room, and events for the dead code reach nobody.
	newCode := createTestRoom(t, participant, "Alice")
	assert.NotEmpty(t, newCode)

	hub.Broadcast(&ws.Message{Type: ws.GameStarted, Room: code})
	expectSilence(t, participant, 200*time.Millisecond)
}

func TestJoinDeliversSingleSnapshot(t *testing.T) {
	_, _, srv := newTestServer(t)

	host := dial(t, srv)
	code := createTestRoom(t, host, "Quizmaster")

	participant := dial(t, srv)
	send(t, participant, ws.JoinRoom, JoinRoomRequest{RoomCode: code, PlayerName: "Alice"})

	ack := readFrame(t, participant)
	require.Equal(t, ws.RoomUpdate, ack.Type)

	// The membership broadcasts go to the others; the joiner gets exactly
	// the one acknowledged snapshot.
	expectSilence(t, participant, 200*time.Millisecond)
}

func TestCreateDeliversSingleAck(t *testing.T) {
	_, _, srv := newTestServer(t)

	host := dial(t, srv)
	createTestRoom(t, host, "Quizmaster")

	expectSilence(t, host, 200*time.Millisecond)
}
