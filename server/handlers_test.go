// File: server/handlers_test.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/game"
	"github.com/lguibr/duelpong/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func setupTestServer(t *testing.T) (*httptest.Server, *bollywood.Engine) {
	t.Helper()
	engine := bollywood.NewEngine()

	roomManagerPID := engine.Spawn(bollywood.NewProps(game.NewRoomManagerProducer(engine, utils.DefaultConfig())))
	require.NotNil(t, roomManagerPID)

	srv := New(engine, roomManagerPID)
	mux := http.NewServeMux()
	mux.Handle("/subscribe", websocket.Handler(srv.HandleSubscribe()))
	mux.Handle("/watch", websocket.Handler(srv.HandleWatch()))
	mux.HandleFunc("/rooms", srv.HandleRooms())
	mux.HandleFunc("/", srv.HandleGetState())

	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		engine.Shutdown(2 * time.Second)
	})
	return ts, engine
}

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err, "websocket dial failed")
	return conn
}

// receiveTyped reads JSON messages until one carries the wanted messageType.
func receiveTyped(t *testing.T, conn *websocket.Conn, messageType string, timeout time.Duration) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))
	for {
		var raw map[string]interface{}
		err := websocket.JSON.Receive(conn, &raw)
		require.NoError(t, err, "websocket receive failed")
		if raw["messageType"] == messageType {
			return raw
		}
	}
}

func TestSubscribe_SeatAssignmentAndState(t *testing.T) {
	ts, _ := setupTestServer(t)

	conn := dialWS(t, ts, "/subscribe")
	defer conn.Close()

	assignment := receiveTyped(t, conn, "seatAssignment", 3*time.Second)
	seat, ok := assignment["seat"].(float64)
	require.True(t, ok, "seat field missing")
	assert.Contains(t, []float64{0, 1}, seat)

	state := receiveTyped(t, conn, "gameState", 3*time.Second)
	assert.EqualValues(t, 800, state["width"])
	assert.EqualValues(t, 600, state["height"])
}

func TestSubscribe_KeyInputAccepted(t *testing.T) {
	ts, _ := setupTestServer(t)

	conn := dialWS(t, ts, "/subscribe")
	defer conn.Close()

	receiveTyped(t, conn, "seatAssignment", 3*time.Second)

	// A held key must not kill the connection; frames keep flowing.
	require.NoError(t, websocket.JSON.Send(conn, game.KeyMessage{Key: "down", Pressed: true}))
	receiveTyped(t, conn, "gameState", 3*time.Second)
	require.NoError(t, websocket.JSON.Send(conn, game.KeyMessage{Key: "down", Pressed: false}))
	receiveTyped(t, conn, "gameState", 3*time.Second)
}

func TestTwoPlayers_GetDistinctSeats(t *testing.T) {
	ts, _ := setupTestServer(t)

	first := dialWS(t, ts, "/subscribe")
	defer first.Close()
	firstSeat := receiveTyped(t, first, "seatAssignment", 3*time.Second)["seat"]

	second := dialWS(t, ts, "/subscribe")
	defer second.Close()
	secondSeat := receiveTyped(t, second, "seatAssignment", 3*time.Second)["seat"]

	assert.NotEqual(t, firstSeat, secondSeat)
}

func TestSubscribe_ASCIIModeSeatsAndStreamsFrames(t *testing.T) {
	ts, _ := setupTestServer(t)

	conn := dialWS(t, ts, "/subscribe?mode=ascii")
	defer conn.Close()

	// The first payload must already be a frame: terminal players never
	// receive the JSON seat assignment.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	buffer := make([]byte, 256*1024)
	n, err := conn.Read(buffer)
	require.NoError(t, err)
	frame := string(buffer[:n])
	assert.Contains(t, frame, "\033[", "expected ANSI escapes for an ascii subscriber")
	assert.NotContains(t, frame, "seatAssignment")

	// The connection holds a real seat, so its side plays as a human.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		var state game.GameState
		if resp.StatusCode == http.StatusOK && json.Unmarshal(body, &state) == nil {
			if state.Modes[0] == game.ModeHuman || state.Modes[1] == game.ModeHuman {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("Expected the ascii subscriber to occupy a seat")
}

func TestWatch_ReceivesASCIIFrames(t *testing.T) {
	ts, _ := setupTestServer(t)

	conn := dialWS(t, ts, "/watch")
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	buffer := make([]byte, 256*1024)
	n, err := conn.Read(buffer)
	require.NoError(t, err)
	frame := string(buffer[:n])
	assert.Contains(t, frame, "\033[", "expected ANSI escapes in the watch frame")
}

func TestHandleRooms(t *testing.T) {
	ts, _ := setupTestServer(t)

	var list game.RoomListResponse
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/rooms")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		if resp.StatusCode == http.StatusOK && json.Unmarshal(body, &list) == nil && len(list.Rooms) > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("Expected the room list to include the standing demo room")
}

func TestHandleGetState(t *testing.T) {
	ts, _ := setupTestServer(t)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		if resp.StatusCode == http.StatusOK {
			var state game.GameState
			require.NoError(t, json.Unmarshal(body, &state))
			assert.Equal(t, "gameState", state.MessageType)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("Expected the default room state over HTTP")
}
