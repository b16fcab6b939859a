// File: game/messages.go
package game

import (
	"github.com/lguibr/duelpong/bollywood"
	"golang.org/x/net/websocket"
)

// --- WebSocket messages (client <-> server) ---

// KeyMessage is the input payload from a client: one key flag change.
type KeyMessage struct {
	Key     string `json:"key"` // "up" or "down"
	Pressed bool   `json:"pressed"`
}

// SeatAssignmentMessage informs a client which seat it controls.
type SeatAssignmentMessage struct {
	MessageType string `json:"messageType"` // "seatAssignment"
	Seat        int    `json:"seat"`
}

// BallView is the ball state published to clients.
type BallView struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Vx              float64 `json:"vx"`
	Vy              float64 `json:"vy"`
	Radius          float64 `json:"radius"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
	Destroyed       bool    `json:"destroyed"`
}

// PaddleView is the paddle state published to clients.
type PaddleView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Seat   int     `json:"seat"`
}

// GameState is the full state broadcast to subscribed clients each tick.
type GameState struct {
	MessageType string         `json:"messageType"` // "gameState"
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	Ball        BallView       `json:"ball"`
	Paddles     [2]PaddleView  `json:"paddles"`
	Scores      [2]int32       `json:"scores"`
	Modes       [2]ControlMode `json:"modes"`
	State       MatchState     `json:"state"`
}

// GameOverMessage signals that a side reached the winning score.
type GameOverMessage struct {
	MessageType string   `json:"messageType"` // "gameOver"
	WinnerSeat  int      `json:"winnerSeat"`
	FinalScores [2]int32 `json:"finalScores"`
}

// --- RoomManagerActor messages ---

// FindRoomRequest asks the RoomManager to find or create a room with a free
// human seat.
type FindRoomRequest struct {
	ReplyTo *bollywood.PID // PID of the requesting ConnectionHandlerActor
	Watcher bool           // Watchers go to the busiest room instead
}

// AssignRoomResponse is the reply with the assigned GameActor PID, nil if no
// room could be assigned.
type AssignRoomResponse struct {
	RoomPID *bollywood.PID
	Watcher bool
}

// RoomOccupancyUpdate reports a room's current human seat count.
type RoomOccupancyUpdate struct {
	RoomPID *bollywood.PID
	Humans  int
}

// GameRoomEmpty notifies the RoomManager that a room lost its last human.
type GameRoomEmpty struct {
	RoomPID *bollywood.PID
}

// GetRoomListRequest asks (via Ask) for the active rooms and their counts.
type GetRoomListRequest struct{}

// RoomListResponse maps room PID strings to human player counts.
type RoomListResponse struct {
	Rooms map[string]int
}

// GetDefaultRoomRequest asks (via Ask) for the standing demo room's PID.
type GetDefaultRoomRequest struct{}

// DefaultRoomResponse carries the standing room PID, nil before it exists.
type DefaultRoomResponse struct {
	RoomPID *bollywood.PID
}

// --- GameActor messages ---

// GameTick signals the GameActor to advance the simulation by one frame.
type GameTick struct{}

// PlayerConnectRequest attaches a WebSocket connection to the room: a seated
// player, or a watcher who only receives frames. Mode picks the wire format
// for seated players; an empty Mode means JSON. Watchers always get ASCII.
type PlayerConnectRequest struct {
	WsConn  *websocket.Conn
	Watcher bool
	Mode    ClientMode
}

// PlayerDisconnect tells the GameActor a connection was lost.
type PlayerDisconnect struct {
	WsConn *websocket.Conn
}

// ForwardedKeyInput carries a parsed key event from the connection handler.
type ForwardedKeyInput struct {
	WsConn  *websocket.Conn
	Key     string
	Pressed bool
}

// ResizeCanvas rescales the room's play field; the simulation state carries
// over proportionally.
type ResizeCanvas struct {
	Width  float64
	Height float64
}

// GetStateRequest asks (via Ask) for the latest marshalled game state.
type GetStateRequest struct{}

// --- BroadcasterActor messages ---

// ClientMode selects a connection's wire format.
type ClientMode string

const (
	ClientJSON  ClientMode = "json"
	ClientASCII ClientMode = "ascii"
)

// AddClient starts sending state to a connection.
type AddClient struct {
	Conn *websocket.Conn
	Mode ClientMode
}

// RemoveClient stops sending state to a connection.
type RemoveClient struct {
	Conn *websocket.Conn
}

// BroadcastStateCommand pushes one state frame to every client.
type BroadcastStateCommand struct {
	State GameState
}

// BroadcastGameOverCommand pushes a game-over notice to every client.
type BroadcastGameOverCommand struct {
	Message GameOverMessage
}
