// File: game/broadcaster_actor.go
package game

import (
	"fmt"
	"runtime/debug"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/render"
	"golang.org/x/net/websocket"
)

// asciiResolution is the character grid used for /watch frames.
const asciiResolution = 48

// BroadcasterActor fans game state out to a room's connections: JSON for
// subscribed players, colored ASCII frames for terminal watchers.
type BroadcasterActor struct {
	clients      map[*websocket.Conn]ClientMode
	selfPID      *bollywood.PID
	gameActorPID *bollywood.PID // Notified when a send reveals a dead connection
}

// NewBroadcasterProducer creates a producer for BroadcasterActor.
func NewBroadcasterProducer(gameActorPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &BroadcasterActor{
			clients:      make(map[*websocket.Conn]ClientMode),
			gameActorPID: gameActorPID,
		}
	}
}

// Receive handles messages for the BroadcasterActor.
func (a *BroadcasterActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in BroadcasterActor %s Receive: %v\nStack trace:\n%s\n", a.selfPID, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case AddClient:
		if msg.Conn != nil {
			a.clients[msg.Conn] = msg.Mode
		}

	case RemoveClient:
		delete(a.clients, msg.Conn)

	case BroadcastStateCommand:
		a.broadcast(ctx, msg.State)

	case BroadcastGameOverCommand:
		for conn, mode := range a.clients {
			var err error
			if mode == ClientASCII {
				_, err = conn.Write([]byte(fmt.Sprintf("\r\nGAME OVER: seat %d wins %d-%d\r\n",
					msg.Message.WinnerSeat, msg.Message.FinalScores[0], msg.Message.FinalScores[1])))
			} else {
				err = websocket.JSON.Send(conn, msg.Message)
			}
			if err != nil {
				a.dropClient(ctx, conn)
			}
		}

	case bollywood.Stopping:
		for conn := range a.clients {
			_ = conn.Close()
		}
		a.clients = make(map[*websocket.Conn]ClientMode)

	case bollywood.Stopped:

	default:
		fmt.Printf("BroadcasterActor %s: unknown message type: %T\n", a.selfPID, msg)
	}
}

// broadcast sends one state frame to every client in its preferred format.
// The ASCII frame is rendered at most once per broadcast.
func (a *BroadcasterActor) broadcast(ctx bollywood.Context, state GameState) {
	var asciiFrame []byte

	for conn, mode := range a.clients {
		var err error
		if mode == ClientASCII {
			if asciiFrame == nil {
				grid := render.DrawScene(sceneFromState(state))
				// Home the cursor so consecutive frames overdraw in place.
				asciiFrame = []byte("\033[H" + render.RenderToASCII(grid, asciiResolution))
			}
			_, err = conn.Write(asciiFrame)
		} else {
			err = websocket.JSON.Send(conn, state)
		}
		if err != nil {
			a.dropClient(ctx, conn)
		}
	}
}

// dropClient forgets a dead connection and lets the GameActor release any
// seat it held.
func (a *BroadcasterActor) dropClient(ctx bollywood.Context, conn *websocket.Conn) {
	delete(a.clients, conn)
	_ = conn.Close()
	if a.gameActorPID != nil {
		ctx.Engine().Send(a.gameActorPID, PlayerDisconnect{WsConn: conn}, a.selfPID)
	}
}

// sceneFromState converts the broadcast view into render geometry.
func sceneFromState(state GameState) render.Scene {
	scene := render.Scene{
		Width:  int(state.Width),
		Height: int(state.Height),
		Ball: render.Circle{
			X:      int(state.Ball.X),
			Y:      int(state.Ball.Y),
			Radius: int(state.Ball.Radius),
		},
		BallVisible: !state.Ball.Destroyed,
	}
	for i, paddle := range state.Paddles {
		scene.Paddles[i] = render.Rect{
			X:      int(paddle.X),
			Y:      int(paddle.Y),
			Width:  int(paddle.Width),
			Height: int(paddle.Height),
		}
	}
	return scene
}
