// File: server/connection_handler.go
package server

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/game"
	"golang.org/x/net/websocket"
)

// errActorStopping signals cleanup caused by actor shutdown rather than a
// connection failure.
var errActorStopping = errors.New("connection handler actor stopping")

// readLoopDone is the internal notification that the read loop exited.
type readLoopDone struct {
	err error
}

// ConnectionHandlerActor manages a single WebSocket connection: it asks the
// room manager for a room, attaches the connection to that room's GameActor,
// and forwards the client's key events until the connection dies.
type ConnectionHandlerActor struct {
	conn           *websocket.Conn
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
	gameActorPID   *bollywood.PID
	selfPID        *bollywood.PID
	connAddr       string
	watcher        bool
	mode           game.ClientMode
	done           chan struct{} // Closed when the handler is finished
	closeOnce      sync.Once
}

// ConnectionHandlerArgs holds arguments for creating the actor.
type ConnectionHandlerArgs struct {
	Conn           *websocket.Conn
	Engine         *bollywood.Engine
	RoomManagerPID *bollywood.PID
	Watcher        bool
	Mode           game.ClientMode
	Done           chan struct{}
}

// NewConnectionHandlerProducer creates a producer for ConnectionHandlerActor.
func NewConnectionHandlerProducer(args ConnectionHandlerArgs) bollywood.Producer {
	return func() bollywood.Actor {
		addr := "unknown"
		if args.Conn != nil {
			addr = args.Conn.RemoteAddr().String()
		}
		return &ConnectionHandlerActor{
			conn:           args.Conn,
			engine:         args.Engine,
			roomManagerPID: args.RoomManagerPID,
			connAddr:       addr,
			watcher:        args.Watcher,
			mode:           args.Mode,
			done:           args.Done,
		}
	}
}

// Receive handles messages for the ConnectionHandlerActor.
func (a *ConnectionHandlerActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in ConnectionHandlerActor %s Receive: %v\nStack trace:\n%s\n", a.connAddr, r, string(debug.Stack()))
			a.cleanup(fmt.Errorf("panic in Receive: %v", r))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		if a.roomManagerPID == nil {
			fmt.Printf("ConnectionHandlerActor %s: no room manager, closing.\n", a.connAddr)
			a.cleanup(errors.New("missing room manager PID"))
			return
		}
		a.engine.Send(a.roomManagerPID, game.FindRoomRequest{ReplyTo: a.selfPID, Watcher: a.watcher}, a.selfPID)

	case game.AssignRoomResponse:
		if msg.RoomPID == nil {
			fmt.Printf("ConnectionHandlerActor %s: no room available, closing.\n", a.connAddr)
			a.cleanup(errors.New("room assignment failed"))
			return
		}
		a.gameActorPID = msg.RoomPID
		a.engine.Send(a.gameActorPID, game.PlayerConnectRequest{WsConn: a.conn, Watcher: a.watcher, Mode: a.mode}, a.selfPID)
		go a.readLoop()

	case game.KeyMessage:
		if a.gameActorPID != nil {
			a.engine.Send(a.gameActorPID, game.ForwardedKeyInput{
				WsConn:  a.conn,
				Key:     msg.Key,
				Pressed: msg.Pressed,
			}, a.selfPID)
		}

	case readLoopDone:
		a.cleanup(msg.err)

	case bollywood.Stopping:
		a.performCleanup(errActorStopping)

	case bollywood.Stopped:
		a.closeOnce.Do(func() {
			if a.done != nil {
				close(a.done)
			}
		})

	default:
		fmt.Printf("ConnectionHandlerActor %s: unknown message type: %T\n", a.connAddr, msg)
	}
}

// readLoop reads key messages from the connection and feeds them back into
// the actor's mailbox. It exits on any read error.
func (a *ConnectionHandlerActor) readLoop() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in ConnectionHandlerActor %s readLoop: %v\nStack trace:\n%s\n", a.connAddr, r, string(debug.Stack()))
		}
	}()

	for {
		var key game.KeyMessage
		err := websocket.JSON.Receive(a.conn, &key)
		if err != nil {
			closed := err == io.EOF ||
				strings.Contains(err.Error(), "use of closed network connection") ||
				strings.Contains(err.Error(), "closed")
			if !closed {
				fmt.Printf("ConnectionHandlerActor %s: read error: %v\n", a.connAddr, err)
			}
			a.engine.Send(a.selfPID, readLoopDone{err: err}, nil)
			return
		}
		a.engine.Send(a.selfPID, key, nil)
	}
}

// cleanup tears the handler down from within the message loop.
func (a *ConnectionHandlerActor) cleanup(reason error) {
	a.performCleanup(reason)
	if a.selfPID != nil {
		a.engine.Stop(a.selfPID)
	}
}

// performCleanup detaches from the game room and closes the connection.
func (a *ConnectionHandlerActor) performCleanup(reason error) {
	if a.gameActorPID != nil {
		a.engine.Send(a.gameActorPID, game.PlayerDisconnect{WsConn: a.conn}, a.selfPID)
		a.gameActorPID = nil
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if reason != nil && !errors.Is(reason, errActorStopping) && reason != io.EOF {
		fmt.Printf("ConnectionHandlerActor %s: closed (%v)\n", a.connAddr, reason)
	}
}
