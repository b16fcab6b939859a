// File: game/game_actor.go
package game

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/lguibr/duelpong/bollywood"
	"github.com/lguibr/duelpong/utils"
	"golang.org/x/net/websocket"
)

// GameActor owns one Match and drives it from a ticker with measured
// wall-clock frame deltas. It applies goal events to scores, maps websocket
// connections to seats and hands state frames to its BroadcasterActor.
type GameActor struct {
	cfg            utils.Config
	match          *Match
	engine         *bollywood.Engine
	roomManagerPID *bollywood.PID
	broadcasterPID *bollywood.PID
	selfPID        *bollywood.PID
	ticker         *time.Ticker
	stopTickerCh   chan struct{}
	lastTick       time.Time
	stateJSON      atomic.Value // Latest marshalled GameState for HTTP/Ask

	seats      [2]*websocket.Conn
	connToSeat map[*websocket.Conn]int
}

// NewGameActorProducer creates a producer for the GameActor. The config is
// checked eagerly; the room manager PID may be nil for standalone rooms.
func NewGameActorProducer(engine *bollywood.Engine, cfg utils.Config, roomManagerPID *bollywood.PID) (bollywood.Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return func() bollywood.Actor {
		match, err := NewMatch(cfg)
		if err != nil {
			// Config was validated above; a failure here is a programming error.
			panic(fmt.Sprintf("game actor: %v", err))
		}
		ga := &GameActor{
			cfg:            cfg,
			match:          match,
			engine:         engine,
			roomManagerPID: roomManagerPID,
			stopTickerCh:   make(chan struct{}),
			connToSeat:     make(map[*websocket.Conn]int),
		}
		ga.updateStateJSON()
		return ga
	}, nil
}

// Receive is the main message handler for the GameActor.
func (a *GameActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameActor %s Receive: %v\nStack trace:\n%s\n", a.selfPID, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		fmt.Printf("GameActor %s: started.\n", a.selfPID)
		a.broadcasterPID = a.engine.Spawn(bollywood.NewProps(NewBroadcasterProducer(a.selfPID)))
		a.lastTick = time.Now()
		a.ticker = time.NewTicker(a.cfg.GameTickPeriod)
		go a.runTickerLoop()

	case *GameTick:
		a.handleTick()

	case PlayerConnectRequest:
		a.handleConnect(msg.WsConn, msg.Watcher, msg.Mode)

	case PlayerDisconnect:
		a.handleDisconnect(msg.WsConn)

	case ForwardedKeyInput:
		a.handleKeyInput(msg)

	case ResizeCanvas:
		if err := a.match.Resize(msg.Width, msg.Height); err != nil {
			fmt.Printf("GameActor %s: resize rejected: %v\n", a.selfPID, err)
		} else {
			a.updateStateJSON()
		}

	case GetStateRequest:
		ctx.Reply(a.StateJSON())

	case bollywood.Stopping:
		fmt.Printf("GameActor %s: stopping.\n", a.selfPID)
		if a.ticker != nil {
			a.ticker.Stop()
			select {
			case <-a.stopTickerCh:
			default:
				close(a.stopTickerCh)
			}
		}
		a.match.Stop()
		if a.broadcasterPID != nil {
			a.engine.Stop(a.broadcasterPID)
		}
		for conn := range a.connToSeat {
			_ = conn.Close()
		}

	case bollywood.Stopped:
		fmt.Printf("GameActor %s: stopped.\n", a.selfPID)

	default:
		fmt.Printf("GameActor %s: unknown message type: %T\n", a.selfPID, msg)
	}
}

// handleTick advances the match by the measured frame delta and reacts to
// the events the simulation emitted.
func (a *GameActor) handleTick() {
	now := time.Now()
	frameDelta := now.Sub(a.lastTick).Seconds()
	a.lastTick = now

	events := a.match.Advance(frameDelta)
	for _, event := range events {
		if goal, ok := event.(GoalEvent); ok {
			a.applyGoal(goal)
		}
	}

	state := a.buildState()
	a.storeStateJSON(state)
	if a.broadcasterPID != nil {
		a.engine.Send(a.broadcasterPID, BroadcastStateCommand{State: state}, a.selfPID)
	}
}

// applyGoal awards the point and, when a side reaches the winning score,
// announces game over and starts a fresh match on the same table.
func (a *GameActor) applyGoal(goal GoalEvent) {
	scorer := a.match.Players[goal.ScorerSeat]
	scorer.Score++
	fmt.Printf("GameActor %s: goal against seat %d, score %d-%d\n",
		a.selfPID, goal.ConcederSeat, a.match.Players[SeatLeft].Score, a.match.Players[SeatRight].Score)

	if a.cfg.WinningScore > 0 && scorer.Score >= a.cfg.WinningScore {
		over := GameOverMessage{
			MessageType: "gameOver",
			WinnerSeat:  scorer.Seat,
			FinalScores: [2]int32{a.match.Players[SeatLeft].Score, a.match.Players[SeatRight].Score},
		}
		if a.broadcasterPID != nil {
			a.engine.Send(a.broadcasterPID, BroadcastGameOverCommand{Message: over}, a.selfPID)
		}
		for _, player := range a.match.Players {
			player.Score = 0
		}
	}
}

// handleConnect seats a new human connection, or registers a watcher.
// The first human takes the left seat and the right seat turns AI; the
// second human takes the right seat. A full room receives frames only.
func (a *GameActor) handleConnect(conn *websocket.Conn, watcher bool, mode ClientMode) {
	if conn == nil {
		return
	}
	if mode != ClientASCII {
		mode = ClientJSON
	}

	if !watcher {
		seat := a.freeSeat()
		if seat >= 0 {
			a.seats[seat] = conn
			a.connToSeat[conn] = seat
			_ = a.match.SetMode(seat, ModeHuman)
			a.rebalanceModes()
			a.notifyOccupancy()

			// Terminal players only understand frames, so the JSON seat
			// assignment is skipped for them.
			if mode == ClientJSON {
				assignment := SeatAssignmentMessage{MessageType: "seatAssignment", Seat: seat}
				if err := websocket.JSON.Send(conn, assignment); err != nil {
					fmt.Printf("GameActor %s: failed to send seat assignment: %v\n", a.selfPID, err)
				}
			}
			if a.broadcasterPID != nil {
				a.engine.Send(a.broadcasterPID, AddClient{Conn: conn, Mode: mode}, a.selfPID)
			}
			fmt.Printf("GameActor %s: seated %s at seat %d (%s)\n", a.selfPID, conn.RemoteAddr(), seat, mode)
			return
		}
		// Both seats taken: fall through to watching.
	}

	if watcher {
		mode = ClientASCII
	}
	if a.broadcasterPID != nil {
		a.engine.Send(a.broadcasterPID, AddClient{Conn: conn, Mode: mode}, a.selfPID)
	}
}

// handleDisconnect releases the connection's seat, if it held one, and hands
// the seat back to the AI. With no humans left both seats return to the
// idle demo mode and the room manager is told the room emptied.
func (a *GameActor) handleDisconnect(conn *websocket.Conn) {
	if conn == nil {
		return
	}
	if a.broadcasterPID != nil {
		a.engine.Send(a.broadcasterPID, RemoveClient{Conn: conn}, a.selfPID)
	}

	seat, seated := a.connToSeat[conn]
	if !seated {
		return
	}
	delete(a.connToSeat, conn)
	a.seats[seat] = nil
	a.rebalanceModes()
	a.notifyOccupancy()
	fmt.Printf("GameActor %s: seat %d released by %s\n", a.selfPID, seat, conn.RemoteAddr())

	if a.humanCount() == 0 && a.roomManagerPID != nil {
		a.engine.Send(a.roomManagerPID, GameRoomEmpty{RoomPID: a.selfPID}, a.selfPID)
	}
}

func (a *GameActor) handleKeyInput(msg ForwardedKeyInput) {
	seat, seated := a.connToSeat[msg.WsConn]
	if !seated {
		return
	}
	if err := a.match.SetKey(seat, msg.Key, msg.Pressed); err != nil {
		fmt.Printf("GameActor %s: rejected key input from seat %d: %v\n", a.selfPID, seat, err)
	}
}

// rebalanceModes derives control modes from seat occupancy: humans keep
// their seats, a lone human plays the AI, an empty room demos itself.
func (a *GameActor) rebalanceModes() {
	humans := a.humanCount()
	for seat := SeatLeft; seat <= SeatRight; seat++ {
		switch {
		case a.seats[seat] != nil:
			_ = a.match.SetMode(seat, ModeHuman)
		case humans > 0:
			_ = a.match.SetMode(seat, ModeAI)
		default:
			_ = a.match.SetMode(seat, ModeBackground)
		}
	}
}

func (a *GameActor) freeSeat() int {
	for seat := SeatLeft; seat <= SeatRight; seat++ {
		if a.seats[seat] == nil {
			return seat
		}
	}
	return -1
}

func (a *GameActor) humanCount() int {
	count := 0
	for _, conn := range a.seats {
		if conn != nil {
			count++
		}
	}
	return count
}

func (a *GameActor) notifyOccupancy() {
	if a.roomManagerPID != nil {
		a.engine.Send(a.roomManagerPID, RoomOccupancyUpdate{RoomPID: a.selfPID, Humans: a.humanCount()}, a.selfPID)
	}
}

// buildState assembles the broadcast view of the match.
func (a *GameActor) buildState() GameState {
	ball := a.match.Ball
	state := GameState{
		MessageType: "gameState",
		Width:       a.match.Canvas.Width,
		Height:      a.match.Canvas.Height,
		Ball: BallView{
			X:               ball.Pos.X,
			Y:               ball.Pos.Y,
			Vx:              ball.Vel.X,
			Vy:              ball.Vel.Y,
			Radius:          ball.Radius,
			SpeedMultiplier: ball.SpeedMultiplier,
			Destroyed:       ball.Destroyed,
		},
		State: a.match.State,
	}
	for i, player := range a.match.Players {
		state.Paddles[i] = PaddleView{
			X:      player.Paddle.X,
			Y:      player.Paddle.Y,
			Width:  player.Paddle.Width,
			Height: player.Paddle.Height,
			Seat:   player.Seat,
		}
		state.Scores[i] = player.Score
		state.Modes[i] = player.Mode
	}
	return state
}

func (a *GameActor) updateStateJSON() {
	a.storeStateJSON(a.buildState())
}

func (a *GameActor) storeStateJSON(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		fmt.Printf("GameActor %s: error marshalling game state: %v\n", a.selfPID, err)
		return
	}
	a.stateJSON.Store(payload)
}

// StateJSON returns the latest marshalled game state.
func (a *GameActor) StateJSON() []byte {
	if val := a.stateJSON.Load(); val != nil {
		if payload, ok := val.([]byte); ok {
			return payload
		}
	}
	return []byte(`{"error":"state not initialized"}`)
}

// runTickerLoop sends GameTick messages to the actor's own mailbox.
func (a *GameActor) runTickerLoop() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC recovered in GameActor %s ticker loop: %v\nStack trace:\n%s\n", a.selfPID, r, string(debug.Stack()))
		}
	}()

	tickMsg := &GameTick{}
	for {
		select {
		case <-a.stopTickerCh:
			return
		case _, ok := <-a.ticker.C:
			if !ok {
				return
			}
			a.engine.Send(a.selfPID, tickMsg, nil)
		}
	}
}
