// File: game/match.go
package game

import (
	"fmt"

	"github.com/lguibr/duelpong/utils"
)

// MatchState is the coarse state of one match.
type MatchState string

const (
	StatePlaying   MatchState = "playing"
	StateCountdown MatchState = "countdown"
	StateStopped   MatchState = "stopped"
)

// Match composes the simulation core for one game: the ball, two players,
// the fixed-timestep clock and the control/prediction logic. It is
// single-threaded and frame-driven: the host calls Advance once per frame
// and consumes the returned events.
type Match struct {
	Canvas  *Canvas    `json:"canvas"`
	Ball    *Ball      `json:"ball"`
	Players [2]*Player `json:"players"`
	State   MatchState `json:"state"`

	cfg                utils.Config
	clock              *PhysicsClock
	predictor          *Predictor
	control            *ControlResolver
	countdownLeft      float64
	timeSinceCollision float64
}

// MatchSnapshot is the normalized serialization of a match, safe to restore
// at a different canvas size.
type MatchSnapshot struct {
	Ball          BallSnapshot      `json:"ball"`
	Paddles       [2]PaddleSnapshot `json:"paddles"`
	Scores        [2]int32          `json:"scores"`
	Modes         [2]ControlMode    `json:"modes"`
	State         MatchState        `json:"state"`
	CountdownLeft float64           `json:"countdownLeft"`
}

func NewMatch(cfg utils.Config) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	canvas, err := NewCanvas(cfg.CanvasWidth, cfg.CanvasHeight)
	if err != nil {
		return nil, err
	}
	ball, err := NewBall(cfg, canvas)
	if err != nil {
		return nil, err
	}

	m := &Match{
		Canvas:        canvas,
		Ball:          ball,
		State:         StateCountdown,
		cfg:           cfg,
		clock:         NewPhysicsClock(cfg),
		predictor:     NewPredictor(cfg, canvas),
		countdownLeft: cfg.CountdownSeconds,
	}
	m.control = NewControlResolver(cfg, canvas, m.predictor)

	for seat := SeatLeft; seat <= SeatRight; seat++ {
		paddle, err := NewPaddle(cfg, canvas, seat)
		if err != nil {
			return nil, err
		}
		player, err := NewPlayer(seat, paddle, ModeBackground)
		if err != nil {
			return nil, err
		}
		m.Players[seat] = player
	}
	return m, nil
}

// Advance runs one frame: zero or more fixed physics sub-steps in order,
// then one control/prediction pass. Physics only advances while playing;
// control input keeps updating during the countdown.
func (m *Match) Advance(frameDelta float64) []Event {
	if frameDelta < 0 {
		frameDelta = 0
	}

	switch m.State {
	case StateStopped:
		return nil

	case StateCountdown:
		var events []Event
		m.countdownLeft -= frameDelta
		if m.countdownLeft <= 0 {
			m.LaunchBall()
			events = append(events, LaunchEvent{})
		}
		m.resolveControls(frameDelta)
		return events

	case StatePlaying:
		var events []Event
		for _, dt := range m.clock.Step(frameDelta) {
			events = append(events, m.stepPhysics(dt)...)
			if m.State != StatePlaying {
				break
			}
		}
		m.timeSinceCollision += frameDelta
		m.resolveControls(frameDelta)
		return events
	}
	return nil
}

// stepPhysics executes one fixed sub-step: paddles move per their resolved
// direction, the ball advances, then collisions resolve against the new
// position using the previous one for swept continuity.
func (m *Match) stepPhysics(dt float64) []Event {
	var events []Event

	for _, player := range m.Players {
		player.Paddle.Move(player.Paddle.Direction, dt)
	}

	m.Ball.Move(dt)

	for _, player := range m.Players {
		if hit, ok := ResolvePaddle(m.Ball, player.Paddle); ok {
			events = append(events, hit)
			m.timeSinceCollision = 0
		}
	}

	for _, event := range ResolveWalls(m.Ball) {
		events = append(events, event)
		switch event.(type) {
		case WallBounceEvent:
			m.timeSinceCollision = 0
		case GoalEvent:
			m.beginCountdown()
		}
	}

	m.Ball.EnforceMinSpeed()
	return events
}

// beginCountdown resets the point after a goal: ball recentered, paddles
// briefly frozen, next launch after the countdown.
func (m *Match) beginCountdown() {
	m.Ball.Restart()
	m.State = StateCountdown
	m.countdownLeft = m.cfg.CountdownSeconds
	for _, player := range m.Players {
		player.Freeze(m.cfg.GoalFreezeSeconds)
	}
}

// LaunchBall serves immediately and switches to playing. AI forecasts are
// invalidated so each side reacts to the fresh serve.
func (m *Match) LaunchBall() {
	m.Ball.Launch()
	m.State = StatePlaying
	m.timeSinceCollision = 0
	for _, player := range m.Players {
		player.InvalidatePrediction()
	}
}

// Stop freezes the match permanently; Advance becomes a no-op.
func (m *Match) Stop() {
	m.State = StateStopped
}

// resolveControls runs the per-frame control pass for both seats.
func (m *Match) resolveControls(frameDelta float64) {
	for i, player := range m.Players {
		opponent := m.Players[1-i]
		player.Paddle.Direction = m.control.Resolve(player, opponent, m.Ball, frameDelta, m.timeSinceCollision)
	}
}

// SetMode changes how a seat is controlled.
func (m *Match) SetMode(seat int, mode ControlMode) error {
	if seat < SeatLeft || seat > SeatRight {
		return fmt.Errorf("invalid seat %d", seat)
	}
	player := m.Players[seat]
	player.Mode = mode
	player.Keys = KeyState{}
	player.InvalidatePrediction()
	return nil
}

// SetKey updates one key flag for a human seat.
func (m *Match) SetKey(seat int, key string, pressed bool) error {
	if seat < SeatLeft || seat > SeatRight {
		return fmt.Errorf("invalid seat %d", seat)
	}
	player := m.Players[seat]
	switch key {
	case "up":
		player.Keys.Up = pressed
	case "down":
		player.Keys.Down = pressed
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// Snapshot captures the whole match in normalized form.
func (m *Match) Snapshot() MatchSnapshot {
	s := MatchSnapshot{
		Ball:          m.Ball.Snapshot(),
		State:         m.State,
		CountdownLeft: m.countdownLeft,
	}
	for i, player := range m.Players {
		s.Paddles[i] = player.Paddle.Snapshot()
		s.Scores[i] = player.Score
		s.Modes[i] = player.Mode
	}
	return s
}

// Restore rebuilds match state from a snapshot against the current canvas.
func (m *Match) Restore(s MatchSnapshot) {
	m.Ball.RestoreSnapshot(s.Ball)
	m.State = s.State
	m.countdownLeft = s.CountdownLeft
	for i, player := range m.Players {
		player.Paddle.RestoreSnapshot(s.Paddles[i])
		player.Score = s.Scores[i]
		if s.Modes[i] != "" {
			player.Mode = s.Modes[i]
		}
		player.InvalidatePrediction()
	}
}

// Resize rescales the whole simulation to a new canvas size. Positions,
// direction and multiplier carry over proportionally; absolute speeds
// re-derive from the new dimensions.
func (m *Match) Resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize dimensions must be positive, got %gx%g", width, height)
	}
	// Snapshot against the old canvas before mutating the shared one.
	snapshot := m.Snapshot()
	m.Canvas.Width = width
	m.Canvas.Height = height
	m.Ball.RestoreSnapshot(snapshot.Ball)
	for i, player := range m.Players {
		player.Paddle.derive(m.cfg)
		player.Paddle.RestoreSnapshot(snapshot.Paddles[i])
		player.InvalidatePrediction()
	}
	return nil
}
