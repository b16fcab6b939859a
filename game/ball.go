// File: game/ball.go
package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lguibr/duelpong/utils"
)

// Face identifies a side of a rectangle in canvas space.
type Face string

const (
	FaceLeft   Face = "left"
	FaceRight  Face = "right"
	FaceTop    Face = "top"
	FaceBottom Face = "bottom"
)

// Ball owns the full kinematic state of the ball. Position and velocity are
// float canvas units; velocity is units per second. Prev holds the position
// before the current step for swept collision tests and render interpolation.
type Ball struct {
	Pos             utils.Vec2 `json:"pos"`
	Prev            utils.Vec2 `json:"prev"`
	Vel             utils.Vec2 `json:"vel"`
	Radius          float64    `json:"radius"`
	BaseSpeed       float64    `json:"baseSpeed"`
	SpeedMultiplier float64    `json:"speedMultiplier"`
	Destroyed       bool       `json:"destroyed"`
	HitLeftBorder   bool       `json:"hitLeftBorder"`

	canvas *Canvas
	cfg    utils.Config
	accel  Acceleration
}

// BallSnapshot is the normalized serialization of a ball: position as
// fractions of the canvas, velocity as a unit direction plus the multiplier.
// It survives a canvas resize without re-deriving pixel coordinates.
type BallSnapshot struct {
	XFrac           float64 `json:"xFrac"`
	YFrac           float64 `json:"yFrac"`
	DirX            float64 `json:"dirX"`
	DirY            float64 `json:"dirY"`
	SpeedMultiplier float64 `json:"speedMultiplier"`
	Destroyed       bool    `json:"destroyed"`
	HitLeftBorder   bool    `json:"hitLeftBorder"`
}

func NewBall(cfg utils.Config, canvas *Canvas) (*Ball, error) {
	if canvas == nil {
		return nil, fmt.Errorf("ball requires a canvas")
	}
	ball := &Ball{
		cfg:             cfg,
		canvas:          canvas,
		accel:           NewAcceleration(cfg),
		SpeedMultiplier: cfg.InitialMultiplier,
	}
	ball.deriveFromCanvas()
	cx, cy := canvas.Center()
	ball.Pos = utils.Vec2{X: cx, Y: cy}
	ball.Prev = ball.Pos
	return ball, nil
}

// deriveFromCanvas recomputes the size-dependent quantities so the ball keeps
// a constant seconds-to-cross-the-field at multiplier 1.
func (b *Ball) deriveFromCanvas() {
	b.Radius = b.canvas.Height * b.cfg.BallRadiusFraction
	b.BaseSpeed = b.canvas.Width / b.cfg.BallSecondsToCross
}

// CurrentSpeed is the scalar speed the velocity should carry.
func (b *Ball) CurrentSpeed() float64 {
	return b.BaseSpeed * b.SpeedMultiplier
}

// Move advances the ball by one step, recording the previous position first.
func (b *Ball) Move(dt float64) {
	if b.Destroyed {
		return
	}
	b.Prev = b.Pos
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// Launch puts the ball at the field center and serves it at base speed with a
// random horizontal sign and a random vertical angle inside the configured
// degree range. The speed multiplier resets to its initial value.
func (b *Ball) Launch() {
	cx, cy := b.canvas.Center()
	b.Pos = utils.Vec2{X: cx, Y: cy}
	b.Prev = b.Pos
	b.Destroyed = false
	b.HitLeftBorder = false
	b.SpeedMultiplier = b.cfg.InitialMultiplier

	angleRange := b.cfg.MaxLaunchAngleDeg - b.cfg.MinLaunchAngleDeg
	angle := utils.DegToRad(b.cfg.MinLaunchAngleDeg + rand.Float64()*angleRange)
	if rand.Intn(2) == 0 {
		angle = -angle
	}
	dir := utils.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
	if rand.Intn(2) == 0 {
		dir.X = -dir.X
	}
	b.Vel = dir.Scale(b.CurrentSpeed())
}

// Restart recenters the ball with zero velocity, ready for the next launch.
func (b *Ball) Restart() {
	cx, cy := b.canvas.Center()
	b.Pos = utils.Vec2{X: cx, Y: cy}
	b.Prev = b.Pos
	b.Vel = utils.Vec2{}
	b.Destroyed = false
	b.HitLeftBorder = false
	b.SpeedMultiplier = b.cfg.InitialMultiplier
}

// Hit is the entry point for external collision glue: the caller owns the
// geometric hit test and delegates the response physics here. The face names
// the struck surface; deflectionModifier is an extra rotation in radians.
func (b *Ball) Hit(face Face, deflectionModifier float64) {
	speed := b.Vel.Magnitude()
	if speed == 0 {
		speed = b.CurrentSpeed()
	}

	switch face {
	case FaceLeft:
		b.Vel.X = -math.Abs(b.Vel.X)
	case FaceRight:
		b.Vel.X = math.Abs(b.Vel.X)
	case FaceTop:
		b.Vel.Y = -math.Abs(b.Vel.Y)
	case FaceBottom:
		b.Vel.Y = math.Abs(b.Vel.Y)
	}

	if deflectionModifier != 0 {
		b.Vel = b.Vel.Rotate(deflectionModifier)
	}
	b.Vel = b.Vel.Normalize().Scale(speed)
	b.Accelerate()
}

// Accelerate applies the collision speed-up policy and rescales the velocity
// to the new speed while preserving direction.
func (b *Ball) Accelerate() {
	b.SpeedMultiplier = b.accel.OnCollision(b.SpeedMultiplier)
	dir := b.Vel.Normalize()
	if dir.X == 0 && dir.Y == 0 {
		return
	}
	b.Vel = dir.Scale(b.CurrentSpeed())
}

// EnforceMinSpeed keeps a non-zero velocity above the configured absolute
// floor so floating-point decay cannot stall the ball.
func (b *Ball) EnforceMinSpeed() {
	speed := b.Vel.Magnitude()
	if speed == 0 || speed >= b.cfg.MinBallSpeed {
		return
	}
	b.Vel = b.Vel.Normalize().Scale(b.cfg.MinBallSpeed)
}

// Snapshot returns the normalized serialization of the ball.
func (b *Ball) Snapshot() BallSnapshot {
	dir := b.Vel.Normalize()
	return BallSnapshot{
		XFrac:           b.Pos.X / b.canvas.Width,
		YFrac:           b.Pos.Y / b.canvas.Height,
		DirX:            dir.X,
		DirY:            dir.Y,
		SpeedMultiplier: b.SpeedMultiplier,
		Destroyed:       b.Destroyed,
		HitLeftBorder:   b.HitLeftBorder,
	}
}

// RestoreSnapshot rebuilds absolute state from a snapshot against the current
// canvas, so a snapshot taken before a resize restores proportionally.
func (b *Ball) RestoreSnapshot(s BallSnapshot) {
	b.deriveFromCanvas()
	b.Pos = utils.Vec2{X: s.XFrac * b.canvas.Width, Y: s.YFrac * b.canvas.Height}
	b.Prev = b.Pos
	b.SpeedMultiplier = utils.Clamp(s.SpeedMultiplier, b.cfg.InitialMultiplier, b.cfg.MaxMultiplier)
	b.Destroyed = s.Destroyed
	b.HitLeftBorder = s.HitLeftBorder
	dir := utils.Vec2{X: s.DirX, Y: s.DirY}.Normalize()
	b.Vel = dir.Scale(b.CurrentSpeed())
}

// Resize re-derives the size-dependent state for a new canvas, preserving the
// normalized position, direction and multiplier.
func (b *Ball) Resize(canvas *Canvas) error {
	if canvas == nil {
		return fmt.Errorf("ball resize requires a canvas")
	}
	snapshot := b.Snapshot()
	b.canvas = canvas
	b.RestoreSnapshot(snapshot)
	return nil
}
