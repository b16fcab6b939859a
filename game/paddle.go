// File: game/paddle.go
package game

import (
	"fmt"

	"github.com/lguibr/duelpong/utils"
)

// Direction is the resolved movement input for one paddle.
type Direction string

const (
	DirNone Direction = ""
	DirUp   Direction = "up"
	DirDown Direction = "down"
)

// Seat indices for the two sides of the field.
const (
	SeatLeft  = 0
	SeatRight = 1
)

// Paddle is one player's paddle. X is fixed per seat; only Y moves. Prev
// holds the position before the latest move for relative-velocity queries and
// swept collision against the ball.
type Paddle struct {
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Speed     float64    `json:"speed"`
	Direction Direction  `json:"direction"`
	Prev      utils.Vec2 `json:"prev"`
	Seat      int        `json:"seat"`

	canvas *Canvas
}

// PaddleSnapshot is the normalized serialization of a paddle.
type PaddleSnapshot struct {
	YFrac float64 `json:"yFrac"`
	Seat  int     `json:"seat"`
}

func NewPaddle(cfg utils.Config, canvas *Canvas, seat int) (*Paddle, error) {
	if canvas == nil {
		return nil, fmt.Errorf("paddle requires a canvas")
	}
	if seat != SeatLeft && seat != SeatRight {
		return nil, fmt.Errorf("paddle seat must be %d or %d, got %d", SeatLeft, SeatRight, seat)
	}
	p := &Paddle{Seat: seat, canvas: canvas}
	p.derive(cfg)
	p.Y = (canvas.Height - p.Height) / 2
	p.Prev = utils.Vec2{X: p.X, Y: p.Y}
	return p, nil
}

// derive recomputes the size-dependent dimensions, speed and the fixed X for
// the paddle's seat.
func (p *Paddle) derive(cfg utils.Config) {
	p.Width = p.canvas.Width * cfg.PaddleWidthFraction
	p.Height = p.canvas.Height * cfg.PaddleHeightFraction
	p.Speed = p.canvas.Height / cfg.PaddleSecondsToCross
	margin := p.canvas.Width * cfg.PaddleMarginFraction
	if p.Seat == SeatLeft {
		p.X = margin
	} else {
		p.X = p.canvas.Width - margin - p.Width
	}
}

// Move applies the direction for one fixed step, clamping Y to the field.
// The pre-move position is recorded in Prev before the move lands.
func (p *Paddle) Move(direction Direction, dt float64) {
	p.Direction = direction
	p.Prev = utils.Vec2{X: p.X, Y: p.Y}

	switch direction {
	case DirUp:
		p.Y -= p.Speed * dt
	case DirDown:
		p.Y += p.Speed * dt
	default:
		return
	}
	p.Y = utils.Clamp(p.Y, 0, p.canvas.Height-p.Height)
}

// VelocityY is the paddle's vertical velocity over the last step.
func (p *Paddle) VelocityY(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	return (p.Y - p.Prev.Y) / dt
}

// CenterY is the vertical center of the paddle.
func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// FaceX is the X of the paddle surface facing the field.
func (p *Paddle) FaceX() float64 {
	if p.Seat == SeatLeft {
		return p.X + p.Width
	}
	return p.X
}

// FaceNormal is the unit normal of the paddle face, pointing into the field.
func (p *Paddle) FaceNormal() utils.Vec2 {
	if p.Seat == SeatLeft {
		return utils.Vec2{X: 1}
	}
	return utils.Vec2{X: -1}
}

func (p *Paddle) Snapshot() PaddleSnapshot {
	return PaddleSnapshot{YFrac: p.Y / p.canvas.Height, Seat: p.Seat}
}

func (p *Paddle) RestoreSnapshot(s PaddleSnapshot) {
	p.Y = utils.Clamp(s.YFrac*p.canvas.Height, 0, p.canvas.Height-p.Height)
	p.Prev = utils.Vec2{X: p.X, Y: p.Y}
}

// Resize re-derives dimensions for a new canvas, preserving the fractional
// vertical position.
func (p *Paddle) Resize(cfg utils.Config, canvas *Canvas) error {
	if canvas == nil {
		return fmt.Errorf("paddle resize requires a canvas")
	}
	snapshot := p.Snapshot()
	p.canvas = canvas
	p.derive(cfg)
	p.RestoreSnapshot(snapshot)
	return nil
}
