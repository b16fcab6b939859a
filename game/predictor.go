// File: game/predictor.go
package game

import (
	"math"

	"github.com/lguibr/duelpong/utils"
)

// timeTolerance absorbs floating-point error when breaking ties between
// candidate collision times. Ties resolve by fixed surface precedence:
// top, bottom, opponent, player.
const timeTolerance = 1e-9

// Prediction is one completed trajectory forecast.
type Prediction struct {
	Bounces []utils.Vec2 `json:"bounces"` // Intermediate wall/opponent intersections, in order
	Impact  utils.Vec2   `json:"impact"`  // Predicted crossing of the player's paddle line
	TargetY float64      `json:"targetY"` // Clamped paddle-center target the AI steers toward
}

// Predictor forecasts the ball's path analytically through multiple
// reflections, instead of stepping the simulation forward. It always
// terminates within the configured bounce budget and always yields a usable
// target, possibly approximate in degenerate geometry.
type Predictor struct {
	cfg    utils.Config
	canvas *Canvas
	accel  Acceleration
}

func NewPredictor(cfg utils.Config, canvas *Canvas) *Predictor {
	return &Predictor{cfg: cfg, canvas: canvas, accel: NewAcceleration(cfg)}
}

type surface int

const (
	surfaceTop surface = iota
	surfaceBottom
	surfaceOpponent
	surfacePlayer
	surfaceNone
)

// Forecast predicts where the ball will cross the given player's paddle line.
// own and opponent are the paddles as seen from the predicting side.
func (p *Predictor) Forecast(ball *Ball, own, opponent *Paddle) Prediction {
	halfPaddle := own.Height / 2
	minTarget := halfPaddle
	maxTarget := p.canvas.Height - halfPaddle

	hold := Prediction{
		Impact:  utils.Vec2{X: own.FaceX(), Y: own.CenterY()},
		TargetY: utils.Clamp(own.CenterY(), minTarget, maxTarget),
	}

	pos := ball.Pos
	vel := ball.Vel
	if vel.X == 0 && vel.Y == 0 {
		return hold
	}

	topY := ball.Radius
	bottomY := p.canvas.Height - ball.Radius
	var ownX, oppX float64
	if own.Seat == SeatLeft {
		ownX = own.FaceX() + ball.Radius
		oppX = opponent.FaceX() - ball.Radius
	} else {
		ownX = own.FaceX() - ball.Radius
		oppX = opponent.FaceX() + ball.Radius
	}

	simMultiplier := ball.SpeedMultiplier
	prediction := Prediction{}

	for bounce := 0; bounce < p.cfg.MaxPredictionBounces; bounce++ {
		hit, point, ok := nextIntersection(pos, vel, topY, bottomY, oppX, ownX)
		if !ok {
			// No positive intersection time on any surface: degenerate
			// geometry, stop early with the best target available.
			break
		}

		if hit == surfacePlayer {
			prediction.Impact = point
			prediction.TargetY = utils.Clamp(point.Y, minTarget, maxTarget)
			return prediction
		}

		// Reflect the component normal to the struck surface, speed up the
		// simulated velocity the way the real policy would, and continue.
		switch hit {
		case surfaceTop, surfaceBottom:
			vel.Y = -vel.Y
		case surfaceOpponent:
			vel.X = -vel.X
		}
		simMultiplier = p.accel.OnCollision(simMultiplier)
		vel = vel.Normalize().Scale(ball.BaseSpeed * simMultiplier)
		prediction.Bounces = append(prediction.Bounces, point)
		pos = point
	}

	// Bounce budget exhausted: one linear extrapolation toward the paddle
	// line as a fallback target.
	if vel.X != 0 {
		t := (ownX - pos.X) / vel.X
		if t > timeTolerance {
			y := pos.Y + vel.Y*t
			prediction.Impact = utils.Vec2{X: ownX, Y: y}
			prediction.TargetY = utils.Clamp(y, minTarget, maxTarget)
			return prediction
		}
	}

	// Parallel motion or the ball is past the line: hold the paddle center.
	hold.Bounces = prediction.Bounces
	return hold
}

// nextIntersection finds the earliest surface the ray from pos along vel
// reaches, by constant-velocity ray/line intersection.
func nextIntersection(pos, vel utils.Vec2, topY, bottomY, oppX, ownX float64) (surface, utils.Vec2, bool) {
	best := surfaceNone
	bestT := math.Inf(1)

	consider := func(s surface, t float64) {
		if t <= timeTolerance || math.IsInf(t, 0) || math.IsNaN(t) {
			return
		}
		if t < bestT-timeTolerance {
			best = s
			bestT = t
		}
	}

	if vel.Y != 0 {
		consider(surfaceTop, (topY-pos.Y)/vel.Y)
		consider(surfaceBottom, (bottomY-pos.Y)/vel.Y)
	}
	if vel.X != 0 {
		consider(surfaceOpponent, (oppX-pos.X)/vel.X)
		consider(surfacePlayer, (ownX-pos.X)/vel.X)
	}

	if best == surfaceNone {
		return surfaceNone, utils.Vec2{}, false
	}
	return best, pos.Add(vel.Scale(bestT)), true
}
