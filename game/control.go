// File: game/control.go
package game

import (
	"math"

	"github.com/lguibr/duelpong/utils"
)

// ControlResolver turns each player's control mode into a movement direction.
// It runs once per frame, not per fixed physics step.
type ControlResolver struct {
	cfg       utils.Config
	canvas    *Canvas
	predictor *Predictor
}

func NewControlResolver(cfg utils.Config, canvas *Canvas, predictor *Predictor) *ControlResolver {
	return &ControlResolver{cfg: cfg, canvas: canvas, predictor: predictor}
}

// Resolve computes the direction for one player. timeSinceCollision is the
// simulated time since the ball last bounced, used for the AI grace period.
func (r *ControlResolver) Resolve(player *Player, opponent *Player, ball *Ball, frameDelta, timeSinceCollision float64) Direction {
	// A frozen paddle ignores its control mode until the countdown runs out.
	if player.FreezeLeft > 0 {
		player.FreezeLeft -= frameDelta
		if player.FreezeLeft < 0 {
			player.FreezeLeft = 0
		}
		return DirNone
	}

	switch player.Mode {
	case ModeHuman:
		return resolveHuman(player.Keys)
	case ModeAI:
		return r.resolveAI(player, opponent, ball, frameDelta, timeSinceCollision)
	case ModeBackground:
		return r.resolveBackground(player, ball)
	default:
		return DirNone
	}
}

// resolveHuman maps the two key flags to a direction. Both pressed cancel
// out, as do neither.
func resolveHuman(keys KeyState) Direction {
	switch {
	case keys.Up && !keys.Down:
		return DirUp
	case keys.Down && !keys.Up:
		return DirDown
	default:
		return DirNone
	}
}

// resolveAI steers toward the forecast target, except during a short
// post-collision window in which it drifts to center as if not yet reacting.
// The window shrinks as the ball speeds up.
func (r *ControlResolver) resolveAI(player *Player, opponent *Player, ball *Ball, frameDelta, timeSinceCollision float64) Direction {
	player.predictionAge += frameDelta
	if !player.HasPrediction || player.predictionAge >= r.cfg.AIReactionSeconds {
		player.Prediction = r.predictor.Forecast(ball, player.Paddle, opponent.Paddle)
		player.HasPrediction = true
		player.predictionAge = 0
	}

	grace := r.cfg.AIGraceSeconds
	if ball.SpeedMultiplier > 0 {
		grace /= ball.SpeedMultiplier
	}
	if timeSinceCollision < grace && r.incomingWithin(player, ball, grace) {
		_, centerY := r.canvas.Center()
		return r.steerToward(player.Paddle, centerY)
	}

	return r.steerToward(player.Paddle, player.Prediction.TargetY)
}

// incomingWithin reports whether the ball's horizontal speed implies it
// reaches this player's side within the given window.
func (r *ControlResolver) incomingWithin(player *Player, ball *Ball, window float64) bool {
	toward := (player.Seat == SeatLeft && ball.Vel.X < 0) ||
		(player.Seat == SeatRight && ball.Vel.X > 0)
	if !toward {
		return false
	}
	distance := math.Abs(ball.Pos.X - player.Paddle.FaceX())
	return distance <= math.Abs(ball.Vel.X)*window
}

// resolveBackground is the idle/demo behavior: drift to center unless the
// ball is coming, then track its raw Y with no prediction.
func (r *ControlResolver) resolveBackground(player *Player, ball *Ball) Direction {
	_, centerY := r.canvas.Center()

	if ball.Vel.X == 0 && ball.Vel.Y == 0 {
		return r.steerToward(player.Paddle, centerY)
	}

	movingAway := (player.Seat == SeatLeft && ball.Vel.X > 0) ||
		(player.Seat == SeatRight && ball.Vel.X < 0)
	if movingAway {
		return r.steerToward(player.Paddle, centerY)
	}

	return r.steerToward(player.Paddle, ball.Pos.Y)
}

// steerToward issues a direction toward targetY, with a deadzone around the
// target to avoid directional jitter when already aligned.
func (r *ControlResolver) steerToward(paddle *Paddle, targetY float64) Direction {
	deadzone := paddle.Height * r.cfg.DeadzoneFraction
	diff := targetY - paddle.CenterY()
	if math.Abs(diff) <= deadzone {
		return DirNone
	}
	if diff < 0 {
		return DirUp
	}
	return DirDown
}
