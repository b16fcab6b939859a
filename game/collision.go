// File: game/collision.go
package game

import (
	"math"

	"github.com/lguibr/duelpong/utils"
)

// ResolveWalls tests the ball against the four field borders after a move.
// Top and bottom bounce with clamping and acceleration; left and right
// destroy the ball and record which side conceded.
func ResolveWalls(b *Ball) []Event {
	if b.Destroyed {
		return nil
	}
	var events []Event

	if b.Pos.Y-b.Radius <= 0 {
		b.Pos.Y = b.Radius
		b.Vel.Y = math.Abs(b.Vel.Y)
		b.Accelerate()
		events = append(events, WallBounceEvent{Wall: FaceTop})
	} else if b.Pos.Y+b.Radius >= b.canvas.Height {
		b.Pos.Y = b.canvas.Height - b.Radius
		b.Vel.Y = -math.Abs(b.Vel.Y)
		b.Accelerate()
		events = append(events, WallBounceEvent{Wall: FaceBottom})
	}

	if b.Pos.X-b.Radius <= 0 {
		b.Destroyed = true
		b.HitLeftBorder = true
		events = append(events, GoalEvent{
			HitLeftBorder: true,
			ScorerSeat:    SeatRight,
			ConcederSeat:  SeatLeft,
		})
	} else if b.Pos.X+b.Radius >= b.canvas.Width {
		b.Destroyed = true
		b.HitLeftBorder = false
		events = append(events, GoalEvent{
			HitLeftBorder: false,
			ScorerSeat:    SeatLeft,
			ConcederSeat:  SeatRight,
		})
	}

	return events
}

// ResolvePaddle tests the ball against one paddle using a swept check and, on
// a hit, applies reversal, zone-based deflection and acceleration. Returns
// the hit event and whether a collision was resolved.
func ResolvePaddle(b *Ball, p *Paddle) (PaddleHitEvent, bool) {
	if b.Destroyed {
		return PaddleHitEvent{}, false
	}

	// Only a ball moving toward the paddle can hit its face; this also stops
	// a resolved hit from re-triggering on the next step.
	if b.Vel.Dot(p.FaceNormal()) >= 0 {
		return PaddleHitEvent{}, false
	}

	if !ballOverlapsPaddle(b, p) && !sweptThroughPaddle(b, p) {
		return PaddleHitEvent{}, false
	}

	speed := b.Vel.Magnitude()
	if speed == 0 {
		speed = b.CurrentSpeed()
	}

	// Reverse horizontally, away from the paddle, and push the ball back in
	// front of the face so it cannot stay embedded.
	if p.Seat == SeatLeft {
		b.Vel.X = math.Abs(b.Vel.X)
		b.Pos.X = p.FaceX() + b.Radius
	} else {
		b.Vel.X = -math.Abs(b.Vel.X)
		b.Pos.X = p.FaceX() - b.Radius
	}

	// Zone-based deflection: hits inside the top/bottom edge zone rotate the
	// outgoing velocity by the configured angle, steering toward that edge.
	halfHeight := p.Height / 2
	offset := utils.Clamp((b.Pos.Y-p.CenterY())/halfHeight, -1, 1)
	edgeThreshold := 1 - 2*b.cfg.EdgeZoneFraction
	if math.Abs(offset) > edgeThreshold && b.cfg.EdgeDeflectionDeg != 0 {
		rotation := utils.DegToRad(b.cfg.EdgeDeflectionDeg)
		if offset < 0 {
			rotation = -rotation
		}
		if p.Seat == SeatRight {
			rotation = -rotation
		}
		b.Vel = b.Vel.Rotate(rotation)
	}

	// Re-derive magnitude to the pre-collision speed, then guarantee enough
	// vertical motion to keep the rally recoverable.
	b.Vel = b.Vel.Normalize().Scale(speed)
	enforceMinVertical(b, speed)
	b.Accelerate()

	return PaddleHitEvent{Seat: p.Seat}, true
}

// enforceMinVertical keeps |vy| at or above the configured fraction of the
// total speed, preserving the overall magnitude.
func enforceMinVertical(b *Ball, speed float64) {
	minVy := b.cfg.MinVerticalFraction * speed
	if math.Abs(b.Vel.Y) >= minVy || minVy == 0 {
		return
	}
	ySign := 1.0
	if b.Vel.Y < 0 {
		ySign = -1
	}
	xSign := 1.0
	if b.Vel.X < 0 {
		xSign = -1
	}
	b.Vel.Y = ySign * minVy
	remaining := speed*speed - minVy*minVy
	if remaining < 0 {
		remaining = 0
	}
	b.Vel.X = xSign * math.Sqrt(remaining)
}

// ballOverlapsPaddle is the static circle-vs-rectangle test at the current
// position.
func ballOverlapsPaddle(b *Ball, p *Paddle) bool {
	closestX := utils.Clamp(b.Pos.X, p.X, p.X+p.Width)
	closestY := utils.Clamp(b.Pos.Y, p.Y, p.Y+p.Height)
	dx := b.Pos.X - closestX
	dy := b.Pos.Y - closestY
	return dx*dx+dy*dy <= b.Radius*b.Radius
}

// sweptThroughPaddle catches a ball that crossed the paddle entirely within
// one step: the segment from the previous to the current position is tested
// against the paddle rectangle inflated by the radius.
func sweptThroughPaddle(b *Ball, p *Paddle) bool {
	minX := p.X - b.Radius
	maxX := p.X + p.Width + b.Radius
	minY := p.Y - b.Radius
	maxY := p.Y + p.Height + b.Radius
	return segmentIntersectsRect(b.Prev, b.Pos, minX, minY, maxX, maxY)
}

// segmentIntersectsRect is a slab test of the segment p0->p1 against an AABB.
func segmentIntersectsRect(p0, p1 utils.Vec2, minX, minY, maxX, maxY float64) bool {
	d := p1.Sub(p0)
	tEnter := 0.0
	tExit := 1.0

	for _, axis := range [2][3]float64{
		{d.X, p0.X - minX, maxX - p0.X},
		{d.Y, p0.Y - minY, maxY - p0.Y},
	} {
		delta, distToMin, distToMax := axis[0], axis[1], axis[2]
		if delta == 0 {
			if distToMin < 0 || distToMax < 0 {
				return false
			}
			continue
		}
		t1 := -distToMin / delta
		t2 := distToMax / delta
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEnter > tExit {
			return false
		}
	}

	return true
}
