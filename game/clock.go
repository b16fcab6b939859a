// File: game/clock.go
package game

import "github.com/lguibr/duelpong/utils"

// PhysicsClock converts a variable external frame delta into zero or more
// deterministic fixed-duration sub-steps. The accumulator persists across
// frames so resuming after a pause continues from committed state.
type PhysicsClock struct {
	stepMs      float64
	maxDeltaMs  float64
	maxSteps    int
	accumulator float64 // Leftover milliseconds carried between frames
}

func NewPhysicsClock(cfg utils.Config) *PhysicsClock {
	return &PhysicsClock{
		stepMs:     cfg.PhysicsStepMs,
		maxDeltaMs: cfg.MaxFrameDeltaMs,
		maxSteps:   cfg.MaxStepsPerFrame,
	}
}

// Step accumulates one frame delta (seconds) and returns the sub-step
// durations (seconds) to execute this frame. Work per frame is bounded by the
// step budget; a stalled frame drops its backlog instead of replaying it.
func (c *PhysicsClock) Step(frameDeltaSeconds float64) []float64 {
	deltaMs := frameDeltaSeconds * 1000
	if deltaMs < 0 {
		deltaMs = 0
	}
	if deltaMs > c.maxDeltaMs {
		deltaMs = c.maxDeltaMs
	}
	c.accumulator += deltaMs

	// A backlog beyond twice the clamp means the host stalled (e.g. a
	// backgrounded tab). Drop the time rather than fast-forwarding through it.
	if c.accumulator > 2*c.maxDeltaMs {
		c.accumulator = 0
		return nil
	}

	var steps []float64
	for c.accumulator >= c.stepMs && len(steps) < c.maxSteps {
		steps = append(steps, c.stepMs/1000)
		c.accumulator -= c.stepMs
	}

	if c.accumulator > 0 && c.accumulator < 2*c.stepMs && len(steps) < c.maxSteps {
		// Small remainder: run it as one partial step instead of carrying it.
		steps = append(steps, c.accumulator/1000)
		c.accumulator = 0
	} else if c.accumulator > 2*c.stepMs {
		c.accumulator = 2 * c.stepMs
	}

	return steps
}

// Accumulated returns the leftover milliseconds, for inspection.
func (c *PhysicsClock) Accumulated() float64 {
	return c.accumulator
}

// Reset clears any accumulated time.
func (c *PhysicsClock) Reset() {
	c.accumulator = 0
}
