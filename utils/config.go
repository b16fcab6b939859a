// File: utils/config.go
package utils

import (
	"fmt"
	"time"
)

// Config holds all configurable game parameters.
type Config struct {
	// Timing
	GameTickPeriod time.Duration `json:"gameTickPeriod"` // Time between game actor ticks

	// Play field
	CanvasWidth  float64 `json:"canvasWidth"`  // Pixel width of the play field
	CanvasHeight float64 `json:"canvasHeight"` // Pixel height of the play field

	// Physics clock
	PhysicsStepMs    float64 `json:"physicsStepMs"`    // Fixed simulation step in milliseconds
	MaxFrameDeltaMs  float64 `json:"maxFrameDeltaMs"`  // Per-call clamp on the incoming frame delta
	MaxStepsPerFrame int     `json:"maxStepsPerFrame"` // Step budget per frame

	// Ball
	BallRadiusFraction float64 `json:"ballRadiusFraction"` // Radius as a fraction of canvas height
	BallSecondsToCross float64 `json:"ballSecondsToCross"` // Base speed: canvas width / this, at multiplier 1
	InitialMultiplier  float64 `json:"initialMultiplier"`  // Speed multiplier on launch
	MaxMultiplier      float64 `json:"maxMultiplier"`      // Multiplier ceiling
	AccelerationRate   float64 `json:"accelerationRate"`   // Multiplier increment per collision
	MinBallSpeed       float64 `json:"minBallSpeed"`       // Absolute speed floor while in play, units/s
	MinLaunchAngleDeg  float64 `json:"minLaunchAngleDeg"`  // Launch angle range from the horizontal axis
	MaxLaunchAngleDeg  float64 `json:"maxLaunchAngleDeg"`

	// Paddles
	PaddleHeightFraction float64 `json:"paddleHeightFraction"` // Height as a fraction of canvas height
	PaddleWidthFraction  float64 `json:"paddleWidthFraction"`  // Thickness as a fraction of canvas width
	PaddleMarginFraction float64 `json:"paddleMarginFraction"` // Gap between wall and paddle face
	PaddleSecondsToCross float64 `json:"paddleSecondsToCross"` // Paddle speed: canvas height / this

	// Collision response
	EdgeZoneFraction    float64 `json:"edgeZoneFraction"`    // Top/bottom fraction of paddle height that deflects
	EdgeDeflectionDeg   float64 `json:"edgeDeflectionDeg"`   // Rotation applied on an edge-zone hit
	MinVerticalFraction float64 `json:"minVerticalFraction"` // Post-deflection floor on |vy| as a fraction of speed

	// AI
	MaxPredictionBounces int     `json:"maxPredictionBounces"` // Bounce budget for the trajectory forecast
	AIReactionSeconds    float64 `json:"aiReactionSeconds"`    // Minimum simulated time between forecasts
	AIGraceSeconds       float64 `json:"aiGraceSeconds"`       // Post-collision window before the AI reacts
	DeadzoneFraction     float64 `json:"deadzoneFraction"`     // Steering deadzone as a fraction of paddle height

	// Match flow
	CountdownSeconds  float64 `json:"countdownSeconds"`  // Pause between a goal and the next launch
	GoalFreezeSeconds float64 `json:"goalFreezeSeconds"` // Paddle freeze after a goal
	WinningScore      int32   `json:"winningScore"`      // First score to end the match, 0 disables
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		GameTickPeriod: 10 * time.Millisecond,

		CanvasWidth:  800,
		CanvasHeight: 600,

		PhysicsStepMs:    1000.0 / 120.0,
		MaxFrameDeltaMs:  1000.0 / 30.0,
		MaxStepsPerFrame: 8,

		BallRadiusFraction: 1.0 / 60.0, // 10px on a 600px field
		BallSecondsToCross: 4.0,        // 200 units/s on an 800px field
		InitialMultiplier:  1.0,
		MaxMultiplier:      2.5,
		AccelerationRate:   0.05,
		MinBallSpeed:       1.0,
		MinLaunchAngleDeg:  15,
		MaxLaunchAngleDeg:  45,

		PaddleHeightFraction: 1.0 / 6.0,  // 100px on a 600px field
		PaddleWidthFraction:  1.0 / 80.0, // 10px on an 800px field
		PaddleMarginFraction: 1.0 / 40.0, // 20px on an 800px field
		PaddleSecondsToCross: 1.25,

		EdgeZoneFraction:    0.25,
		EdgeDeflectionDeg:   30,
		MinVerticalFraction: 0.1,

		MaxPredictionBounces: 10,
		AIReactionSeconds:    1.0,
		AIGraceSeconds:       0.3,
		DeadzoneFraction:     0.1,

		CountdownSeconds:  1.5,
		GoalFreezeSeconds: 0.75,
		WinningScore:      11,
	}
}

// Validate checks construction-time contracts eagerly so a bad config fails
// fast instead of surfacing as a degenerate simulation later.
func (c Config) Validate() error {
	if c.GameTickPeriod <= 0 {
		return fmt.Errorf("config: GameTickPeriod must be positive, got %v", c.GameTickPeriod)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("config: canvas dimensions must be positive, got %gx%g", c.CanvasWidth, c.CanvasHeight)
	}
	if c.PhysicsStepMs <= 0 {
		return fmt.Errorf("config: PhysicsStepMs must be positive, got %g", c.PhysicsStepMs)
	}
	if c.MaxFrameDeltaMs < c.PhysicsStepMs {
		return fmt.Errorf("config: MaxFrameDeltaMs (%g) must be at least PhysicsStepMs (%g)", c.MaxFrameDeltaMs, c.PhysicsStepMs)
	}
	if c.MaxStepsPerFrame < 1 {
		return fmt.Errorf("config: MaxStepsPerFrame must be at least 1, got %d", c.MaxStepsPerFrame)
	}
	if c.BallRadiusFraction <= 0 || c.BallRadiusFraction >= 0.5 {
		return fmt.Errorf("config: BallRadiusFraction must be in (0, 0.5), got %g", c.BallRadiusFraction)
	}
	if c.BallSecondsToCross <= 0 {
		return fmt.Errorf("config: BallSecondsToCross must be positive, got %g", c.BallSecondsToCross)
	}
	if c.InitialMultiplier <= 0 || c.MaxMultiplier < c.InitialMultiplier {
		return fmt.Errorf("config: multiplier bounds invalid: initial %g, max %g", c.InitialMultiplier, c.MaxMultiplier)
	}
	if c.AccelerationRate < 0 {
		return fmt.Errorf("config: AccelerationRate must not be negative, got %g", c.AccelerationRate)
	}
	if c.MinLaunchAngleDeg < 0 || c.MaxLaunchAngleDeg < c.MinLaunchAngleDeg || c.MaxLaunchAngleDeg >= 90 {
		return fmt.Errorf("config: launch angle range invalid: [%g, %g]", c.MinLaunchAngleDeg, c.MaxLaunchAngleDeg)
	}
	if c.PaddleHeightFraction <= 0 || c.PaddleHeightFraction >= 1 {
		return fmt.Errorf("config: PaddleHeightFraction must be in (0, 1), got %g", c.PaddleHeightFraction)
	}
	if c.PaddleWidthFraction <= 0 || c.PaddleWidthFraction >= 0.5 {
		return fmt.Errorf("config: PaddleWidthFraction must be in (0, 0.5), got %g", c.PaddleWidthFraction)
	}
	if c.PaddleSecondsToCross <= 0 {
		return fmt.Errorf("config: PaddleSecondsToCross must be positive, got %g", c.PaddleSecondsToCross)
	}
	if c.EdgeZoneFraction < 0 || c.EdgeZoneFraction > 0.5 {
		return fmt.Errorf("config: EdgeZoneFraction must be in [0, 0.5], got %g", c.EdgeZoneFraction)
	}
	if c.MinVerticalFraction < 0 || c.MinVerticalFraction >= 1 {
		return fmt.Errorf("config: MinVerticalFraction must be in [0, 1), got %g", c.MinVerticalFraction)
	}
	if c.MaxPredictionBounces < 1 {
		return fmt.Errorf("config: MaxPredictionBounces must be at least 1, got %d", c.MaxPredictionBounces)
	}
	if c.AIReactionSeconds < 0 || c.AIGraceSeconds < 0 {
		return fmt.Errorf("config: AI timings must not be negative: reaction %g, grace %g", c.AIReactionSeconds, c.AIGraceSeconds)
	}
	if c.CountdownSeconds < 0 || c.GoalFreezeSeconds < 0 {
		return fmt.Errorf("config: match timings must not be negative: countdown %g, freeze %g", c.CountdownSeconds, c.GoalFreezeSeconds)
	}
	return nil
}
