// File: game/ball_test.go
package game

import (
	"math"
	"testing"

	"github.com/lguibr/duelpong/utils"
)

func testConfig() utils.Config {
	return utils.DefaultConfig()
}

func mustCanvas(t *testing.T, width, height float64) *Canvas {
	t.Helper()
	canvas, err := NewCanvas(width, height)
	if err != nil {
		t.Fatalf("NewCanvas(%g, %g) failed: %v", width, height, err)
	}
	return canvas
}

func mustBall(t *testing.T, cfg utils.Config, canvas *Canvas) *Ball {
	t.Helper()
	ball, err := NewBall(cfg, canvas)
	if err != nil {
		t.Fatalf("NewBall failed: %v", err)
	}
	return ball
}

func TestNewBall(t *testing.T) {
	cfg := testConfig()
	canvas := mustCanvas(t, 800, 600)

	ball := mustBall(t, cfg, canvas)

	if ball.Radius != 600*cfg.BallRadiusFraction {
		t.Errorf("Expected radius %g, but got %g", 600*cfg.BallRadiusFraction, ball.Radius)
	}
	if ball.BaseSpeed != 800/cfg.BallSecondsToCross {
		t.Errorf("Expected base speed %g, but got %g", 800/cfg.BallSecondsToCross, ball.BaseSpeed)
	}
	if ball.Pos.X != 400 || ball.Pos.Y != 300 {
		t.Errorf("Expected ball centered at (400, 300), but got (%g, %g)", ball.Pos.X, ball.Pos.Y)
	}
	if ball.SpeedMultiplier != cfg.InitialMultiplier {
		t.Errorf("Expected multiplier %g, but got %g", cfg.InitialMultiplier, ball.SpeedMultiplier)
	}
}

func TestNewBall_NilCanvas(t *testing.T) {
	if _, err := NewBall(testConfig(), nil); err == nil {
		t.Error("Expected an error for a nil canvas, but got none")
	}
}

func TestBall_Move(t *testing.T) {
	ball := mustBall(t, testConfig(), mustCanvas(t, 800, 600))
	ball.Pos = utils.Vec2{X: 400, Y: 300}
	ball.Vel = utils.Vec2{X: 200, Y: 0}

	ball.Move(1.0 / 60)

	expectedX := 400 + 200.0/60
	if math.Abs(ball.Pos.X-expectedX) > 1e-9 {
		t.Errorf("Expected X %g after one step, but got %g", expectedX, ball.Pos.X)
	}
	if ball.Pos.Y != 300 {
		t.Errorf("Expected Y to stay 300, but got %g", ball.Pos.Y)
	}
	if ball.Prev.X != 400 || ball.Prev.Y != 300 {
		t.Errorf("Expected Prev (400, 300), but got (%g, %g)", ball.Prev.X, ball.Prev.Y)
	}
}

func TestBall_MoveDestroyed(t *testing.T) {
	ball := mustBall(t, testConfig(), mustCanvas(t, 800, 600))
	ball.Vel = utils.Vec2{X: 200, Y: 100}
	ball.Destroyed = true
	before := ball.Pos

	ball.Move(1.0 / 60)

	if ball.Pos != before {
		t.Errorf("Expected a destroyed ball to stay at (%g, %g), but got (%g, %g)",
			before.X, before.Y, ball.Pos.X, ball.Pos.Y)
	}
}

func TestBall_Launch(t *testing.T) {
	cfg := testConfig()
	ball := mustBall(t, cfg, mustCanvas(t, 800, 600))

	for i := 0; i < 50; i++ {
		ball.SpeedMultiplier = cfg.MaxMultiplier
		ball.Launch()

		if ball.SpeedMultiplier != cfg.InitialMultiplier {
			t.Fatalf("Launch %d: expected multiplier reset to %g, but got %g", i, cfg.InitialMultiplier, ball.SpeedMultiplier)
		}
		if ball.Pos.X != 400 || ball.Pos.Y != 300 {
			t.Fatalf("Launch %d: expected ball at center, but got (%g, %g)", i, ball.Pos.X, ball.Pos.Y)
		}

		speed := ball.Vel.Magnitude()
		if math.Abs(speed-ball.CurrentSpeed()) > 1e-9 {
			t.Fatalf("Launch %d: expected speed %g, but got %g", i, ball.CurrentSpeed(), speed)
		}

		angle := math.Abs(math.Atan2(ball.Vel.Y, math.Abs(ball.Vel.X))) * 180 / math.Pi
		if angle < cfg.MinLaunchAngleDeg-1e-9 || angle > cfg.MaxLaunchAngleDeg+1e-9 {
			t.Fatalf("Launch %d: expected angle in [%g, %g] degrees, but got %g",
				i, cfg.MinLaunchAngleDeg, cfg.MaxLaunchAngleDeg, angle)
		}
	}
}

func TestBall_Restart(t *testing.T) {
	ball := mustBall(t, testConfig(), mustCanvas(t, 800, 600))
	ball.Launch()
	ball.Destroyed = true
	ball.HitLeftBorder = true

	ball.Restart()

	if ball.Destroyed || ball.HitLeftBorder {
		t.Error("Expected Restart to clear the destroyed flags")
	}
	if ball.Vel.X != 0 || ball.Vel.Y != 0 {
		t.Errorf("Expected zero velocity after Restart, but got (%g, %g)", ball.Vel.X, ball.Vel.Y)
	}
	if ball.Pos.X != 400 || ball.Pos.Y != 300 {
		t.Errorf("Expected ball recentered, but got (%g, %g)", ball.Pos.X, ball.Pos.Y)
	}
}

func TestBall_Hit(t *testing.T) {
	cfg := testConfig()
	testCases := []struct {
		name     string
		vel      utils.Vec2
		face     Face
		wantXPos bool
		wantYPos bool
		checkX   bool
		checkY   bool
	}{
		{"left face forces negative vx", utils.Vec2{X: 150, Y: 50}, FaceLeft, false, false, true, false},
		{"right face forces positive vx", utils.Vec2{X: -150, Y: 50}, FaceRight, true, false, true, false},
		{"top face forces negative vy", utils.Vec2{X: 100, Y: 120}, FaceTop, false, false, false, true},
		{"bottom face forces positive vy", utils.Vec2{X: 100, Y: -120}, FaceBottom, false, true, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ball := mustBall(t, cfg, mustCanvas(t, 800, 600))
			ball.Vel = tc.vel

			ball.Hit(tc.face, 0)

			if tc.checkX {
				if tc.wantXPos && ball.Vel.X <= 0 {
					t.Errorf("Expected positive vx, but got %g", ball.Vel.X)
				}
				if !tc.wantXPos && ball.Vel.X >= 0 {
					t.Errorf("Expected negative vx, but got %g", ball.Vel.X)
				}
			}
			if tc.checkY {
				if tc.wantYPos && ball.Vel.Y <= 0 {
					t.Errorf("Expected positive vy, but got %g", ball.Vel.Y)
				}
				if !tc.wantYPos && ball.Vel.Y >= 0 {
					t.Errorf("Expected negative vy, but got %g", ball.Vel.Y)
				}
			}

			expectedMultiplier := cfg.InitialMultiplier + cfg.AccelerationRate
			if math.Abs(ball.SpeedMultiplier-expectedMultiplier) > 1e-9 {
				t.Errorf("Expected multiplier %g after hit, but got %g", expectedMultiplier, ball.SpeedMultiplier)
			}
			if math.Abs(ball.Vel.Magnitude()-ball.CurrentSpeed()) > 1e-9 {
				t.Errorf("Expected speed %g after hit, but got %g", ball.CurrentSpeed(), ball.Vel.Magnitude())
			}
		})
	}
}

func TestBall_AccelerateCapsAtMax(t *testing.T) {
	cfg := testConfig()
	ball := mustBall(t, cfg, mustCanvas(t, 800, 600))
	ball.Vel = utils.Vec2{X: 1, Y: 0}

	for i := 0; i < 200; i++ {
		ball.Accelerate()
	}

	if ball.SpeedMultiplier != cfg.MaxMultiplier {
		t.Errorf("Expected multiplier capped at %g, but got %g", cfg.MaxMultiplier, ball.SpeedMultiplier)
	}
	if math.Abs(ball.Vel.Magnitude()-ball.BaseSpeed*cfg.MaxMultiplier) > 1e-9 {
		t.Errorf("Expected speed %g at the cap, but got %g", ball.BaseSpeed*cfg.MaxMultiplier, ball.Vel.Magnitude())
	}
}

func TestBall_EnforceMinSpeed(t *testing.T) {
	cfg := testConfig()
	ball := mustBall(t, cfg, mustCanvas(t, 800, 600))

	ball.Vel = utils.Vec2{X: cfg.MinBallSpeed / 4, Y: 0}
	ball.EnforceMinSpeed()
	if math.Abs(ball.Vel.Magnitude()-cfg.MinBallSpeed) > 1e-9 {
		t.Errorf("Expected speed raised to %g, but got %g", cfg.MinBallSpeed, ball.Vel.Magnitude())
	}

	ball.Vel = utils.Vec2{}
	ball.EnforceMinSpeed()
	if ball.Vel.X != 0 || ball.Vel.Y != 0 {
		t.Errorf("Expected a stationary ball to stay stationary, but got (%g, %g)", ball.Vel.X, ball.Vel.Y)
	}
}

func TestBall_StepDeterminism(t *testing.T) {
	cfg := testConfig()

	// Two balls fed the identical fixed-step sequence must land on exactly
	// the same state.
	a := mustBall(t, cfg, mustCanvas(t, 800, 600))
	b := mustBall(t, cfg, mustCanvas(t, 800, 600))
	start := utils.Vec2{X: 123.4, Y: 456.7}
	vel := utils.Vec2{X: 60, Y: -200}
	a.Pos, a.Vel = start, vel
	b.Pos, b.Vel = start, vel

	dt := cfg.PhysicsStepMs / 1000
	for i := 0; i < 500; i++ {
		a.Move(dt)
		ResolveWalls(a)
		b.Move(dt)
		ResolveWalls(b)
	}

	if a.Pos != b.Pos || a.Vel != b.Vel || a.SpeedMultiplier != b.SpeedMultiplier {
		t.Errorf("Expected identical trajectories, but got pos (%g,%g) vs (%g,%g)",
			a.Pos.X, a.Pos.Y, b.Pos.X, b.Pos.Y)
	}
}

func TestBall_SnapshotRoundTrip(t *testing.T) {
	cfg := testConfig()
	canvas := mustCanvas(t, 800, 600)
	ball := mustBall(t, cfg, canvas)
	ball.Pos = utils.Vec2{X: 200, Y: 450}
	ball.Vel = utils.Vec2{X: -120, Y: 160}
	ball.SpeedMultiplier = 1.4

	snapshot := ball.Snapshot()
	ball.RestoreSnapshot(snapshot)

	if math.Abs(ball.Pos.X-200) > 1e-9 || math.Abs(ball.Pos.Y-450) > 1e-9 {
		t.Errorf("Expected position (200, 450) after round trip, but got (%g, %g)", ball.Pos.X, ball.Pos.Y)
	}
	if math.Abs(ball.SpeedMultiplier-1.4) > 1e-9 {
		t.Errorf("Expected multiplier 1.4 after round trip, but got %g", ball.SpeedMultiplier)
	}
	if math.Abs(ball.Vel.Magnitude()-ball.CurrentSpeed()) > 1e-9 {
		t.Errorf("Expected restored speed %g, but got %g", ball.CurrentSpeed(), ball.Vel.Magnitude())
	}
	dir := ball.Vel.Normalize()
	expected := utils.Vec2{X: -120, Y: 160}.Normalize()
	if math.Abs(dir.X-expected.X) > 1e-9 || math.Abs(dir.Y-expected.Y) > 1e-9 {
		t.Errorf("Expected direction (%g, %g), but got (%g, %g)", expected.X, expected.Y, dir.X, dir.Y)
	}
}

func TestBall_ResizePreservesFractions(t *testing.T) {
	cfg := testConfig()
	canvas := mustCanvas(t, 800, 600)
	ball := mustBall(t, cfg, canvas)
	ball.Pos = utils.Vec2{X: 200, Y: 150} // Quarter of the field on both axes
	ball.Vel = utils.Vec2{X: 200, Y: 0}

	if err := ball.Resize(mustCanvas(t, 1600, 1200)); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	if math.Abs(ball.Pos.X-400) > 1e-9 || math.Abs(ball.Pos.Y-300) > 1e-9 {
		t.Errorf("Expected scaled position (400, 300), but got (%g, %g)", ball.Pos.X, ball.Pos.Y)
	}
	if math.Abs(ball.Radius-1200*cfg.BallRadiusFraction) > 1e-9 {
		t.Errorf("Expected re-derived radius %g, but got %g", 1200*cfg.BallRadiusFraction, ball.Radius)
	}
	if math.Abs(ball.BaseSpeed-1600/cfg.BallSecondsToCross) > 1e-9 {
		t.Errorf("Expected re-derived base speed %g, but got %g", 1600/cfg.BallSecondsToCross, ball.BaseSpeed)
	}
	if ball.Vel.Y != 0 || ball.Vel.X <= 0 {
		t.Errorf("Expected direction preserved after resize, but got (%g, %g)", ball.Vel.X, ball.Vel.Y)
	}
}
