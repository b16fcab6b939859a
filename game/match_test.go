// File: game/match_test.go
package game

import (
	"math"
	"testing"

	"github.com/lguibr/duelpong/utils"
)

func mustMatch(t *testing.T) *Match {
	t.Helper()
	match, err := NewMatch(testConfig())
	if err != nil {
		t.Fatalf("NewMatch failed: %v", err)
	}
	return match
}

func TestNewMatch(t *testing.T) {
	match := mustMatch(t)

	if match.State != StateCountdown {
		t.Errorf("Expected a new match in countdown, but got %q", match.State)
	}
	for seat, player := range match.Players {
		if player.Mode != ModeBackground {
			t.Errorf("Expected seat %d to start in background mode, but got %q", seat, player.Mode)
		}
	}
	if match.Ball.Vel.X != 0 || match.Ball.Vel.Y != 0 {
		t.Error("Expected the ball at rest before the first launch")
	}
}

func TestNewMatch_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.CanvasWidth = -1
	if _, err := NewMatch(cfg); err == nil {
		t.Error("Expected an error for an invalid config, but got none")
	}
}

func TestMatch_CountdownLaunches(t *testing.T) {
	cfg := testConfig()
	match := mustMatch(t)

	events := match.Advance(cfg.CountdownSeconds + 0.1)

	if match.State != StatePlaying {
		t.Fatalf("Expected playing after the countdown, but got %q", match.State)
	}
	var launched bool
	for _, event := range events {
		if _, ok := event.(LaunchEvent); ok {
			launched = true
		}
	}
	if !launched {
		t.Error("Expected a launch event when the countdown expires")
	}
	if math.Abs(match.Ball.Vel.Magnitude()-match.Ball.CurrentSpeed()) > 1e-9 {
		t.Errorf("Expected the ball served at %g, but got %g", match.Ball.CurrentSpeed(), match.Ball.Vel.Magnitude())
	}
}

func TestMatch_GoalRestartsPoint(t *testing.T) {
	cfg := testConfig()
	match := mustMatch(t)
	match.Advance(cfg.CountdownSeconds + 0.1)

	// Aim the ball at the left border from point blank, above the paddle so
	// the shot cannot be saved.
	match.Ball.Pos = utils.Vec2{X: match.Ball.Radius + 1, Y: 100}
	match.Ball.Prev = match.Ball.Pos
	match.Ball.Vel = utils.Vec2{X: -200, Y: 0}

	var goal *GoalEvent
	for i := 0; i < 10 && goal == nil; i++ {
		for _, event := range match.Advance(1.0 / 60) {
			if g, ok := event.(GoalEvent); ok {
				goal = &g
				break
			}
		}
	}

	if goal == nil {
		t.Fatal("Expected a goal event")
	}
	if goal.ScorerSeat != SeatRight || goal.ConcederSeat != SeatLeft {
		t.Errorf("Expected the right seat to score, but got scorer %d conceder %d", goal.ScorerSeat, goal.ConcederSeat)
	}
	if match.State != StateCountdown {
		t.Errorf("Expected a countdown after the goal, but got %q", match.State)
	}
	if match.Ball.Vel.X != 0 || match.Ball.Vel.Y != 0 {
		t.Error("Expected the ball at rest during the countdown")
	}
	cx, cy := match.Canvas.Center()
	if match.Ball.Pos.X != cx || match.Ball.Pos.Y != cy {
		t.Errorf("Expected the ball recentered at (%g, %g), but got (%g, %g)", cx, cy, match.Ball.Pos.X, match.Ball.Pos.Y)
	}
	for seat, player := range match.Players {
		if player.FreezeLeft <= 0 {
			t.Errorf("Expected seat %d frozen after the goal", seat)
		}
	}
}

func TestMatch_BallStaysInField(t *testing.T) {
	cfg := testConfig()
	match := mustMatch(t)
	match.Advance(cfg.CountdownSeconds + 0.1)

	// Run a few simulated seconds; the ball must stay vertically inside the
	// field the whole time.
	for i := 0; i < 600; i++ {
		match.Advance(1.0 / 60)
		ball := match.Ball
		if ball.Destroyed {
			continue
		}
		if ball.Pos.Y-ball.Radius < -1e-6 || ball.Pos.Y+ball.Radius > match.Canvas.Height+1e-6 {
			t.Fatalf("Frame %d: ball escaped vertically at y=%g", i, ball.Pos.Y)
		}
	}
}

func TestMatch_Stop(t *testing.T) {
	match := mustMatch(t)
	match.Stop()

	if match.State != StateStopped {
		t.Errorf("Expected stopped state, but got %q", match.State)
	}
	if events := match.Advance(1); events != nil {
		t.Errorf("Expected no events from a stopped match, but got %d", len(events))
	}
}

func TestMatch_SetKeyValidation(t *testing.T) {
	match := mustMatch(t)

	if err := match.SetKey(SeatLeft, "up", true); err != nil {
		t.Errorf("Expected 'up' accepted, but got %v", err)
	}
	if err := match.SetKey(SeatLeft, "jump", true); err == nil {
		t.Error("Expected an unknown key rejected")
	}
	if err := match.SetKey(5, "up", true); err == nil {
		t.Error("Expected an invalid seat rejected")
	}
	if !match.Players[SeatLeft].Keys.Up {
		t.Error("Expected the up key flag set")
	}
}

func TestMatch_SetModeClearsKeys(t *testing.T) {
	match := mustMatch(t)
	if err := match.SetKey(SeatLeft, "down", true); err != nil {
		t.Fatalf("SetKey failed: %v", err)
	}

	if err := match.SetMode(SeatLeft, ModeAI); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}

	player := match.Players[SeatLeft]
	if player.Mode != ModeAI {
		t.Errorf("Expected AI mode, but got %q", player.Mode)
	}
	if player.Keys.Up || player.Keys.Down {
		t.Error("Expected key flags cleared on mode change")
	}
	if player.HasPrediction {
		t.Error("Expected the forecast invalidated on mode change")
	}
}

func TestMatch_SnapshotRestore(t *testing.T) {
	cfg := testConfig()
	match := mustMatch(t)
	match.Advance(cfg.CountdownSeconds + 0.1)
	match.Players[SeatLeft].Score = 3
	match.Players[SeatRight].Score = 7
	match.SetMode(SeatLeft, ModeHuman)

	snapshot := match.Snapshot()

	other := mustMatch(t)
	other.Restore(snapshot)

	if other.State != StatePlaying {
		t.Errorf("Expected restored state playing, but got %q", other.State)
	}
	if other.Players[SeatLeft].Score != 3 || other.Players[SeatRight].Score != 7 {
		t.Errorf("Expected scores 3-7, but got %d-%d", other.Players[SeatLeft].Score, other.Players[SeatRight].Score)
	}
	if other.Players[SeatLeft].Mode != ModeHuman {
		t.Errorf("Expected restored human mode, but got %q", other.Players[SeatLeft].Mode)
	}
	if math.Abs(other.Ball.Pos.X-match.Ball.Pos.X) > 1e-6 {
		t.Errorf("Expected restored ball x %g, but got %g", match.Ball.Pos.X, other.Ball.Pos.X)
	}
}

func TestMatch_Resize(t *testing.T) {
	cfg := testConfig()
	match := mustMatch(t)
	match.Ball.Pos = utils.Vec2{X: 200, Y: 150}
	match.Players[SeatLeft].Paddle.Y = 150

	if err := match.Resize(1600, 1200); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	if math.Abs(match.Ball.Pos.X-400) > 1e-9 || math.Abs(match.Ball.Pos.Y-300) > 1e-9 {
		t.Errorf("Expected ball scaled to (400, 300), but got (%g, %g)", match.Ball.Pos.X, match.Ball.Pos.Y)
	}
	if math.Abs(match.Players[SeatLeft].Paddle.Y-300) > 1e-9 {
		t.Errorf("Expected left paddle scaled to Y 300, but got %g", match.Players[SeatLeft].Paddle.Y)
	}
	if math.Abs(match.Ball.Radius-1200*cfg.BallRadiusFraction) > 1e-9 {
		t.Errorf("Expected re-derived radius %g, but got %g", 1200*cfg.BallRadiusFraction, match.Ball.Radius)
	}

	if err := match.Resize(0, 100); err == nil {
		t.Error("Expected invalid dimensions rejected")
	}
}
