// File: game/acceleration_test.go
package game

import (
	"math"
	"testing"
)

func TestAcceleration_OnCollision(t *testing.T) {
	cfg := testConfig()
	accel := NewAcceleration(cfg)

	multiplier := cfg.InitialMultiplier
	next := accel.OnCollision(multiplier)
	if math.Abs(next-(multiplier+cfg.AccelerationRate)) > 1e-9 {
		t.Errorf("Expected multiplier %g, but got %g", multiplier+cfg.AccelerationRate, next)
	}
	if next <= multiplier {
		t.Error("Expected the multiplier to grow on collision")
	}
}

func TestAcceleration_Cap(t *testing.T) {
	cfg := testConfig()
	accel := NewAcceleration(cfg)

	multiplier := cfg.InitialMultiplier
	for i := 0; i < 1000; i++ {
		multiplier = accel.OnCollision(multiplier)
	}
	if multiplier != cfg.MaxMultiplier {
		t.Errorf("Expected multiplier capped at %g, but got %g", cfg.MaxMultiplier, multiplier)
	}

	if accel.OnCollision(cfg.MaxMultiplier) != cfg.MaxMultiplier {
		t.Error("Expected the cap to hold at the ceiling")
	}
}
