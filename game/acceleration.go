// File: game/acceleration.go
package game

import "github.com/lguibr/duelpong/utils"

// Acceleration is the speed escalation policy: every collision bumps the
// speed multiplier by a fixed rate, clamped to the configured ceiling.
type Acceleration struct {
	Rate    float64
	Initial float64
	Max     float64
}

func NewAcceleration(cfg utils.Config) Acceleration {
	return Acceleration{
		Rate:    cfg.AccelerationRate,
		Initial: cfg.InitialMultiplier,
		Max:     cfg.MaxMultiplier,
	}
}

// OnCollision returns the multiplier after one collision.
func (a Acceleration) OnCollision(multiplier float64) float64 {
	next := multiplier + a.Rate
	if next > a.Max {
		next = a.Max
	}
	return next
}
