// File: game/player.go
package game

import "fmt"

// ControlMode selects how a seat's paddle is driven.
type ControlMode string

const (
	ModeHuman      ControlMode = "human"
	ModeAI         ControlMode = "ai"
	ModeBackground ControlMode = "background"
)

// KeyState holds the two independent key flags for a human seat.
type KeyState struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

// Player wraps one paddle with its control mode, score and, for AI control,
// the latest trajectory forecast.
type Player struct {
	Seat   int         `json:"seat"`
	Paddle *Paddle     `json:"paddle"`
	Mode   ControlMode `json:"mode"`
	Score  int32       `json:"score"`
	Keys   KeyState    `json:"keys"`

	Prediction    Prediction `json:"prediction"`
	HasPrediction bool       `json:"hasPrediction"`

	// FreezeLeft is a countdown during which the paddle holds still,
	// independent of control mode. Used for the post-goal pause.
	FreezeLeft float64 `json:"freezeLeft"`

	predictionAge float64 // Simulated seconds since the last forecast
}

func NewPlayer(seat int, paddle *Paddle, mode ControlMode) (*Player, error) {
	if paddle == nil {
		return nil, fmt.Errorf("player %d requires a paddle", seat)
	}
	return &Player{Seat: seat, Paddle: paddle, Mode: mode}, nil
}

// Freeze holds the paddle still for the given number of seconds.
func (p *Player) Freeze(seconds float64) {
	p.FreezeLeft = seconds
}

// InvalidatePrediction forces a fresh forecast on the next AI resolution,
// bypassing the reaction-delay throttle.
func (p *Player) InvalidatePrediction() {
	p.HasPrediction = false
	p.predictionAge = 0
}
