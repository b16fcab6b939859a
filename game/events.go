// File: game/events.go
package game

// Events produced by Match.Advance, in the order they occurred. Collaborators
// consume them to award points, persist goals or drive presentation.

// Event is one of the concrete event types declared in this file.
type Event interface{}

// WallBounceEvent reports a bounce off the top or bottom wall.
type WallBounceEvent struct {
	Wall Face `json:"wall"`
}

// PaddleHitEvent reports the ball striking a paddle.
type PaddleHitEvent struct {
	Seat int `json:"seat"`
}

// GoalEvent reports the ball leaving the field through a vertical border.
// HitLeftBorder names the conceding side; the opposite seat scores.
type GoalEvent struct {
	HitLeftBorder bool `json:"hitLeftBorder"`
	ScorerSeat    int  `json:"scorerSeat"`
	ConcederSeat  int  `json:"concederSeat"`
}

// LaunchEvent reports a fresh serve.
type LaunchEvent struct{}
