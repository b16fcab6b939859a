// File: game/canvas.go
package game

import "fmt"

// Canvas is the play field the simulation runs on. Sizes are float canvas
// units so the physics stays resolution independent.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func NewCanvas(width, height float64) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %gx%g", width, height)
	}
	return &Canvas{Width: width, Height: height}, nil
}

func (c *Canvas) Center() (x, y float64) {
	return c.Width / 2, c.Height / 2
}
