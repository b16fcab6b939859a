// File: render/scene.go
package render

// RGBPixel is one pixel of a rendered frame.
type RGBPixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, Width, Height int
}

// Circle is a filled circle in canvas pixels.
type Circle struct {
	X, Y, Radius int
}

// Scene is the drawable geometry of one match frame.
type Scene struct {
	Width, Height int
	Ball          Circle
	BallVisible   bool
	Paddles       [2]Rect
}

var (
	paddleColor  = RGBPixel{R: 0, G: 255, B: 0}
	ballColor    = RGBPixel{R: 0, G: 0, B: 255}
	midlineColor = RGBPixel{R: 64, G: 64, B: 64}
)

// DrawScene rasterizes a scene onto an RGB pixel grid indexed [y][x].
func DrawScene(scene Scene) [][]RGBPixel {
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil
	}

	grid := make([][]RGBPixel, scene.Height)
	for y := range grid {
		grid[y] = make([]RGBPixel, scene.Width)
	}

	// Center line, dashed.
	midX := scene.Width / 2
	for y := 0; y < scene.Height; y++ {
		if (y/8)%2 == 0 {
			grid[y][midX] = midlineColor
		}
	}

	for _, paddle := range scene.Paddles {
		drawRect(grid, paddle, paddleColor)
	}

	if scene.BallVisible {
		drawCircle(grid, scene.Ball, ballColor)
	}

	return grid
}

func drawRect(grid [][]RGBPixel, rect Rect, color RGBPixel) {
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		if y < 0 || y >= len(grid) {
			continue
		}
		for x := rect.X; x < rect.X+rect.Width; x++ {
			if x < 0 || x >= len(grid[y]) {
				continue
			}
			grid[y][x] = color
		}
	}
}

func drawCircle(grid [][]RGBPixel, circle Circle, color RGBPixel) {
	for y := circle.Y - circle.Radius; y <= circle.Y+circle.Radius; y++ {
		if y < 0 || y >= len(grid) {
			continue
		}
		for x := circle.X - circle.Radius; x <= circle.X+circle.Radius; x++ {
			if x < 0 || x >= len(grid[y]) {
				continue
			}
			dx, dy := x-circle.X, y-circle.Y
			if dx*dx+dy*dy <= circle.Radius*circle.Radius {
				grid[y][x] = color
			}
		}
	}
}
