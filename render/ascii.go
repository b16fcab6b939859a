// File: render/ascii.go
package render

import (
	"fmt"
	"math"
	"strings"
)

// ASCII characters for grayscale, from lighter to darker
const asciiChars = " .,:;i1tfLCG08@"

// Dividing factor to convert RGB color space to grayscale
const grayFactor = 255.0 / float64(len(asciiChars)-1)

// rgbToGray flattens an RGB pixel to a brightness value.
func rgbToGray(pixel RGBPixel) uint8 {
	sum := int(pixel.R) + int(pixel.G) + int(pixel.B)
	if sum > 255 {
		sum = 255
	}
	return uint8(sum)
}

// grayToAscii maps a grayscale value to an ASCII character
func grayToAscii(gray uint8) string {
	index := int(float64(gray) / grayFactor)
	if index >= len(asciiChars) {
		index = len(asciiChars) - 1
	}
	return string(asciiChars[index])
}

// rgbToAnsi converts an RGB pixel to an ANSI escape code for that color
func rgbToAnsi(pixel RGBPixel) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", pixel.R, pixel.G, pixel.B)
}

// RenderToASCII downsamples a pixel grid to a colored ASCII frame of
// roughly the given character resolution. Each sample emits two characters
// so the frame stays close to square in a terminal's tall cells.
func RenderToASCII(pixels [][]RGBPixel, resolution int) string {
	height := len(pixels)
	if height == 0 || resolution <= 0 {
		return ""
	}
	width := len(pixels[0])
	stepX := float64(width) / float64(resolution)
	stepY := float64(height) / float64(resolution)

	var ascii strings.Builder
	for y := 0.0; y < float64(height-1); y += stepY {
		for x := 0.0; x < float64(width-1); x += stepX {
			i, j := int(math.Round(x)), int(math.Round(y))
			pixel := pixels[j][i]
			char := grayToAscii(rgbToGray(pixel))
			ascii.WriteString(rgbToAnsi(pixel) + char + char + "\033[0m")
		}
		ascii.WriteString("\r\n")
	}
	return ascii.String()
}
