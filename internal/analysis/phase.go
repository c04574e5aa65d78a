package analysis

import (
	"strings"

	"github.com/san-kum/attitude/internal/attitude"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds one channel of a trajectory against another.
type PhasePortrait2D struct {
	XAxis, YAxis Axis
	Points       []Point
}

func GeneratePhasePortrait(tr *attitude.Trajectory, x, y Axis) *PhasePortrait2D {
	xs, ys := Channel(tr, x), Channel(tr, y)
	portrait := &PhasePortrait2D{XAxis: x, YAxis: y, Points: make([]Point, len(xs))}
	for i := range xs {
		portrait.Points[i] = Point{xs[i], ys[i]}
	}
	return portrait
}

func bounds(points []Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	pad := func(lo, hi float64) (float64, float64) {
		rng := hi - lo
		if rng == 0 {
			rng = 1
		}
		return lo - rng*0.1, hi + rng*0.1
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	return
}

// ToASCII draws the points with axes through zero when zero is in range.
func (portrait *PhasePortrait2D) ToASCII(width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := bounds(portrait.Points)
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
