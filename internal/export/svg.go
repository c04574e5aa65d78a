// Package export renders attitude histories and airframe snapshots as SVG.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/viz"
)

var ErrTooShort = errors.New("export: need at least two samples")

// Series is one polyline of a chart.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// CanvasToSVG converts a braille canvas to one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	r := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ChartSVG draws series against a shared time axis. All series share one
// vertical scale padded by 10% of the range.
func ChartSVG(times []float64, series []Series, width, height int) (string, error) {
	if len(times) < 2 {
		return "", ErrTooShort
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 1) {
		minY, maxY = 0, 0
	}
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, s := range series {
		n := min(len(s.Values), len(times))
		if n < 2 {
			continue
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color)
		for j := 0; j < n; j++ {
			x := (times[j] - minX) / rangeX * float64(width)
			y := float64(height) - (s.Values[j]-minY)/rangeY*float64(height)
			if j > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, "<text x=\"8\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n",
			16*(i+1), s.Color, s.Label)
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// EulerSVG charts roll, pitch and yaw in degrees.
func EulerSVG(w io.Writer, tr *attitude.Trajectory, width, height int) error {
	roll := make([]float64, tr.Len())
	pitch := make([]float64, tr.Len())
	yaw := make([]float64, tr.Len())
	for i, e := range tr.Euler {
		roll[i], pitch[i], yaw[i] = e.Roll()*180/math.Pi, e.Pitch()*180/math.Pi, e.Yaw()*180/math.Pi
	}
	svg, err := ChartSVG(tr.Times, []Series{
		{Label: "roll (deg)", Color: "#ff5f87", Values: roll},
		{Label: "pitch (deg)", Color: "#5fd7ff", Values: pitch},
		{Label: "yaw (deg)", Color: "#d7ff5f", Values: yaw},
	}, width, height)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}
