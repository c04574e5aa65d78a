package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
	"github.com/san-kum/attitude/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws the attitude to out at most
// frameRate times per second while a run is propagating.
type LiveRenderer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	canvas    *viz.Canvas
	camera    *viz.Camera
	now       func() time.Time
}

func NewLiveRenderer(out io.Writer, name string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LiveRenderer{
		out:       out,
		name:      name,
		frameRate: frameRate,
		canvas:    viz.NewCanvas(35, 12),
		camera:    viz.NewCamera(),
		now:       time.Now,
	}
}

func (r *LiveRenderer) OnStep(x sim.State, u sim.Control, t float64) {
	now := r.now()
	if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = now

	q, norm := attitude.QuaternionOf(x)
	r.canvas.Clear()
	viz.DrawAttitude(r.canvas, q, r.camera)
	r.render(q, norm, u, t)
}

func (r *LiveRenderer) render(q rotation.UnitQuaternion, norm float64, u sim.Control, t float64) {
	e := q.AsEuler().AsVector(rotation.Degrees)

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs\n", r.name, t)
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	for _, line := range strings.Split(r.canvas.String(), "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("  " + strings.Repeat("-", r.canvas.Width) + "\n")
	fmt.Fprintf(&b, "  roll=%+.2f pitch=%+.2f yaw=%+.2f deg  |q|=%.9f\n", e[0], e[1], e[2], norm)
	if len(u) == 3 {
		fmt.Fprintf(&b, "  p=%+.3f q=%+.3f r=%+.3f rad/s\n", u[0], u[1], u[2])
	}
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
