package viz

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/rotation"
)

// Edge is a segment in body axes (x forward, y right, z down).
type Edge struct {
	Start, End r3.Vector
}

// Airframe is a stick aircraft about one unit long.
var Airframe = []Edge{
	{r3.Vector{X: -1}, r3.Vector{X: 1.2}},
	{r3.Vector{X: 0.1, Y: -1.2}, r3.Vector{X: 0.1, Y: 1.2}},
	{r3.Vector{X: -1, Y: -0.45}, r3.Vector{X: -1, Y: 0.45}},
	{r3.Vector{X: -1}, r3.Vector{X: -1, Z: -0.5}},
}

// Camera looks north from behind the origin, tilted down by Elevation
// radians. Projection is orthographic.
type Camera struct {
	Elevation float64
	Zoom      float64
}

func NewCamera() *Camera {
	return &Camera{Elevation: math.Pi / 9, Zoom: 1}
}

// Project maps a NED point to screen coordinates: x to the right (east),
// y up.
func (c *Camera) Project(p r3.Vector) (float64, float64) {
	s, co := math.Sincos(c.Elevation)
	return p.Y * c.Zoom, (p.X*s - p.Z*co) * c.Zoom
}

// RenderAttitude draws Airframe rotated into the inertial frame by q.
func RenderAttitude(q rotation.UnitQuaternion, cam *Camera, width, height int) string {
	c := NewCanvas(width, height)
	DrawAttitude(c, q, cam)
	return c.String()
}

func DrawAttitude(c *Canvas, q rotation.UnitQuaternion, cam *Camera) {
	dotsW, dotsH := float64(c.Width*2), float64(c.Height*4)
	scale := min(dotsW, dotsH) / 3
	cx, cy := dotsW/2, dotsH/2

	toDots := func(p r3.Vector) (int, int) {
		x, y := cam.Project(q.QuatRotate(p))
		return int(math.Round(cx + x*scale)), int(math.Round(cy - y*scale))
	}

	// horizon
	c.DrawLine(0, int(cy), int(dotsW)-1, int(cy))
	for _, e := range Airframe {
		x0, y0 := toDots(e.Start)
		x1, y1 := toDots(e.End)
		c.DrawLine(x0, y0, x1, y1)
	}
}
