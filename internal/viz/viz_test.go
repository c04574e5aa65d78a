package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/rotation"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot at (1, 0)")
	}

	want := string([]rune{0x2801, 0x2880})
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	c.Clear()
	if c.IsSet(0, 0) {
		t.Error("Clear() left dots set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 2)
	c.DrawLine(0, 0, 9, 7)
	for _, p := range [][2]int{{0, 0}, {9, 7}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("endpoint %v not set", p)
		}
	}
}

func TestCameraProject(t *testing.T) {
	cam := &Camera{Elevation: 0, Zoom: 1}

	tests := []struct {
		p    r3.Vector
		x, y float64
	}{
		{r3.Vector{Y: 1}, 1, 0},
		{r3.Vector{Z: -1}, 0, 1},
		{r3.Vector{X: 1}, 0, 0},
	}
	for _, tt := range tests {
		x, y := cam.Project(tt.p)
		if math.Abs(x-tt.x) > 1e-12 || math.Abs(y-tt.y) > 1e-12 {
			t.Errorf("Project(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestRenderAttitudeYaw(t *testing.T) {
	cam := &Camera{Elevation: 0, Zoom: 1}
	level := RenderAttitude(rotation.DefaultQuaternion(), cam, 20, 10)
	turned := RenderAttitude(rotation.QuaternionFromEulerAngles(0, 0, 90, rotation.Degrees), cam, 20, 10)

	if level == turned {
		t.Error("yawing 90 degrees did not change the rendering")
	}
	if lines := strings.Split(level, "\n"); len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
}

func TestFormatPanels(t *testing.T) {
	q := rotation.QuaternionFromEulerAngles(0, 0, 90, rotation.Degrees)

	out := FormatQuaternion(q)
	for _, want := range []string{"quaternion", "+0.707107", "|q|"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatQuaternion() missing %q:\n%s", want, out)
		}
	}

	out = FormatEuler(q.AsEuler(), rotation.Degrees)
	if !strings.Contains(out, "+90.0000 deg") {
		t.Errorf("FormatEuler() missing yaw:\n%s", out)
	}

	out = FormatMatrix(q.RBI())
	if !strings.Contains(out, "det") || !strings.Contains(out, "-1.000000") {
		t.Errorf("FormatMatrix() unexpected:\n%s", out)
	}
}

func TestPlots(t *testing.T) {
	tr, err := attitude.Propagate(context.Background(), attitude.Scenario{
		Initial: rotation.DefaultQuaternion(), Rates: attitude.ConstantRate(r3.Vector{X: 0.2}),
		Dt: 0.1, Duration: 2, Renormalize: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	opts := PlotOptions{Width: 40, Height: 5}
	out := PlotEuler(tr, opts)
	for _, caption := range []string{"roll (deg)", "pitch (deg)", "yaw (deg)"} {
		if !strings.Contains(out, caption) {
			t.Errorf("PlotEuler() missing caption %q", caption)
		}
	}

	if out := PlotNormDrift(tr, opts); !strings.Contains(out, "norm drift") {
		t.Errorf("PlotNormDrift() = %q", out)
	}
	if PlotSeries(nil, "x", opts) != "" {
		t.Error("PlotSeries(nil) should be empty")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("SparklineChart(nil) = %q", got)
	}
	got := SparklineChart([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 4)
	if want := SparklineChart([]float64{4, 5, 6, 7}, 4); got != want {
		t.Errorf("SparklineChart() = %q, want the last 4 values %q", got, want)
	}
}

func TestNextTheme(t *testing.T) {
	th := Themes[0]
	for range Themes {
		th = NextTheme(th)
	}
	if th.Name != Themes[0].Name {
		t.Errorf("cycling all themes ended on %s", th.Name)
	}
	if NextTheme(Theme{Name: "unknown"}).Name != Themes[0].Name {
		t.Error("unknown theme should reset to the first")
	}
}
