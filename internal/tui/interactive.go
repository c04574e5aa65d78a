package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r3"

	"github.com/san-kum/attitude/internal/attitude"
	"github.com/san-kum/attitude/internal/integrators"
	"github.com/san-kum/attitude/internal/metrics"
	"github.com/san-kum/attitude/internal/rotation"
	"github.com/san-kum/attitude/internal/sim"
	"github.com/san-kum/attitude/internal/viz"
)

// RateStep is the body-rate change per key press, rad/s.
const RateStep = 5 * math.Pi / 180

const historyLen = 60

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the live attitude view. Keys change the body rate; each tick
// advances the kinematics by dt times speed.
type Model struct {
	initial rotation.UnitQuaternion
	state   sim.State
	rates   r3.Vector
	simTime float64
	dt      float64
	speed   float64
	paused  bool

	kin   *attitude.Kinematics
	integ *integrators.RK4
	drift *metrics.NormDrift

	history       []float64
	theme         viz.Theme
	camera        *viz.Camera
	width, height int
}

func NewModel(initial rotation.UnitQuaternion, dt float64) *Model {
	if dt <= 0 {
		dt = 0.016
	}
	return &Model{
		initial: initial,
		state:   attitude.StateOf(initial),
		dt:      dt,
		speed:   1,
		kin:     attitude.NewKinematics(),
		integ:   integrators.NewRK4(),
		drift:   metrics.NewNormDrift(),
		theme:   viz.ThemeCyberpunk,
		camera:  viz.NewCamera(),
		width:   80,
		height:  24,
	}
}

func (m *Model) Attitude() rotation.UnitQuaternion {
	q, _ := attitude.QuaternionOf(m.state)
	return q
}

func (m *Model) Rates() r3.Vector { return m.rates }
func (m *Model) Time() float64    { return m.simTime }
func (m *Model) Paused() bool     { return m.paused }

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			steps := max(int(m.speed), 1)
			for i := 0; i < steps; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.reset()
		return tea.ClearScreen
	case "d":
		m.rates.X += RateStep
	case "a":
		m.rates.X -= RateStep
	case "w":
		m.rates.Y += RateStep
	case "s":
		m.rates.Y -= RateStep
	case "l":
		m.rates.Z += RateStep
	case "j":
		m.rates.Z -= RateStep
	case "x":
		m.rates = r3.Vector{}
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 1)
	case "t":
		m.theme = viz.NextTheme(m.theme)
	}
	return nil
}

func (m *Model) reset() {
	m.state = attitude.StateOf(m.initial)
	m.rates = r3.Vector{}
	m.simTime = 0
	m.paused = false
	m.history = m.history[:0]
	m.drift.Reset()
}

func (m *Model) step() {
	u := sim.Control{m.rates.X, m.rates.Y, m.rates.Z}
	x := m.integ.Step(m.kin, m.state, u, m.simTime, m.dt)
	m.drift.Observe(x, u, m.simTime+m.dt)
	m.state = attitude.Renormalizer{}.Project(x)
	m.simTime += m.dt

	m.history = append(m.history, m.Attitude().AsEuler().Yaw()*180/math.Pi)
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m *Model) View() string {
	th := m.theme
	q := m.Attitude()
	e := q.AsEuler().AsVector(rotation.Degrees)

	status := th.Value().Render("● running")
	if m.paused {
		status = th.Warn().Render("○ paused")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s  %s  %s\n\n",
		th.Title().Render("attitude"), status,
		th.Label().Render(fmt.Sprintf("t=%.2fs  x%.0f  theme %s", m.simTime, m.speed, th.Name)))

	cw := max(m.width/2-4, 20)
	ch := max(m.height-14, 8)
	canvas := viz.NewCanvas(cw, ch)
	viz.DrawAttitude(canvas, q, m.camera)

	angles := strings.Join([]string{
		th.Label().Render("roll  ") + th.Value().Render(fmt.Sprintf("%+8.2f°", e[0])),
		th.Label().Render("pitch ") + th.Value().Render(fmt.Sprintf("%+8.2f°", e[1])),
		th.Label().Render("yaw   ") + th.Value().Render(fmt.Sprintf("%+8.2f°", e[2])),
		"",
		th.Label().Render("p q r ") + th.Value().Render(fmt.Sprintf("%+.1f %+.1f %+.1f °/s",
			m.rates.X*180/math.Pi, m.rates.Y*180/math.Pi, m.rates.Z*180/math.Pi)),
		"",
		th.Label().Render("q     ") + th.Value().Render(fmt.Sprintf("%+.4f %+.4f %+.4f %+.4f", q.W(), q.X(), q.Y(), q.Z())),
		th.Label().Render("drift ") + th.Value().Render(fmt.Sprintf("%.2e", m.drift.Value())),
		"",
		th.Label().Render("yaw   ") + viz.SparklineChart(m.history, 30),
	}, "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		th.Panel().Render(canvas.String()),
		"  ",
		th.Panel().Render(angles),
	))
	b.WriteString("\n\n")
	b.WriteString(viz.KeyHint.Render(" a/d roll  w/s pitch  j/l yaw  x stop  space pause  r reset  +/- speed  t theme  q quit"))
	b.WriteString("\n")
	return b.String()
}

func RunInteractive(initial rotation.UnitQuaternion) error {
	p := tea.NewProgram(NewModel(initial, 0.016), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
