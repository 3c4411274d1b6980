package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/chutesim/internal/sim"
)

const (
	replayFPS     = 30
	replayFrames  = 20 * replayFPS // full run at 1x
	maxReplaySpan = 64
	canvasWidth   = 60
	canvasHeight  = 16
)

type TickMsg time.Time

// ReplayModel plays a finished run back, advancing a play head over the
// stored samples.
type ReplayModel struct {
	title       string
	series      *sim.TimeSeries
	deployments []sim.Deployment
	xs          []float64
	xLabel      string
	frame       Frame
	head        int
	step        int
	speed       int
	paused      bool
	done        bool
}

func NewReplayModel(title string, ts *sim.TimeSeries, deployments []sim.Deployment) ReplayModel {
	xs, label := ProfileAxes(ts)
	step := ts.Len() / replayFrames
	if step < 1 {
		step = 1
	}
	return ReplayModel{
		title:       title,
		series:      ts,
		deployments: deployments,
		xs:          xs,
		xLabel:      label,
		frame:       FrameOf(xs, ts.Altitude),
		step:        step,
		speed:       1,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/replayFPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m ReplayModel) Init() tea.Cmd {
	return tick()
}

func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			if m.speed < maxReplaySpan {
				m.speed *= 2
			}
		case "-", "_":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "r":
			m.head = 0
			m.done = false
			m.paused = false
		}
	case TickMsg:
		m.advance()
		return m, tick()
	}
	return m, nil
}

func (m *ReplayModel) advance() {
	if m.paused || m.done {
		return
	}
	last := m.series.Len() - 1
	m.head += m.step * m.speed
	if m.head >= last {
		m.head = max(last, 0)
		m.done = true
	}
}

// Head returns the index of the sample on screen.
func (m ReplayModel) Head() int { return m.head }

func (m ReplayModel) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n\n")

	n := m.series.Len()
	if n == 0 {
		s.WriteString(Subtle.Render("no samples") + "\n")
		s.WriteString(KeyHint.Render("q quit") + "\n")
		return s.String()
	}

	status := StatusOK.Render("PLAYING")
	switch {
	case m.done:
		status = StatusOK.Render("LANDED")
		if m.series.Altitude[m.head] > 0 {
			status = StatusWarn.Render("ENDED ALOFT")
		}
	case m.paused:
		status = StatusWarn.Render("PAUSED")
	}
	fmt.Fprintf(&s, "%s  %dx\n", status, m.speed)
	s.WriteString(ProgressBar(float64(m.head)/float64(max(n-1, 1)), canvasWidth) + "\n\n")

	c := NewCanvas(canvasWidth, canvasHeight)
	c.Polyline(m.frame, m.xs, m.series.Altitude, m.head+1)
	snap := m.series.At(m.head)
	for _, d := range m.deployments {
		if d.Time <= snap.Time {
			if i := indexAtTime(m.series, d.Time); i >= 0 {
				c.Marker(m.frame, m.xs[i], m.series.Altitude[i])
			}
		}
	}
	s.WriteString(Panel.Render(c.String()) + "\n")

	row := func(label, value string) {
		fmt.Fprintf(&s, "%s %s\n", MetricLabel.Render(fmt.Sprintf("%-12s", label)), MetricValue.Render(value))
	}
	row("time", fmt.Sprintf("%.1f s", snap.Time))
	row("altitude", fmt.Sprintf("%.1f m", snap.Altitude))
	row("velocity", fmt.Sprintf("%.2f m/s", snap.Velocity))
	row("drag", fmt.Sprintf("%.0f N", snap.TotalDrag))
	row(m.xLabel, fmt.Sprintf("%.1f", m.xs[m.head]))

	var open []string
	for _, d := range m.deployments {
		if d.Time <= snap.Time {
			open = append(open, PhaseStyle(d.Phase).Render(d.Phase.Key()))
		}
	}
	if len(open) == 0 {
		open = append(open, Subtle.Render("none"))
	}
	fmt.Fprintf(&s, "%s %s\n\n", MetricLabel.Render(fmt.Sprintf("%-12s", "canopies")), strings.Join(open, " "))

	s.WriteString(KeyHint.Render("space pause • +/- speed • r restart • q quit") + "\n")
	return s.String()
}
