package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/galaxysim/internal/sim"
)

const historyCapacity = 120

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	runStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
)

type TickMsg time.Time

// Live advances the simulator one frame per tick while running.
type Live struct {
	sim       *sim.Simulator
	canvas    *Canvas
	interval  time.Duration
	running   bool
	energy    []float64
	lastFrame time.Time
	fps       float64
	err       error
}

func NewLive(s *sim.Simulator, width, height int) Live {
	fps := s.Config().Render.FPS
	m := Live{
		sim:      s,
		canvas:   NewCanvas(width, height),
		interval: time.Second / time.Duration(fps),
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
	}
	m.canvas.Draw(s.Frame())
	return m
}

// Err is the simulation error that stopped the program, if any.
func (m Live) Err() error { return m.err }

func (m Live) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Init() tea.Cmd {
	return m.tick()
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		}
	case TickMsg:
		if !m.running {
			return m, m.tick()
		}
		m.step(time.Time(msg))
		if m.err != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Live) step(now time.Time) {
	frame, err := m.sim.Advance()
	if err != nil {
		m.err = err
		return
	}

	m.canvas.Clear()
	m.canvas.Draw(frame)

	m.energy = append(m.energy, m.sim.Store().KineticEnergy())
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}

	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
			m.fps = 0.9*m.fps + 0.1/dt
		}
	}
	m.lastFrame = now
}

func (m Live) View() string {
	cfg := m.sim.Config()
	info := m.sim.Info()

	var s strings.Builder
	s.WriteString(headerStyle.Render("GALAXY MERGER") + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("FAILED") + "\n" + m.err.Error() + "\n\n")
	case m.running:
		s.WriteString(runStyle.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", info.Frame))
	row("Steps", fmt.Sprintf("%d", info.Steps))
	row("Time", fmt.Sprintf("%.3f", info.Time))
	row("Particles", fmt.Sprintf("%d", cfg.Particles))
	row("Galaxies", fmt.Sprintf("%d", cfg.Galaxies))
	row("Backend", m.sim.BackendName())
	row("FPS", fmt.Sprintf("%.1f", m.fps))
	if len(m.energy) > 0 {
		row("Kinetic", fmt.Sprintf("%.5f", m.energy[len(m.energy)-1]))
	}
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(5), asciigraph.Width(28), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SPACE:Pause  Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.Render()), statsStyle.Render(s.String()))
}
