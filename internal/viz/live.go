package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxStepsPerTick = 4096
)

type TickMsg time.Time

// Model is the Bubble Tea model for the live view. Each tick advances the
// universe by a configurable number of steps of dt.
type Model struct {
	universe      *sim.Universe
	initial       *sim.Universe
	dt            float64
	t             float64
	stepsPerFrame int
	frame         time.Duration
	scene         *Scene
	title         string
	running       bool
	validate      bool
	showHelp      bool
	energyHistory []float64
	initialEnergy float64
	err           error
}

// NewModel prepares a live view of u. The universe is stepped in place.
// With validate set the view halts at the first non-finite body; otherwise
// NaN and Inf propagate like any other state.
func NewModel(u *sim.Universe, dt float64, title string, fps int, validate bool) Model {
	if fps <= 0 {
		fps = 30
	}

	radius := u.Radius
	if radius <= 0 {
		radius = 1.1 * physics.MaxExtent(u.Bodies)
	}

	return Model{
		universe:      u,
		initial:       u.Clone(),
		dt:            dt,
		stepsPerFrame: 1,
		frame:         time.Second / time.Duration(fps),
		scene:         NewScene(width, height, radius),
		title:         title,
		running:       true,
		validate:      validate,
		energyHistory: make([]float64, 0, historyCapacity),
		initialEnergy: u.Energy(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			m.scene.Trails = !m.scene.Trails
			m.scene.Reset()
		case "l":
			m.scene.Labels = !m.scene.Labels
		case "c":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance(steps int) {
	if m.err != nil {
		return
	}
	for i := 0; i < steps; i++ {
		m.universe.Step(m.dt)
		m.t += m.dt
		if !m.validate {
			continue
		}
		if idx := m.universe.FirstInvalid(); idx >= 0 {
			m.err = &sim.SimulationError{Time: m.t, Body: m.universe.Bodies[idx].Name(), Wrapped: sim.ErrInvalidState}
			m.running = false
			break
		}
	}

	m.energyHistory = append(m.energyHistory, m.universe.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// reset restores the initial bodies.
func (m *Model) reset() {
	m.universe.Bodies = m.initial.Clone().Bodies
	m.t = 0
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.scene.Reset()
}

// Time returns the simulated time shown by the view.
func (m Model) Time() float64 { return m.t }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

func (m Model) Universe() *sim.Universe { return m.universe }

func (m Model) drift() float64 {
	if m.initialEnergy == 0 {
		return 0
	}
	return math.Abs(m.universe.Energy()-m.initialEnergy) / math.Abs(m.initialEnergy)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.scene.Begin()
	m.universe.Draw(m.scene)
	canvasView := canvasStyle.Render(m.scene.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusError.Render("HALTED") + "\n")
		s.WriteString(StatusError.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(FormatSeconds(m.t)) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%g s x%d", m.dt, m.stepsPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4e J", m.universe.Energy())) + "\n")
	s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.2e", m.drift())) + "\n")
	s.WriteString(labelStyle.Render("Radius") + valueStyle.Render(fmt.Sprintf("%.2e m", m.scene.Radius())) + "\n")

	s.WriteString("\nBODIES\n")
	for i, b := range m.universe.Bodies {
		dot := lipgloss.NewStyle().Foreground(CurrentTheme.BodyColor(i)).Render("●")
		s.WriteString(fmt.Sprintf("%s %-10s %10.3e kg\n", dot, ShortName(b.Name()), b.Mass()))
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause N:Step R:Reset\n+/-:Speed T:Trails ?:Help Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Single step when paused  ║
║  R        - Reset to initial bodies  ║
║  + / -    - Double/halve steps/frame ║
║  T        - Toggle trails            ║
║  L        - Toggle labels            ║
║  C        - Cycle color themes       ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
