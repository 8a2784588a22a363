// Package tui is the interactive terminal view behind `cgol live`.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/sim"
)

const chartWindow = 60

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusStopped = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

type TickMsg time.Time

// Options control a live session
type Options struct {
	Title          string
	FrameRate      time.Duration
	MaxGenerations int // 0 runs until quit
	StopWhenStable bool
}

// Model drives a Simulation from the bubbletea update loop
type Model struct {
	sim        *sim.Simulation
	renderer   *model.TerminalRenderer
	opts       Options
	running    bool
	finished   string
	population []float64
}

// NewModel starts a running session over s
func NewModel(s *sim.Simulation, renderer *model.TerminalRenderer, opts Options) Model {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 150 * time.Millisecond
	}
	return Model{
		sim:        s,
		renderer:   renderer,
		opts:       opts,
		running:    true,
		population: []float64{float64(s.CurrentGrid().CountLivingCells())},
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles keys and advances one generation per tick while running
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.finished == "" {
				m.running = !m.running
			}
		case "n":
			if !m.running && m.finished == "" {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sim.Step()
	m.population = append(m.population, float64(m.sim.CurrentGrid().CountLivingCells()))

	switch {
	case m.opts.MaxGenerations > 0 && m.sim.CurrentGeneration() >= m.opts.MaxGenerations:
		m.finished = fmt.Sprintf("reached %d generations", m.opts.MaxGenerations)
	case m.opts.StopWhenStable && m.sim.IsExtinct():
		m.finished = "extinct"
	case m.opts.StopWhenStable && m.sim.IsStagnant():
		m.finished = "stagnant"
	}
	if m.finished != "" {
		m.running = false
	}
}

// Generation reports the generation currently shown
func (m Model) Generation() int {
	return m.sim.CurrentGeneration()
}

// Running reports whether ticks advance the simulation
func (m Model) Running() bool {
	return m.running
}

// Finished returns why the session stopped, or "" while it can still advance
func (m Model) Finished() string {
	return m.finished
}

func (m Model) View() string {
	var s strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "game of life"
	}
	s.WriteString(headerStyle.Render(strings.ToUpper(title)) + "\n")

	switch {
	case m.finished != "":
		s.WriteString(statusStopped.Render("STOPPED: "+m.finished) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	grid := m.sim.CurrentGrid()
	s.WriteString(m.renderer.Render(grid) + "\n")

	width, height := grid.Dimensions()
	s.WriteString(labelStyle.Render("Generation") + valueStyle.Render(fmt.Sprintf("%d", m.sim.CurrentGeneration())) + "\n")
	s.WriteString(labelStyle.Render("Living") + valueStyle.Render(fmt.Sprintf("%d / %d", grid.CountLivingCells(), width*height)) + "\n")

	if len(m.population) > 1 {
		data := m.population[max(0, len(m.population)-chartWindow):]
		chart := asciigraph.Plot(data, asciigraph.Height(4), asciigraph.Width(40), asciigraph.Caption("Population"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause • n step • q quit"))
	return s.String()
}

// Run shows the live view until the user quits
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
