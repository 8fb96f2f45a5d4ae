// Package viz renders a running simulation in the terminal.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/rteja/rodsim/internal/rod"
	"github.com/rteja/rodsim/internal/sim"
)

const historyCapacity = 600

// Scene bundles a fresh collection with the rod the view follows. Reset
// rebuilds the whole scene, so construction must be repeatable.
type Scene struct {
	Collection *sim.Collection
	Rod        *rod.CosseratRod
}

// BuildFunc constructs a finalized scene from scratch.
type BuildFunc func() (Scene, error)

type TickMsg time.Time

// Model steps the simulation a fixed number of substeps per display tick
// and charts the rod centerline and energy history.
type Model struct {
	scenario string
	build    BuildFunc
	stepper  *sim.Stepper
	dt       float64

	scene        Scene
	time         float64
	steps        int
	stepsPerTick int
	running      bool
	err          error

	energyHistory []float64
}

func NewModel(scenario string, build BuildFunc, stepper *sim.Stepper, dt float64, stepsPerTick int) (Model, error) {
	scene, err := build()
	if err != nil {
		return Model{}, err
	}
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		scenario:      scenario,
		build:         build,
		stepper:       stepper,
		dt:            dt,
		scene:         scene,
		stepsPerTick:  stepsPerTick,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick *= 2
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerTick; i++ {
		newTime, err := m.stepper.Step(m.scene.Collection, m.time, m.dt)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.time = newTime
		m.steps++
	}
	if err := m.scene.Rod.CheckFinite(); err != nil {
		m.err = err
		m.running = false
		return
	}

	energy := m.scene.Rod.TranslationalEnergy() + m.scene.Rod.RotationalEnergy()
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	scene, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.scene = scene
	m.time = 0
	m.steps = 0
	m.err = nil
	m.running = true
	m.energyHistory = m.energyHistory[:0]
}

// View renders the centerline profile beside the run statistics.
func (m Model) View() string {
	r := m.scene.Rod

	heights := make([]float64, len(r.Position))
	for i, p := range r.Position {
		heights[i] = p[1]
	}
	centerline := asciigraph.Plot(heights,
		asciigraph.Height(12), asciigraph.Width(60),
		asciigraph.Caption("centerline height (node index)"))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("FAILED: "+m.err.Error()) + "\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.Caption("Kinetic energy"))
		s.WriteString(chartStyle.Render(chart) + "\n\n")
	}

	com := r.CenterOfMass()
	vel := r.MeanVelocity()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4fs", m.time)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d (x%d/tick)", m.steps, m.stepsPerTick)) + "\n")
	s.WriteString(labelStyle.Render("CoM") + valueStyle.Render(fmt.Sprintf("%.3f %.3f %.3f", com[0], com[1], com[2])) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.4f m/s", vel.Norm())) + "\n")
	s.WriteString(labelStyle.Render("E trans") + valueStyle.Render(fmt.Sprintf("%.6f J", r.TranslationalEnergy())) + "\n")
	s.WriteString(labelStyle.Render("E rot") + valueStyle.Render(fmt.Sprintf("%.6f J", r.RotationalEnergy())) + "\n")
	s.WriteString(labelStyle.Render("E bend") + valueStyle.Render(fmt.Sprintf("%.6f J", r.BendingEnergy())) + "\n")
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit +/-:Speed"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		chartStyle.Render(centerline),
		statsStyle.Render(s.String()))
}

// Run drives the live view until the user quits.
func Run(scenario string, build BuildFunc, stepper *sim.Stepper, dt float64, stepsPerTick int) error {
	model, err := NewModel(scenario, build, stepper, dt, stepsPerTick)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model).Run()
	return err
}
