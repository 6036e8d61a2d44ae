package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/engine"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 240
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type point struct{ x, y int }

// Model drives the engine in wall time and renders a top-down view of
// the body set onto a braille canvas.
type Model struct {
	eng           *engine.Engine
	scenario      string
	canvas        *Canvas
	trails        map[string][]point
	energyHistory []float64
	initialEnergy float64
	samples       int
	zoom          float64
	simDays       float64
}

func NewModel(eng *engine.Engine, scenario string) Model {
	return Model{
		eng:           eng,
		scenario:      scenario,
		canvas:        NewCanvas(width, height),
		trails:        make(map[string][]point),
		energyHistory: make([]float64, 0, historyCapacity),
		zoom:          1.0,
	}
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
			m.eng.SetPaused(!m.eng.Paused())
		case "+", "=":
			m.eng.SetTimeScale(m.eng.TimeScale() * 2)
		case "-", "_":
			scale := m.eng.TimeScale() / 2
			if scale < 1.0/64 {
				scale = 1.0 / 64
			}
			m.eng.SetTimeScale(scale)
		case "]":
			m.eng.SetTheta(m.eng.Theta() + 0.05)
		case "[":
			theta := m.eng.Theta() - 0.05
			if theta < 0 {
				theta = 0
			}
			m.eng.SetTheta(theta)
		case "z":
			m.zoom *= 1.25
		case "Z":
			m.zoom /= 1.25
		}
	case TickMsg:
		if !m.eng.Paused() {
			m.simDays += m.eng.TimeScale() / 30
		}
		m.eng.Tick(time.Time(msg))
		m.observe()
		m.draw()
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) observe() {
	energy := m.eng.Energy()
	if m.samples == 0 {
		m.initialEnergy = energy
	}
	m.samples++
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// draw fits the body set into the canvas: centered on the barycenter,
// scaled so the farthest body sits near the edge at zoom 1.
func (m *Model) draw() {
	m.canvas.Clear()

	bodies := m.eng.Bodies()
	if len(bodies) == 0 {
		return
	}

	var center r3.Vec
	var mass float64
	for _, b := range bodies {
		center = center.Add(b.Pos.Scale(b.Mass))
		mass += b.Mass
	}
	if mass > 0 {
		center = center.Scale(1 / mass)
	}

	radius := 0.0
	for _, b := range bodies {
		if d := r3.Norm(b.Pos.Sub(center)); d > radius {
			radius = d
		}
	}
	if radius == 0 {
		radius = 1
	}

	cw, ch := width*2, height*4
	scale := float64(min(cw, ch)) / 2 * 0.9 / radius * m.zoom

	for _, b := range bodies {
		rel := b.Pos.Sub(center)
		px := cw/2 + int(rel.X*scale)
		py := ch/2 - int(rel.Y*scale)

		trail := append(m.trails[b.ID], point{px, py})
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[b.ID] = trail

		for _, pt := range trail {
			m.canvas.Set(pt.x, pt.y)
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				m.canvas.Set(px+dx, py+dy)
			}
		}
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := "RUNNING"
	if m.eng.Paused() {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Sim time") + valueStyle.Render(formatDays(m.simDays)) + "\n")
	s.WriteString(labelStyle.Render("Time scale") + valueStyle.Render(fmt.Sprintf("%.4g d/s", m.eng.TimeScale())) + "\n")
	s.WriteString(labelStyle.Render("Theta") + valueStyle.Render(fmt.Sprintf("%.2f", m.eng.Theta())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.eng.BodyCount())) + "\n")
	s.WriteString(labelStyle.Render("Tree nodes") + valueStyle.Render(fmt.Sprintf("%d", m.eng.TreeNodes())) + "\n")
	s.WriteString(labelStyle.Render("Substeps") + valueStyle.Render(fmt.Sprintf("%d", m.eng.LastSubsteps())) + "\n")

	evaluator := "barnes-hut"
	if m.eng.UsedFallback() {
		evaluator = "direct"
	}
	s.WriteString(labelStyle.Render("Evaluator") + valueStyle.Render(evaluator) + "\n")

	drift := 0.0
	if m.samples > 0 && m.initialEnergy != 0 {
		last := m.energyHistory[len(m.energyHistory)-1]
		drift = math.Abs(last-m.initialEnergy) / math.Abs(m.initialEnergy)
	}
	s.WriteString(labelStyle.Render("E drift") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause +/-:Speed [ ]:Theta\nZ/z:Zoom Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func formatDays(d float64) string {
	if d >= 365 {
		return fmt.Sprintf("%.2f y", d/365)
	}
	return fmt.Sprintf("%.2f d", d)
}
