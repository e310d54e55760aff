package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/metrics"
	"github.com/san-kum/accretion/internal/powerup"
	"github.com/san-kum/accretion/internal/session"
	"github.com/san-kum/accretion/internal/spawn"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	targetStep      = 40.0 // world units per keypress
	viewSpan        = 1500.0
)

var (
	canvasStyle   = lipgloss.NewStyle().Padding(1, 2)
	statsStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	gameOverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	powerUpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	collectorHue  = lipgloss.Color("255")
	pickupHue     = lipgloss.Color("226")
	orbitalHue    = lipgloss.Color("240")
)

var classHues = map[entity.Class]lipgloss.Color{
	entity.ClassCrimson:  "196",
	entity.ClassAmber:    "214",
	entity.ClassViridian: "41",
	entity.ClassAzure:    "39",
	entity.ClassViolet:   "135",
}

type TickMsg time.Time

// Model drives a live terminal view of a session: braille field on the
// left, stats on the right, arrow keys steer the collector target.
type Model struct {
	cfg     *config.Config
	seed    int64
	dt      float64
	sess    *session.Session
	driver  *spawn.Driver
	tracker *metrics.Tracker

	canvas       *Canvas
	scoreHistory []float64
	showHelp     bool
}

func NewModel(cfg *config.Config, seed int64, dt float64) (*Model, error) {
	m := &Model{
		cfg:    cfg,
		seed:   seed,
		dt:     dt,
		canvas: NewCanvas(canvasWidth, canvasHeight),
	}
	if err := m.start(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) start() error {
	m.tracker = metrics.NewTracker()
	sess, err := session.New(m.cfg, m.tracker)
	if err != nil {
		return err
	}
	sess.AddObserver(m.tracker)
	m.sess = sess
	m.driver = spawn.New(m.cfg, m.seed)
	m.driver.Prime(sess)
	m.scoreHistory = m.scoreHistory[:0]
	return nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.sess.Paused() {
				m.sess.Resume()
			} else {
				m.sess.Pause()
			}
		case "r":
			if err := m.start(); err != nil {
				return m, tea.Quit
			}
		case "up", "k":
			m.nudgeTarget(0, -targetStep)
		case "down", "j":
			m.nudgeTarget(0, targetStep)
		case "left", "h":
			m.nudgeTarget(-targetStep, 0)
		case "right", "l":
			m.nudgeTarget(targetStep, 0)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if _, over := m.sess.Terminal(); !over {
			m.sess.Step(m.dt)
			m.driver.Advance(m.sess)
		}
		m.scoreHistory = append(m.scoreHistory, float64(m.tracker.Score()))
		if len(m.scoreHistory) > historyCapacity {
			m.scoreHistory = m.scoreHistory[1:]
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) nudgeTarget(dx, dy float64) {
	c := m.sess.Collector()
	m.sess.SetTargetPosition(c.TargetPos.Add(geom.Vec2{X: dx, Y: dy}))
}

// project maps a world position to canvas sub-pixel coordinates with
// the collector at the center of the view.
func (m *Model) project(p geom.Vec2) (int, int) {
	center := m.sess.Collector().Pos
	scale := float64(canvasWidth*2) / viewSpan
	x := (p.X-center.X)*scale + float64(canvasWidth)
	y := (p.Y-center.Y)*scale + float64(canvasHeight*2)
	return int(x), int(y)
}

func (m *Model) radiusDots(diameter float64) int {
	scale := float64(canvasWidth*2) / viewSpan
	r := int(diameter / 2 * scale)
	if r < 1 {
		r = 1
	}
	return r
}

func (m *Model) draw() {
	m.canvas.Clear()

	for _, p := range m.sess.Pickups() {
		x, y := m.project(p.Pos)
		m.canvas.Circle(x, y, m.radiusDots(p.Diameter), pickupHue)
	}

	m.sess.ForEachOrb(func(_ entity.Handle, o *entity.Orb) {
		x, y := m.project(o.Pos)
		hue := classHues[o.Class]
		if o.Orbital {
			hue = orbitalHue
		}
		m.canvas.Disc(x, y, m.radiusDots(o.Diameter), hue)
	})

	c := m.sess.Collector()
	x, y := m.project(c.Pos)
	hue := collectorHue
	if kind, _ := m.sess.ActivePowerUp(); kind == powerup.Rainbow {
		hue = classHues[c.TargetClass]
	}
	m.canvas.Circle(x, y, m.radiusDots(c.Diameter), hue)
	tx, ty := m.project(c.TargetPos)
	m.canvas.Set(tx, ty, hue)
}

func (m *Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	c := m.sess.Collector()
	var s strings.Builder
	s.WriteString(headerStyle.Render("ACCRETION") + "\n")

	status := "RUNNING"
	if reason, over := m.sess.Terminal(); over {
		status = gameOverStyle.Render("GAME OVER: " + reason.String())
	} else if m.sess.Paused() {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.scoreHistory) > 1 {
		chart := asciigraph.Plot(m.scoreHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Score"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.1fs", m.sess.Now()))
	row("Score", fmt.Sprintf("%d", m.tracker.Score()))
	row("Diameter", fmt.Sprintf("%.1f", c.Diameter))
	targetHue := classHues[c.TargetClass]
	s.WriteString(labelStyle.Render("Target") +
		lipgloss.NewStyle().Foreground(targetHue).Bold(true).Render(c.TargetClass.String()) + "\n")
	row("Orbs", fmt.Sprintf("%d", m.sess.OrbCount()))
	row("Merges", fmt.Sprintf("%d", m.tracker.Merges()))
	if kind, remaining := m.sess.ActivePowerUp(); kind != powerup.None {
		s.WriteString(labelStyle.Render("Power-up") +
			powerUpStyle.Render(fmt.Sprintf("%s %.1fs", kind, remaining)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n──────────────────\n↑↓←→:Steer SP:Pause\nR:Restart Q:Quit ?:Help"))

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpScreen + "\n\n" + mainView
	}
	return mainView
}

const helpScreen = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows/HJKL - Steer the collector   ║
║  Space       - Pause/Resume          ║
║  R           - Restart session       ║
║  Q           - Quit                  ║
║  ?           - Toggle this help      ║
╚══════════════════════════════════════╝`
