package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigid2d/internal/record"
	"github.com/san-kum/rigid2d/internal/scene"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	historyCapacity = 600
	viewPad         = 1.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the terminal front end. In live mode it owns a world and
// steps it on every tick; in replay mode it pages through prerecorded
// frames and loops. Both keep a bounded frame history scrubbed with
// [ and ].
type Model struct {
	world     *scene.World // nil in replay mode
	sceneName string
	live      bool
	running   bool
	showHelp  bool

	step    uint64
	elapsed float64

	canvas  *Canvas
	history []record.Frame
	energy  []float64

	// playHead indexes history while scrubbing or replaying; -1 means
	// the live edge.
	playHead int
}

// NewLiveModel wraps a built world. The model takes ownership: call
// Close on the final model once the program exits.
func NewLiveModel(w *scene.World) Model {
	m := Model{
		world:     w,
		sceneName: w.Scene.Name,
		live:      true,
		running:   true,
		canvas:    NewCanvas(canvasCols, canvasRows),
		history:   make([]record.Frame, 0, historyCapacity),
		energy:    make([]float64, 0, historyCapacity),
		playHead:  -1,
	}
	m.push(record.Capture(w.Space, 0, 0))
	return m
}

// NewReplayModel pages through a prerecorded run.
func NewReplayModel(sceneName string, frames []record.Frame) Model {
	energy := make([]float64, len(frames))
	for i := range frames {
		energy[i] = frames[i].Energy
	}
	return Model{
		sceneName: sceneName,
		live:      false,
		running:   true,
		canvas:    NewCanvas(canvasCols, canvasRows),
		history:   frames,
		energy:    energy,
		playHead:  0,
	}
}

// Close releases the live world, if any.
func (m Model) Close() {
	if m.world != nil {
		m.world.Close()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and advances the simulation or playback.
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
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "up", "k":
			m.scaleGravity(1.05)
		case "down", "j":
			m.scaleGravity(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advance steps the world at the live edge, otherwise moves the play
// head forward.
func (m *Model) advance() {
	if m.live && m.playHead == -1 {
		m.world.Step()
		m.step++
		m.elapsed += m.world.Scene.Dt
		m.push(record.Capture(m.world.Space, m.step, m.elapsed))
		return
	}
	m.playHead++
	if m.playHead >= len(m.history) {
		if m.live {
			m.playHead = -1
		} else {
			m.playHead = 0
		}
	}
}

func (m *Model) push(fr record.Frame) {
	m.history = append(m.history, fr)
	m.energy = append(m.energy, fr.Energy)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
		m.energy = m.energy[1:]
	}
}

// scrub pauses playback and moves the play head through history.
// Scrubbing past the newest frame returns a live model to the live
// edge; a replay clamps at the last frame.
func (m *Model) scrub(dir int) {
	if len(m.history) == 0 {
		return
	}
	if m.live && m.playHead == -1 {
		m.playHead = len(m.history) - 1
	}
	m.running = false
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		if m.live {
			m.playHead = -1
		} else {
			m.playHead = len(m.history) - 1
		}
	}
}

// reset rebuilds the world from its scene in live mode and rewinds to
// the first frame in replay mode.
func (m *Model) reset() {
	if !m.live {
		m.playHead = 0
		return
	}
	nw, err := m.world.Scene.Build()
	if err != nil {
		return
	}
	m.world.Close()
	m.world = nw
	m.step = 0
	m.elapsed = 0
	m.history = m.history[:0]
	m.energy = m.energy[:0]
	m.push(record.Capture(m.world.Space, 0, 0))
	m.playHead = -1
}

// scaleGravity scales the live world's gravity, the quickest way to
// poke at a running scene.
func (m *Model) scaleGravity(factor float64) {
	if !m.live {
		return
	}
	g := m.world.Space.Gravity()
	m.world.Space.SetGravity(g.Mult(factor))
}

// current returns the frame on display and its simulation time.
func (m Model) current() *record.Frame {
	idx := m.playHead
	if idx == -1 {
		idx = len(m.history) - 1
	}
	if idx < 0 || idx >= len(m.history) {
		return nil
	}
	return &m.history[idx]
}

func (m Model) status() string {
	if !m.live {
		pos := fmt.Sprintf("%d/%d", m.playHead+1, len(m.history))
		if m.running {
			return "REPLAY " + pos
		}
		return "REPLAY PAUSED " + pos
	}
	if m.playHead != -1 {
		lag := 0.0
		if n := len(m.history); n > 0 {
			lag = m.history[m.playHead].Time - m.history[n-1].Time
		}
		return fmt.Sprintf("REWIND (%.1fs)", lag)
	}
	if m.running {
		return "RUNNING"
	}
	return "PAUSED"
}

// View renders the canvas beside the stats pane.
func (m Model) View() string {
	fr := m.current()
	m.canvas.Clear()
	view := Fit(m.canvas, m.history, viewPad)
	if fr != nil {
		Draw(m.canvas, view, fr)
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sceneName)) + "\n")
	s.WriteString(m.status() + "\n\n")
	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	t, energy, bodies := 0.0, 0.0, 0
	var step uint64
	if fr != nil {
		t, energy, bodies, step = fr.Time, fr.Energy, len(fr.Bodies), fr.Step
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", t)) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", step)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", bodies)) + "\n")
	if m.live {
		g := m.world.Space.Gravity()
		s.WriteString(labelStyle.Render("Gravity") + accentStyle.Render(fmt.Sprintf("(%.1f, %.1f)", g.X, g.Y)) + "\n")
	}
	s.WriteString(helpStyle.Render(m.footer()))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) footer() string {
	if m.live {
		return "\n─────────────────────\nSP:Pause R:Reset Q:Quit\n[ ]:Rewind ↑↓:Gravity ?:Help"
	}
	return "\n─────────────────────\nSP:Pause R:Restart Q:Quit\n[ ]:Scrub ?:Help"
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset / restart          ║
║  Q        - Quit                     ║
║  [        - Step back through time   ║
║  ]        - Step forward             ║
║  Up/K     - Scale gravity up (+5%)   ║
║  Down/J   - Scale gravity down (-5%) ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
