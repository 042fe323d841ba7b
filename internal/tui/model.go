// Package tui implements the interactive terminal cube.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/notation"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
)

// DefaultFrameInterval is how often the cube is ticked.
const DefaultFrameInterval = 16 * time.Millisecond

// historyTail is how many recent twists the view shows.
const historyTail = 20

// Options configures a Model.
type Options struct {
	// Session, when set, is ended when the player quits.
	Session       *recorder.Session
	FrameInterval time.Duration
	ShuffleLength int
	WCA           bool
}

type tickMsg time.Time

// Model is the bubbletea model for playing with a cube.
type Model struct {
	cube    *gocube.Cube
	tracker *gocube.Tracker
	opts    Options

	keys keyMap
	help help.Model

	start     time.Time
	lastTwist gocube.Twist
	solvedAt  time.Duration
	message   string
	err       error
	quitting  bool
	width     int
}

// New creates a model driving cube. It subscribes to cube events, so a cube
// should only ever be given to one model.
func New(cube *gocube.Cube, opts Options) *Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	m := &Model{
		cube:    cube,
		tracker: gocube.NewTracker(cube),
		opts:    opts,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}

	cube.OnTwistComplete(m.handleTwist)
	cube.OnShuffleComplete(func(gocube.TwistEvent) {
		m.solvedAt = 0
		m.message = "Shuffled"
	})
	m.tracker.OnPhase(func(p gocube.Phase) {
		if p == gocube.PhaseSolved {
			m.solvedAt = cube.Elapsed()
		}
		m.message = "Reached " + p.DisplayName()
	})
	return m
}

func (m *Model) handleTwist(e gocube.TwistEvent) {
	if e.Twist.IsShuffle || e.Quarters == 0 {
		return
	}
	m.lastTwist = e.Twist
}

// Init starts the frame ticker.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles keys and frame ticks.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tickMsg:
		t := time.Time(msg)
		if m.start.IsZero() {
			m.start = t
		}
		m.cube.Tick(t.Sub(m.start))
		if m.opts.Session != nil && m.err == nil {
			m.err = m.opts.Session.Err()
		}
		return m, m.tickCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.opts.Session != nil && m.opts.Session.State() == recorder.StateRecording {
			if err := m.opts.Session.End(); err != nil {
				m.err = err
			}
		}
		return tea.Quit

	case key.Matches(msg, m.keys.Undo):
		if !m.cube.Undo() {
			m.message = "Nothing to undo"
		}

	case key.Matches(msg, m.keys.Redo):
		if !m.cube.Redo() {
			m.message = "Nothing to redo"
		}

	case key.Matches(msg, m.keys.Shuffle):
		m.cube.Shuffle(m.opts.ShuffleLength)

	case key.Matches(msg, m.keys.Reset):
		m.cube.Reset()
		m.tracker.Reset()
		m.lastTwist = gocube.Twist{}
		m.solvedAt = 0
		m.message = "Reset"

	case key.Matches(msg, m.keys.Solve):
		if err := m.cube.Solve(); err != nil {
			m.err = err
		}

	case key.Matches(msg, m.keys.Pause):
		if m.cube.IsPaused() {
			m.cube.Resume()
			m.message = ""
		} else {
			m.cube.Pause()
			m.message = "Paused"
		}

	case key.Matches(msg, m.keys.Notation):
		m.opts.WCA = !m.opts.WCA

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		if s := msg.String(); len(s) == 1 && strings.Contains(gocube.Commands, strings.ToUpper(s)) {
			m.cube.Twist(s)
		}
	}

	return nil
}

// View renders the net, the status lines and the help.
func (m *Model) View() string {
	if m.quitting {
		return "Bye.\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Cube Simulator"))
	b.WriteString("\n\n")
	b.WriteString(renderNet(m.cube.Facelets()))
	b.WriteString("\n")

	if m.cube.IsSolved() {
		status := "SOLVED"
		if m.solvedAt > 0 {
			status = fmt.Sprintf("SOLVED in %s", formatElapsed(m.solvedAt))
		}
		b.WriteString(solvedStyle.Render(status))
	} else {
		b.WriteString(fmt.Sprintf("Phase: %s", phaseStyle.Render(m.cube.Phase().DisplayName())))
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("   moves %d   time %s", m.cube.MoveCount(), formatElapsed(m.cube.Elapsed()))))
	b.WriteString("\n")

	if !m.lastTwist.IsZero() {
		b.WriteString(fmt.Sprintf("Last: %s (%s)\n", m.formatTwists([]gocube.Twist{m.lastTwist}), notation.Describe(m.lastTwist)))
	}
	if history := m.cube.History(); len(history) > 0 {
		tail := history
		prefix := ""
		if len(tail) > historyTail {
			tail = tail[len(tail)-historyTail:]
			prefix = "... "
		}
		b.WriteString("Moves: " + prefix + moveStyle.Render(m.formatTwists(tail)) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	} else if m.message != "" {
		b.WriteString(statusStyle.Render(m.message) + "\n")
	}
	if m.opts.Session != nil && m.opts.Session.State() == recorder.StateRecording {
		b.WriteString(statusStyle.Render(fmt.Sprintf("Recording %s (%d twists)", shortID(m.opts.Session.SessionID()), m.opts.Session.TwistCount())) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render("Twist with X L M R Y U E D Z F S B; shift turns clockwise."))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) formatTwists(twists []gocube.Twist) string {
	if m.opts.WCA {
		s, err := notation.ToWCA(twists)
		if err == nil {
			return s
		}
		if !errors.Is(err, notation.ErrNotQuarter) {
			return err.Error()
		}
	}
	return gocube.FormatTwists(twists)
}

// renderNet draws the unfolded cube:
//
//	  U
//	L F R B
//	  D
func renderNet(facelets [6][9]gocube.Color) string {
	var b strings.Builder
	indent := strings.Repeat(" ", 7)

	row := func(face gocube.NetFace, r int) string {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			cells[c] = sticker(facelets[face][r*3+c])
		}
		return strings.Join(cells, "")
	}

	for r := 0; r < 3; r++ {
		b.WriteString(indent + row(gocube.NetU, r) + "\n")
	}
	for r := 0; r < 3; r++ {
		parts := make([]string, 0, 4)
		for _, face := range []gocube.NetFace{gocube.NetL, gocube.NetF, gocube.NetR, gocube.NetB} {
			parts = append(parts, row(face, r))
		}
		b.WriteString(strings.Join(parts, " ") + "\n")
	}
	for r := 0; r < 3; r++ {
		b.WriteString(indent + row(gocube.NetD, r) + "\n")
	}

	return b.String()
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
