package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/recorder"
	"github.com/SeamusWaldron/gocube_sim/internal/storage"
)

type harness struct {
	t     *testing.T
	model *Model
	cube  *gocube.Cube
	now   time.Time
}

func newHarness(t *testing.T, opts Options, cubeOpts ...gocube.Option) *harness {
	t.Helper()
	cube := gocube.NewCube(append([]gocube.Option{gocube.WithTwistDuration(0)}, cubeOpts...)...)
	return &harness{
		t:     t,
		model: New(cube, opts),
		cube:  cube,
		now:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (h *harness) runes(s string) tea.Cmd {
	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	_, cmd := h.model.Update(tea.KeyMsg{Type: k})
	return cmd
}

// frames delivers n frame ticks 20ms apart.
func (h *harness) frames(n int) {
	h.t.Helper()
	for i := 0; i < n; i++ {
		h.now = h.now.Add(20 * time.Millisecond)
		if _, cmd := h.model.Update(tickMsg(h.now)); cmd == nil {
			h.t.Fatal("tick must reschedule")
		}
	}
}

// viewHas fails unless every want appears in the current view.
func (h *harness) viewHas(want ...string) {
	h.t.Helper()
	view := h.model.View()
	for _, w := range want {
		if !strings.Contains(view, w) {
			h.t.Errorf("view is missing %q:\n%s", w, view)
		}
	}
}

func TestLetterKeysTwist(t *testing.T) {
	h := newHarness(t, Options{})

	h.runes("R")
	h.runes("u")
	h.frames(10)

	if h.cube.MoveCount() != 2 {
		t.Errorf("MoveCount = %d, want 2", h.cube.MoveCount())
	}
	if got := gocube.FormatTwists(h.cube.History()); got != "R u" {
		t.Errorf("history = %q", got)
	}
	h.viewHas("Moves: ", "R u", "T rotate left", "moves 2")
}

func TestOtherKeysDoNotTwist(t *testing.T) {
	h := newHarness(t, Options{})
	h.runes("k")
	h.runes("1")
	h.frames(4)
	if h.cube.MoveCount() != 0 || !h.cube.IsSolved() {
		t.Errorf("moves = %d, solved = %v", h.cube.MoveCount(), h.cube.IsSolved())
	}
}

func TestUndoRedoKeys(t *testing.T) {
	h := newHarness(t, Options{})

	h.key(tea.KeyCtrlZ)
	h.viewHas("Nothing to undo")

	h.runes("F")
	h.frames(4)
	h.key(tea.KeyCtrlZ)
	h.frames(4)
	if !h.cube.IsSolved() {
		t.Error("undo should return to solved")
	}
	h.viewHas("SOLVED")

	h.key(tea.KeyCtrlY)
	h.frames(4)
	if h.cube.IsSolved() || h.cube.MoveCount() != 1 {
		t.Errorf("after redo solved = %v, moves = %d", h.cube.IsSolved(), h.cube.MoveCount())
	}
}

func TestWCAToggle(t *testing.T) {
	h := newHarness(t, Options{})
	h.runes("r")
	h.frames(4)
	h.viewHas("Moves: r")

	h.runes("n")
	h.viewHas("Moves: R'")
}

func TestShuffleKey(t *testing.T) {
	h := newHarness(t, Options{ShuffleLength: 5}, gocube.WithSeed(9))
	h.key(tea.KeyCtrlS)
	h.frames(20)

	if h.cube.IsShuffling() {
		t.Error("shuffle still running")
	}
	if h.cube.MoveCount() != 0 {
		t.Errorf("shuffle counted %d moves", h.cube.MoveCount())
	}
	h.viewHas("Shuffled")

	h.key(tea.KeyCtrlR)
	if !h.cube.IsSolved() {
		t.Error("reset should solve the cube")
	}
	h.viewHas("Reset")
}

func TestSolveWithoutSolverShowsError(t *testing.T) {
	h := newHarness(t, Options{})
	h.key(tea.KeyCtrlO)
	h.viewHas("no solver configured")
}

func TestPauseKey(t *testing.T) {
	h := newHarness(t, Options{})
	h.runes("p")
	if !h.cube.IsPaused() {
		t.Fatal("p should pause")
	}
	h.runes("R")
	h.frames(4)
	if h.cube.MoveCount() != 0 {
		t.Errorf("paused cube twisted %d moves", h.cube.MoveCount())
	}

	h.runes("p")
	h.frames(4)
	if h.cube.MoveCount() != 1 {
		t.Errorf("MoveCount after resume = %d", h.cube.MoveCount())
	}
}

func TestQuitEndsSession(t *testing.T) {
	db, err := storage.Open(storage.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cube := gocube.NewCube(gocube.WithTwistDuration(0))
	session := recorder.NewSession(db, cube, nil)
	id, err := session.Start("", "")
	if err != nil {
		t.Fatal(err)
	}

	m := New(cube, Options{Session: session})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if session.State() != recorder.StateEnded {
		t.Errorf("session state = %v", session.State())
	}
	if got := m.View(); got != "Bye.\n" {
		t.Errorf("View() = %q", got)
	}

	s, err := storage.NewSessionRepository(db).Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.EndedAt == nil {
		t.Error("session was not ended")
	}
}

func TestRenderNet(t *testing.T) {
	net := renderNet(gocube.NewCube().Facelets())
	if lines := strings.Count(net, "\n"); lines != 9 {
		t.Errorf("net has %d lines, want 9", lines)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := map[time.Duration]string{
		1500 * time.Millisecond:             "1.5s",
		2*time.Minute + 3500*time.Millisecond: "2:03.50",
	}
	for d, want := range tests {
		if got := formatElapsed(d); got != want {
			t.Errorf("formatElapsed(%v) = %q, want %q", d, got, want)
		}
	}
}
