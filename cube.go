package gocube

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
	"github.com/SeamusWaldron/gocube_sim/internal/tween"
)

// Cube is a 3x3x3 puzzle made of 27 cubelets, nine turnable slices and the
// scheduler that animates twists through them.
//
// A Cube is not safe for concurrent use. Drive it from a single goroutine
// that calls Tick once per frame.
type Cube struct {
	cfg    *config
	logger *zap.Logger
	random *rand.Rand

	pieces [27]Cubelet // indexed by id
	table  [27]int     // address -> id

	slices map[byte]*Slice
	order  []*Slice

	twistQueue   *Queue[Twist]
	historyQueue *Queue[Twist]
	taskQueue    []func()
	tweens       tween.Group

	serial  uint64
	current *inflight

	moveCount int
	// shuffleLast is the serial of the final pick of a running shuffle.
	shuffleLast uint64

	clock    time.Duration
	lastTick time.Duration
	ticked   bool

	paused   bool
	undoing  bool
	solving  bool
	dragging bool

	orientation linalg.Orientation

	twistHandlers   []func(TwistEvent)
	shuffleHandlers []func(TwistEvent)
	clickHandlers   []func(ClickEvent)
}

type sliceDef struct {
	command byte
	name    string
	indices []int
	axis    linalg.Vec3
}

// Slices in construction order. Inner slices follow L, D and F.
var sliceDefs = []sliceDef{
	{'L', "left", []int{24, 21, 18, 15, 12, 9, 6, 3, 0}, linalg.V(-1, 0, 0)},
	{'M', "middle", []int{25, 22, 19, 16, 13, 10, 7, 4, 1}, linalg.V(-1, 0, 0)},
	{'R', "right", []int{2, 11, 20, 5, 14, 23, 8, 17, 26}, linalg.V(1, 0, 0)},
	{'U', "up", []int{18, 19, 20, 9, 10, 11, 0, 1, 2}, linalg.V(0, 1, 0)},
	{'E', "equator", []int{3, 4, 5, 12, 13, 14, 21, 22, 23}, linalg.V(0, -1, 0)},
	{'D', "down", []int{8, 17, 26, 7, 16, 25, 6, 15, 24}, linalg.V(0, -1, 0)},
	{'F', "front", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, linalg.V(0, 0, 1)},
	{'S', "standing", []int{9, 10, 11, 12, 13, 14, 15, 16, 17}, linalg.V(0, 0, 1)},
	{'B', "back", []int{26, 23, 20, 25, 22, 19, 24, 21, 18}, linalg.V(0, 0, -1)},
}

// Whole-cube rotations turn about the axis of their reference slice.
var rotationAxes = map[byte]byte{'X': 'R', 'Y': 'U', 'Z': 'F'}

// Slices along each axis, indexed by coordinate -1, 0, 1.
var slicesByAxis = [3][3]byte{
	{'L', 'M', 'R'},
	{'D', 'E', 'U'},
	{'B', 'S', 'F'},
}

// NewCube returns a solved cube.
func NewCube(opts ...Option) *Cube {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Cube{
		cfg:         cfg,
		logger:      cfg.logger,
		random:      cfg.random,
		slices:      make(map[byte]*Slice, len(sliceDefs)),
		orientation: linalg.IdentityOrientation,
	}
	if c.random == nil {
		now := uint64(time.Now().UnixNano())
		c.random = rand.New(rand.NewPCG(now, now>>1))
	}

	c.twistQueue = NewQueue(c.validateTwists)
	c.twistQueue.TrackHistory = cfg.history
	c.historyQueue = NewQueue(c.validateTwists)

	c.build()

	for _, def := range sliceDefs {
		s, err := newSlice(c, def.name, def.command, def.indices, def.axis)
		if err != nil {
			panic(err)
		}
		s.interiorsVisible = !cfg.hideInteriors
		c.slices[def.command] = s
		c.order = append(c.order, s)
	}
	for _, axis := range slicesByAxis {
		outer1, inner, outer2 := c.slices[axis[0]], c.slices[axis[1]], c.slices[axis[2]]
		outer1.neighbours = []*Slice{inner}
		outer2.neighbours = []*Slice{inner}
		inner.neighbours = []*Slice{outer1, outer2}
	}

	return c
}

// build places the 27 cubelets in solved order, address equal to id.
func (c *Cube) build() {
	for id := range c.pieces {
		x, y, z := AddressCoords(id)
		p := linalg.V(float64(x), float64(y), float64(z))

		var colors [6]Color
		for _, d := range Directions {
			if p.Dot(d.Normal) == 1 {
				colors[d.ID] = solvedColor(d)
			}
		}
		c.pieces[id] = newCubelet(id, colors)
		c.table[id] = id
	}
}

// Reset returns the cube to the solved state and drops all queued work.
// Registered callbacks survive.
func (c *Cube) Reset() {
	c.tweens.Clear()
	c.current = nil
	c.twistQueue.Empty(true)
	c.historyQueue.Empty(true)
	c.taskQueue = nil

	c.build()
	for _, s := range c.order {
		s.rotation = 0
		s.interiorsVisible = !c.cfg.hideInteriors
		s.refresh()
	}

	c.moveCount = 0
	c.shuffleLast = 0
	c.clock = 0
	c.undoing = false
	c.solving = false
	c.dragging = false
	c.orientation = linalg.IdentityOrientation

	c.logger.Debug("cube reset")
}

// Slice returns the slice for a command letter in either case.
func (c *Cube) Slice(command byte) (*Slice, bool) {
	s, ok := c.slices[upper(command)]
	return s, ok
}

// Slices returns the nine slices in L M R U E D F S B order.
func (c *Cube) Slices() []*Slice {
	return append([]*Slice(nil), c.order...)
}

// Face returns the outer slice facing d.
func (c *Cube) Face(d Direction) *Slice {
	return c.slices[d.Initial]
}

// Faces returns the six outer slices in Direction order.
func (c *Cube) Faces() []*Slice {
	out := make([]*Slice, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, c.Face(d))
	}
	return out
}

// sliceAt returns the slice perpendicular to axis at coordinate coord.
func (c *Cube) sliceAt(axis, coord int) *Slice {
	return c.slices[slicesByAxis[axis][coord+1]]
}

// CubeletAt returns the cubelet occupying address, or nil when the address
// is out of range.
func (c *Cube) CubeletAt(address int) *Cubelet {
	if !IsValidAddress(address) {
		return nil
	}
	return &c.pieces[c.table[address]]
}

// CubeletByID returns the cubelet with the given id, or nil.
func (c *Cube) CubeletByID(id int) *Cubelet {
	if id < 0 || id >= len(c.pieces) {
		return nil
	}
	return &c.pieces[id]
}

// Cubelets returns every cubelet as a group in address order.
func (c *Cube) Cubelets() Group {
	return groupOf(c, c.table[:]...)
}

// Corners returns the eight corner cubelets.
func (c *Cube) Corners() Group { return c.Cubelets().HasType(TypeCorner) }

// Edges returns the twelve edge cubelets.
func (c *Cube) Edges() Group { return c.Cubelets().HasType(TypeEdge) }

// Centers returns the six center cubelets.
func (c *Cube) Centers() Group { return c.Cubelets().HasType(TypeCenter) }

// IsSolved reports whether each face shows a single color.
func (c *Cube) IsSolved() bool {
	for _, d := range Directions {
		if !c.Face(d).IsSolved(d) {
			return false
		}
	}
	return true
}

// IsHome reports whether every cubelet sits at its original address with its
// original orientation.
func (c *Cube) IsHome() bool {
	for addr, id := range c.table {
		if addr != id {
			return false
		}
		for i, f := range c.pieces[id].Faces {
			if f.ID != i {
				return false
			}
		}
	}
	return true
}

// FaceColor returns the color of the center sticker facing d.
func (c *Cube) FaceColor(d Direction) Color {
	x, y, z := int(d.Normal.X), int(d.Normal.Y), int(d.Normal.Z)
	return c.CubeletAt(CoordsAddress(x, y, z)).ColorIn(d)
}

// Table returns the address to cubelet id mapping.
func (c *Cube) Table() [27]int {
	return c.table
}

// Fingerprint hashes the arrangement: which cubelet sits where and which way
// each of its faces points. Equal fingerprints mean equal arrangements.
func (c *Cube) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [2]byte
	for addr, id := range c.table {
		buf[0], buf[1] = byte(addr), byte(id)
		_, _ = h.Write(buf[:])
		for _, f := range c.pieces[id].Faces {
			_, _ = h.Write([]byte{byte(f.ID)})
		}
	}
	return h.Sum64()
}

// FingerprintHex is Fingerprint as 16 hex digits.
func (c *Cube) FingerprintHex() string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], c.Fingerprint())
	return fmt.Sprintf("%x", b)
}

// checkBijection verifies the address table is a permutation of ids and that
// every cubelet agrees with the slot holding it.
func (c *Cube) checkBijection() error {
	var seen [27]bool
	for addr, id := range c.table {
		if id < 0 || id >= len(c.pieces) || seen[id] {
			return fmt.Errorf("%w: address %d holds %d", ErrBijection, addr, id)
		}
		seen[id] = true
		if c.pieces[id].Address != addr {
			return fmt.Errorf("%w: cubelet %d believes it is at %d, table says %d",
				ErrBijection, id, c.pieces[id].Address, addr)
		}
	}
	return nil
}

// Orientation returns the whole-cube orientation used for picking.
func (c *Cube) Orientation() linalg.Orientation {
	return c.orientation
}

// SetOrientation sets the whole-cube orientation.
func (c *Cube) SetOrientation(o linalg.Orientation) {
	c.orientation = o
}

// Logger returns the cube's logger.
func (c *Cube) Logger() *zap.Logger {
	return c.logger
}

// Debug returns a one-line summary of the cube.
func (c *Cube) Debug() string {
	var b strings.Builder
	fmt.Fprintf(&b, "solved=%v moves=%d elapsed=%s", c.IsSolved(), c.moveCount, c.clock.Truncate(time.Millisecond))
	if c.current != nil {
		fmt.Fprintf(&b, " turning=%s", c.current.twist)
	}
	if n := c.twistQueue.FutureLen(); n > 0 {
		fmt.Fprintf(&b, " queued=%d", n)
	}
	if c.undoing {
		b.WriteString(" undoing")
	}
	if c.solving {
		b.WriteString(" solving")
	}
	if c.paused {
		b.WriteString(" paused")
	}
	return b.String()
}
