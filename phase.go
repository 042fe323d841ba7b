package gocube

import "github.com/SeamusWaldron/gocube_sim/internal/linalg"

// Phase is a stage of the layer-by-layer method, measured against the
// current center colors so that slice moves and whole-cube rotations do not
// confuse it. Phases are ordered from Scrambled to Solved.
type Phase int

const (
	PhaseScrambled Phase = iota
	// The four edges around the up center are placed.
	PhaseCross
	// The up layer corners are placed as well.
	PhaseFirstLayer
	// The four equator edges are placed.
	PhaseSecondLayer
	// The four edges carrying the down color show it downwards.
	PhaseLastCross
	// The down corners sit in their slots, possibly twisted.
	PhaseCornersPositioned
	// The down corners show the down color downwards.
	PhaseCornersOriented
	PhaseSolved
)

// String returns a short identifier for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseScrambled:
		return "scrambled"
	case PhaseCross:
		return "cross"
	case PhaseFirstLayer:
		return "first_layer"
	case PhaseSecondLayer:
		return "second_layer"
	case PhaseLastCross:
		return "last_cross"
	case PhaseCornersPositioned:
		return "corners_positioned"
	case PhaseCornersOriented:
		return "corners_oriented"
	case PhaseSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the phase.
func (p Phase) DisplayName() string {
	switch p {
	case PhaseScrambled:
		return "Scrambled"
	case PhaseCross:
		return "Cross"
	case PhaseFirstLayer:
		return "First Layer"
	case PhaseSecondLayer:
		return "Second Layer"
	case PhaseLastCross:
		return "Last Layer Cross"
	case PhaseCornersPositioned:
		return "Last Corners Positioned"
	case PhaseCornersOriented:
		return "Last Corners Oriented"
	case PhaseSolved:
		return "Solved"
	default:
		return "Unknown"
	}
}

// Progress records which phases currently hold. Each flag implies the ones
// before it.
type Progress struct {
	Cross             bool
	FirstLayer        bool
	SecondLayer       bool
	LastCross         bool
	CornersPositioned bool
	CornersOriented   bool
	Solved            bool
}

// Phase returns the highest phase the cube currently satisfies.
func (p Progress) Phase() Phase {
	switch {
	case p.Solved:
		return PhaseSolved
	case p.CornersOriented:
		return PhaseCornersOriented
	case p.CornersPositioned:
		return PhaseCornersPositioned
	case p.LastCross:
		return PhaseLastCross
	case p.SecondLayer:
		return PhaseSecondLayer
	case p.FirstLayer:
		return PhaseFirstLayer
	case p.Cross:
		return PhaseCross
	default:
		return PhaseScrambled
	}
}

// Progress evaluates every phase.
func (c *Cube) Progress() Progress {
	up, down := c.FaceColor(Up), c.FaceColor(Down)
	edges, corners := c.Edges(), c.Corners()

	var p Progress
	p.Cross = allOf(edges.HasColor(up), c.isPlaced)
	p.FirstLayer = p.Cross && allOf(corners.HasColor(up), c.isPlaced)

	middle := edges.filter(func(cb *Cubelet) bool { return !cb.HasColor(up) && !cb.HasColor(down) })
	p.SecondLayer = p.FirstLayer && allOf(middle, c.isPlaced)

	lastEdges, lastCorners := edges.HasColor(down), corners.HasColor(down)
	facesDown := func(cb *Cubelet) bool { return cb.ColorIn(Down) == down }
	p.LastCross = p.SecondLayer && allOf(lastEdges, facesDown)
	p.CornersPositioned = p.LastCross && allOf(lastCorners, c.isPositioned)
	p.CornersOriented = p.CornersPositioned && allOf(lastCorners, facesDown)
	p.Solved = c.IsSolved()
	return p
}

// Phase returns the highest phase the cube currently satisfies.
func (c *Cube) Phase() Phase {
	return c.Progress().Phase()
}

// isPlaced reports whether every sticker on cb faces the center of its color.
func (c *Cube) isPlaced(cb *Cubelet) bool {
	for _, f := range cb.Faces {
		if !f.Color.IsColorless() && c.FaceColor(f.Normal) != f.Color {
			return false
		}
	}
	return true
}

// isPositioned reports whether cb sits in the slot whose surrounding centers
// carry its colors, regardless of twist.
func (c *Cube) isPositioned(cb *Cubelet) bool {
	coords := [3]int{cb.AddressX, cb.AddressY, cb.AddressZ}
	var want []Color
	for axis, v := range coords {
		if v == 0 {
			continue
		}
		var n [3]float64
		n[axis] = float64(v)
		d, _ := DirectionByNormal(linalg.V(n[0], n[1], n[2]))
		want = append(want, c.FaceColor(d))
	}
	return cb.HasColors(want...) && len(want) == int(cb.Type)
}

func allOf(g Group, pred func(*Cubelet) bool) bool {
	return g.IsFlagged(pred) == g.Len()
}
