package gocube

import "go.uber.org/zap"

// Group is an unordered collection of cubelets belonging to one Cube. It is a
// query surface only: nothing in a Group moves cubelets around.
type Group struct {
	cube *Cube
	ids  []int
}

// NewGroup builds a group over the given cubelets.
func (c *Cube) NewGroup(cubelets ...*Cubelet) Group {
	g := Group{cube: c}
	g.Add(cubelets...)
	return g
}

func groupOf(c *Cube, ids ...int) Group {
	return Group{cube: c, ids: append([]int(nil), ids...)}
}

// Cubelets returns the members.
func (g Group) Cubelets() []*Cubelet {
	out := make([]*Cubelet, len(g.ids))
	for i, id := range g.ids {
		out[i] = &g.cube.pieces[id]
	}
	return out
}

// IDs returns the member cubelet ids.
func (g Group) IDs() []int {
	return append([]int(nil), g.ids...)
}

// Len returns the number of members.
func (g Group) Len() int {
	return len(g.ids)
}

// Contains reports whether cubelet is a member.
func (g Group) Contains(cubelet *Cubelet) bool {
	for _, id := range g.ids {
		if id == cubelet.ID {
			return true
		}
	}
	return false
}

// Add appends cubelets that are not already members.
func (g *Group) Add(cubelets ...*Cubelet) {
	for _, c := range cubelets {
		if c == nil || g.Contains(c) {
			continue
		}
		g.ids = append(g.ids, c.ID)
	}
}

// Remove drops cubelets from the group.
func (g *Group) Remove(cubelets ...*Cubelet) {
	kept := g.ids[:0]
	for _, id := range g.ids {
		drop := false
		for _, c := range cubelets {
			if c != nil && c.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, id)
		}
	}
	g.ids = kept
}

func (g Group) filter(keep func(*Cubelet) bool) Group {
	out := Group{cube: g.cube}
	for _, id := range g.ids {
		if keep(&g.cube.pieces[id]) {
			out.ids = append(out.ids, id)
		}
	}
	return out
}

// HasColor returns the members showing color on any face.
func (g Group) HasColor(color Color) Group {
	return g.filter(func(c *Cubelet) bool { return c.HasColor(color) })
}

// HasColors returns the members carrying every listed color.
func (g Group) HasColors(colors ...Color) Group {
	return g.filter(func(c *Cubelet) bool { return c.HasColors(colors...) })
}

// HasType returns the members of the given type.
func (g Group) HasType(t CubeletType) Group {
	return g.filter(func(c *Cubelet) bool { return c.Type == t })
}

// HasProperty returns the members whose property key equals value. Known
// keys are "id", "address", "type", "addressX", "addressY" and "addressZ".
func (g Group) HasProperty(key string, value any) Group {
	return g.filter(func(c *Cubelet) bool {
		switch key {
		case "id":
			return value == c.ID
		case "address":
			return value == c.Address
		case "type":
			return value == c.Type
		case "addressX":
			return value == c.AddressX
		case "addressY":
			return value == c.AddressY
		case "addressZ":
			return value == c.AddressZ
		default:
			return false
		}
	})
}

// IsSolved reports whether exactly one color shows in direction face across
// all members. Calling it without a face logs a warning and returns false.
func (g Group) IsSolved(face ...Direction) bool {
	if len(face) == 0 {
		g.cube.logger.Warn("group solved check without a face", zap.Int("members", len(g.ids)))
		return false
	}

	seen := make(map[Color]struct{}, 2)
	for _, id := range g.ids {
		seen[g.cube.pieces[id].ColorIn(face[0])] = struct{}{}
	}
	return len(seen) == 1
}

// IsFlagged counts the members for which flag holds.
func (g Group) IsFlagged(flag func(*Cubelet) bool) int {
	n := 0
	for _, id := range g.ids {
		if flag(&g.cube.pieces[id]) {
			n++
		}
	}
	return n
}

// IsTweening counts members inside a slice that is currently animating.
func (g Group) IsTweening() int {
	return g.IsFlagged(func(c *Cubelet) bool { return c.IsTweening() })
}

// IsEngagedX counts members turning about the X axis.
func (g Group) IsEngagedX() int {
	return g.IsFlagged(func(c *Cubelet) bool { return c.engaged == axisX })
}

// IsEngagedY counts members turning about the Y axis.
func (g Group) IsEngagedY() int {
	return g.IsFlagged(func(c *Cubelet) bool { return c.engaged == axisY })
}

// IsEngagedZ counts members turning about the Z axis.
func (g Group) IsEngagedZ() int {
	return g.IsFlagged(func(c *Cubelet) bool { return c.engaged == axisZ })
}
