package gocube

import (
	"strings"

	"github.com/SeamusWaldron/gocube_sim/internal/linalg"
)

// NetFace indexes the six faces of the unfolded sticker net.
type NetFace int

const (
	NetU NetFace = 0 // Up (White)
	NetD NetFace = 1 // Down (Yellow)
	NetF NetFace = 2 // Front (Green)
	NetB NetFace = 3 // Back (Blue)
	NetR NetFace = 4 // Right (Red)
	NetL NetFace = 5 // Left (Orange)
)

func (f NetFace) String() string {
	return string(f.Direction().Initial)
}

// Direction returns the cube direction the net face looks out of.
func (f NetFace) Direction() Direction {
	return netLayout[f].dir
}

// netView describes how a face is read: row 0 lies towards up, column 0
// towards the negative of right.
type netView struct {
	dir   Direction
	up    linalg.Vec3
	right linalg.Vec3
}

var netLayout = [6]netView{
	NetU: {Up, linalg.V(0, 0, -1), linalg.V(1, 0, 0)},
	NetD: {Down, linalg.V(0, 0, 1), linalg.V(1, 0, 0)},
	NetF: {Front, linalg.V(0, 1, 0), linalg.V(1, 0, 0)},
	NetB: {Back, linalg.V(0, 1, 0), linalg.V(-1, 0, 0)},
	NetR: {Right, linalg.V(0, 1, 0), linalg.V(0, 0, -1)},
	NetL: {Left, linalg.V(0, 1, 0), linalg.V(0, 0, 1)},
}

// Facelets returns the sticker colors of each face in U, D, F, B, R, L order.
// Each face is read as seen from outside the cube:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Up is read with Back at the top and Down with Front at the top; the four
// side faces are read with Up at the top.
func (c *Cube) Facelets() [6][9]Color {
	var out [6][9]Color
	for f, view := range netLayout {
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				p := view.dir.Normal.
					Add(view.up.Scale(float64(1 - row))).
					Add(view.right.Scale(float64(col - 1)))
				addr := CoordsAddress(int(p.X), int(p.Y), int(p.Z))
				out[f][row*3+col] = c.CubeletAt(addr).ColorIn(view.dir)
			}
		}
	}
	return out
}

// String returns the unfolded net:
//
//	      U
//	    L F R B
//	      D
func (c *Cube) String() string {
	facelets := c.Facelets()
	var b strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(facelets[NetU][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, face := range []NetFace{NetL, NetF, NetR, NetB} {
			for col := 0; col < 3; col++ {
				b.WriteString(facelets[face][row*3+col].String() + " ")
			}
		}
		b.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(facelets[NetD][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}
