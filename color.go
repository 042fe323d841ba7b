package gocube

// Color represents a sticker color. Colorless marks interior faces.
type Color byte

const (
	Colorless Color = 0
	White     Color = 1 // Up face when solved
	Yellow    Color = 2 // Down face when solved
	Green     Color = 3 // Front face when solved
	Blue      Color = 4 // Back face when solved
	Red       Color = 5 // Right face when solved
	Orange    Color = 6 // Left face when solved
)

// Colors lists every sticker color, excluding Colorless.
var Colors = []Color{White, Yellow, Green, Blue, Red, Orange}

func (c Color) String() string {
	switch c {
	case Colorless:
		return "-"
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	default:
		return "?"
	}
}

// Name returns the lower-case color name.
func (c Color) Name() string {
	switch c {
	case Colorless:
		return "colorless"
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Red:
		return "red"
	case Orange:
		return "orange"
	default:
		return "unknown"
	}
}

// IsColorless reports whether c is the interior marker.
func (c Color) IsColorless() bool {
	return c == Colorless
}

// solvedColor returns the sticker color a face shows when solved.
func solvedColor(d Direction) Color {
	switch d.ID {
	case upID:
		return White
	case downID:
		return Yellow
	case frontID:
		return Green
	case backID:
		return Blue
	case rightID:
		return Red
	case leftID:
		return Orange
	default:
		return Colorless
	}
}
