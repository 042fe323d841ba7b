// Package notation converts between the simulator's twist notation and the
// standard WCA move notation.
//
// The simulator writes an anticlockwise turn in lower case ("r") and a half
// turn as an angle ("R180"). WCA notation uses a prime ("R'") and a 2
// ("R2"), keeps lower case for wide turns and writes whole-cube rotations as
// x, y and z.
package notation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

var (
	// ErrUnknownMove is returned for a token that is not a WCA move.
	ErrUnknownMove = errors.New("notation: unknown move")
	// ErrNotQuarter is returned when a twist has no WCA equivalent because
	// its angle is not a whole number of quarter turns.
	ErrNotQuarter = errors.New("notation: twist is not a quarter turn multiple")
)

// wide maps a wide turn to the slice that turns along with the face, and
// whether that slice turns the same way as the face.
var wide = map[byte]struct {
	slice byte
	same  bool
}{
	'R': {'M', false},
	'L': {'M', true},
	'U': {'E', false},
	'D': {'E', true},
	'F': {'S', true},
	'B': {'S', false},
}

// ParseMove parses a single WCA move such as R, U', F2, M, Rw, r or x2 into
// the twists that perform it. Wide turns expand to a face and a slice twist.
func ParseMove(s string) ([]gocube.Twist, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnknownMove)
	}

	letter := s[0]
	rest := s[1:]
	isWide := false

	switch {
	case strings.IndexByte("RLUDFBMES", letter) >= 0:
		if strings.HasPrefix(rest, "w") {
			if _, ok := wide[letter]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownMove, s)
			}
			isWide = true
			rest = rest[1:]
		}
	case strings.IndexByte("rludfb", letter) >= 0:
		letter -= 'a' - 'A'
		isWide = true
	case strings.IndexByte("xyz", letter) >= 0:
		letter -= 'a' - 'A'
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMove, s)
	}

	quarters, ok := parseSuffix(rest)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMove, s)
	}

	face, err := gocube.NewTwist(letter, float64(quarters*90))
	if err != nil {
		return nil, err
	}
	if !isWide {
		return []gocube.Twist{face}, nil
	}

	w := wide[letter]
	sliceQuarters := quarters
	if !w.same {
		sliceQuarters = -quarters
	}
	slice, err := gocube.NewTwist(w.slice, float64(sliceQuarters*90))
	if err != nil {
		return nil, err
	}
	return []gocube.Twist{face, slice}, nil
}

// parseSuffix reads the turn amount after the letter: "" is 1, "'" is -1,
// "2" is 2 and "2'" or "'2" is -2.
func parseSuffix(s string) (int, bool) {
	switch s {
	case "":
		return 1, true
	case "'", "`":
		return -1, true
	case "2":
		return 2, true
	case "2'", "'2":
		return -2, true
	}
	return 0, false
}

// FromWCA parses a whitespace separated WCA sequence. Unlike the simulator's
// own notation nothing is dropped: any unknown token is an error.
func FromWCA(s string) ([]gocube.Twist, error) {
	var twists []gocube.Twist
	for _, field := range strings.Fields(s) {
		t, err := ParseMove(field)
		if err != nil {
			return nil, err
		}
		twists = append(twists, t...)
	}
	return twists, nil
}

// Move formats a single twist in WCA notation. A twist that turns a whole
// number of full revolutions formats as the empty string.
func Move(t gocube.Twist) (string, error) {
	q := t.Quarters()
	if math.Abs(float64(t.Vector)*t.Degrees-float64(q*90)) > 1e-9 {
		return "", fmt.Errorf("%w: %s", ErrNotQuarter, t)
	}

	letter := string(t.Letter())
	if t.IsRotation() {
		letter = strings.ToLower(letter)
	}

	switch NormalizeTurn(q) {
	case 0:
		return "", nil
	case 1:
		return letter, nil
	case 2:
		return letter + "2", nil
	default:
		return letter + "'", nil
	}
}

// ToWCA formats twists as a WCA sequence. Twists that cancel to nothing on
// their own are left out.
func ToWCA(twists []gocube.Twist) (string, error) {
	parts := make([]string, 0, len(twists))
	for _, t := range twists {
		m, err := Move(t)
		if err != nil {
			return "", err
		}
		if m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, " "), nil
}

// NormalizeTurn reduces a signed quarter count to 0..3, with 3 meaning one
// anticlockwise quarter.
// -3 -> 1, -2 -> 2, -1 -> 3, 0 -> 0, 1 -> 1, 2 -> 2, 3 -> 3
func NormalizeTurn(quarters int) int {
	return ((quarters % 4) + 4) % 4
}
