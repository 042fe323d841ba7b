package gocube

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDegrees is the magnitude of a twist written without a number.
const DefaultDegrees = 90

// Commands lists every valid twist letter in upper case. Lower case is the
// anticlockwise form.
const Commands = "XLMRYUEDZFSB"

// Twist is a single validated move command.
//
// The letter names what turns: L M R are the slices across X, U E D across Y
// and F S B across Z, while X Y Z rotate the whole cube. Upper case turns
// clockwise as seen from the face the letter names; lower case turns the
// other way.
type Twist struct {
	Command   byte    // One of Commands, either case
	Degrees   float64 // Non-negative magnitude
	Vector    int     // +1 clockwise, -1 anticlockwise
	Wise      string  // "clockwise" or "anticlockwise"
	IsShuffle bool

	serial    uint64
	reverting bool
}

// NewTwist builds a twist from a command letter and an optional magnitude in
// degrees, defaulting to 90. A negative magnitude flips the direction.
func NewTwist(command byte, degrees ...float64) (Twist, error) {
	if !isCommand(command) {
		return Twist{}, fmt.Errorf("%w: %q", ErrInvalidTwist, command)
	}

	d := float64(DefaultDegrees)
	if len(degrees) > 0 {
		d = degrees[0]
	}
	if d < 0 {
		command = flipCase(command)
		d = -d
	}

	t := Twist{Command: command, Degrees: d}
	if isUpper(command) {
		t.Vector = 1
		t.Wise = "clockwise"
	} else {
		t.Vector = -1
		t.Wise = "anticlockwise"
	}
	return t, nil
}

// MustTwist is NewTwist for literals known to be valid.
func MustTwist(command byte, degrees ...float64) Twist {
	t, err := NewTwist(command, degrees...)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether t is the zero value rather than a constructed twist.
func (t Twist) IsZero() bool {
	return t.Command == 0
}

// IsClockwise reports whether the command is upper case.
func (t Twist) IsClockwise() bool {
	return t.Vector > 0
}

// IsRotation reports whether t turns the whole cube (X, Y or Z).
func (t Twist) IsRotation() bool {
	switch upper(t.Command) {
	case 'X', 'Y', 'Z':
		return true
	}
	return false
}

// Letter returns the upper case command letter.
func (t Twist) Letter() byte {
	return upper(t.Command)
}

// Equals compares command and magnitude only.
func (t Twist) Equals(o Twist) bool {
	return t.Command == o.Command && t.Degrees == o.Degrees
}

// Inverse returns the twist that undoes t.
func (t Twist) Inverse() Twist {
	inv, _ := NewTwist(flipCase(t.Command), t.Degrees)
	inv.IsShuffle = t.IsShuffle
	return inv
}

// Radians is the signed slice rotation this twist drives, about the axis of
// the face its letter names. Clockwise is negative under the right-hand rule.
func (t Twist) Radians() float64 {
	return -float64(t.Vector) * t.Degrees * math.Pi / 180
}

// Quarters returns the signed number of quarter turns, rounded.
func (t Twist) Quarters() int {
	return int(math.Round(float64(t.Vector) * t.Degrees / 90))
}

// String formats t so that ParseTwists reads it back. The magnitude is only
// written when it differs from the default.
func (t Twist) String() string {
	if t.IsZero() {
		return ""
	}
	if t.Degrees == DefaultDegrees {
		return string(t.Command)
	}
	return string(t.Command) + strconv.FormatFloat(t.Degrees, 'f', -1, 64)
}

var tokenPattern = regexp.MustCompile(`-?\d+|[XLMRYUEDZFSBxlmryuedzfsb]|'`)

// ParseTwists expands a notation string into twists, left to right.
//
// A number binds to the letter immediately before it and overrides the
// magnitude; an apostrophe inverts the twist before it. Anything that is not
// a letter, a number or an apostrophe is dropped, as is a number with no
// letter to bind to.
func ParseTwists(s string) []Twist {
	twists, _ := parseTwists(s)
	return twists
}

// ParseTwistsStrict is ParseTwists but fails with ErrInvalidNotation when any
// character besides whitespace would have been dropped.
func ParseTwistsStrict(s string) ([]Twist, error) {
	twists, dropped := parseTwists(s)
	if len(dropped) > 0 {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidNotation, strings.Join(dropped, ""), s)
	}
	return twists, nil
}

func parseTwists(s string) ([]Twist, []string) {
	var (
		twists   []Twist
		dropped  []string
		bindable bool
	)

	last := 0
	for _, loc := range tokenPattern.FindAllStringIndex(s, -1) {
		if gap := strings.TrimSpace(s[last:loc[0]]); gap != "" {
			dropped = append(dropped, gap)
		}
		last = loc[1]

		token := s[loc[0]:loc[1]]
		switch {
		case token == "'":
			if len(twists) == 0 {
				dropped = append(dropped, token)
				continue
			}
			twists[len(twists)-1] = twists[len(twists)-1].Inverse()
			bindable = false

		case isCommand(token[0]):
			twists = append(twists, MustTwist(token[0]))
			bindable = true

		default:
			n, err := strconv.Atoi(token)
			if err != nil || !bindable {
				dropped = append(dropped, token)
				continue
			}
			i := len(twists) - 1
			twists[i] = MustTwist(twists[i].Command, float64(n))
			bindable = false
		}
	}
	if gap := strings.TrimSpace(s[last:]); gap != "" {
		dropped = append(dropped, gap)
	}
	return twists, dropped
}

// FormatTwists joins twists with spaces.
func FormatTwists(twists []Twist) string {
	parts := make([]string, len(twists))
	for i, t := range twists {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// InvertTwists returns the sequence that undoes twists.
func InvertTwists(twists []Twist) []Twist {
	out := make([]Twist, len(twists))
	for i, t := range twists {
		out[len(twists)-1-i] = t.Inverse()
	}
	return out
}

func isCommand(b byte) bool {
	return strings.IndexByte(Commands, upper(b)) >= 0
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func flipCase(b byte) byte {
	switch {
	case b >= 'a' && b <= 'z':
		return b - ('a' - 'A')
	case b >= 'A' && b <= 'Z':
		return b + ('a' - 'A')
	}
	return b
}
