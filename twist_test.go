package gocube

import (
	"errors"
	"math"
	"testing"
)

func TestNewTwist(t *testing.T) {
	tests := []struct {
		command  byte
		degrees  []float64
		wantCmd  byte
		wantDeg  float64
		wantVec  int
		wantWise string
	}{
		{'R', nil, 'R', 90, 1, "clockwise"},
		{'r', nil, 'r', 90, -1, "anticlockwise"},
		{'U', []float64{180}, 'U', 180, 1, "clockwise"},
		{'F', []float64{-30}, 'f', 30, -1, "anticlockwise"},
		{'f', []float64{-30}, 'F', 30, 1, "clockwise"},
		{'X', []float64{0}, 'X', 0, 1, "clockwise"},
	}

	for _, tt := range tests {
		tw, err := NewTwist(tt.command, tt.degrees...)
		if err != nil {
			t.Errorf("NewTwist(%c, %v): %v", tt.command, tt.degrees, err)
			continue
		}
		if tw.Command != tt.wantCmd || tw.Degrees != tt.wantDeg || tw.Vector != tt.wantVec || tw.Wise != tt.wantWise {
			t.Errorf("NewTwist(%c, %v) = %+v", tt.command, tt.degrees, tw)
		}
	}
}

func TestNewTwistInvalid(t *testing.T) {
	for _, b := range []byte{'A', 'q', '1', ' ', '\''} {
		if _, err := NewTwist(b); !errors.Is(err, ErrInvalidTwist) {
			t.Errorf("NewTwist(%q) error = %v, want ErrInvalidTwist", b, err)
		}
	}
}

func TestTwistRadians(t *testing.T) {
	if got := MustTwist('R').Radians(); math.Abs(got+math.Pi/2) > 1e-12 {
		t.Errorf("R radians = %v, want -pi/2", got)
	}
	if got := MustTwist('r', 180).Radians(); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("r180 radians = %v, want pi", got)
	}
	if got := MustTwist('U', 0).Radians(); got != 0 {
		t.Errorf("U0 radians = %v, want 0", got)
	}
}

func TestTwistInverse(t *testing.T) {
	tw := MustTwist('R', 10)
	inv := tw.Inverse()
	if inv.Command != 'r' || inv.Degrees != 10 {
		t.Errorf("Inverse = %v", inv)
	}
	if !inv.Inverse().Equals(tw) {
		t.Error("double inverse should equal the original")
	}
	if tw.Equals(MustTwist('R')) {
		t.Error("R10 should not equal R")
	}
}

func TestParseTwistsCompound(t *testing.T) {
	got := ParseTwists("Udr10Lf-30b")
	want := []struct {
		cmd byte
		deg float64
	}{
		{'U', 90}, {'d', 90}, {'r', 10}, {'L', 90}, {'F', 30}, {'b', 90},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d twists (%s), want %d", len(got), FormatTwists(got), len(want))
	}
	for i, w := range want {
		if got[i].Command != w.cmd || got[i].Degrees != w.deg {
			t.Errorf("twist %d = %s (%v), want %c %v", i, got[i], got[i].Degrees, w.cmd, w.deg)
		}
	}
}

func TestParseTwists(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"R U R' U'", "R U r u"},
		{"x y' Z", "x Y Z"},
		{"R#U", "R U"},
		{"10R", "R"},
		{"R 20", "R20"},
		{"R10 5", "R10"},
		{"'R", "R"},
		{"R2", "R2"},
		{"R180", "R180"},
		{"", ""},
		{"hello", "e l l"},
	}

	for _, tt := range tests {
		if got := FormatTwists(ParseTwists(tt.in)); got != tt.want {
			t.Errorf("ParseTwists(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTwistsStrict(t *testing.T) {
	if _, err := ParseTwistsStrict("R U' F180"); err != nil {
		t.Errorf("valid notation rejected: %v", err)
	}
	for _, in := range []string{"R#U", "10R", "R, U"} {
		if _, err := ParseTwistsStrict(in); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseTwistsStrict(%q) error = %v, want ErrInvalidNotation", in, err)
		}
	}
}

func TestTwistStringRoundTrip(t *testing.T) {
	for _, in := range []string{"R u10 X", "M e S270", "F0 b45"} {
		once := FormatTwists(ParseTwists(in))
		twice := FormatTwists(ParseTwists(once))
		if once != in || twice != in {
			t.Errorf("round trip of %q gave %q then %q", in, once, twice)
		}
	}
}

func TestInvertTwists(t *testing.T) {
	got := FormatTwists(InvertTwists(ParseTwists("R U F10")))
	if got != "f10 u r" {
		t.Errorf("InvertTwists = %q", got)
	}
}

func TestTwistClassification(t *testing.T) {
	if !MustTwist('x').IsRotation() || MustTwist('M').IsRotation() {
		t.Error("IsRotation misclassifies")
	}
	if MustTwist('r').IsClockwise() || !MustTwist('R').IsClockwise() {
		t.Error("IsClockwise misclassifies")
	}
	if MustTwist('D', 270).Quarters() != 3 || MustTwist('d').Quarters() != -1 {
		t.Error("Quarters miscounts")
	}
}
