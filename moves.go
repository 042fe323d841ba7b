package gocube

// Predefined twists for convenience.
//
// Example:
//
//	cube.TwistMoves(gocube.R, gocube.U, gocube.RPrime, gocube.UPrime)
var (
	// Outer faces
	R      = MustTwist('R')
	RPrime = MustTwist('r')
	R2     = MustTwist('R', 180)
	L      = MustTwist('L')
	LPrime = MustTwist('l')
	L2     = MustTwist('L', 180)
	U      = MustTwist('U')
	UPrime = MustTwist('u')
	U2     = MustTwist('U', 180)
	D      = MustTwist('D')
	DPrime = MustTwist('d')
	D2     = MustTwist('D', 180)
	F      = MustTwist('F')
	FPrime = MustTwist('f')
	F2     = MustTwist('F', 180)
	B      = MustTwist('B')
	BPrime = MustTwist('b')
	B2     = MustTwist('B', 180)

	// Inner slices
	M      = MustTwist('M')
	MPrime = MustTwist('m')
	E      = MustTwist('E')
	EPrime = MustTwist('e')
	S      = MustTwist('S')
	SPrime = MustTwist('s')

	// Whole cube
	X      = MustTwist('X')
	XPrime = MustTwist('x')
	Y      = MustTwist('Y')
	YPrime = MustTwist('y')
	Z      = MustTwist('Z')
	ZPrime = MustTwist('z')
)

// SexyMove is R U R' U', order 6.
var SexyMove = []Twist{R, U, RPrime, UPrime}

// InverseSexyMove is U R U' R', order 6.
var InverseSexyMove = []Twist{U, R, UPrime, RPrime}

// TPerm swaps two edges and two corners of the up layer.
var TPerm = []Twist{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

// Superflip flips every edge in place.
var Superflip = ParseTwists("U R180 F B R B180 R U180 L B180 R u d R180 F r L B180 U180 F180")
