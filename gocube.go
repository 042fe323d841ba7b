// Package gocube simulates a 3x3x3 twisty puzzle: 27 cubelets, nine
// turnable slices, a move notation, an undo/redo capable twist queue and the
// pointer picking needed to turn slices by dragging them.
//
// # Features
//
//   - Cubelet arena with an address table that stays a permutation
//   - Slice remapping after every completed quarter turn
//   - Move notation with arbitrary angles and whole-cube rotations
//   - Undo, redo, shuffle and an optional solver hook
//   - Ray picking and drag-to-twist interaction
//   - Layer-by-layer phase detection
//
// # Quick Start
//
//	cube := gocube.NewCube(gocube.WithTwistDuration(0))
//
//	cube.OnTwistComplete(func(e gocube.TwistEvent) {
//	    fmt.Println("Twist:", e.Twist, "moves:", e.MoveCount)
//	})
//
//	if err := cube.Apply("R U r u"); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Solved:", cube.IsSolved())
//	fmt.Print(cube)
//
// # Notation
//
// A twist is one of the letters X L M R Y U E D Z F S B. Upper case turns
// clockwise as seen from the face the letter names, lower case turns the
// other way. A number straight after a letter sets the angle in degrees, so
// "R180" is a half turn and "R-90" is the same as "r". An apostrophe inverts
// the twist before it, so "R'" is "r".
//
// # Driving the cube
//
// Twists animate. A host calls Tick once per frame with a monotonic time and
// the cube advances at most one twist at a time:
//
//	cube.Twist("F R U")
//	for cube.Busy() {
//	    cube.Tick(time.Since(start))
//	    render(cube)
//	}
//
// Settle runs the same scheduler on a virtual clock, which is what tests and
// command line tools use.
//
// # Solving Phases
//
// Progress reports the layer-by-layer phases relative to the current center
// colors:
//
//   - PhaseCross: up edges placed
//   - PhaseFirstLayer: up corners placed
//   - PhaseSecondLayer: equator edges placed
//   - PhaseLastCross: down edges show the down color
//   - PhaseCornersPositioned: down corners in their slots
//   - PhaseCornersOriented: down corners show the down color
//   - PhaseSolved: every face shows one color
package gocube
