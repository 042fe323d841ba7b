package notation

import (
	"fmt"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

// spoken gives the plain-language phrasing of each letter, clockwise and
// anticlockwise, for a cube held with the front facing the player.
var spoken = map[byte][2]string{
	'R': {"R up", "R down"},
	'L': {"L down", "L up"},
	'M': {"M down", "M up"},
	'U': {"T rotate right", "T rotate left"},
	'E': {"E rotate right", "E rotate left"},
	'D': {"B rotate right", "B rotate left"},
	'F': {"F rotate clockwise", "F rotate anti-clockwise"},
	'S': {"S rotate clockwise", "S rotate anti-clockwise"},
	'B': {"Back rotate clockwise", "Back rotate anti-clockwise"},
	'X': {"tilt cube up", "tilt cube down"},
	'Y': {"turn cube right", "turn cube left"},
	'Z': {"roll cube clockwise", "roll cube anti-clockwise"},
}

// Describe phrases a twist in words, such as "R up" or "T rotate right x 2".
// Angles that are not quarter multiples are given in degrees.
func Describe(t gocube.Twist) string {
	words, ok := spoken[t.Letter()]
	if !ok {
		return t.String()
	}

	phrase := words[0]
	if !t.IsClockwise() {
		phrase = words[1]
	}

	switch t.Degrees {
	case 90:
		return phrase
	case 180:
		return phrase + " x 2"
	default:
		return fmt.Sprintf("%s %g°", phrase, t.Degrees)
	}
}

// DescribeSequence phrases twists as a comma separated list.
func DescribeSequence(twists []gocube.Twist) string {
	result := ""
	for i, t := range twists {
		if i > 0 {
			result += ", "
		}
		result += Describe(t)
	}
	return result
}
