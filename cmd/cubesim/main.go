// cubesim - a 3x3x3 twisty cube simulator with recording, replay and a
// websocket server.
package main

import (
	"github.com/SeamusWaldron/gocube_sim/internal/cli"
)

func main() {
	cli.Execute()
}
