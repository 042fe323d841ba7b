package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/notation"
)

var twistWCA bool

var twistCmd = &cobra.Command{
	Use:   "twist <notation>...",
	Short: "Apply twists to a solved cube and print the result",
	Long: `Apply a twist sequence to a solved cube and print the resulting net.

Notation is the simulator's own by default: a letter from XLMRYUEDZFSB,
upper case clockwise and lower case anticlockwise, optionally followed by
degrees. Use --wca for standard notation.

Examples:
  cubesim twist "R U r u"
  cubesim twist R180 F-90
  cubesim twist --wca "R U R' U' Rw2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTwist,
}

func init() {
	rootCmd.AddCommand(twistCmd)
	twistCmd.Flags().BoolVar(&twistWCA, "wca", false, "Read standard WCA notation")
}

func runTwist(cmd *cobra.Command, args []string) error {
	twists, err := parseNotation(strings.Join(args, " "), twistWCA)
	if err != nil {
		return err
	}

	cube := newCube(gocube.WithTwistDuration(0))
	cube.TwistMoves(twists...)
	cube.Settle()

	printCube(cmd.OutOrStdout(), cube)
	fmt.Fprintf(cmd.OutOrStdout(), "Twists:      %s\n", gocube.FormatTwists(twists))
	if wca, err := notation.ToWCA(twists); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "WCA:         %s\n", wca)
	}
	return nil
}

// parseNotation reads a sequence in either notation.
func parseNotation(s string, wca bool) ([]gocube.Twist, error) {
	if wca {
		return notation.FromWCA(s)
	}
	return gocube.ParseTwistsStrict(s)
}

// printCube writes the net and a short status block.
func printCube(w io.Writer, cube *gocube.Cube) {
	fmt.Fprintln(w, cube.String())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Moves:       %d\n", cube.MoveCount())
	fmt.Fprintf(w, "Phase:       %s\n", cube.Phase().DisplayName())
	fmt.Fprintf(w, "Solved:      %s\n", yesNo(cube.IsSolved()))
	fmt.Fprintf(w, "Fingerprint: %s\n", cube.FingerprintHex())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
