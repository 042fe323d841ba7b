package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	gocube "github.com/SeamusWaldron/gocube_sim"
	"github.com/SeamusWaldron/gocube_sim/internal/notation"
)

var (
	shuffleAlphabet string
	shuffleSeed     uint64
	shuffleWCA      bool
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle [length]",
	Short: "Generate a random shuffle",
	Long: `Generate a random shuffle, apply it to a solved cube and print the
sequence and the resulting net.

No twist in a shuffle undoes the one before it. The length defaults to the
configured cube.shuffle_length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShuffle,
}

func init() {
	rootCmd.AddCommand(shuffleCmd)
	shuffleCmd.Flags().StringVar(&shuffleAlphabet, "alphabet", "", "Letters to pick twists from (default: configured alphabet)")
	shuffleCmd.Flags().Uint64Var(&shuffleSeed, "seed", 0, "Seed for a repeatable shuffle")
	shuffleCmd.Flags().BoolVar(&shuffleWCA, "wca", false, "Also print the shuffle in WCA notation")
}

func runShuffle(cmd *cobra.Command, args []string) error {
	length := cfg.Cube.ShuffleLength
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid shuffle length %q", args[0])
		}
		length = n
	}

	opts := []gocube.Option{gocube.WithTwistDuration(0)}
	if shuffleSeed != 0 {
		opts = append(opts, gocube.WithSeed(shuffleSeed))
	}
	cube := newCube(opts...)

	picks := cube.Shuffle(length, shuffleAlphabet)
	if len(picks) == 0 {
		return fmt.Errorf("alphabet %q has no twist letters", shuffleAlphabet)
	}
	cube.Settle()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Shuffle:     %s\n", gocube.FormatTwists(picks))
	if shuffleWCA {
		wca, err := notation.ToWCA(picks)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "WCA:         %s\n", wca)
	}
	fmt.Fprintln(out)
	printCube(out, cube)
	return nil
}
