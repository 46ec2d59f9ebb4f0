package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracklab/scale"
)

func init() {
	rootCmd.AddCommand(scaleCmd)
}

var scaleCmd = &cobra.Command{
	Use:   "scale <root>",
	Short: "Print the chord and note banks for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := scale.ParsePitchClass(args[0])
		if err != nil {
			return err
		}
		banks, err := scale.NewBanks(root)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s major\n\n", root)
		for i, t := range banks.Triads {
			fmt.Fprintf(out, "  %d  %-2s %s\n", i+1, t.Root, t.Quality)
		}
		fmt.Fprintln(out, "\n  key  chord   code        key  note  code")
		for i := 0; i < scale.BankSize; i++ {
			c, n := banks.Chords[i], banks.Notes[i]
			fmt.Fprintf(out, "  %-3s  %-6s  %-10s  %-3s  %-4s  %s\n",
				scale.ChordKeys[i], c.Label, c.Code, scale.NoteKeys[i], n.Label, n.Code)
		}
		return nil
	},
}
