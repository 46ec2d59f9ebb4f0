package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tracklab/midi"
)

func init() {
	rootCmd.AddCommand(portsCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI input and output ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, err := midi.InPorts()
		if err != nil {
			return err
		}
		outs, err := midi.OutPorts()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== MIDI Input Ports ===")
		for i, name := range ins {
			fmt.Fprintf(out, "  %d: %s\n", i, name)
		}
		fmt.Fprintln(out, "\n=== MIDI Output Ports ===")
		for i, name := range outs {
			fmt.Fprintf(out, "  %d: %s\n", i, name)
		}
		return nil
	},
}
