package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tracklab/export"
	"tracklab/sequencer"
)

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportPattern, "pattern", false, "export a library pattern instead of a project")
}

var exportPattern bool

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List saved projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		list := s.manager.Projects.List()
		if len(list) == 0 {
			fmt.Fprintln(out, "No saved projects yet.")
			return nil
		}
		for i, p := range list {
			fmt.Fprintf(out, "%d: %-24s %s  %3dbpm  %d blocks\n",
				i, p.Name, p.SavedAt.Format("2006-01-02 15:04"), p.Snapshot.BPM, len(p.Snapshot.Blocks))
		}
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List recorded patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.close()

		out := cmd.OutOrStdout()
		list := s.manager.Library.List()
		if len(list) == 0 {
			fmt.Fprintln(out, "No patterns yet.")
			return nil
		}
		for i, p := range list {
			fmt.Fprintf(out, "%d: %-24s %3dbpm  %d events\n", i, p.Name, p.Tempo(), len(p.Events))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <index> <out.mid>",
	Short: "Write a saved project (or with --pattern, a pattern) as a MIDI file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("index %q: %w", args[0], sequencer.ErrInvalidProjectIndex)
		}

		s, err := openSession(nil)
		if err != nil {
			return err
		}
		defer s.close()

		banks := s.manager.Banks()
		opts := export.Options{Banks: &banks, Octave: cfg.MIDI.Octave, Velocity: uint8(cfg.MIDI.Velocity)}

		if exportPattern {
			p, err := s.manager.Library.Get(idx)
			if err != nil {
				return err
			}
			if err := writePattern(args[1], p, opts); err != nil {
				return err
			}
		} else {
			proj, err := s.manager.Projects.Get(idx)
			if err != nil {
				return err
			}
			if err := export.ArrangementFile(args[1], proj.Snapshot, s.manager.Library, opts); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
		return nil
	},
}
