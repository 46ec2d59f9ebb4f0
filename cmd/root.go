package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tracklab/config"
	"tracklab/debug"
	"tracklab/midi"
	"tracklab/theme"
	"tracklab/tui"
)

var (
	configPath string
	dataDir    string
	debugFlag  bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tracklab",
	Short: "Record riffs and arrange them on a timeline",
	Long: `tracklab turns the keyboard into a chord and note bank for the
current key, records quantized riffs and arranges them on a looping
multi-lane timeline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if debugFlag || cfg.Debug {
			if err := debug.Enable(debug.DefaultPath()); err != nil {
				fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		debug.Disable()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/tracklab/config.json)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for saved patterns and projects")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prompter := tui.NewPrompter()
	s, err := openSession(prompter)
	if err != nil {
		return err
	}
	defer s.close()

	var deviceMgr *midi.DeviceManager
	if cfg.MIDI.Input != "" {
		deviceMgr = midi.NewDeviceManager(cfg.MIDI.Input)
		go deviceMgr.Run(ctx)
	}

	palette := theme.Default()
	if cfg.Palette != "" {
		if p, err := theme.LoadGPL(cfg.Palette); err != nil {
			debug.Log("theme", "palette %s: %v", cfg.Palette, err)
		} else {
			palette = p
		}
	}

	m := tui.NewModel(ctx, s.manager, prompter, deviceMgr, theme.New(palette))
	m.Octave = cfg.MIDI.Octave
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
