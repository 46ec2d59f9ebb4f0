package cmd

import (
	"os"

	"tracklab/export"
	"tracklab/sequencer"
)

func writePattern(path string, p sequencer.Pattern, opts export.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Pattern(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
