// cmd/decode.go
package cmd

import (
	"context"
	"fmt"

	"github.com/CaptainSlog/morserx/internal/config"
	"github.com/CaptainSlog/morserx/internal/morse"
	"github.com/CaptainSlog/morserx/internal/rx"
	"github.com/CaptainSlog/morserx/internal/sensor"
	"github.com/spf13/cobra"
)

// decode wires a decoder to the given source and runs the sampling loop.
// Shared by the root (live) and replay commands.
func decode(ctx context.Context, cmd *cobra.Command, settings *config.Settings, src sensor.Source) error {
	decoder, err := morse.NewDecoder(morse.Config{
		ThresholdMV:    settings.ThresholdMV,
		HysteresisMV:   settings.HysteresisMV,
		DotMS:          settings.DotMS,
		SamplePeriodMS: settings.SamplePeriodMS,
		LetterCapacity: settings.LetterCapacity,
		WordCapacity:   settings.WordCapacity,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	decoder.SetCallback(func(w morse.Word) {
		fmt.Fprintf(out, "Decoded Word: %s\n", w.Text)
	})

	loop, err := rx.NewLoop(decoder, src)
	if err != nil {
		return err
	}

	if err := loop.Run(ctx); err != nil {
		return err
	}

	if settings.Debug {
		letters, words := decoder.Overflows()
		fmt.Fprintf(cmd.ErrOrStderr(),
			"debug: %d symbols and %d characters dropped, %d sensor read faults\n",
			letters, words, loop.ReadErrors())
	}
	return nil
}
