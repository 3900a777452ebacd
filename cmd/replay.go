// cmd/replay.go
package cmd

import (
	"github.com/CaptainSlog/morserx/internal/config"
	"github.com/CaptainSlog/morserx/internal/sensor"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace-file>",
	Short: "Decode a recorded millivolt trace",
	Long: `Replays a trace file (one millivolt reading per line, '#' comments
allowed) through the decoder and prints the decoded words. The file is read
at the configured sampling cadence, so a 10 ms trace line stands for 10 ms of
sensor time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Get()
		if err != nil {
			return err
		}

		src, err := sensor.NewReplaySource(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		return decode(cmd.Context(), cmd, settings, src)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
