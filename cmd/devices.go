// cmd/devices.go
package cmd

import (
	"fmt"

	"github.com/CaptainSlog/morserx/internal/sensor"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio capture devices",
	Long:  `Lists the capture devices usable with the audio sensor source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := sensor.ListAudioDevices()
		if err != nil {
			return err
		}

		if len(infos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no capture devices found")
			return nil
		}
		for i, info := range infos {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, info.Name())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
