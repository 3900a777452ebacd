// cmd/root.go
package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CaptainSlog/morserx/internal/config"
	"github.com/CaptainSlog/morserx/internal/sensor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "morserx",
	Short: "Morse code receiver for a light sensor",
	Long: `morserx decodes Morse code from a photoresistor watching a blinking
LED. It samples the sensor voltage at a fixed period, classifies on/off
intervals as dots, dashes and gaps, and prints decoded words.`,
	RunE: runReceiver,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().StringP("source", "s", "serial", "sensor source (serial, audio, replay)")
	rootCmd.PersistentFlags().StringP("port", "p", "/dev/ttyUSB0", "serial port for the ADC board")
	rootCmd.PersistentFlags().IntP("threshold", "t", 40, "detection threshold in millivolts")
	rootCmd.PersistentFlags().Int("dot", 50, "nominal dot duration in milliseconds")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable tick-level debug output")

	// Bind flags to viper
	viper.BindPFlag("sensor_source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("serial_port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("threshold_mv", rootCmd.PersistentFlags().Lookup("threshold"))
	viper.BindPFlag("dot_ms", rootCmd.PersistentFlags().Lookup("dot"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

// runReceiver runs the sampling loop against the configured sensor source
// until interrupted.
func runReceiver(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	var src sensor.Source
	switch settings.SensorSource {
	case "serial":
		src, err = sensor.NewSerialSource(settings.SerialPort, settings.BaudRate)
		if err != nil {
			return err
		}
	case "audio":
		audio := sensor.NewAudioSource(sensor.AudioConfig{
			DeviceIndex: settings.DeviceIndex,
			SampleRate:  uint32(settings.SampleRate),
			BufferSize:  256,
			FullScaleMV: settings.FullScaleMV,
		})
		if err = audio.Start(); err != nil {
			return err
		}
		src = audio
	case "replay":
		return fmt.Errorf("the replay source needs a trace file: use 'morserx replay <file>'")
	default:
		return fmt.Errorf("unknown sensor source %q", settings.SensorSource)
	}
	defer src.Close()

	log.Printf("Morse receiver started. Threshold=%d mV, DOT=%d ms",
		settings.ThresholdMV, settings.DotMS)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return decode(ctx, cmd, settings, src)
}
