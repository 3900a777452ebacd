// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName       = "morserx"
	ConfigType    = "yaml"
	DefaultConfig = `# Morse Receiver Configuration

# Sensor source: serial, audio, or replay (replay needs a trace file argument)
sensor_source: "serial"

# Serial source settings
serial_port: "/dev/ttyUSB0" # port the ADC board prints millivolt lines on
baud_rate: 115200

# Audio (line-in) source settings
device_index: -1        # -1 for default capture device
sample_rate: 48000      # capture sample rate in Hz
full_scale_mv: 200      # millivolts a full-scale sample maps to

# Signal detection
threshold_mv: 40        # mV, midway between LED off (~10mV) and LED on (~100mV)
hysteresis_mv: 5        # mV, prevents bouncing near the threshold

# Timing
dot_ms: 50              # nominal Morse dot duration in milliseconds
sample_period_ms: 10    # fixed sampling interval

# Buffers
letter_capacity: 16     # dot/dash symbols per letter
word_capacity: 64       # characters per word

# Output
debug: false            # enable tick-level debug output
`
)

// Settings holds all application configuration
type Settings struct {
	// Sensor source selection
	SensorSource string `mapstructure:"sensor_source"`

	// Serial source settings
	SerialPort string `mapstructure:"serial_port"`
	BaudRate   int    `mapstructure:"baud_rate"`

	// Audio source settings
	DeviceIndex int `mapstructure:"device_index"`
	SampleRate  int `mapstructure:"sample_rate"`
	FullScaleMV int `mapstructure:"full_scale_mv"`

	// Signal detection
	ThresholdMV  int `mapstructure:"threshold_mv"`
	HysteresisMV int `mapstructure:"hysteresis_mv"`

	// Timing
	DotMS          int `mapstructure:"dot_ms"`
	SamplePeriodMS int `mapstructure:"sample_period_ms"`

	// Buffers
	LetterCapacity int `mapstructure:"letter_capacity"`
	WordCapacity   int `mapstructure:"word_capacity"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/morserx/
func Init() error {
	viper.SetDefault("sensor_source", "serial")
	viper.SetDefault("serial_port", "/dev/ttyUSB0")
	viper.SetDefault("baud_rate", 115200)
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 48000)
	viper.SetDefault("full_scale_mv", 200)
	viper.SetDefault("threshold_mv", 40)
	viper.SetDefault("hysteresis_mv", 5)
	viper.SetDefault("dot_ms", 50)
	viper.SetDefault("sample_period_ms", 10)
	viper.SetDefault("letter_capacity", 16)
	viper.SetDefault("word_capacity", 64)
	viper.SetDefault("debug", false)

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// If no config exists anywhere, create the default in the XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	validSources := map[string]bool{
		"serial": true,
		"audio":  true,
		"replay": true,
	}
	if !validSources[s.SensorSource] {
		errs = append(errs, fmt.Errorf("sensor_source must be one of serial, audio, replay, got %q", s.SensorSource))
	}

	// Serial source settings
	if s.SensorSource == "serial" && s.SerialPort == "" {
		errs = append(errs, errors.New("serial_port must be set for the serial source"))
	}
	if s.BaudRate < 300 || s.BaudRate > 921600 {
		errs = append(errs, fmt.Errorf("baud_rate must be between 300 and 921600, got %d", s.BaudRate))
	}

	// Audio source settings
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %d", s.SampleRate))
	}
	if s.FullScaleMV < 1 || s.FullScaleMV > 5000 {
		errs = append(errs, fmt.Errorf("full_scale_mv must be between 1 and 5000, got %d", s.FullScaleMV))
	}

	// Signal detection
	if s.ThresholdMV < 1 || s.ThresholdMV > 5000 {
		errs = append(errs, fmt.Errorf("threshold_mv must be between 1 and 5000, got %d", s.ThresholdMV))
	}
	if s.HysteresisMV < 0 || s.HysteresisMV >= s.ThresholdMV {
		errs = append(errs, fmt.Errorf("hysteresis_mv must be non-negative and less than threshold_mv, got %d", s.HysteresisMV))
	}

	// Timing
	if s.DotMS < 10 || s.DotMS > 5000 {
		errs = append(errs, fmt.Errorf("dot_ms must be between 10 and 5000, got %d", s.DotMS))
	}
	if s.SamplePeriodMS < 1 || s.SamplePeriodMS > 1000 {
		errs = append(errs, fmt.Errorf("sample_period_ms must be between 1 and 1000, got %d", s.SamplePeriodMS))
	}
	// A dot shorter than the sampling period can never be observed
	if s.SamplePeriodMS > s.DotMS {
		errs = append(errs, fmt.Errorf("sample_period_ms (%d) must not exceed dot_ms (%d)", s.SamplePeriodMS, s.DotMS))
	}

	// Buffers
	if s.LetterCapacity < 1 || s.LetterCapacity > 64 {
		errs = append(errs, fmt.Errorf("letter_capacity must be between 1 and 64, got %d", s.LetterCapacity))
	}
	if s.WordCapacity < 1 || s.WordCapacity > 1024 {
		errs = append(errs, fmt.Errorf("word_capacity must be between 1 and 1024, got %d", s.WordCapacity))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
