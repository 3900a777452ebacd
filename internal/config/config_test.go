package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// chdir changes into dir and restores the previous working directory on
// cleanup. It mirrors testing.T.Chdir, which needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q) error = %v", dir, err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

// validSettings returns settings matching the shipped defaults.
func validSettings() Settings {
	return Settings{
		SensorSource:   "serial",
		SerialPort:     "/dev/ttyUSB0",
		BaudRate:       115200,
		DeviceIndex:    -1,
		SampleRate:     48000,
		FullScaleMV:    200,
		ThresholdMV:    40,
		HysteresisMV:   5,
		DotMS:          50,
		SamplePeriodMS: 10,
		LetterCapacity: 16,
		WordCapacity:   64,
	}
}

func TestSettings_ValidateDefaults(t *testing.T) {
	s := validSettings()
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestSettings_InvalidSensorSource(t *testing.T) {
	s := validSettings()
	s.SensorSource = "gpio"

	err := s.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want sensor_source error")
	}
	if !strings.Contains(err.Error(), "sensor_source") {
		t.Errorf("Validate() error = %v, want sensor_source mention", err)
	}
}

func TestSettings_SerialSourceRequiresPort(t *testing.T) {
	s := validSettings()
	s.SerialPort = ""

	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil, want serial_port error")
	}

	// The replay source does not need a port.
	s.SensorSource = "replay"
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil for replay source", err)
	}
}

func TestSettings_InvalidThreshold(t *testing.T) {
	s := validSettings()
	s.ThresholdMV = 0

	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil, want threshold_mv error")
	}
}

func TestSettings_InvalidHysteresis(t *testing.T) {
	s := validSettings()

	s.HysteresisMV = -1
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for negative hysteresis")
	}

	s.HysteresisMV = s.ThresholdMV
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for hysteresis >= threshold")
	}
}

func TestSettings_InvalidTiming(t *testing.T) {
	s := validSettings()
	s.DotMS = 5
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for dot_ms below range")
	}

	s = validSettings()
	s.SamplePeriodMS = 0
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for zero sample_period_ms")
	}

	s = validSettings()
	s.SamplePeriodMS = 100
	s.DotMS = 50
	err := s.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil for period longer than dot")
	}
	if !strings.Contains(err.Error(), "sample_period_ms") {
		t.Errorf("Validate() error = %v, want sample_period_ms mention", err)
	}
}

func TestSettings_InvalidCapacities(t *testing.T) {
	s := validSettings()
	s.LetterCapacity = 0
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for zero letter_capacity")
	}

	s = validSettings()
	s.WordCapacity = 2000
	if err := s.Validate(); err == nil {
		t.Error("Validate() error = nil for oversized word_capacity")
	}
}

func TestSettings_ValidateJoinsMultipleErrors(t *testing.T) {
	s := validSettings()
	s.ThresholdMV = 0
	s.DotMS = 0

	err := s.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil, want joined errors")
	}
	if !strings.Contains(err.Error(), "threshold_mv") || !strings.Contains(err.Error(), "dot_ms") {
		t.Errorf("Validate() error = %v, want both threshold_mv and dot_ms mentioned", err)
	}
}

func TestInit_CreatesDefaultConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	chdir(t, tmpDir)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	configFile := filepath.Join(tmpDir, ".config", AppName, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		t.Errorf("default config not created: %v", err)
	}
	if got := viper.GetInt("threshold_mv"); got != 40 {
		t.Errorf("viper.GetInt(threshold_mv) = %d, want 40", got)
	}
}

func TestGet_ValidConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	chdir(t, tmpDir)

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	s, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s.DotMS != 50 {
		t.Errorf("DotMS = %d, want 50", s.DotMS)
	}
	if s.SamplePeriodMS != 10 {
		t.Errorf("SamplePeriodMS = %d, want 10", s.SamplePeriodMS)
	}
	if s.SensorSource != "serial" {
		t.Errorf("SensorSource = %q, want %q", s.SensorSource, "serial")
	}
}

func TestGet_InvalidConfigRejected(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	chdir(t, tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("threshold_mv: 0\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := Get(); err == nil {
		t.Error("Get() error = nil, want validation error")
	}
}
