// internal/sensor/sensor.go
// Package sensor provides voltage sources for the Morse receiver. A source
// yields one millivolt reading per sampling tick; how the reading is obtained
// (serial ADC, sound-card line-in, recorded trace) is the source's concern,
// the decoder only ever sees millivolts.
package sensor

// Source yields millivolt readings, one per sampling tick.
type Source interface {
	// ReadVoltage returns the current sensor voltage in millivolts. Sources
	// return a best-effort reading even when degraded; a replay source
	// returns io.EOF once its trace is exhausted.
	ReadVoltage() (int, error)
	// Close releases the source's resources.
	Close() error
}
