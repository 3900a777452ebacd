// internal/sensor/serial.go
package sensor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// SerialSource reads millivolt values from a microcontroller that prints one
// decimal value per line (e.g. an Arduino sketch forwarding its ADC). A
// background goroutine scans the port and keeps the latest reading; ReadVoltage
// never blocks on the wire, so a slow or silent sender degrades to a stale
// reading rather than stalling the sampling loop.
type SerialSource struct {
	port serial.Port

	mu     sync.RWMutex
	latest int
	closed bool
}

// NewSerialSource opens the named port and starts the reader goroutine.
func NewSerialSource(portName string, baudRate int) (*SerialSource, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	s := &SerialSource{port: port}
	go s.readLoop()
	return s, nil
}

// readLoop scans lines from the port until it closes or fails. The last
// reading stays available so the decoder keeps a defined input.
func (s *SerialSource) readLoop() {
	s.scan(s.port)
}

// scan parses millivolt lines from the reader and stores each reading.
// Malformed lines are skipped.
func (s *SerialSource) scan(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		mv, err := strconv.Atoi(line)
		if err != nil {
			continue
		}
		s.mu.Lock()
		s.latest = mv
		s.mu.Unlock()
	}
}

// ReadVoltage returns the most recent reading from the port.
func (s *SerialSource) ReadVoltage() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, nil
}

// Close closes the serial port, which also stops the reader goroutine.
func (s *SerialSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
