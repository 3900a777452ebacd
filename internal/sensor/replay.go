// internal/sensor/replay.go
package sensor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReplaySource yields millivolt readings from a recorded trace: one decimal
// value per line, `#` comments and blank lines skipped. ReadVoltage returns
// io.EOF once the trace is exhausted, which ends the decode session.
type ReplaySource struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewReplaySource opens a trace file.
func NewReplaySource(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	return &ReplaySource{scanner: bufio.NewScanner(f), closer: f}, nil
}

// NewReplayReader wraps an arbitrary reader as a replay source.
func NewReplayReader(r io.Reader) *ReplaySource {
	return &ReplaySource{scanner: bufio.NewScanner(r)}
}

// ReadVoltage returns the next reading from the trace.
func (r *ReplaySource) ReadVoltage() (int, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		mv, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("bad trace line %q: %w", line, err)
		}
		return mv, nil
	}
	if err := r.scanner.Err(); err != nil {
		return 0, err
	}
	return 0, io.EOF
}

// Close closes the underlying file, if any.
func (r *ReplaySource) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
