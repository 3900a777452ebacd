package sensor

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReplaySource_ReadsValues(t *testing.T) {
	src := NewReplayReader(strings.NewReader("10\n100\n5\n"))

	want := []int{10, 100, 5}
	for i, w := range want {
		mv, err := src.ReadVoltage()
		if err != nil {
			t.Fatalf("ReadVoltage() #%d error = %v", i, err)
		}
		if mv != w {
			t.Errorf("ReadVoltage() #%d = %d, want %d", i, mv, w)
		}
	}
}

func TestReplaySource_SkipsCommentsAndBlanks(t *testing.T) {
	src := NewReplayReader(strings.NewReader("# header\n\n  42  \n# tail\n"))

	mv, err := src.ReadVoltage()
	if err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if mv != 42 {
		t.Errorf("ReadVoltage() = %d, want 42", mv)
	}
}

func TestReplaySource_EOFWhenExhausted(t *testing.T) {
	src := NewReplayReader(strings.NewReader("7\n"))

	if _, err := src.ReadVoltage(); err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if _, err := src.ReadVoltage(); err != io.EOF {
		t.Errorf("ReadVoltage() error = %v, want io.EOF", err)
	}
	// Repeated reads stay at EOF.
	if _, err := src.ReadVoltage(); err != io.EOF {
		t.Errorf("ReadVoltage() error = %v, want io.EOF", err)
	}
}

func TestReplaySource_BadLine(t *testing.T) {
	src := NewReplayReader(strings.NewReader("notanumber\n"))

	if _, err := src.ReadVoltage(); err == nil {
		t.Error("ReadVoltage() error = nil, want parse error")
	}
}

func TestNewReplaySource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte("10\n100\n"), 0644); err != nil {
		t.Fatalf("write trace: %v", err)
	}

	src, err := NewReplaySource(path)
	if err != nil {
		t.Fatalf("NewReplaySource() error = %v", err)
	}
	defer src.Close()

	mv, err := src.ReadVoltage()
	if err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if mv != 10 {
		t.Errorf("ReadVoltage() = %d, want 10", mv)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestNewReplaySource_MissingFile(t *testing.T) {
	if _, err := NewReplaySource(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("NewReplaySource() error = nil, want open error")
	}
}
