package sensor

import (
	"strings"
	"testing"
)

func TestSerialSource_ScanKeepsLatestReading(t *testing.T) {
	s := &SerialSource{}
	s.scan(strings.NewReader("10\n25\n100\n"))

	mv, err := s.ReadVoltage()
	if err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if mv != 100 {
		t.Errorf("ReadVoltage() = %d, want 100", mv)
	}
}

func TestSerialSource_ScanSkipsMalformedLines(t *testing.T) {
	s := &SerialSource{}
	s.scan(strings.NewReader("42\ngarbage\n\n  \nmv=17\n"))

	mv, err := s.ReadVoltage()
	if err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if mv != 42 {
		t.Errorf("ReadVoltage() = %d, want 42 (malformed lines skipped)", mv)
	}
}

func TestSerialSource_ScanTrimsWhitespace(t *testing.T) {
	s := &SerialSource{}
	s.scan(strings.NewReader("  55 \r\n"))

	mv, err := s.ReadVoltage()
	if err != nil {
		t.Fatalf("ReadVoltage() error = %v", err)
	}
	if mv != 55 {
		t.Errorf("ReadVoltage() = %d, want 55", mv)
	}
}

func TestNewSerialSource_BadPort(t *testing.T) {
	if _, err := NewSerialSource("/dev/does-not-exist", 115200); err == nil {
		t.Error("NewSerialSource() error = nil, want open error")
	}
}
