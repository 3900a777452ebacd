// internal/rx/loop.go
// Package rx drives the Morse decoder at a fixed sampling cadence.
package rx

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/CaptainSlog/morserx/internal/morse"
	"github.com/CaptainSlog/morserx/internal/sensor"
)

var (
	// ErrNilDecoder indicates a decoder is required
	ErrNilDecoder = errors.New("decoder is required")
	// ErrNilSource indicates a sensor source is required
	ErrNilSource = errors.New("sensor source is required")
)

// Loop reads one voltage per sampling period and feeds it to the decoder.
// The decoder itself never sleeps or blocks; all cadence lives here.
type Loop struct {
	decoder *morse.Decoder
	source  sensor.Source
	period  time.Duration

	lastMV   int
	readErrs atomic.Uint64
}

// NewLoop creates a sampling loop around the given decoder and source.
// The period comes from the decoder's configured sampling interval.
func NewLoop(d *morse.Decoder, src sensor.Source) (*Loop, error) {
	if d == nil {
		return nil, ErrNilDecoder
	}
	if src == nil {
		return nil, ErrNilSource
	}
	return &Loop{
		decoder: d,
		source:  src,
		period:  time.Duration(d.Config().SamplePeriodMS) * time.Millisecond,
	}, nil
}

// Run samples until the context is cancelled or the source is exhausted,
// then flushes the decoder once so trailing data is not lost. A read error
// other than io.EOF reuses the previous reading: sensor degradation never
// aborts decoding.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.decoder.Flush()
			return nil
		case <-ticker.C:
			mv, err := l.source.ReadVoltage()
			if err != nil {
				if errors.Is(err, io.EOF) {
					l.decoder.Flush()
					return nil
				}
				l.readErrs.Add(1)
				mv = l.lastMV
			}
			l.lastMV = mv
			l.decoder.Tick(mv)
		}
	}
}

// ReadErrors returns how many reads fell back to the previous value.
func (l *Loop) ReadErrors() uint64 {
	return l.readErrs.Load()
}
