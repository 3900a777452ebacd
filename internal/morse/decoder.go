// internal/morse/decoder.go
package morse

import (
	"errors"
	"sync"
	"time"
)

// Gap and pulse classification ratios, in dot units. A completed On interval
// shorter than DashRatio dots is a dot, otherwise a dash. A completed Off
// interval of at least LetterGapRatio dots closes the current letter, and one
// of at least WordGapRatio dots closes the current word. Word gap is checked
// first: the ranges are nested and a long gap is also past the letter boundary.
const (
	DashRatio      = 2
	LetterGapRatio = 2
	WordGapRatio   = 5
)

var (
	// ErrInvalidThreshold indicates the detection threshold must be positive
	ErrInvalidThreshold = errors.New("threshold must be positive millivolts")
	// ErrInvalidHysteresis indicates hysteresis must be non-negative and below the threshold
	ErrInvalidHysteresis = errors.New("hysteresis must be non-negative and less than the threshold")
	// ErrInvalidDot indicates the dot duration must be positive
	ErrInvalidDot = errors.New("dot duration must be positive milliseconds")
	// ErrInvalidPeriod indicates the sampling period must be positive
	ErrInvalidPeriod = errors.New("sample period must be positive milliseconds")
	// ErrInvalidCapacity indicates buffer capacities must be positive
	ErrInvalidCapacity = errors.New("buffer capacity must be positive")
)

// Config holds configuration for the decoder.
// All adjustable values come from the application config file.
type Config struct {
	// ThresholdMV is the nominal on/off boundary in millivolts (from config: threshold_mv)
	ThresholdMV int
	// HysteresisMV widens the boundary on the side opposite the current state
	// (from config: hysteresis_mv). A reading must clear threshold+hysteresis
	// to turn on and drop to threshold-hysteresis to turn off, so sensor noise
	// near the boundary cannot flap the state.
	HysteresisMV int
	// DotMS is the nominal duration of one Morse dot in milliseconds (from config: dot_ms)
	DotMS int
	// SamplePeriodMS is the fixed interval between Tick calls (from config: sample_period_ms)
	SamplePeriodMS int
	// LetterCapacity bounds the dot/dash symbols per letter (from config: letter_capacity)
	LetterCapacity int
	// WordCapacity bounds the characters per word (from config: word_capacity)
	WordCapacity int
}

// DefaultConfig returns the timings of the reference hardware: a photoresistor
// reading ~10 mV dark and ~100 mV lit, keyed at a 50 ms dot.
func DefaultConfig() Config {
	return Config{
		ThresholdMV:    40,
		HysteresisMV:   5,
		DotMS:          50,
		SamplePeriodMS: 10,
		LetterCapacity: 16,
		WordCapacity:   64,
	}
}

// Word is a decoded word event.
type Word struct {
	// Text is the decoded characters, unknown codes included as Unknown
	Text string
	// Timestamp is when the word gap was recognized
	Timestamp time.Time
}

// WordCallback is called when a word gap closes a non-empty word buffer.
// Called under the decoder lock; must be non-blocking and fast.
type WordCallback func(w Word)

// Decoder is the tick-driven Morse decoding state machine. It consumes one
// millivolt reading per sampling period and reconstructs words from the
// on/off timing of the light level. All timing is derived from counting
// ticks of the configured period; there is no wall-clock dependency.
//
// The decoder is owned by a single driving loop. The mutex serializes Tick
// against Flush/Reset/SetCallback from other goroutines; it does not make
// concurrent Tick callers meaningful.
type Decoder struct {
	config Config
	mu     sync.Mutex

	// Edge detection state
	ledOn      bool // debounced signal level, starts off
	durationMS int  // time spent continuously at the current level

	// Assembly buffers
	letterBuf []byte // dot/dash symbols for the letter in progress
	wordBuf   []rune // decoded characters for the word in progress

	// Dropped symbols/characters due to full buffers
	letterOverflows uint64
	wordOverflows   uint64

	callback WordCallback
}

// NewDecoder creates a decoder with the given configuration.
func NewDecoder(cfg Config) (*Decoder, error) {
	if cfg.ThresholdMV <= 0 {
		return nil, ErrInvalidThreshold
	}
	if cfg.HysteresisMV < 0 || cfg.HysteresisMV >= cfg.ThresholdMV {
		return nil, ErrInvalidHysteresis
	}
	if cfg.DotMS <= 0 {
		return nil, ErrInvalidDot
	}
	if cfg.SamplePeriodMS <= 0 {
		return nil, ErrInvalidPeriod
	}
	if cfg.LetterCapacity <= 0 || cfg.WordCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Decoder{
		config:    cfg,
		letterBuf: make([]byte, 0, cfg.LetterCapacity),
		wordBuf:   make([]rune, 0, cfg.WordCapacity),
	}, nil
}

// SetCallback sets the callback for decoded words.
func (d *Decoder) SetCallback(cb WordCallback) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = cb
}

// Tick advances the state machine by one sampling period with the given
// millivolt reading. At most one edge transition is processed per tick.
func (d *Decoder) Tick(voltageMV int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Hysteresis: the boundary widens on the side opposite the current state.
	var on bool
	if d.ledOn {
		on = voltageMV > d.config.ThresholdMV-d.config.HysteresisMV
	} else {
		on = voltageMV > d.config.ThresholdMV+d.config.HysteresisMV
	}

	if on {
		if !d.ledOn {
			// Rising edge: the ended dark interval is a gap.
			d.classifyGap()
			d.durationMS = 0
		}
		d.ledOn = true
	} else {
		if d.ledOn {
			// Falling edge: the ended lit interval is a dot or dash.
			d.classifyPulse()
			d.durationMS = 0
		}
		d.ledOn = false
	}
	d.durationMS += d.config.SamplePeriodMS
}

// classifyPulse records the just-ended On interval as a dot or dash.
// Symbols beyond the letter capacity are dropped and counted.
func (d *Decoder) classifyPulse() {
	sym := byte('.')
	if d.durationMS >= DashRatio*d.config.DotMS {
		sym = '-'
	}
	if len(d.letterBuf) >= d.config.LetterCapacity {
		d.letterOverflows++
		return
	}
	d.letterBuf = append(d.letterBuf, sym)
}

// classifyGap evaluates the just-ended Off interval. Word gap first: its
// range subsumes the letter-gap magnitude, and it also closes the letter.
func (d *Decoder) classifyGap() {
	switch {
	case d.durationMS >= WordGapRatio*d.config.DotMS:
		d.closeLetter()
		d.closeWord(time.Now())
	case d.durationMS >= LetterGapRatio*d.config.DotMS:
		d.closeLetter()
	}
	// Shorter gaps separate symbols within a letter; nothing to do.
}

// closeLetter looks up the pending letter and appends it to the word buffer.
func (d *Decoder) closeLetter() {
	if len(d.letterBuf) == 0 {
		return
	}
	c := Lookup(string(d.letterBuf))
	d.letterBuf = d.letterBuf[:0]

	if len(d.wordBuf) >= d.config.WordCapacity {
		d.wordOverflows++
		return
	}
	d.wordBuf = append(d.wordBuf, c)
}

// closeWord emits the pending word through the callback.
func (d *Decoder) closeWord(ts time.Time) {
	if len(d.wordBuf) == 0 {
		return
	}
	w := Word{Text: string(d.wordBuf), Timestamp: ts}
	d.wordBuf = d.wordBuf[:0]
	if d.callback != nil {
		d.callback(w)
	}
}

// Flush closes a pending letter and emits a pending word. The tick loop never
// does this on its own: it cannot tell a short trailing gap from a session
// end, so end-of-session cleanup is the caller's explicit operation.
func (d *Decoder) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ledOn {
		// Signal left on: the trailing pulse still counts.
		d.classifyPulse()
	}
	d.closeLetter()
	d.closeWord(time.Now())
	d.ledOn = false
	d.durationMS = 0
}

// Reset clears all state without emitting partial output.
func (d *Decoder) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ledOn = false
	d.durationMS = 0
	d.letterBuf = d.letterBuf[:0]
	d.wordBuf = d.wordBuf[:0]
	d.letterOverflows = 0
	d.wordOverflows = 0
}

// Overflows returns how many symbols and characters have been dropped
// because a buffer was at capacity.
func (d *Decoder) Overflows() (letters, words uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.letterOverflows, d.wordOverflows
}

// LedOn returns the current debounced signal level (for debug output).
func (d *Decoder) LedOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ledOn
}

// Config returns the decoder configuration.
func (d *Decoder) Config() Config {
	return d.config
}
