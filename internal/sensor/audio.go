// internal/sensor/audio.go
package sensor

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"
)

var (
	ErrNotInitialized = errors.New("audio source not initialized")
	ErrAlreadyRunning = errors.New("audio source already running")
)

// AudioConfig holds configuration for the line-in source.
type AudioConfig struct {
	DeviceIndex int    // -1 for default device
	SampleRate  uint32 // e.g. 48000
	BufferSize  uint32 // frames per callback
	FullScaleMV int    // millivolt value a full-scale sample maps to
}

// DefaultAudioConfig returns defaults for a photoresistor divider wired into
// a sound-card line-in.
func DefaultAudioConfig() AudioConfig {
	return AudioConfig{
		DeviceIndex: -1,
		SampleRate:  48000,
		BufferSize:  256,
		FullScaleMV: 200,
	}
}

// AudioSource samples a photoresistor through a sound-card line-in. Each
// capture callback reduces its frames to a peak magnitude scaled to
// millivolts; ReadVoltage returns the latest level without blocking.
type AudioSource struct {
	config AudioConfig

	mu      sync.RWMutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	running bool
	latest  int
}

// NewAudioSource creates an audio line-in source. Call Start to begin capture.
func NewAudioSource(cfg AudioConfig) *AudioSource {
	return &AudioSource{config: cfg}
}

// Start initializes the audio backend and begins capture.
func (a *AudioSource) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return ErrAlreadyRunning
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}

	deviceConfig := malgo.DeviceConfig{
		DeviceType:         malgo.Capture,
		SampleRate:         a.config.SampleRate,
		PeriodSizeInFrames: a.config.BufferSize,
		Capture: malgo.SubConfig{
			Format:   malgo.FormatF32,
			Channels: 1,
		},
	}

	if a.config.DeviceIndex >= 0 {
		devices, err := ctx.Devices(malgo.Capture)
		if err != nil {
			_ = ctx.Uninit()
			ctx.Free()
			return fmt.Errorf("enumerate devices: %w", err)
		}
		if a.config.DeviceIndex >= len(devices) {
			_ = ctx.Uninit()
			ctx.Free()
			return fmt.Errorf("device index %d out of range (have %d devices)",
				a.config.DeviceIndex, len(devices))
		}
		deviceConfig.Capture.DeviceID = devices[a.config.DeviceIndex].ID.Pointer()
	}

	onRecvFrames := func(outputSamples, inputSamples []byte, frameCount uint32) {
		if len(inputSamples) == 0 {
			return
		}
		mv := a.framesToMillivolts(inputSamples)
		a.mu.Lock()
		a.latest = mv
		a.mu.Unlock()
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecvFrames,
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("init device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("start device: %w", err)
	}

	a.ctx = ctx
	a.device = device
	a.running = true
	return nil
}

// ReadVoltage returns the latest millivolt level from the line-in.
func (a *AudioSource) ReadVoltage() (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !a.running {
		return 0, ErrNotInitialized
	}
	return a.latest, nil
}

// Close stops capture and releases the audio backend.
func (a *AudioSource) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.device != nil {
		_ = a.device.Stop()
		a.device.Uninit()
		a.device = nil
	}
	a.running = false

	if a.ctx != nil {
		if err := a.ctx.Uninit(); err != nil {
			return fmt.Errorf("uninit context: %w", err)
		}
		a.ctx.Free()
		a.ctx = nil
	}
	return nil
}

// framesToMillivolts reduces a callback's frames to a peak magnitude scaled
// to the configured full-scale millivolt value.
func (a *AudioSource) framesToMillivolts(data []byte) int {
	var peak float32
	numSamples := len(data) / 4
	for i := 0; i < numSamples; i++ {
		offset := i * 4
		// Little-endian float32
		bits := uint32(data[offset]) |
			uint32(data[offset+1])<<8 |
			uint32(data[offset+2])<<16 |
			uint32(data[offset+3])<<24
		s := float32frombits(bits)
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return int(peak * float32(a.config.FullScaleMV))
}

// float32frombits converts IEEE 754 binary representation to float32
func float32frombits(b uint32) float32 {
	return *(*float32)(unsafe.Pointer(&b))
}

// ListAudioDevices enumerates available capture devices.
func ListAudioDevices() ([]malgo.DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return infos, nil
}
