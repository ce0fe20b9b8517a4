package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	WindowTitle = "Gradient Tone"

	// Back buffer
	DefaultWidth  = 1280
	DefaultHeight = 720

	// Test tone
	SamplesPerSecond = 48000
	ToneHz           = 256
	ToneVolume       = 3000
	LatencyDivisor   = 15 // latency = SamplesPerSecond / LatencyDivisor samples

	// Presentation
	StatsInterval = 0
)

// Wave shapes accepted by Config.Wave.
const (
	WaveSine   = "sine"
	WaveSquare = "square"
)

// Audio backends accepted by Config.AudioBackend.
const (
	AudioOto     = "oto"
	AudioSpeaker = "speaker"
	AudioVirtual = "virtual"
	AudioNone    = "none"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds every runtime setting. Zero values in a JSON file keep the defaults.
type Config struct {
	// Display
	Width        int  `json:"width"`
	Height       int  `json:"height"`
	ResizeBuffer bool `json:"resize_buffer"`
	Headless     bool `json:"headless"`
	Frames       int  `json:"frames"`

	// Audio
	SamplesPerSecond int    `json:"samples_per_second"`
	ToneHz           int    `json:"tone_hz"`
	ToneVolume       int    `json:"tone_volume"`
	LatencyDivisor   int    `json:"latency_divisor"`
	Wave             string `json:"wave"`
	AudioBackend     string `json:"audio_backend"`
	CapturePath      string `json:"capture_path"`

	// Diagnostics
	ShowStats     bool   `json:"show_stats"`
	StatsInterval int    `json:"stats_interval"`
	SnapshotDir   string `json:"snapshot_dir"`
	SnapshotPath  string `json:"snapshot_path"`
}

// Flags carries command-line overrides. Zero values mean "not set".
type Flags struct {
	Width          int
	Height         int
	ResizeBuffer   bool
	Headless       bool
	Frames         int
	Rate           int
	ToneHz         int
	Volume         int
	LatencyDivisor int
	Wave           string
	Audio          string
	CapturePath    string
	ShowStats      bool
	StatsInterval  int
	SnapshotDir    string
	SnapshotPath   string
}

// Default returns the settings of the stock build.
func Default() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		SamplesPerSecond: SamplesPerSecond,
		ToneHz:           ToneHz,
		ToneVolume:       ToneVolume,
		LatencyDivisor:   LatencyDivisor,
		Wave:             WaveSine,
		AudioBackend:     AudioOto,
		StatsInterval:    StatsInterval,
		SnapshotDir:      ".",
	}
}

// Load reads a JSON config file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies command-line overrides. Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(f Flags) {
	if f.Width > 0 {
		c.Width = f.Width
	}
	if f.Height > 0 {
		c.Height = f.Height
	}
	if f.ResizeBuffer {
		c.ResizeBuffer = true
	}
	if f.Headless {
		c.Headless = true
	}
	if f.Frames > 0 {
		c.Frames = f.Frames
	}
	if f.Rate > 0 {
		c.SamplesPerSecond = f.Rate
	}
	if f.ToneHz > 0 {
		c.ToneHz = f.ToneHz
	}
	if f.Volume > 0 {
		c.ToneVolume = f.Volume
	}
	if f.LatencyDivisor > 0 {
		c.LatencyDivisor = f.LatencyDivisor
	}
	if f.Wave != "" {
		c.Wave = strings.ToLower(f.Wave)
	}
	if f.Audio != "" {
		c.AudioBackend = strings.ToLower(f.Audio)
	}
	if f.CapturePath != "" {
		c.CapturePath = f.CapturePath
	}
	if f.ShowStats {
		c.ShowStats = true
	}
	if f.StatsInterval > 0 {
		c.StatsInterval = f.StatsInterval
	}
	if f.SnapshotDir != "" {
		c.SnapshotDir = f.SnapshotDir
	}
	if f.SnapshotPath != "" {
		c.SnapshotPath = f.SnapshotPath
	}
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: buffer size %dx%d", ErrInvalid, c.Width, c.Height)
	case c.SamplesPerSecond <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SamplesPerSecond)
	case c.ToneHz <= 0 || c.ToneHz*2 > c.SamplesPerSecond:
		return fmt.Errorf("%w: tone %d Hz at %d Hz sample rate", ErrInvalid, c.ToneHz, c.SamplesPerSecond)
	case c.ToneVolume <= 0 || c.ToneVolume > 32767:
		return fmt.Errorf("%w: tone volume %d", ErrInvalid, c.ToneVolume)
	case c.LatencyDivisor <= 1:
		return fmt.Errorf("%w: latency divisor %d", ErrInvalid, c.LatencyDivisor)
	case c.Frames < 0 || c.StatsInterval < 0:
		return fmt.Errorf("%w: negative frame count", ErrInvalid)
	}
	switch c.Wave {
	case WaveSine, WaveSquare:
	default:
		return fmt.Errorf("%w: wave %q", ErrInvalid, c.Wave)
	}
	switch c.AudioBackend {
	case AudioOto, AudioSpeaker, AudioVirtual, AudioNone:
	default:
		return fmt.Errorf("%w: audio backend %q", ErrInvalid, c.AudioBackend)
	}
	return nil
}

// SnapshotKeys names the keys that save a frame. A terminal has no function
// keys, so headless runs also take S.
func (c Config) SnapshotKeys() []string {
	if c.Headless {
		return []string{"F12", "S"}
	}
	return []string{"F12"}
}

// LatencySampleCount is how many samples the writer stays ahead of the play cursor.
func (c Config) LatencySampleCount() int {
	return c.SamplesPerSecond / c.LatencyDivisor
}
