// Command gradient-tone draws a scrolling gradient and plays a steady test
// tone through a looping ring buffer kept a fixed latency ahead of playback.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/gradient-tone/internal/audio"
	"github.com/iburimskiy/gradient-tone/internal/backend"
	"github.com/iburimskiy/gradient-tone/internal/config"
	"github.com/iburimskiy/gradient-tone/internal/game"
	"github.com/iburimskiy/gradient-tone/internal/headless"
	"github.com/iburimskiy/gradient-tone/internal/input"
	"github.com/iburimskiy/gradient-tone/internal/pixel"
	"github.com/iburimskiy/gradient-tone/internal/tone"
)

const (
	scopeRingSize = 2048
	headlessFPS   = 60
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	var f config.Flags
	flag.IntVar(&f.Width, "width", 0, "back buffer width")
	flag.IntVar(&f.Height, "height", 0, "back buffer height")
	flag.BoolVar(&f.ResizeBuffer, "resize", false, "recreate the back buffer when the window is resized")
	flag.IntVar(&f.Rate, "rate", 0, "samples per second")
	flag.IntVar(&f.ToneHz, "hz", 0, "tone frequency")
	flag.IntVar(&f.Volume, "volume", 0, "tone amplitude (1-32767)")
	flag.IntVar(&f.LatencyDivisor, "latency", 0, "latency as a fraction of a second (15 = 1/15 s)")
	flag.StringVar(&f.Wave, "wave", "", "tone shape: sine or square")
	flag.StringVar(&f.Audio, "audio", "", "audio backend: oto, speaker, virtual or none")
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 0, "stop after this many frames (0 = run until closed)")
	flag.BoolVar(&f.ShowStats, "stats", false, "draw the timing overlay")
	flag.IntVar(&f.StatsInterval, "stats-every", 0, "log frame timing every N frames")
	flag.StringVar(&f.SnapshotPath, "snapshot", "", "save the last frame to this file on exit (.png, .webp, .tga)")
	flag.StringVar(&f.SnapshotDir, "snapshot-dir", "", "directory for F12 snapshots")
	flag.StringVar(&f.CapturePath, "capture", "", "record played audio to this WAV file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fatal(cfg, err)
		}
	}
	cfg.Resolve(f)
	if cfg.Headless && f.Audio == "" {
		cfg.AudioBackend = config.AudioVirtual
	}
	if err := cfg.Validate(); err != nil {
		fatal(cfg, err)
	}

	if err := run(cfg); err != nil {
		fatal(cfg, err)
	}
}

// fatal reports err and exits. Windowed runs also get a dialog, since they
// are often started without a console.
func fatal(cfg config.Config, err error) {
	log.Printf("fatal: %v", err)
	if !cfg.Headless {
		_ = zenity.Error(err.Error(), zenity.Title(config.WindowTitle))
	}
	os.Exit(1)
}

func run(cfg config.Config) error {
	logger := log.New(os.Stderr, "[gradient-tone] ", log.LstdFlags)

	buf, err := pixel.NewBuffer(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	out := audio.NewOutput(cfg.SamplesPerSecond, cfg.ToneHz, int16(cfg.ToneVolume), cfg.LatencySampleCount())
	dev := openAudio(cfg, out, logger)
	defer dev.Close()

	tap := audio.NewTap(scopeRingSize)
	var capture *audio.Capture
	if obs, ok := dev.(interface{ SetObserver(io.Writer) }); ok {
		if cfg.CapturePath != "" {
			capture = &audio.Capture{}
			obs.SetObserver(io.MultiWriter(tap, capture))
		} else {
			obs.SetObserver(tap)
		}
	}

	var gen tone.Generator = tone.NewSine(cfg.SamplesPerSecond, cfg.ToneHz, int16(cfg.ToneVolume))
	if cfg.Wave == config.WaveSquare {
		gen = tone.NewSquare(cfg.SamplesPerSecond, cfg.ToneHz, int16(cfg.ToneVolume))
	}
	writer := audio.NewWriter(out, gen, dev)
	if err := writer.Start(); err != nil {
		logger.Printf("audio start: %v", err)
	}

	app := &game.App{
		Buffer:        buf,
		Sound:         writer,
		Pads:          input.Absent{},
		ResizeBuffer:  cfg.ResizeBuffer,
		StatsInterval: cfg.StatsInterval,
		Log:           logger,
	}
	snapshotKeys := cfg.SnapshotKeys()
	app.OnKey = func(k game.KeyEvent) {
		if !k.Pressed(snapshotKeys...) {
			return
		}
		path := filepath.Join(cfg.SnapshotDir, fmt.Sprintf("frame-%06d.png", app.Stats.Frames))
		if err := pixel.Save(path, app.Buffer); err != nil {
			logger.Printf("snapshot: %v", err)
			return
		}
		logger.Printf("snapshot %s", path)
	}

	if cfg.Headless {
		err = runHeadless(cfg, app, logger)
	} else {
		err = runWindow(cfg, app, tap)
	}
	if err != nil {
		return err
	}

	logger.Printf("%d frames, avg %.2fms/frame, %d audio bytes written, %d audio frames skipped",
		app.Stats.Frames, float64(app.Stats.AvgFrame().Microseconds())/1000, writer.Written, writer.Skipped)

	if cfg.SnapshotPath != "" {
		if err := pixel.Save(cfg.SnapshotPath, app.Buffer); err != nil {
			return err
		}
		logger.Printf("saved %s", cfg.SnapshotPath)
	}
	if capture != nil {
		if err := capture.SaveWAV(cfg.CapturePath, cfg.SamplesPerSecond); err != nil {
			return err
		}
		logger.Printf("captured %d frames to %s", capture.Frames(), cfg.CapturePath)
	}
	return nil
}

// openAudio never fails: a device that cannot be opened is replaced by one
// that reports itself unavailable, and the loop runs silent.
func openAudio(cfg config.Config, out *audio.Output, logger *log.Logger) audio.Device {
	size := out.SecondaryBufferSize
	var (
		dev audio.Device
		err error
	)
	switch cfg.AudioBackend {
	case config.AudioOto:
		dev, err = backend.NewOtoDevice(cfg.SamplesPerSecond, size)
	case config.AudioSpeaker:
		dev, err = backend.NewSpeakerDevice(cfg.SamplesPerSecond, size)
	case config.AudioVirtual:
		dev = audio.NewVirtual(cfg.SamplesPerSecond, size)
	default:
		err = fmt.Errorf("%w: disabled", audio.ErrDeviceUnavailable)
	}
	if err != nil {
		logger.Printf("audio: %v, running silent", err)
		return audio.Absent{Reason: err}
	}
	logger.Printf("audio: %s, %d Hz, ring %d bytes, latency %d samples",
		cfg.AudioBackend, cfg.SamplesPerSecond, size, out.LatencySampleCount)
	return dev
}

func runWindow(cfg config.Config, app *game.App, tap *audio.Tap) error {
	w := backend.NewWindow(config.WindowTitle, cfg.Width, cfg.Height, cfg.ShowStats)
	w.Attach(app, tap)
	if err := w.Run(); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runHeadless(cfg config.Config, app *game.App, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	term, err := headless.OpenTerminal(os.Stdin)
	if err != nil {
		return err
	}
	defer term.Close()
	if term.Interactive() {
		logger.SetOutput(headless.RawWriter(os.Stderr))
		defer logger.SetOutput(os.Stderr)
		logger.Printf("headless: q to quit, s to snapshot")
	}

	app.Events = term
	app.Surface = headless.NewSurface(cfg.Width, cfg.Height)
	app.FrameTime = time.Second / headlessFPS
	return app.Run(ctx, cfg.Frames)
}
