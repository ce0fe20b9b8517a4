// Command tonewav renders the test tone to a WAV file without opening any
// device. Useful for checking the generators by ear or in an editor.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/gradient-tone/internal/config"
	"github.com/iburimskiy/gradient-tone/internal/tone"
)

func main() {
	out := flag.String("o", "tone.wav", "output file")
	seconds := flag.Float64("seconds", 2, "length in seconds")
	wave := flag.String("wave", config.WaveSine, "sine or square")
	hz := flag.Int("hz", config.ToneHz, "tone frequency")
	rate := flag.Int("rate", config.SamplesPerSecond, "samples per second")
	volume := flag.Int("volume", config.ToneVolume, "amplitude (1-32767)")
	flag.Parse()

	log.SetPrefix("[tonewav] ")

	cfg := config.Default()
	cfg.Resolve(config.Flags{Wave: *wave, ToneHz: *hz, Rate: *rate, Volume: *volume})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *seconds <= 0 {
		log.Fatalf("length must be positive, got %v", *seconds)
	}

	if err := render(*out, cfg, time.Duration(*seconds*float64(time.Second))); err != nil {
		log.Fatal(err)
	}
}

func render(path string, cfg config.Config, d time.Duration) error {
	var gen tone.Generator = tone.NewSine(cfg.SamplesPerSecond, cfg.ToneHz, int16(cfg.ToneVolume))
	if cfg.Wave == config.WaveSquare {
		gen = tone.NewSquare(cfg.SamplesPerSecond, cfg.ToneHz, int16(cfg.ToneVolume))
	}

	sr := beep.SampleRate(cfg.SamplesPerSecond)
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, beep.Take(sr.N(d), tone.Streamer(gen)), format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s: %s %d Hz, %v at %d Hz", path, cfg.Wave, cfg.ToneHz, d, cfg.SamplesPerSecond)
	return nil
}
