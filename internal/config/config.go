// Package config loads the settings of the vinyltc tools from the
// environment.
package config

import (
	"os"
	"strconv"

	timecode "github.com/llehouerou/go-timecode"
)

// Config holds the runtime configuration of the tools.
type Config struct {
	// Signal
	Format     string  // timecode format name
	SampleRate float64 // Hz
	Level      float64 // encoder peak amplitude of a 1 bit, in (0, 1]

	// Decoder tuning
	Hysteresis     float64
	PitchSmoothing float64

	// Audio I/O
	FramesPerBuffer int

	// Scope
	ScopeSize int // side of the X/Y scope, even and > 10
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	def := timecode.DefaultConfig()
	return Config{
		Format:     envStr("VINYLTC_FORMAT", "serato_cd"),
		SampleRate: envFloat("VINYLTC_SAMPLE_RATE", 44100),
		Level:      envFloat("VINYLTC_LEVEL", timecode.DefaultLevel),

		Hysteresis:     envFloat("VINYLTC_HYSTERESIS", def.Hysteresis),
		PitchSmoothing: envFloat("VINYLTC_PITCH_SMOOTHING", def.PitchSmoothing),

		FramesPerBuffer: envInt("VINYLTC_FRAMES_PER_BUFFER", 256),
		ScopeSize:       envInt("VINYLTC_SCOPE_SIZE", 64),
	}
}

// TimecodeFormat resolves the configured format at the configured sample
// rate.
func (c Config) TimecodeFormat() (*timecode.Format, error) {
	f, err := timecode.LookupFormat(c.Format)
	if err != nil {
		return nil, err
	}
	if c.SampleRate == f.SampleRateHz() {
		return f, nil
	}
	return f.WithSampleRate(c.SampleRate)
}

// DecoderConfig returns the decoder configuration, starting from the
// decoder defaults.
func (c Config) DecoderConfig() timecode.Config {
	cfg := timecode.DefaultConfig()
	cfg.Hysteresis = c.Hysteresis
	cfg.PitchSmoothing = c.PitchSmoothing
	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
