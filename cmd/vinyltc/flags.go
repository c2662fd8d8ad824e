package main

import (
	"flag"
	"fmt"
	"strings"

	timecode "github.com/llehouerou/go-timecode"
	"github.com/llehouerou/go-timecode/internal/config"
)

// bindSignalFlags registers the flags shared by all commands. Defaults
// come from cfg, which receives the parsed values.
func bindSignalFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Format, "format", cfg.Format,
		fmt.Sprintf("timecode format (%s)", strings.Join(timecode.FormatNames(), ", ")))
	fs.Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "sample rate in Hz")
	fs.Float64Var(&cfg.Hysteresis, "hysteresis", cfg.Hysteresis, "zero crossing hysteresis, in unit amplitude")
	fs.Float64Var(&cfg.PitchSmoothing, "pitch-smoothing", cfg.PitchSmoothing, "pitch EWMA factor")
	fs.IntVar(&cfg.FramesPerBuffer, "frames", cfg.FramesPerBuffer, "frames per audio buffer")
}

// newDecoder builds a configured decoder for the format in cfg.
func newDecoder(cfg config.Config) (*timecode.Decoder, error) {
	f, err := cfg.TimecodeFormat()
	if err != nil {
		return nil, err
	}
	dec := timecode.NewDecoder(f)
	if err := dec.SetConfiguration(cfg.DecoderConfig()); err != nil {
		return nil, err
	}
	return dec, nil
}
