package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"

	timecode "github.com/llehouerou/go-timecode"
	"github.com/llehouerou/go-timecode/internal/config"
)

func runGenerate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	bindSignalFlags(fs, &cfg)
	fs.Float64Var(&cfg.Level, "level", cfg.Level, "peak amplitude of a 1 bit, in (0, 1]")
	start := fs.Uint("start", 0, "start position, in cycles")
	seconds := fs.Float64("seconds", 10, "duration in seconds")
	speed := fs.Float64("speed", 1, "playback speed, 1 is nominal")
	reverse := fs.Bool("reverse", false, "play backward")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("generate: expected one output file")
	}

	f, err := cfg.TimecodeFormat()
	if err != nil {
		return err
	}
	if *start > math.MaxUint32 {
		return fmt.Errorf("%w: %d", timecode.ErrInvalidPosition, *start)
	}
	enc, err := timecode.NewEncoder(f, uint32(*start))
	if err != nil {
		return err
	}
	if err := enc.SetLevel(cfg.Level); err != nil {
		return err
	}
	if err := enc.SetSpeed(*speed); err != nil {
		return err
	}
	if *reverse {
		if err := enc.SetDirection(timecode.Backward); err != nil {
			return err
		}
	}
	if !(*seconds > 0) {
		return fmt.Errorf("generate: invalid duration %v", *seconds)
	}

	frames := int(*seconds * f.SampleRateHz())
	if err := writeWAV(fs.Arg(0), enc, frames, int(f.SampleRateHz()), cfg.FramesPerBuffer); err != nil {
		return err
	}
	log.Printf("wrote %s: %d frames, %s from %d to %d", fs.Arg(0), frames, enc.Direction(), *start, enc.Position())
	return nil
}
