package main

import (
	"errors"
	"flag"
	"time"

	"github.com/gdamore/tcell"

	"github.com/llehouerou/go-timecode/internal/config"
	"github.com/llehouerou/go-timecode/visualizer"
)

const scopeTick = 40 * time.Millisecond

func runScope(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("scope", flag.ExitOnError)
	bindSignalFlags(fs, &cfg)
	fs.IntVar(&cfg.ScopeSize, "size", cfg.ScopeSize, "scope size in pixels, even and greater than 10")
	reverse := fs.Bool("reverse", false, "play the file backward")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("scope: expected one input file")
	}

	vis, err := visualizer.New(cfg.ScopeSize)
	if err != nil {
		return err
	}
	samples, rate, err := readWAV(fs.Arg(0))
	if err != nil {
		return err
	}
	if *reverse {
		reverseFrames(samples)
	}
	cfg.SampleRate = rate
	dec, err := newDecoder(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(scopeTick)
	defer ticker.Stop()

	pixels := vis.NewBuffer()
	frames := len(samples) / 2
	perTick := max(int(rate*scopeTick.Seconds()), 1)
	pos := 0
	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyCtrlC || e.Key() == tcell.KeyEscape || e.Rune() == 'q' {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			// The file loops; the decoder resyncs after the jump.
			for n := 0; n < perTick; n++ {
				l, r := samples[2*pos], samples[2*pos+1]
				if err := vis.DrawSample(pixels, l, r); err != nil {
					return err
				}
				dec.Process(l, r)
				pos = (pos + 1) % frames
			}
			scopeBox(screen, 2, 2, vis.Size(), pixels)
			statusBox(screen, vis.Size()+4, 1, dec.Format(), dec.Snapshot())
			screen.Show()
		}
	}
}
