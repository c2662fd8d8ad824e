package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gordonklaus/portaudio"

	timecode "github.com/llehouerou/go-timecode"
	"github.com/llehouerou/go-timecode/internal/config"
)

const refreshInterval = 100 * time.Millisecond

func runListen(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	bindSignalFlags(fs, &cfg)
	fs.Parse(args)

	dec, err := newDecoder(cfg)
	if err != nil {
		return err
	}
	f := dec.Format()

	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()
	log.Println(portaudio.VersionText())
	in, err := portaudio.DefaultInputDevice()
	if err != nil {
		return err
	}
	log.Printf("input: %s, %d channels", in.Name, in.MaxInputChannels)

	// The callback owns the decoder. It hands out snapshots without
	// blocking and drops them when the display lags.
	snapshots := make(chan timecode.Snapshot, 1)
	stream, err := portaudio.OpenDefaultStream(2, 0, f.SampleRateHz(), cfg.FramesPerBuffer, func(in []int16) {
		dec.ProcessInterleaved(in, nil)
		select {
		case snapshots <- dec.Snapshot():
		default:
		}
	})
	if err != nil {
		return err
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	var last timecode.Snapshot
	for {
		select {
		case last = <-snapshots:
		case <-ticker.C:
			fmt.Printf("\r%s", statusLine(f, last))
		case <-sig:
			fmt.Println()
			return nil
		}
	}
}
