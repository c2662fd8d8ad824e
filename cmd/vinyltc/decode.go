package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	timecode "github.com/llehouerou/go-timecode"
	"github.com/llehouerou/go-timecode/internal/config"
)

// decodeSummary describes a decoded file.
type decodeSummary struct {
	readings   int
	valid      int
	firstValid timecode.Reading
	lastValid  timecode.Reading
	final      timecode.Snapshot
}

func runDecode(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	bindSignalFlags(fs, &cfg)
	reverse := fs.Bool("reverse", false, "play the file backward")
	verbose := fs.Bool("v", false, "print every bit read")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("decode: expected one input file")
	}

	samples, rate, err := readWAV(fs.Arg(0))
	if err != nil {
		return err
	}
	cfg.SampleRate = rate
	dec, err := newDecoder(cfg)
	if err != nil {
		return err
	}
	if *reverse {
		reverseFrames(samples)
	}

	var w io.Writer
	if *verbose {
		w = os.Stdout
	}
	sum := decodeSamples(dec, samples, w)
	f := dec.Format()
	fmt.Println(statusLine(f, sum.final))
	fmt.Printf("%d bits read, %d valid\n", sum.readings, sum.valid)
	if sum.valid > 0 {
		fmt.Printf("first valid position %d at sample %d, last %d at sample %d\n",
			sum.firstValid.Position, sum.firstValid.Sample, sum.lastValid.Position, sum.lastValid.Sample)
	}
	return nil
}

// decodeSamples runs interleaved samples through dec. Each reading and a
// status line every second are written to w, if not nil.
func decodeSamples(dec *timecode.Decoder, samples []int16, w io.Writer) decodeSummary {
	var sum decodeSummary
	f := dec.Format()
	second := max(uint64(f.SampleRateHz()), 1)
	for i := 0; i+1 < len(samples); i += 2 {
		r, ok := dec.Process(samples[i], samples[i+1])
		if ok {
			sum.readings++
			if r.Valid {
				if sum.valid == 0 {
					sum.firstValid = r
				}
				sum.lastValid = r
				sum.valid++
			}
			if w != nil {
				fmt.Fprintf(w, "%9d  bit %d  %-8s  %7d  valid=%t\n", r.Sample, r.Bit, r.Direction, r.Position, r.Valid)
			}
		}
		if w != nil && dec.Samples()%second == 0 {
			fmt.Fprintln(w, statusLine(f, dec.Snapshot()))
		}
	}
	sum.final = dec.Snapshot()
	return sum
}
