// Command vinyltc generates, decodes and displays Serato Control CD
// timecode.
//
// Usage:
//
//	vinyltc generate [flags] out.wav
//	vinyltc decode [flags] in.wav
//	vinyltc scope [flags] in.wav
//	vinyltc listen [flags]
//
// Defaults come from VINYLTC_* environment variables and can be
// overridden with flags.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/llehouerou/go-timecode/internal/config"
)

type command struct {
	name  string
	usage string
	run   func(cfg config.Config, args []string) error
}

var commands = []command{
	{"generate", "write a timecode WAV file", runGenerate},
	{"decode", "decode a timecode WAV file", runDecode},
	{"scope", "show a timecode WAV file on an X/Y scope", runScope},
	{"listen", "decode timecode from the default audio input", runListen},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: vinyltc <command> [flags] [file]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", c.name, c.usage)
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("vinyltc: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg := config.Load()
	for _, c := range commands {
		if c.name == os.Args[1] {
			if err := c.run(cfg, os.Args[2:]); err != nil {
				log.Fatal(err)
			}
			return
		}
	}
	usage()
	os.Exit(2)
}
