package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wavinfo file.wav [file.wav ...]\n\nPrints header fields and amplitude statistics of 16-bit PCM WAV files.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	failed := false
	for _, path := range flag.Args() {
		info, err := ReadInfo(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("%s\n", path)
		fmt.Printf("  format:     %d Hz, %d-bit, %d channel(s)\n", info.SampleRate, info.Bits, info.Channels)
		fmt.Printf("  length:     %d frames (%.2fs)\n", info.Frames, info.Seconds())
		fmt.Printf("  peak:       %.4f\n", info.Peak)
		fmt.Printf("  rms:        %.4f\n", info.RMS)
		fmt.Printf("  dc offset:  %+.6f\n", info.DCOffset)
		fmt.Printf("  crossings:  %d\n", info.ZeroCrossings)
	}
	if failed {
		os.Exit(1)
	}
}
