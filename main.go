// main.go - Entry point for the GravityDepth theme generator

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"
)

const VERSION = "1.0.0"

// AudioOutput is the playback seam: the oto backend auditions renders,
// the headless build swaps in a no-op so CI never opens a device.
type AudioOutput interface {
	Play(buf SampleBuffer) error
	Close() error
}

func boilerPlate() {
	fmt.Println("GravityDepth Theme Generator " + VERSION)
	fmt.Println("(c) 2026 Drew Barclay")
	fmt.Println("https://github.com/DrewBarclay/GravityDepth")
}

func main() {
	var (
		outPath    string
		seed       int64
		duration   time.Duration
		key        string
		tempo      float64
		dissonance float64
		rate       int
		headroom   float64
		presetPath string
		playBack   bool
		rainMode   bool
		watchMode  bool
		quiet      bool
		version    bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&outPath, "out", "theme.wav", "Output WAV path")
	flagSet.Int64Var(&seed, "seed", 0, "Random seed (omitted: derived from the clock and recorded)")
	flagSet.DurationVar(&duration, "duration", DEFAULT_DURATION, "Theme length before the reverb tail")
	flagSet.StringVar(&key, "key", DEFAULT_KEY, "Minor key, e.g. a-minor or d#-minor")
	flagSet.Float64Var(&tempo, "tempo", DEFAULT_TEMPO_BPM, "Tempo in BPM")
	flagSet.Float64Var(&dissonance, "dissonance", DEFAULT_DISSONANCE, "Probability a note turns dissonant (0-1)")
	flagSet.IntVar(&rate, "rate", SAMPLE_RATE, "Sample rate in Hz")
	flagSet.Float64Var(&headroom, "headroom", DEFAULT_HEADROOM, "Peak level after normalization (0-1)")
	flagSet.StringVar(&presetPath, "preset", "", "Lua preset file with the musical tables")
	flagSet.BoolVar(&playBack, "play", false, "Audition the render when done")
	flagSet.BoolVar(&rainMode, "rain", false, "Render rain ambience instead of a theme")
	flagSet.BoolVar(&watchMode, "watch", false, "Re-render whenever the preset changes (needs -preset)")
	flagSet.BoolVar(&quiet, "quiet", false, "Suppress banner and progress output")
	flagSet.BoolVar(&version, "version", false, "Print the version and exit")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./gravitydepth [-rain] [-play] [-watch] [-seed N] [-duration 60s] [-key a-minor] [-preset file.lua] [-out theme.wav] [existing.wav]")
		fmt.Println("With an existing WAV as argument, auditions that file instead of rendering.")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if version {
		fmt.Println(VERSION)
		os.Exit(0)
	}

	var seedSet bool
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	if watchMode && presetPath == "" {
		fmt.Println("Error: -watch requires -preset")
		os.Exit(1)
	}
	if watchMode && rainMode {
		fmt.Println("Error: -watch applies to themes, not -rain")
		os.Exit(1)
	}
	if flagSet.NArg() > 0 && (watchMode || rainMode) {
		fmt.Println("Error: auditioning an existing file takes no render flags")
		os.Exit(1)
	}

	if !quiet {
		boilerPlate()
	}

	// A positional argument names an already rendered WAV to audition.
	if flagSet.NArg() > 0 {
		path := flagSet.Arg(0)
		res, err := loadWAV(path)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", path, err)
			os.Exit(1)
		}
		player, err := newOtoPlayer(res.SampleRate)
		if err != nil {
			fmt.Printf("Error: playback: %v\n", err)
			os.Exit(1)
		}
		if !quiet {
			fmt.Printf("Playing %s (%.1fs)\n", path, float64(len(res.Samples))/float64(res.SampleRate))
		}
		playErr := player.Play(res.Samples)
		player.Close()
		if playErr != nil {
			fmt.Printf("Error: playback: %v\n", playErr)
			os.Exit(1)
		}
		return
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	trace := traceFunc(quiet, isTTY)
	clearLine := ""
	if !quiet && isTTY {
		clearLine = "\r\x1b[K"
	}

	render := func() error {
		var res *RenderResult
		var err error

		if rainMode {
			cfg := defaultRainConfig()
			cfg.Duration = duration
			cfg.Seed = seed
			cfg.SeedSet = seedSet
			cfg.SampleRate = rate
			cfg.Headroom = headroom
			res, err = renderRain(cfg, trace)
		} else {
			cfg := defaultThemeConfig()
			cfg.Key = key
			cfg.TempoBPM = tempo
			cfg.Duration = duration
			cfg.Seed = seed
			cfg.SeedSet = seedSet
			cfg.Dissonance = dissonance
			cfg.SampleRate = rate
			cfg.Headroom = headroom
			if presetPath != "" {
				if cfg.Preset, err = loadPreset(presetPath); err != nil {
					return err
				}
			}
			res, err = renderTheme(cfg, trace)
		}
		if err != nil {
			return err
		}

		if dir := filepath.Dir(outPath); dir != "." {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return fmt.Errorf("%w: creating %s: %v", errIOFailure, dir, mkErr)
			}
		}
		if err := writeWAV(outPath, res); err != nil {
			return err
		}
		if err := writeSidecar(outPath, res); err != nil {
			return err
		}

		rendered := float64(len(res.Samples)) / float64(res.SampleRate)
		fmt.Printf("%sWrote %s (seed %d, %.1fs, %d events)\n",
			clearLine, outPath, res.Seed, rendered, res.EventCount)

		if playBack {
			player, err := newOtoPlayer(res.SampleRate)
			if err != nil {
				return fmt.Errorf("playback: %v", err)
			}
			defer player.Close()
			if !quiet {
				fmt.Println("Playing...")
			}
			if err := player.Play(res.Samples); err != nil {
				return fmt.Errorf("playback: %v", err)
			}
		}
		return nil
	}

	if err := render(); err != nil {
		fmt.Printf("%sError generating audio: %v\n", clearLine, err)
		os.Exit(1)
	}

	if watchMode {
		if err := watchPreset(presetPath, render); err != nil {
			fmt.Printf("Error watching preset: %v\n", err)
			os.Exit(1)
		}
	}
}

// traceFunc reports render stages: in-place updates on a terminal, one
// line per stage when piped, nothing when quiet.
func traceFunc(quiet, isTTY bool) func(string) {
	if quiet {
		return nil
	}
	if isTTY {
		return func(stage string) {
			fmt.Printf("\r\x1b[K%s...", stage)
		}
	}
	return func(stage string) {
		fmt.Printf("%s...\n", stage)
	}
}
