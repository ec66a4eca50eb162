// theme_config.go - Theme generation parameters, key tables and validation

package main

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	SAMPLE_RATE  = 44100 // Default output rate in Hz
	NUM_CHANNELS = 1
)

const (
	DEFAULT_KEY        = "a-minor"
	DEFAULT_TEMPO_BPM  = 70.0
	DEFAULT_DISSONANCE = 0.3
	DEFAULT_HEADROOM   = 0.95
	DEFAULT_DURATION   = 60 * time.Second
)

// Loop seam guards, in seconds.
const (
	LOOP_FADE_OUT = 0.5
	LOOP_FADE_IN  = 0.05
)

// Melody voicing levels. The dissonant stack rides under the in-key voice
// so the tension colours the note instead of replacing it.
const (
	MELODY_LEVEL         = 0.5
	DISSONANT_PAD_LEVEL  = 0.3
	DISSONANT_TOP_LEVEL  = 0.25
	DRONE_LEVEL          = 0.25
	DRONE_EDGE_FADE      = 0.5 // seconds
)

// ThemeConfig holds everything a render needs. Same config and seed must
// reproduce the output byte for byte, so nothing here may be hidden state.
type ThemeConfig struct {
	Key        string
	TempoBPM   float64
	Duration   time.Duration
	Seed       int64
	SeedSet    bool // false derives the seed from the clock and records it
	Dissonance float64
	SampleRate int
	Headroom   float64
	Preset     *themePreset
}

func defaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Key:        DEFAULT_KEY,
		TempoBPM:   DEFAULT_TEMPO_BPM,
		Duration:   DEFAULT_DURATION,
		Dissonance: DEFAULT_DISSONANCE,
		SampleRate: SAMPLE_RATE,
		Headroom:   DEFAULT_HEADROOM,
	}
}

func (cfg *ThemeConfig) validate() error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("config: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.TempoBPM <= 0 {
		return fmt.Errorf("config: tempo must be positive, got %g", cfg.TempoBPM)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("config: duration must not be negative, got %v", cfg.Duration)
	}
	if cfg.Dissonance < 0 || cfg.Dissonance > 1 {
		return fmt.Errorf("config: dissonance must be within [0,1], got %g", cfg.Dissonance)
	}
	if cfg.Headroom <= 0 || cfg.Headroom > 1 {
		return fmt.Errorf("config: headroom must be within (0,1], got %g", cfg.Headroom)
	}
	if _, err := parseKey(cfg.Key); err != nil {
		return err
	}
	if cfg.Preset != nil {
		if err := cfg.Preset.validate(); err != nil {
			return err
		}
	}
	return nil
}

// preset returns the configured preset or the compiled-in defaults.
func (cfg *ThemeConfig) preset() *themePreset {
	if cfg.Preset != nil {
		return cfg.Preset
	}
	return defaultPreset()
}

// Semitone offsets from C for the supported root names.
var noteSemitones = map[string]int{
	"c": 0, "c#": 1, "db": 1,
	"d": 2, "d#": 3, "eb": 3,
	"e": 4,
	"f": 5, "f#": 6, "gb": 6,
	"g": 7, "g#": 8, "ab": 8,
	"a": 9, "a#": 10, "bb": 10,
	"b": 11,
}

// parseKey resolves a key name such as "a-minor" to its root fundamental.
// Roots sit in octave 3 so the melody walk has headroom both ways
// (a-minor lands on A3 = 220 Hz).
func parseKey(name string) (float64, error) {
	root, ok := strings.CutSuffix(strings.ToLower(strings.TrimSpace(name)), "-minor")
	if !ok {
		return 0, fmt.Errorf("config: unsupported key %q (expected <root>-minor)", name)
	}
	semitone, ok := noteSemitones[root]
	if !ok {
		return 0, fmt.Errorf("config: unknown root note %q in key %q", root, name)
	}
	return midiToFreq(48 + semitone), nil // C3 = MIDI 48
}

// midiToFreq converts a MIDI note number to Hz, equal temperament, A4 = 440.
func midiToFreq(note int) float64 {
	return 440.0 * math.Pow(2, float64(note-69)/12.0)
}
