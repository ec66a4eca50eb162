// theme_config_test.go - Key parsing and configuration validation

package main

import (
	"math"
	"testing"
	"time"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    float64
		wantErr bool
	}{
		{"a minor root", "a-minor", 220, false},
		{"case and space folded", "  A-Minor ", 220, false},
		{"c minor", "c-minor", 130.8128, false},
		{"sharp root", "d#-minor", 155.5635, false},
		{"flat alias", "eb-minor", 155.5635, false},
		{"e minor", "e-minor", 164.8138, false},
		{"missing mode", "a", 0, true},
		{"unknown root", "h-minor", 0, true},
		{"major unsupported", "a-major", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err == nil && math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("parseKey(%q) = %g, want %g", tt.key, got, tt.want)
			}
		})
	}
}

func TestMidiToFreq(t *testing.T) {
	if got := midiToFreq(69); got != 440 {
		t.Errorf("A4 = %g, want 440", got)
	}
	if got := midiToFreq(57); math.Abs(got-220) > 1e-9 {
		t.Errorf("A3 = %g, want 220", got)
	}
	if got := midiToFreq(60); math.Abs(got-261.6256) > 1e-3 {
		t.Errorf("C4 = %g, want 261.6256", got)
	}
}

func TestThemeConfig_Validate(t *testing.T) {
	mutate := func(f func(*ThemeConfig)) ThemeConfig {
		cfg := defaultThemeConfig()
		f(&cfg)
		return cfg
	}
	tests := []struct {
		name    string
		cfg     ThemeConfig
		wantErr bool
	}{
		{"defaults", defaultThemeConfig(), false},
		{"zero rate", mutate(func(c *ThemeConfig) { c.SampleRate = 0 }), true},
		{"negative tempo", mutate(func(c *ThemeConfig) { c.TempoBPM = -70 }), true},
		{"negative duration", mutate(func(c *ThemeConfig) { c.Duration = -time.Second }), true},
		{"dissonance above one", mutate(func(c *ThemeConfig) { c.Dissonance = 1.2 }), true},
		{"negative dissonance", mutate(func(c *ThemeConfig) { c.Dissonance = -0.1 }), true},
		{"zero headroom", mutate(func(c *ThemeConfig) { c.Headroom = 0 }), true},
		{"headroom above one", mutate(func(c *ThemeConfig) { c.Headroom = 1.1 }), true},
		{"full headroom ok", mutate(func(c *ThemeConfig) { c.Headroom = 1 }), false},
		{"bad key", mutate(func(c *ThemeConfig) { c.Key = "x-minor" }), true},
		{"zero duration ok", mutate(func(c *ThemeConfig) { c.Duration = 0 }), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestThemeConfig_PresetFallback(t *testing.T) {
	cfg := defaultThemeConfig()
	if cfg.preset() == nil {
		t.Fatal("nil preset from default config")
	}
	custom := &themePreset{}
	cfg.Preset = custom
	if cfg.preset() != custom {
		t.Error("configured preset not returned")
	}
}
