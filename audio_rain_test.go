// audio_rain_test.go - Rain ambience renderer

package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

func rainConfig(seed int64, dur time.Duration) RainConfig {
	cfg := defaultRainConfig()
	cfg.Duration = dur
	cfg.Seed = seed
	cfg.SeedSet = true
	return cfg
}

func TestRenderRain_Deterministic(t *testing.T) {
	cfg := rainConfig(99, 2*time.Second)
	a, err := renderRain(cfg, nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}
	b, err := renderRain(cfg, nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a.Samples[i], b.Samples[i])
		}
	}
	if a.Seed != 99 {
		t.Errorf("recorded seed = %d, want 99", a.Seed)
	}
}

func TestRenderRain_NoTail(t *testing.T) {
	cfg := rainConfig(4, 2*time.Second)
	res, err := renderRain(cfg, nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}
	if want := 2 * SAMPLE_RATE; len(res.Samples) != want {
		t.Errorf("length = %d, want exactly %d", len(res.Samples), want)
	}
}

func TestRenderRain_Mastering(t *testing.T) {
	cfg := rainConfig(12, 3*time.Second)
	res, err := renderRain(cfg, nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}

	var peak float64
	for _, v := range res.Samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if math.Abs(peak-cfg.Headroom) > 0.01 {
		t.Errorf("peak = %f, want headroom %f", peak, cfg.Headroom)
	}
	if res.Samples[0] != 0 {
		t.Errorf("first sample = %f, want 0", res.Samples[0])
	}
	if last := res.Samples[len(res.Samples)-1]; last != 0 {
		t.Errorf("last sample = %f, want 0", last)
	}
	if res.EventCount == 0 {
		t.Error("no droplets recorded")
	}
}

func TestRenderRain_SeedsDiverge(t *testing.T) {
	a, err := renderRain(rainConfig(1, time.Second), nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}
	b, err := renderRain(rainConfig(2, time.Second), nil)
	if err != nil {
		t.Fatalf("renderRain returned error: %v", err)
	}
	same := true
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical rain")
	}
}

func TestRenderRain_ZeroDuration(t *testing.T) {
	if _, err := renderRain(rainConfig(1, 0), nil); !errors.Is(err, errEmptyTheme) {
		t.Errorf("error = %v, want errEmptyTheme", err)
	}
}

func TestRainConfig_Validate(t *testing.T) {
	cfg := defaultRainConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	cfg.Headroom = 1.5
	if err := cfg.validate(); err == nil {
		t.Error("expected error for headroom above 1")
	}
	cfg = defaultRainConfig()
	cfg.SampleRate = 0
	if err := cfg.validate(); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
