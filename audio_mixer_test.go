// audio_mixer_test.go - Full render pipeline behavior

package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

func renderConfig(seed int64, dur time.Duration) ThemeConfig {
	cfg := defaultThemeConfig()
	cfg.Duration = dur
	cfg.Seed = seed
	cfg.SeedSet = true
	return cfg
}

func TestRenderTheme_Deterministic(t *testing.T) {
	cfg := renderConfig(7, 2*time.Second)
	a, err := renderTheme(cfg, nil)
	if err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}
	b, err := renderTheme(cfg, nil)
	if err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}
	if len(a.Samples) != len(b.Samples) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Samples), len(b.Samples))
	}
	for i := range a.Samples {
		if a.Samples[i] != b.Samples[i] {
			t.Fatalf("sample %d differs: %f vs %f", i, a.Samples[i], b.Samples[i])
		}
	}
	if a.Seed != 7 || b.Seed != 7 {
		t.Errorf("recorded seeds = %d, %d, want 7", a.Seed, b.Seed)
	}
}

func TestRenderTheme_LengthIsDurationPlusTail(t *testing.T) {
	cfg := renderConfig(3, 2*time.Second)
	res, err := renderTheme(cfg, nil)
	if err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}
	tail := audibleTapCount(REVERB_DECAY) * int(REVERB_SPACING_SEC*SAMPLE_RATE)
	want := 2*SAMPLE_RATE + tail
	if len(res.Samples) != want {
		t.Errorf("length = %d, want %d (2s plus reverb tail)", len(res.Samples), want)
	}
	if res.Duration != 2*time.Second {
		t.Errorf("recorded duration = %v, want the pre-tail 2s", res.Duration)
	}
}

func TestRenderTheme_MasteredToHeadroom(t *testing.T) {
	cfg := renderConfig(9, 4*time.Second)
	res, err := renderTheme(cfg, nil)
	if err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}

	var peak float64
	for _, v := range res.Samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if math.Abs(peak-cfg.Headroom) > 0.01 {
		t.Errorf("peak = %f, want headroom %f", peak, cfg.Headroom)
	}
	if first := res.Samples[0]; first != 0 {
		t.Errorf("first sample = %f, want 0 at the loop seam", first)
	}
	if last := res.Samples[len(res.Samples)-1]; last != 0 {
		t.Errorf("last sample = %f, want 0 at the loop seam", last)
	}

	// The tail must sit under the linear fade-out ramp all the way down.
	fadeOut := int(LOOP_FADE_OUT * float64(cfg.SampleRate))
	for k := 0; k < fadeOut; k++ {
		i := len(res.Samples) - 1 - k
		bound := cfg.Headroom*float64(k)/float64(fadeOut) + 1e-4
		if v := math.Abs(float64(res.Samples[i])); v > bound {
			t.Fatalf("tail sample %d = %f, above the fade envelope %f", i, v, bound)
		}
	}
}

func TestRenderTheme_EmptyTheme(t *testing.T) {
	cfg := renderConfig(1, 0)
	if _, err := renderTheme(cfg, nil); !errors.Is(err, errEmptyTheme) {
		t.Errorf("error = %v, want errEmptyTheme", err)
	}
}

func TestRenderTheme_RejectsBadConfig(t *testing.T) {
	cfg := renderConfig(1, time.Second)
	cfg.Headroom = 0
	if _, err := renderTheme(cfg, nil); err == nil {
		t.Error("expected validation error for zero headroom")
	}
	cfg = renderConfig(1, time.Second)
	cfg.Key = "q-minor"
	if _, err := renderTheme(cfg, nil); err == nil {
		t.Error("expected validation error for an unknown key")
	}
}

func TestRenderTheme_TraceStages(t *testing.T) {
	cfg := renderConfig(2, time.Second)
	var stages []string
	if _, err := renderTheme(cfg, func(s string) { stages = append(stages, s) }); err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}
	want := []string{"planning", "synthesizing", "mixing", "reverb", "mastering"}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage %d = %q, want %q", i, stages[i], want[i])
		}
	}
}

func TestRenderTheme_ClockSeedRecorded(t *testing.T) {
	cfg := defaultThemeConfig()
	cfg.Duration = 200 * time.Millisecond
	res, err := renderTheme(cfg, nil)
	if err != nil {
		t.Fatalf("renderTheme returned error: %v", err)
	}
	if res.Seed == 0 {
		t.Error("clock-derived seed not recorded")
	}
}

type failingSource struct{}

func (failingSource) StartSample(int) int { return 0 }
func (failingSource) Render(int) (SampleBuffer, error) {
	return nil, errors.New("render refused")
}

type silentSource struct{ n int }

func (silentSource) StartSample(int) int { return 0 }
func (s silentSource) Render(int) (SampleBuffer, error) {
	return make(SampleBuffer, s.n), nil
}

func TestSynthesizeAll_PropagatesErrors(t *testing.T) {
	events := []SoundSource{silentSource{100}, failingSource{}, silentSource{100}}
	if _, err := synthesizeAll(events, SAMPLE_RATE); err == nil {
		t.Error("expected the failing source's error")
	}
}

func TestSynthesizeAll_KeepsPlanOrder(t *testing.T) {
	events := []SoundSource{silentSource{10}, silentSource{20}, silentSource{30}}
	buffers, err := synthesizeAll(events, SAMPLE_RATE)
	if err != nil {
		t.Fatalf("synthesizeAll returned error: %v", err)
	}
	for i, want := range []int{10, 20, 30} {
		if len(buffers[i]) != want {
			t.Errorf("buffer %d length = %d, want %d", i, len(buffers[i]), want)
		}
	}
}
