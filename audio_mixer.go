// audio_mixer.go - Theme render pipeline: plan, synthesize, mix, master

package main

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"
)

var errEmptyTheme = errors.New("render: theme contains no events")

// SoundSource is anything the mixer can place on the timeline. Both
// event kinds render from plan data alone, so sources may be synthesized
// concurrently without changing a single output bit.
type SoundSource interface {
	StartSample(sampleRate int) int
	Render(sampleRate int) (SampleBuffer, error)
}

// RenderResult is the master buffer plus everything the sidecar records
// about how it was made.
type RenderResult struct {
	Samples    SampleBuffer
	SampleRate int
	Channels   int
	BitDepth   int
	Seed       int64
	Key        string
	TempoBPM   float64
	Duration   time.Duration // requested theme length, before reverb tail
	Dissonance float64
	EventCount int
}

// renderTheme runs the full pipeline. The output is the requested
// duration plus the reverb tail, peak-normalized to the headroom and
// faded at both edges so it loops without clicks.
func renderTheme(cfg ThemeConfig, trace func(string)) (*RenderResult, error) {
	step := func(msg string) {
		if trace != nil {
			trace(msg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := newRandomSourceFromClock()
	if cfg.SeedSet {
		rng = newRandomSource(cfg.Seed)
	}

	step("planning")
	events, err := planTheme(cfg, rng)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: duration %v at %g BPM", errEmptyTheme, cfg.Duration, cfg.TempoBPM)
	}

	step("synthesizing")
	buffers, err := synthesizeAll(events, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	step("mixing")
	acc := make([]float64, int(cfg.Duration.Seconds()*float64(cfg.SampleRate)))
	for i, ev := range events {
		buffers[i].mixInto(acc, ev.StartSample(cfg.SampleRate))
	}
	master := make(SampleBuffer, len(acc))
	for i, v := range acc {
		master[i] = float32(v)
	}

	step("reverb")
	preset := cfg.preset()
	params, err := defaultReverbParams(cfg.SampleRate, preset.ReverbDecay, preset.ReverbSpacing)
	if err != nil {
		return nil, err
	}
	master = applyReverb(master, params)

	step("mastering")
	master.normalize(cfg.Headroom)
	master.fadeEdges(
		int(LOOP_FADE_IN*float64(cfg.SampleRate)),
		int(LOOP_FADE_OUT*float64(cfg.SampleRate)),
	)

	return &RenderResult{
		Samples:    master,
		SampleRate: cfg.SampleRate,
		Channels:   NUM_CHANNELS,
		BitDepth:   BITS_PER_SAMPLE,
		Seed:       rng.Seed(),
		Key:        cfg.Key,
		TempoBPM:   cfg.TempoBPM,
		Duration:   cfg.Duration,
		Dissonance: cfg.Dissonance,
		EventCount: len(events),
	}, nil
}

// synthesizeAll renders every source on a bounded worker pool. Results
// land in plan order regardless of completion order.
func synthesizeAll(events []SoundSource, sampleRate int) ([]SampleBuffer, error) {
	buffers := make([]SampleBuffer, len(events))
	errs := make([]error, len(events))

	workers := runtime.NumCPU()
	if workers > len(events) {
		workers = len(events)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, ev := range events {
		wg.Add(1)
		go func(i int, ev SoundSource) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			buffers[i], errs[i] = ev.Render(sampleRate)
		}(i, ev)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return buffers, nil
}
