// audio_rain.go - Layered rain ambience renderer

package main

import (
	"fmt"
	"math"
	"time"
)

const (
	RAIN_BED_ALPHA = 0.15 // one-pole low-pass coefficient for the noise bed
	RAIN_BED_LEVEL = 0.3

	RAIN_LAYERS        = 4
	RAIN_BASE_DENSITY  = 150.0 // droplets per second on the sparsest layer
	RAIN_LAYER_DENSITY = 100.0 // extra droplets per second per layer

	RAIN_DROP_DECAY_LO = 50.0 // exponential decay rates
	RAIN_DROP_DECAY_HI = 200.0
	RAIN_DROP_AMP_LO   = 0.1
	RAIN_DROP_AMP_HI   = 0.3
	RAIN_PING_FREQ     = 2000.0 // droplet attack ping
	RAIN_PING_SEC      = 0.005

	RAIN_SWELL_RATE  = 0.05 // Hz, slow intensity drift
	RAIN_SWELL_DEPTH = 0.3

	RAIN_RUMBLE_FREQ  = 30.0
	RAIN_RUMBLE_RATE  = 0.2 // Hz, rumble level LFO
	RAIN_RUMBLE_LEVEL = 0.2

	RAIN_FADE_SEC = 0.5

	// LFSR clock for rain noise, as a fraction of the sample rate. Just
	// under Nyquist keeps the hiss bright while staying a valid voice.
	RAIN_NOISE_CLOCK = 0.45
)

type RainConfig struct {
	Duration   time.Duration
	Seed       int64
	SeedSet    bool
	SampleRate int
	Headroom   float64
}

func defaultRainConfig() RainConfig {
	return RainConfig{
		Duration:   30 * time.Second,
		SampleRate: SAMPLE_RATE,
		Headroom:   DEFAULT_HEADROOM,
	}
}

func (cfg *RainConfig) validate() error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("config: sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("config: duration must not be negative, got %v", cfg.Duration)
	}
	if cfg.Headroom <= 0 || cfg.Headroom > 1 {
		return fmt.Errorf("config: headroom must be within (0,1], got %g", cfg.Headroom)
	}
	return nil
}

// renderRain builds the rain bed: filtered noise, four densities of
// droplets, a slow intensity swell and a low rumble. All draws come from
// the seeded source in a fixed order, so rain is reproducible exactly
// like the theme.
func renderRain(cfg RainConfig, trace func(string)) (*RenderResult, error) {
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

	rate := cfg.SampleRate
	seconds := cfg.Duration.Seconds()
	n := int(seconds * float64(rate))
	if n == 0 {
		return nil, fmt.Errorf("%w: rain duration %v", errEmptyTheme, cfg.Duration)
	}
	acc := make([]float64, n)

	step("noise bed")
	noiseClock := RAIN_NOISE_CLOCK * float64(rate)
	bed, err := newOscillator(WAVE_NOISE, noiseClock, 0, rate, rng.NoiseSeed())
	if err != nil {
		return nil, fmt.Errorf("rain: %w", err)
	}
	var lpState float64
	for i := range acc {
		lpState += RAIN_BED_ALPHA * (float64(bed.next()) - lpState)
		acc[i] = lpState * RAIN_BED_LEVEL
	}

	step("droplets")
	droplets := 0
	for layer := 0; layer < RAIN_LAYERS; layer++ {
		crackle, err := newOscillator(WAVE_NOISE, noiseClock, 0, rate, rng.NoiseSeed())
		if err != nil {
			return nil, fmt.Errorf("rain: %w", err)
		}
		density := RAIN_BASE_DENSITY + RAIN_LAYER_DENSITY*float64(layer)
		count := int(density * seconds)
		for d := 0; d < count; d++ {
			start := int(rng.Float() * seconds * float64(rate))
			decay := rng.Range(RAIN_DROP_DECAY_LO, RAIN_DROP_DECAY_HI)
			amp := rng.Range(RAIN_DROP_AMP_LO, RAIN_DROP_AMP_HI)
			addDroplet(acc, crackle, start, decay, amp, rate)
			droplets++
		}
	}

	step("swell and rumble")
	var swellPhase, rumblePhase, rumbleLFOPhase float32
	swellInc := float32(RAIN_SWELL_RATE / float64(rate))
	rumbleInc := float32(RAIN_RUMBLE_FREQ / float64(rate))
	rumbleLFOInc := float32(RAIN_RUMBLE_RATE / float64(rate))
	for i := range acc {
		swell := 1 + RAIN_SWELL_DEPTH*float64(fastSin(swellPhase*TWO_PI))
		rumble := RAIN_RUMBLE_LEVEL * float64(fastSin(rumblePhase*TWO_PI)) *
			(0.5 + 0.5*float64(fastSin(rumbleLFOPhase*TWO_PI)))
		acc[i] = acc[i]*swell + rumble

		swellPhase = wrapPhase(swellPhase + swellInc)
		rumblePhase = wrapPhase(rumblePhase + rumbleInc)
		rumbleLFOPhase = wrapPhase(rumbleLFOPhase + rumbleLFOInc)
	}

	step("mastering")
	master := make(SampleBuffer, n)
	for i, v := range acc {
		master[i] = float32(v)
	}
	master.normalize(cfg.Headroom)
	fade := int(RAIN_FADE_SEC * float64(rate))
	master.fadeEdges(fade, fade)

	return &RenderResult{
		Samples:    master,
		SampleRate: rate,
		Channels:   NUM_CHANNELS,
		BitDepth:   BITS_PER_SAMPLE,
		Seed:       rng.Seed(),
		Duration:   cfg.Duration,
		EventCount: droplets,
	}, nil
}

// addDroplet mixes one exponentially decaying noise burst, with a short
// high ping on its attack, into the accumulator.
func addDroplet(acc []float64, crackle *oscillator, start int, decay, amp float64, rate int) {
	// Track the burst until it falls 60 dB below its own peak.
	length := int(math.Log(1000) / decay * float64(rate))
	if length < 1 {
		length = 1
	}
	pingLen := int(RAIN_PING_SEC * float64(rate))
	decayMul := math.Exp(-decay / float64(rate))
	pingInc := float32(RAIN_PING_FREQ / float64(rate))

	env := amp
	var pingPhase float32
	for i := 0; i < length; i++ {
		j := start + i
		if j >= len(acc) {
			break
		}
		s := float64(crackle.next())
		if i < pingLen {
			s = 0.5*s + 0.5*float64(fastSin(pingPhase*TWO_PI))
			pingPhase = wrapPhase(pingPhase + pingInc)
		}
		acc[j] += s * env
		env *= decayMul
	}
}

func wrapPhase(p float32) float32 {
	if p >= 1 {
		return p - 1
	}
	return p
}
