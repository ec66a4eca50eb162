// audio_oscillator.go - Band-limited waveform generation

package main

import (
	"errors"
	"fmt"
)

type WaveKind int

const (
	WAVE_SINE WaveKind = iota
	WAVE_SAWTOOTH
	WAVE_SQUARE
	WAVE_NOISE
)

func (k WaveKind) String() string {
	switch k {
	case WAVE_SINE:
		return "sine"
	case WAVE_SAWTOOTH:
		return "sawtooth"
	case WAVE_SQUARE:
		return "square"
	case WAVE_NOISE:
		return "noise"
	}
	return fmt.Sprintf("wavekind(%d)", int(k))
}

const NOISE_LFSR_MASK = 0x7FFFFF // 23-bit shift register

var errInvalidFrequency = errors.New("oscillator: frequency outside (0, Nyquist)")

// validateFrequency rejects anything that cannot be rendered without
// aliasing at the given rate.
func validateFrequency(freq float64, sampleRate int) error {
	nyquist := float64(sampleRate) / 2
	if freq <= 0 || freq >= nyquist {
		return fmt.Errorf("%w: %g Hz at %d Hz sample rate", errInvalidFrequency, freq, sampleRate)
	}
	return nil
}

// oscillator produces one voice sample at a time. Phase is normalized to
// [0, 1) cycles. For WAVE_NOISE the frequency clocks the shift register,
// so lower frequencies hold bits longer and sound darker.
type oscillator struct {
	kind     WaveKind
	phase    float32
	phaseInc float32

	noiseSR    uint32
	noisePhase float32
	noiseValue float32
}

// newOscillator validates the frequency and positions the voice at the
// given initial phase (in cycles), which lets adjacent segments continue
// each other seamlessly.
func newOscillator(kind WaveKind, freq float64, phase float64, sampleRate int, noiseSeed uint32) (*oscillator, error) {
	if err := validateFrequency(freq, sampleRate); err != nil {
		return nil, err
	}
	if noiseSeed == 0 {
		noiseSeed = NOISE_LFSR_MASK
	}
	phase = phase - float64(int(phase)) // wrap to [0, 1)
	if phase < 0 {
		phase += 1
	}
	return &oscillator{
		kind:     kind,
		phase:    float32(phase),
		phaseInc: float32(freq / float64(sampleRate)),
		noiseSR:  noiseSeed & NOISE_LFSR_MASK,
	}, nil
}

func (o *oscillator) next() float32 {
	var raw float32
	t := o.phase
	dt := o.phaseInc

	switch o.kind {
	case WAVE_SINE:
		raw = fastSin(t * TWO_PI)

	case WAVE_SAWTOOTH:
		raw = 2*t - 1
		raw -= polyBLEP(t, dt)

	case WAVE_SQUARE:
		if t < 0.5 {
			raw = 1
		} else {
			raw = -1
		}
		raw += polyBLEP(t, dt)
		t2 := t + 0.5
		if t2 >= 1 {
			t2 -= 1
		}
		raw -= polyBLEP(t2, dt)

	case WAVE_NOISE:
		o.noisePhase += dt
		for o.noisePhase >= 1 {
			o.noisePhase -= 1
			// Taps 23,18 give the maximal-length sequence (2^23-1).
			bit := ((o.noiseSR >> 22) ^ (o.noiseSR >> 17)) & 1
			o.noiseSR = ((o.noiseSR << 1) | bit) & NOISE_LFSR_MASK
			o.noiseValue = float32(o.noiseSR&1)*2 - 1
		}
		raw = o.noiseValue
	}

	if o.kind != WAVE_NOISE {
		o.phase += dt
		if o.phase >= 1 {
			o.phase -= 1
		}
	}
	return raw
}

// renderWave produces n samples of a single validated voice. n of zero
// yields an empty buffer without error.
func renderWave(kind WaveKind, freq, amp, phase float64, n, sampleRate int, noiseSeed uint32) (SampleBuffer, error) {
	osc, err := newOscillator(kind, freq, phase, sampleRate, noiseSeed)
	if err != nil {
		return nil, err
	}
	buf := make(SampleBuffer, n)
	a := float32(amp)
	for i := range buf {
		buf[i] = osc.next() * a
	}
	return buf, nil
}
