// audio_reverb.go - Sparse delay-tap reverb with exact tail accounting

package main

import (
	"errors"
	"fmt"
	"math"
)

const (
	REVERB_DECAY       = 0.4  // default per-tap decay factor
	REVERB_SPACING_SEC = 0.15 // default tap spacing in seconds
	REVERB_EPSILON     = 1e-3 // taps quieter than this are inaudible
)

var errInvalidReverbParameters = errors.New("reverb: invalid parameters")

// ReverbParams can only be built through newReverbParams, so a feedback
// factor that would diverge is unrepresentable.
type ReverbParams struct {
	decay   float64 // (0, 1)
	taps    int
	spacing int // samples between taps
}

func newReverbParams(decay float64, taps, spacing int) (ReverbParams, error) {
	if decay <= 0 || decay >= 1 {
		return ReverbParams{}, fmt.Errorf("%w: decay %g outside (0,1)", errInvalidReverbParameters, decay)
	}
	if taps < 1 {
		return ReverbParams{}, fmt.Errorf("%w: tap count %d below 1", errInvalidReverbParameters, taps)
	}
	if spacing < 1 {
		return ReverbParams{}, fmt.Errorf("%w: tap spacing %d below 1 sample", errInvalidReverbParameters, spacing)
	}
	return ReverbParams{decay: decay, taps: taps, spacing: spacing}, nil
}

// defaultReverbParams spaces taps spacingSec apart and keeps adding taps
// until one would fall below the audibility epsilon.
func defaultReverbParams(sampleRate int, decay, spacingSec float64) (ReverbParams, error) {
	spacing := int(spacingSec * float64(sampleRate))
	return newReverbParams(decay, audibleTapCount(decay), spacing)
}

// audibleTapCount returns the smallest k with decay^k < REVERB_EPSILON.
func audibleTapCount(decay float64) int {
	if decay <= 0 || decay >= 1 {
		return 1
	}
	k := int(math.Ceil(math.Log(REVERB_EPSILON) / math.Log(decay)))
	if k < 1 {
		k = 1
	}
	return k
}

// tailSamples is the extra length applyReverb appends past the input.
func (p ReverbParams) tailSamples() int {
	return p.taps * p.spacing
}

// applyReverb sums delayed copies of the input:
//
//	out[t] = in[t] + Σ decay^k · in[t - k·spacing]   for k = 1..taps
//
// The output carries the full tail, exactly taps·spacing samples longer
// than the input.
func applyReverb(in SampleBuffer, p ReverbParams) SampleBuffer {
	gains := make([]float64, p.taps+1)
	gains[0] = 1
	for k := 1; k <= p.taps; k++ {
		gains[k] = gains[k-1] * p.decay
	}

	out := make(SampleBuffer, len(in)+p.tailSamples())
	for t := range out {
		var acc float64
		for k := 0; k <= p.taps; k++ {
			src := t - k*p.spacing
			if src < 0 {
				break // earlier taps are even further back
			}
			if src < len(in) {
				acc += gains[k] * float64(in[src])
			}
		}
		out[t] = float32(acc)
	}
	return out
}
