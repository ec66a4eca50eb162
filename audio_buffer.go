// audio_buffer.go - Mono sample buffer type and mix helpers

package main

import "math"

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

// SampleBuffer is the currency between synthesis stages: mono float32
// samples at the render's sample rate, nominally within [-1, 1] until
// the final normalization pass.
type SampleBuffer []float32

func (b SampleBuffer) peak() float64 {
	var p float64
	for _, s := range b {
		if v := math.Abs(float64(s)); v > p {
			p = v
		}
	}
	return p
}

// mixInto adds b into acc starting at offset. Samples falling outside
// acc are discarded; the accumulator is float64 so stacking many layers
// does not lose precision before normalization.
func (b SampleBuffer) mixInto(acc []float64, offset int) {
	for i, s := range b {
		j := offset + i
		if j < 0 {
			continue
		}
		if j >= len(acc) {
			break
		}
		acc[j] += float64(s)
	}
}

// normalize scales the buffer so its peak sits at target. Silence is
// left untouched.
func (b SampleBuffer) normalize(target float64) {
	p := b.peak()
	if p == 0 {
		return
	}
	gain := float32(target / p)
	for i := range b {
		b[i] *= gain
	}
}

// fadeEdges applies linear ramps so the buffer starts and ends at zero.
// fadeIn and fadeOut are sample counts; either may be zero. Windows are
// capped at half the buffer so they never cross.
func (b SampleBuffer) fadeEdges(fadeIn, fadeOut int) {
	if half := len(b) / 2; fadeIn > half {
		fadeIn = half
	}
	if half := len(b) / 2; fadeOut > half {
		fadeOut = half
	}
	for i := 0; i < fadeIn; i++ {
		b[i] *= float32(i) / float32(fadeIn)
	}
	// Counting back from the end, gain k/fadeOut leaves the final sample
	// exactly zero so the loop seam cannot click.
	for k := 0; k < fadeOut; k++ {
		b[len(b)-1-k] *= float32(k) / float32(fadeOut)
	}
}

// quantize converts to interleaved 16-bit PCM with clamping.
func (b SampleBuffer) quantize() []int16 {
	out := make([]int16, len(b))
	for i, s := range b {
		v := float64(s)
		if v > MAX_SAMPLE {
			v = MAX_SAMPLE
		} else if v < MIN_SAMPLE {
			v = MIN_SAMPLE
		}
		out[i] = int16(v * 32767)
	}
	return out
}
