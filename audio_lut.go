// audio_lut.go - Sine and tanh lookup tables for the synthesis hot path

package main

import "math"

const TWO_PI = float32(2 * math.Pi)

const (
	sinLUTSize = 8192 // ~0.00077 radian resolution
	sinLUTMask = sinLUTSize - 1

	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0) // tanh saturates quickly outside [-4, 4]
	tanhLUTMax  = float32(4.0)
)

const (
	sinLUTScale  = float32(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

var sinLUT [sinLUTSize]float32
var tanhLUT [tanhLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		sinLUT[i] = float32(math.Sin(float64(i) * 2 * math.Pi / sinLUTSize))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// fastSin returns sin(phase) by table lookup with linear interpolation.
// Phase is radians; values outside [0, 2π) are wrapped.
func fastSin(phase float32) float32 {
	if phase < 0 {
		phase += TWO_PI
		if phase < 0 {
			phase = phase - TWO_PI*float32(int(phase/TWO_PI)-1)
		}
	} else if phase >= TWO_PI {
		phase = phase - TWO_PI*float32(int(phase/TWO_PI))
	}

	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	next := (index + 1) & sinLUTMask
	return sinLUT[index] + frac*(sinLUT[next]-sinLUT[index])
}

// fastTanh returns tanh(x) by table lookup with linear interpolation,
// clamping to ±1 outside the table range.
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}

	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	if index < 0 {
		return tanhLUT[0]
	}
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}
	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}

// polyBLEP applies polynomial band-limited step correction around a
// waveform discontinuity. t is the normalized phase (0-1), dt the phase
// increment per sample.
func polyBLEP(t, dt float32) float32 {
	if t < dt {
		t /= dt
		return t + t - t*t - 1.0
	} else if t > 1.0-dt {
		t = (t - 1.0) / dt
		return t*t + t + t + 1.0
	}
	return 0.0
}
