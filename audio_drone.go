// audio_drone.go - Dark pad voice and low drone segments

package main

import "fmt"

// padHarmonics is the default pad registration: fundamental, a 1.01x
// detuned twin that beats against it, and a heavy sub-octave.
func padHarmonics() []HarmonicWeight {
	return []HarmonicWeight{
		{Multiple: 1.0, Weight: 0.5},
		{Multiple: 1.01, Weight: 0.3},
		{Multiple: 0.5, Weight: 0.4},
	}
}

// Soft saturation knee. Below the knee the pad passes clean; above it
// the excess is squashed through tanh and never passes full scale.
const PAD_KNEE = float32(0.8)

func softKnee(s float32) float32 {
	abs := s
	if abs < 0 {
		abs = -abs
	}
	if abs <= PAD_KNEE {
		return s
	}
	out := PAD_KNEE + (1-PAD_KNEE)*fastTanh((abs-PAD_KNEE)/(1-PAD_KNEE))
	if s < 0 {
		return -out
	}
	return out
}

// synthesizePad renders the dark pad voice: the same additive scheme as
// the organ but fed through the saturation knee, which thickens the
// beating partials instead of letting them clip.
func synthesizePad(ev NoteEvent, sampleRate int) (SampleBuffer, error) {
	if err := validateFrequency(ev.Frequency, sampleRate); err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}

	nyquist := float64(sampleRate) / 2
	var oscs []*oscillator
	var weights []float32
	for _, hw := range ev.Harmonics {
		f := ev.Frequency * hw.Multiple
		if f <= 0 || f >= nyquist {
			continue
		}
		osc, err := newOscillator(WAVE_SINE, f, 0, sampleRate, 0)
		if err != nil {
			return nil, fmt.Errorf("pad: %w", err)
		}
		oscs = append(oscs, osc)
		weights = append(weights, float32(hw.Weight))
	}

	n := int(ev.Duration * float64(sampleRate))
	buf := make(SampleBuffer, n)
	amp := float32(ev.Amplitude)
	for i := range buf {
		var s float32
		for j, osc := range oscs {
			s += osc.next() * weights[j]
		}
		buf[i] = softKnee(s) * amp
	}
	return buf, nil
}

// DroneSegment is a sustained low layer: detuned sine voices beating
// against each other under a slow amplitude LFO. Like NoteEvent it is
// immutable once planned.
type DroneSegment struct {
	BaseFrequency float64
	Detune        []float64 // Hz offsets, one voice each; 0 is the base itself
	ModRate       float64   // LFO frequency, sub-audio
	ModDepth      float64   // 0-1 amplitude swing
	Start         float64   // seconds
	Duration      float64
	Level         float64
	EdgeFade      float64 // seconds of ramp at segment edges
}

func (seg DroneSegment) StartSample(sampleRate int) int {
	return int(seg.Start * float64(sampleRate))
}

func (seg DroneSegment) Render(sampleRate int) (SampleBuffer, error) {
	if len(seg.Detune) == 0 {
		return nil, fmt.Errorf("drone: segment has no voices")
	}
	oscs := make([]*oscillator, len(seg.Detune))
	for i, offset := range seg.Detune {
		osc, err := newOscillator(WAVE_SINE, seg.BaseFrequency+offset, 0, sampleRate, 0)
		if err != nil {
			return nil, fmt.Errorf("drone: %w", err)
		}
		oscs[i] = osc
	}

	n := int(seg.Duration * float64(sampleRate))
	buf := make(SampleBuffer, n)
	level := float32(seg.Level) / float32(len(oscs))
	depth := float32(seg.ModDepth)
	modInc := float32(seg.ModRate / float64(sampleRate))
	var modPhase float32

	for i := range buf {
		var s float32
		for _, osc := range oscs {
			s += osc.next()
		}
		gain := 1 + depth*fastSin(modPhase*TWO_PI)
		buf[i] = s * level * gain

		modPhase += modInc
		if modPhase >= 1 {
			modPhase -= 1
		}
	}

	fade := int(seg.EdgeFade * float64(sampleRate))
	buf.fadeEdges(fade, fade)
	return buf, nil
}
