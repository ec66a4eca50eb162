// audio_organ.go - Harmonic organ voice and planned note events

package main

import "fmt"

// HarmonicWeight is one partial of an additive voice: a multiple of the
// fundamental and its relative level.
type HarmonicWeight struct {
	Multiple float64
	Weight   float64
}

// organHarmonics is the default organ registration: strong fundamental,
// softer octave, a whisper of the twelfth and a sub-octave for body.
// Returned fresh so planning can jitter weights per note.
func organHarmonics() []HarmonicWeight {
	return []HarmonicWeight{
		{Multiple: 0.5, Weight: 0.1},
		{Multiple: 1.0, Weight: 0.7},
		{Multiple: 2.0, Weight: 0.3},
		{Multiple: 3.0, Weight: 0.1},
	}
}

type NoteVoice int

const (
	VOICE_ORGAN NoteVoice = iota
	VOICE_PAD
)

// NoteEvent is one planned note. It is immutable once planning finishes:
// the harmonic profile already carries any per-note jitter, so rendering
// draws no randomness and events can be synthesized in any order.
type NoteEvent struct {
	Frequency float64
	Harmonics []HarmonicWeight
	Voice     NoteVoice
	Start     float64 // seconds from theme start
	Duration  float64 // seconds
	Amplitude float64
	Envelope  EnvelopeProfile
}

func (ev NoteEvent) StartSample(sampleRate int) int {
	return int(ev.Start * float64(sampleRate))
}

func (ev NoteEvent) Render(sampleRate int) (SampleBuffer, error) {
	var buf SampleBuffer
	var err error
	switch ev.Voice {
	case VOICE_PAD:
		buf, err = synthesizePad(ev, sampleRate)
	default:
		buf, err = synthesizeOrgan(ev, sampleRate)
	}
	if err != nil {
		return nil, err
	}
	applyEnvelope(buf, ev.Envelope, sampleRate)
	return buf, nil
}

// synthesizeOrgan sums the weighted partials of the event. The
// fundamental must be renderable; partials that would land at or above
// Nyquist are dropped silently, so high notes simply lose brightness.
func synthesizeOrgan(ev NoteEvent, sampleRate int) (SampleBuffer, error) {
	if err := validateFrequency(ev.Frequency, sampleRate); err != nil {
		return nil, fmt.Errorf("organ: %w", err)
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
			return nil, fmt.Errorf("organ: %w", err)
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
		buf[i] = s * amp
	}
	return buf, nil
}
