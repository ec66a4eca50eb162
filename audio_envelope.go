// audio_envelope.go - ADSR amplitude shaping

package main

import "fmt"

// Envelope defaults, seconds. Short notes cap each phase at a fraction
// of the note so the contour survives at any length.
const (
	ENV_MAX_ATTACK    = 0.1
	ENV_MAX_DECAY     = 0.15
	ENV_MAX_RELEASE   = 0.2
	ENV_SUSTAIN_LEVEL = 0.7
)

// EnvelopeProfile is a linear ADSR: rise to 1 over Attack, fall to
// Sustain over Decay, hold, fall to 0 over Release.
type EnvelopeProfile struct {
	Attack  float64 // seconds
	Decay   float64
	Sustain float64 // level, 0-1
	Release float64
}

// defaultEnvelope shapes a note of the given length in seconds.
func defaultEnvelope(duration float64) EnvelopeProfile {
	return EnvelopeProfile{
		Attack:  min(ENV_MAX_ATTACK, duration/5),
		Decay:   min(ENV_MAX_DECAY, duration/4),
		Sustain: ENV_SUSTAIN_LEVEL,
		Release: min(ENV_MAX_RELEASE, duration/3),
	}
}

func (p EnvelopeProfile) validate() error {
	if p.Attack < 0 || p.Decay < 0 || p.Release < 0 {
		return fmt.Errorf("envelope: negative phase duration (attack %gs, decay %gs, release %gs)",
			p.Attack, p.Decay, p.Release)
	}
	if p.Sustain < 0 || p.Sustain > 1 {
		return fmt.Errorf("envelope: sustain level %g outside [0,1]", p.Sustain)
	}
	return nil
}

// phaseSamples converts the profile to whole-sample phase lengths for a
// buffer of n samples. When attack+decay+release does not fit, all four
// phases are rescaled proportionally so they sum to n exactly and no
// phase goes negative.
func (p EnvelopeProfile) phaseSamples(n, sampleRate int) (attack, decay, sustain, release int) {
	attack = int(p.Attack * float64(sampleRate))
	decay = int(p.Decay * float64(sampleRate))
	release = int(p.Release * float64(sampleRate))

	if total := attack + decay + release; total > n && total > 0 {
		scale := float64(n) / float64(total)
		attack = int(float64(attack) * scale)
		decay = int(float64(decay) * scale)
		release = n - attack - decay // remainder absorbs rounding
		return attack, decay, 0, release
	}
	sustain = n - attack - decay - release
	return attack, decay, sustain, release
}

// applyEnvelope shapes buf in place. The gain never exceeds 1 and the
// final release sample lands on zero.
func applyEnvelope(buf SampleBuffer, p EnvelopeProfile, sampleRate int) {
	n := len(buf)
	if n == 0 {
		return
	}
	attack, decay, _, release := p.phaseSamples(n, sampleRate)
	sustainStart := attack + decay
	releaseStart := n - release
	sustain := float32(p.Sustain)

	for i := range buf {
		var gain float32
		switch {
		case i < attack:
			gain = float32(i) / float32(attack)
		case i < sustainStart:
			gain = 1 - (1-sustain)*float32(i-attack)/float32(decay)
		case i < releaseStart:
			gain = sustain
		default:
			gain = sustain * float32(n-1-i) / float32(release)
		}
		buf[i] *= gain
	}
}
