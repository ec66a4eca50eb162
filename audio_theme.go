// audio_theme.go - Minor-key melody walk and dissonance planning

package main

import "math"

const (
	MIN_NOTE_SEC       = 0.05 // slivers shorter than this are dropped
	DURATION_JITTER_LO = 0.95
	DURATION_JITTER_HI = 1.05
	HARMONIC_JITTER    = 0.1 // ±5% weight wobble per planned note

	DRONE_LENGTH_BEATS = 16.0
	DRONE_MOD_RATE     = 0.5 // Hz
	DRONE_MOD_DEPTH    = 0.1
)

// noteSlots are the beat multiples a melody note may occupy. Single
// beats dominate; the occasional double beat lets a note hang.
var noteSlots = []float64{1, 1, 1, 2}

// droneDetune are the voice offsets in Hz for a drone segment.
var droneDetune = []float64{0, 1.5}

// planTheme walks the configured minor scale and lays out every event
// of the piece. This is the only stage that consumes the RandomSource;
// the draw order per note is fixed (slot, jitter, step, dissonance roll,
// then any interval and weight draws), so a seed always yields the same
// plan.
func planTheme(cfg ThemeConfig, rng *RandomSource) ([]SoundSource, error) {
	preset := cfg.preset()
	rootFreq, err := parseKey(cfg.Key)
	if err != nil {
		return nil, err
	}

	total := cfg.Duration.Seconds()
	beat := 60.0 / cfg.TempoBPM
	var events []SoundSource

	// Overlapping low drones under everything, half a segment apart.
	droneLen := DRONE_LENGTH_BEATS * beat
	for start := 0.0; start < total; start += droneLen / 2 {
		dur := droneLen
		if start+dur > total {
			dur = total - start
		}
		if dur < beat {
			break
		}
		events = append(events, DroneSegment{
			BaseFrequency: rootFreq / 2,
			Detune:        droneDetune,
			ModRate:       DRONE_MOD_RATE,
			ModDepth:      DRONE_MOD_DEPTH,
			Start:         start,
			Duration:      dur,
			Level:         DRONE_LEVEL,
			EdgeFade:      DRONE_EDGE_FADE,
		})
	}

	// Melody walk, contiguous notes from the root.
	degree, octave := 0, 0
	for t := 0.0; total-t > MIN_NOTE_SEC; {
		dur := beat * noteSlots[rng.Intn(len(noteSlots))] *
			rng.Range(DURATION_JITTER_LO, DURATION_JITTER_HI)
		if dur > total-t {
			dur = total - t
		}

		freq := scaleFrequency(rootFreq, preset.ScaleSemitones, degree, octave)
		env := envelopeFor(dur, preset)

		if rng.Float() < cfg.Dissonance {
			events = append(events, dissonantEvents(freq, t, dur, env, preset, rng)...)
		} else {
			events = append(events, NoteEvent{
				Frequency: freq,
				Harmonics: jitterWeights(preset.OrganHarmonics, rng),
				Voice:     VOICE_ORGAN,
				Start:     t,
				Duration:  dur,
				Amplitude: MELODY_LEVEL,
				Envelope:  env,
			})
		}

		t += dur
		degree, octave = stepDegree(degree, octave, rng.Intn(5)-2, len(preset.ScaleSemitones))
	}

	return events, nil
}

// dissonantEvents turns one melody slot sour. Half the time the note is
// substituted by an out-of-key interval; otherwise the in-key note keeps
// sounding while a pad and a high organ partner rub against it.
func dissonantEvents(freq, start, dur float64, env EnvelopeProfile, preset *themePreset, rng *RandomSource) []SoundSource {
	intervals := preset.DissonantIntervals
	if rng.Intn(2) == 0 {
		ratio := intervals[rng.Intn(len(intervals))]
		return []SoundSource{NoteEvent{
			Frequency: freq * ratio,
			Harmonics: jitterWeights(preset.OrganHarmonics, rng),
			Voice:     VOICE_ORGAN,
			Start:     start,
			Duration:  dur,
			Amplitude: MELODY_LEVEL,
			Envelope:  env,
		}}
	}

	out := []SoundSource{NoteEvent{
		Frequency: freq,
		Harmonics: jitterWeights(preset.OrganHarmonics, rng),
		Voice:     VOICE_ORGAN,
		Start:     start,
		Duration:  dur,
		Amplitude: MELODY_LEVEL,
		Envelope:  env,
	}}
	for i, ratio := range intervals {
		if i == 0 {
			out = append(out, NoteEvent{
				Frequency: freq * ratio,
				Harmonics: preset.PadHarmonics,
				Voice:     VOICE_PAD,
				Start:     start,
				Duration:  dur,
				Amplitude: DISSONANT_PAD_LEVEL,
				Envelope:  env,
			})
			continue
		}
		out = append(out, NoteEvent{
			Frequency: freq * ratio,
			Harmonics: jitterWeights(preset.OrganHarmonics, rng),
			Voice:     VOICE_ORGAN,
			Start:     start,
			Duration:  dur,
			Amplitude: DISSONANT_TOP_LEVEL,
			Envelope:  env,
		})
	}
	return out
}

// jitterWeights copies a harmonic profile with a small random wobble on
// each weight, so repeated notes never sound machine-identical.
func jitterWeights(profile []HarmonicWeight, rng *RandomSource) []HarmonicWeight {
	out := make([]HarmonicWeight, len(profile))
	for i, hw := range profile {
		hw.Weight *= 1 + (rng.Float()-0.5)*HARMONIC_JITTER
		out[i] = hw
	}
	return out
}

// stepDegree moves the walk by step scale degrees, folding across octave
// boundaries and keeping the melody within two octaves of the root.
func stepDegree(degree, octave, step, scaleLen int) (int, int) {
	degree += step
	for degree < 0 {
		degree += scaleLen
		octave--
	}
	for degree >= scaleLen {
		degree -= scaleLen
		octave++
	}
	if octave < 0 {
		octave = 0
	}
	if octave > 1 {
		octave = 1
	}
	return degree, octave
}

// scaleFrequency resolves a scale degree and octave offset to Hz.
func scaleFrequency(root float64, semitones []int, degree, octave int) float64 {
	return root * math.Pow(2, float64(octave)+float64(semitones[degree])/12.0)
}

// envelopeFor shapes a note of the given length under the preset's caps.
func envelopeFor(duration float64, preset *themePreset) EnvelopeProfile {
	return EnvelopeProfile{
		Attack:  min(preset.AttackCap, duration/5),
		Decay:   min(preset.DecayCap, duration/4),
		Sustain: preset.SustainLevel,
		Release: min(preset.ReleaseCap, duration/3),
	}
}

// keyFrequencies lists every fundamental the walk can visit for a root,
// used to audit a plan against its key.
func keyFrequencies(root float64, semitones []int) []float64 {
	out := make([]float64, 0, len(semitones)*2)
	for octave := 0; octave <= 1; octave++ {
		for _, s := range semitones {
			out = append(out, root*math.Pow(2, float64(octave)+float64(s)/12.0))
		}
	}
	return out
}
