// audio_drone_test.go - Drone segments and pad saturation

package main

import (
	"errors"
	"math"
	"testing"
)

func TestDroneSegment_TremoloSwing(t *testing.T) {
	seg := DroneSegment{
		BaseFrequency: 220,
		Detune:        []float64{0},
		ModRate:       2,
		ModDepth:      0.5,
		Duration:      1,
		Level:         1,
	}
	buf, err := seg.Render(SAMPLE_RATE)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// Peak per 50ms window traces the LFO: loud crests near 1.5x, quiet
	// troughs near 0.5x.
	window := SAMPLE_RATE / 20
	minPeak, maxPeak := math.Inf(1), 0.0
	for start := 0; start+window <= len(buf); start += window {
		var p float64
		for _, v := range buf[start : start+window] {
			if a := math.Abs(float64(v)); a > p {
				p = a
			}
		}
		minPeak = math.Min(minPeak, p)
		maxPeak = math.Max(maxPeak, p)
	}
	if maxPeak/minPeak < 2 {
		t.Errorf("window peak swing = %f/%f, tremolo too shallow", maxPeak, minPeak)
	}
}

func TestDroneSegment_EdgeFade(t *testing.T) {
	seg := DroneSegment{
		BaseFrequency: 110,
		Detune:        []float64{0, 1.5},
		Duration:      1,
		Level:         0.5,
		EdgeFade:      0.1,
	}
	buf, err := seg.Render(SAMPLE_RATE)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if buf[len(buf)-1] != 0 {
		t.Errorf("final sample = %f, want 0 after edge fade", buf[len(buf)-1])
	}
	var interiorPeak float64
	for _, v := range buf[len(buf)/4 : len(buf)/2] {
		interiorPeak = math.Max(interiorPeak, math.Abs(float64(v)))
	}
	if interiorPeak == 0 {
		t.Error("drone interior is silent")
	}
}

func TestDroneSegment_LevelSharedAcrossVoices(t *testing.T) {
	seg := DroneSegment{
		BaseFrequency: 110,
		Detune:        []float64{0, 1.5},
		Duration:      2,
		Level:         0.25,
	}
	buf, err := seg.Render(SAMPLE_RATE)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for i, v := range buf {
		if math.Abs(float64(v)) > 0.25+1e-3 {
			t.Fatalf("sample %d = %f exceeds segment level", i, v)
		}
	}
}

func TestDroneSegment_NoVoices(t *testing.T) {
	seg := DroneSegment{BaseFrequency: 110, Duration: 1, Level: 0.5}
	if _, err := seg.Render(SAMPLE_RATE); err == nil {
		t.Error("expected error for a segment with no voices")
	}
}

func TestDroneSegment_DetuneBeyondNyquist(t *testing.T) {
	seg := DroneSegment{
		BaseFrequency: 22000,
		Detune:        []float64{0, 100},
		Duration:      1,
		Level:         0.5,
	}
	if _, err := seg.Render(SAMPLE_RATE); !errors.Is(err, errInvalidFrequency) {
		t.Errorf("error = %v, want errInvalidFrequency", err)
	}
}

func TestSoftKnee(t *testing.T) {
	// Clean below the knee.
	for _, s := range []float32{0, 0.3, -0.3, 0.8, -0.8} {
		if got := softKnee(s); got != s {
			t.Errorf("softKnee(%f) = %f, want unchanged", s, got)
		}
	}
	// Squashed above it, symmetric, never past full scale.
	for _, s := range []float32{0.9, 1.2, 2.0, 5.0} {
		got := softKnee(s)
		if got <= PAD_KNEE || got > 1 {
			t.Errorf("softKnee(%f) = %f, want inside (%f, 1]", s, got, PAD_KNEE)
		}
		if neg := softKnee(-s); neg != -got {
			t.Errorf("softKnee(-%f) = %f, want %f", s, neg, -got)
		}
	}
	// Within the pad's real reach the knee stays strictly below full scale.
	if got := softKnee(1.2); got >= 1 {
		t.Errorf("softKnee(1.2) = %f, want below 1", got)
	}
	// Monotonic through the knee.
	prev := softKnee(0.79)
	for s := float32(0.8); s < 3; s += 0.01 {
		cur := softKnee(s)
		if cur < prev {
			t.Fatalf("softKnee not monotonic at %f: %f < %f", s, cur, prev)
		}
		prev = cur
	}
}

func TestSynthesizePad_KneeBoundsOutput(t *testing.T) {
	ev := NoteEvent{
		Frequency: 220,
		Harmonics: padHarmonics(),
		Voice:     VOICE_PAD,
		Duration:  0.5,
		Amplitude: 1,
	}
	buf, err := synthesizePad(ev, SAMPLE_RATE)
	if err != nil {
		t.Fatalf("synthesizePad returned error: %v", err)
	}
	for i, v := range buf {
		if math.Abs(float64(v)) >= 1 {
			t.Fatalf("sample %d = %f escaped the saturation knee", i, v)
		}
	}
}
