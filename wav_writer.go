// wav_writer.go - Canonical RIFF/WAVE serialization with atomic writes

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	PCM_FORMAT      = 1
	FORMAT_SIZE     = 16
	BITS_PER_SAMPLE = 16
)

var errIOFailure = errors.New("wav: i/o failure")

// encodeWAV serializes the result as canonical 16-bit PCM: RIFF header,
// fmt chunk, data chunk.
func encodeWAV(res *RenderResult) []byte {
	pcm := res.Samples.quantize()
	bytesPerSample := BITS_PER_SAMPLE / 8
	blockAlign := bytesPerSample * res.Channels
	dataSize := uint32(len(pcm) * bytesPerSample)

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36)+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(FORMAT_SIZE))
	binary.Write(buf, binary.LittleEndian, uint16(PCM_FORMAT))
	binary.Write(buf, binary.LittleEndian, uint16(res.Channels))
	binary.Write(buf, binary.LittleEndian, uint32(res.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(res.SampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(BITS_PER_SAMPLE))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	binary.Write(buf, binary.LittleEndian, pcm)
	return buf.Bytes()
}

// writeWAV lands the file atomically: write a sibling temp file, sync,
// rename over the target. A failed write never leaves a partial theme
// where the game would load it.
func writeWAV(path string, res *RenderResult) error {
	data := encodeWAV(res)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", errIOFailure, tmp, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: writing %s: %v", errIOFailure, tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: syncing %s: %v", errIOFailure, tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: closing %s: %v", errIOFailure, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: renaming %s: %v", errIOFailure, path, err)
	}
	return nil
}

// renderSidecar is the JSON record written next to every WAV. Its seed
// is enough to regenerate the audio exactly.
type renderSidecar struct {
	Seed            int64   `json:"seed"`
	Key             string  `json:"key,omitempty"`
	TempoBPM        float64 `json:"tempo_bpm,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
	RenderedSeconds float64 `json:"rendered_seconds"`
	Dissonance      float64 `json:"dissonance"`
	SampleRate      int     `json:"sample_rate"`
	BitDepth        int     `json:"bit_depth"`
	Channels        int     `json:"channels"`
	Events          int     `json:"events"`
	Generated       string  `json:"generated"`
}

func sidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

func writeSidecar(path string, res *RenderResult) error {
	sc := renderSidecar{
		Seed:            res.Seed,
		Key:             res.Key,
		TempoBPM:        res.TempoBPM,
		DurationSeconds: res.Duration.Seconds(),
		RenderedSeconds: float64(len(res.Samples)) / float64(res.SampleRate),
		Dissonance:      res.Dissonance,
		SampleRate:      res.SampleRate,
		BitDepth:        res.BitDepth,
		Channels:        res.Channels,
		Events:          res.EventCount,
		Generated:       time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding sidecar: %v", errIOFailure, err)
	}
	if err := os.WriteFile(sidecarPath(path), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w: writing sidecar: %v", errIOFailure, err)
	}
	return nil
}

// loadWAV reads back a canonical 16-bit PCM file. Stereo content is
// downmixed to mono so the buffer stays the pipeline currency.
func loadWAV(path string) (*RenderResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errIOFailure, path, err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: %s is not a RIFF/WAVE file", path)
	}

	var sampleRate int
	var channels int
	var bits int
	var pcm []byte
	sawFmt := false

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("wav: truncated %q chunk in %s", id, path)
		}
		switch id {
		case "fmt ":
			if size < FORMAT_SIZE {
				return nil, fmt.Errorf("wav: fmt chunk too short in %s", path)
			}
			format := binary.LittleEndian.Uint16(data[body:])
			if format != PCM_FORMAT {
				return nil, fmt.Errorf("wav: unsupported format %d in %s (PCM only)", format, path)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++ // chunks are word aligned
		}
	}

	if !sawFmt || pcm == nil {
		return nil, fmt.Errorf("wav: missing fmt or data chunk in %s", path)
	}
	if bits != BITS_PER_SAMPLE {
		return nil, fmt.Errorf("wav: unsupported bit depth %d in %s (16 only)", bits, path)
	}
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("wav: unsupported channel count %d in %s", channels, path)
	}

	frames := len(pcm) / (2 * channels)
	samples := make(SampleBuffer, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			v := int16(binary.LittleEndian.Uint16(pcm[(i*channels+c)*2:]))
			sum += float64(v) / 32768.0
		}
		samples[i] = float32(sum / float64(channels))
	}

	return &RenderResult{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   NUM_CHANNELS,
		BitDepth:   BITS_PER_SAMPLE,
	}, nil
}
