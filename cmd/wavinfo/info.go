package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// WavInfo summarizes a 16-bit PCM WAV file: its header fields plus
// amplitude statistics over the decoded samples.
type WavInfo struct {
	SampleRate int
	Channels   int
	Bits       int
	Frames     int

	Peak          float64
	RMS           float64
	DCOffset      float64
	ZeroCrossings int
}

// Seconds is the running time of the file.
func (w WavInfo) Seconds() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(w.Frames) / float64(w.SampleRate)
}

// ReadInfo parses path and computes statistics across all channels.
func ReadInfo(path string) (WavInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WavInfo{}, err
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WavInfo{}, fmt.Errorf("%s is not a RIFF/WAVE file", path)
	}

	var info WavInfo
	var pcm []byte
	sawFmt := false

	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return WavInfo{}, fmt.Errorf("truncated %q chunk", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return WavInfo{}, fmt.Errorf("fmt chunk too short")
			}
			if format := binary.LittleEndian.Uint16(data[body:]); format != 1 {
				return WavInfo{}, fmt.Errorf("unsupported format %d (PCM only)", format)
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			info.Bits = int(binary.LittleEndian.Uint16(data[body+14:]))
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !sawFmt || pcm == nil {
		return WavInfo{}, fmt.Errorf("missing fmt or data chunk")
	}
	if info.Bits != 16 {
		return WavInfo{}, fmt.Errorf("unsupported bit depth %d (16 only)", info.Bits)
	}
	if info.Channels < 1 {
		return WavInfo{}, fmt.Errorf("invalid channel count %d", info.Channels)
	}

	samples := len(pcm) / 2
	info.Frames = samples / info.Channels

	var sum, sumSq float64
	var prevPositive bool
	for i := 0; i < samples; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
		sum += v
		sumSq += v * v
		if a := math.Abs(v); a > info.Peak {
			info.Peak = a
		}
		positive := v >= 0
		if i > 0 && positive != prevPositive {
			info.ZeroCrossings++
		}
		prevPositive = positive
	}
	if samples > 0 {
		info.RMS = math.Sqrt(sumSq / float64(samples))
		info.DCOffset = sum / float64(samples)
	}
	return info, nil
}
