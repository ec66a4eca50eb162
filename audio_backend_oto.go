//go:build !headless

// audio_backend_oto.go - OTO v3 playback for auditioning renders

package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

type OtoPlayer struct {
	ctx  *oto.Context
	rate int
}

func newOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: NUM_CHANNELS,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoPlayer{ctx: ctx, rate: sampleRate}, nil
}

// Play blocks until the whole buffer has been heard.
func (op *OtoPlayer) Play(buf SampleBuffer) error {
	pcm := make([]byte, len(buf)*4)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(pcm[i*4:], math.Float32bits(s))
	}
	player := op.ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(50 * time.Millisecond)
	}
	return player.Close()
}

func (op *OtoPlayer) Close() error {
	// The oto context lives for the process; suspending parks its
	// workers without tearing the device down.
	return op.ctx.Suspend()
}
