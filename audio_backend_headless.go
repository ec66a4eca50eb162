//go:build headless

package main

type OtoPlayer struct {
	rate int
}

func newOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{rate: sampleRate}, nil
}

func (op *OtoPlayer) Play(buf SampleBuffer) error {
	return nil
}

func (op *OtoPlayer) Close() error {
	return nil
}
