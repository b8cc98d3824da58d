package capture

import (
	"context"
	"errors"
)

// SampleRate is the PCM rate every Microphone records at.
const SampleRate = 16000

var ErrNoSpeech = errors.New("no speech detected")

// Microphone blocks until one utterance ends and returns it as 16-bit
// little-endian mono PCM at SampleRate.
type Microphone interface {
	Record(ctx context.Context) ([]byte, error)
}
