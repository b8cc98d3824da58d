package capture

import (
	"math"
	"time"
)

type VADConfig struct {
	// EnergyThreshold is the RMS level above which a frame counts as speech.
	EnergyThreshold float64
	// SpeechFrames consecutive loud frames start an utterance.
	SpeechFrames int
	// SilenceFrames consecutive quiet frames end it.
	SilenceFrames int
	// MaxUtterance caps the recorded length once speech started.
	MaxUtterance time.Duration
	// NoSpeechTimeout gives up when nobody talks.
	NoSpeechTimeout time.Duration
}

// DefaultVADConfig assumes 30ms frames: 3 frames of speech to start, ~1s of silence to stop.
func DefaultVADConfig() VADConfig {
	return VADConfig{
		EnergyThreshold: 0.01,
		SpeechFrames:    3,
		SilenceFrames:   33,
		MaxUtterance:    30 * time.Second,
		NoSpeechTimeout: 10 * time.Second,
	}
}

// Endpointer decides where one utterance begins and ends in a stream of PCM frames.
type Endpointer struct {
	cfg VADConfig

	speechRun  int
	silenceRun int
	speaking   bool

	pending  [][]byte
	buf      []byte
	waited   time.Duration
	recorded time.Duration
}

func NewEndpointer(cfg VADConfig) *Endpointer {
	return &Endpointer{cfg: cfg}
}

// Feed consumes one frame. It reports done once the utterance is complete
// and returns ErrNoSpeech if the no-speech timeout passes first.
func (e *Endpointer) Feed(frame []byte) (bool, error) {
	dur := frameDuration(frame)
	loud := rmsEnergy(frame) > e.cfg.EnergyThreshold

	if !e.speaking {
		e.waited += dur
		if loud {
			e.speechRun++
			e.pending = append(e.pending, frame)
			if e.speechRun >= e.cfg.SpeechFrames {
				e.speaking = true
				for _, p := range e.pending {
					e.buf = append(e.buf, p...)
					e.recorded += frameDuration(p)
				}
				e.pending = nil
			}
			return false, nil
		}
		e.speechRun = 0
		e.pending = e.pending[:0]
		if e.cfg.NoSpeechTimeout > 0 && e.waited >= e.cfg.NoSpeechTimeout {
			return false, ErrNoSpeech
		}
		return false, nil
	}

	e.buf = append(e.buf, frame...)
	e.recorded += dur
	if loud {
		e.silenceRun = 0
	} else {
		e.silenceRun++
	}

	if e.silenceRun >= e.cfg.SilenceFrames {
		return true, nil
	}
	if e.cfg.MaxUtterance > 0 && e.recorded >= e.cfg.MaxUtterance {
		return true, nil
	}
	return false, nil
}

// Speaking reports whether an utterance has started.
func (e *Endpointer) Speaking() bool { return e.speaking }

// Utterance returns the PCM collected since speech started.
func (e *Endpointer) Utterance() []byte { return e.buf }

func frameDuration(frame []byte) time.Duration {
	samples := len(frame) / 2
	return time.Duration(samples) * time.Second / SampleRate
}

// rmsEnergy of 16-bit little-endian samples, normalized to [0, 1].
func rmsEnergy(data []byte) float64 {
	n := len(data) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(n))
}
