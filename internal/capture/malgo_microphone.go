package capture

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"
)

// MalgoMicrophone records from the default capture device.
type MalgoMicrophone struct {
	vad          VADConfig
	bufferFrames uint32
	log          *zap.Logger
}

func NewMalgoMicrophone(vad VADConfig, log *zap.Logger) *MalgoMicrophone {
	if log == nil {
		log = zap.NewNop()
	}
	return &MalgoMicrophone{
		vad:          vad,
		bufferFrames: SampleRate * 30 / 1000, // 30ms periods
		log:          log,
	}
}

func (m *MalgoMicrophone) Record(ctx context.Context) ([]byte, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = 1
	cfg.SampleRate = SampleRate
	cfg.PeriodSizeInFrames = m.bufferFrames

	frames := make(chan []byte, 64)
	var callbacks malgo.DeviceCallbacks
	callbacks.Data = func(_, input []byte, _ uint32) {
		frame := make([]byte, len(input))
		copy(frame, input)
		select {
		case frames <- frame:
		default:
			// consumer is behind, drop the period
		}
	}

	device, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return nil, fmt.Errorf("failed to start device: %w", err)
	}
	defer func() { _ = device.Stop() }()

	return drain(ctx, frames, NewEndpointer(m.vad), m.log)
}

// drain feeds frames to the endpointer until the utterance ends.
func drain(ctx context.Context, frames <-chan []byte, ep *Endpointer, log *zap.Logger) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				if ep.Speaking() {
					return ep.Utterance(), nil
				}
				return nil, ErrNoSpeech
			}
			wasSpeaking := ep.Speaking()
			done, err := ep.Feed(frame)
			if err != nil {
				return nil, err
			}
			if !wasSpeaking && ep.Speaking() {
				log.Debug("speech started")
			}
			if done {
				log.Debug("speech ended", zap.Int("bytes", len(ep.Utterance())))
				return ep.Utterance(), nil
			}
		}
	}
}
