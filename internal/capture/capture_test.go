package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/speech"
)

// 30ms at 16kHz
const frameSamples = 480

func tone(amplitude int16) []byte {
	b := make([]byte, frameSamples*2)
	for i := 0; i < frameSamples; i++ {
		v := amplitude
		if i%2 == 1 {
			v = -amplitude
		}
		binary.LittleEndian.PutUint16(b[i*2:], uint16(v))
	}
	return b
}

var (
	loud  = tone(8000)
	quiet = tone(0)
)

func TestRMSEnergy(t *testing.T) {
	if e := rmsEnergy(quiet); e != 0 {
		t.Errorf("silence energy = %f", e)
	}
	if e := rmsEnergy(loud); e < 0.2 || e > 0.3 {
		t.Errorf("tone energy = %f", e)
	}
	if e := rmsEnergy(nil); e != 0 {
		t.Errorf("empty energy = %f", e)
	}
}

func TestEndpointerUtterance(t *testing.T) {
	cfg := DefaultVADConfig()
	cfg.SilenceFrames = 5
	ep := NewEndpointer(cfg)

	feed := func(frame []byte, n int) bool {
		for i := 0; i < n; i++ {
			done, err := ep.Feed(frame)
			if err != nil {
				t.Fatalf("Feed: %v", err)
			}
			if done {
				return true
			}
		}
		return false
	}

	if feed(quiet, 10) || ep.Speaking() {
		t.Fatal("silence must not start an utterance")
	}
	// two loud frames then silence resets the run
	feed(loud, 2)
	feed(quiet, 1)
	if ep.Speaking() {
		t.Fatal("two frames must not start an utterance")
	}
	if feed(loud, 3); !ep.Speaking() {
		t.Fatal("three loud frames must start an utterance")
	}
	if feed(loud, 4) {
		t.Fatal("ended during speech")
	}
	if !feed(quiet, 5) {
		t.Fatal("expected end after silence")
	}

	// 3 pre-roll + 4 speech + 5 trailing silence
	if got, want := len(ep.Utterance()), 12*len(loud); got != want {
		t.Errorf("utterance = %d bytes, want %d", got, want)
	}
}

func TestEndpointerNoSpeechTimeout(t *testing.T) {
	cfg := DefaultVADConfig()
	cfg.NoSpeechTimeout = 300 * time.Millisecond
	ep := NewEndpointer(cfg)

	var err error
	for i := 0; i < 20 && err == nil; i++ {
		_, err = ep.Feed(quiet)
	}
	if !errors.Is(err, ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestEndpointerMaxUtterance(t *testing.T) {
	cfg := DefaultVADConfig()
	cfg.MaxUtterance = 300 * time.Millisecond
	ep := NewEndpointer(cfg)

	for i := 0; i < 100; i++ {
		done, err := ep.Feed(loud)
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if done {
			if i != 9 {
				t.Errorf("ended after %d frames, want 10", i+1)
			}
			return
		}
	}
	t.Fatal("utterance never capped")
}

func TestDrainClosedChannel(t *testing.T) {
	frames := make(chan []byte, 8)
	for i := 0; i < 4; i++ {
		frames <- loud
	}
	close(frames)

	pcm, err := drain(context.Background(), frames, NewEndpointer(DefaultVADConfig()), zap.NewNop())
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(pcm) != 4*len(loud) {
		t.Errorf("pcm = %d bytes", len(pcm))
	}

	empty := make(chan []byte)
	close(empty)
	if _, err := drain(context.Background(), empty, NewEndpointer(DefaultVADConfig()), zap.NewNop()); !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestDrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := drain(ctx, make(chan []byte), NewEndpointer(DefaultVADConfig()), zap.NewNop()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEncodeWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0}
	wav := EncodeWAV(pcm, SampleRate)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q", wav[:40])
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d", got)
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("pcm payload altered")
	}
}

type stubMic struct {
	pcm []byte
	err error
}

func (m stubMic) Record(context.Context) ([]byte, error) { return m.pcm, m.err }

type recordingRecognizer struct {
	got  speech.Audio
	lang string
	text string
}

func (r *recordingRecognizer) Transcribe(_ context.Context, a speech.Audio, lang string) (string, error) {
	r.got, r.lang = a, lang
	return r.text, nil
}

func TestSpeechCapture(t *testing.T) {
	rec := &recordingRecognizer{text: "Good morning"}
	sc := NewSpeechCapture(stubMic{pcm: loud}, rec, nil)

	text, err := sc.Capture(context.Background(), "en")
	if err != nil || text != "Good morning" {
		t.Fatalf("Capture = %q, %v", text, err)
	}
	if rec.lang != "en" || rec.got.ContentType != "audio/wav" {
		t.Errorf("recognizer got lang=%q ct=%q", rec.lang, rec.got.ContentType)
	}
	if len(rec.got.Data) != 44+len(loud) {
		t.Errorf("wav size = %d", len(rec.got.Data))
	}
}

func TestSpeechCaptureErrors(t *testing.T) {
	rec := &recordingRecognizer{}

	_, err := NewSpeechCapture(stubMic{err: ErrNoSpeech}, rec, nil).Capture(context.Background(), "en")
	if !errors.Is(err, speech.ErrNotUnderstood) {
		t.Errorf("no speech: expected ErrNotUnderstood, got %v", err)
	}

	_, err = NewSpeechCapture(stubMic{err: errors.New("device busy")}, rec, nil).Capture(context.Background(), "en")
	if !errors.Is(err, speech.ErrUnavailable) {
		t.Errorf("device error: expected ErrUnavailable, got %v", err)
	}
	if rec.lang != "" {
		t.Error("recognizer called after microphone failure")
	}
}

func TestUpload(t *testing.T) {
	rec := &recordingRecognizer{text: "hola"}
	up := Upload{Recognizer: rec, Audio: speech.Audio{Data: []byte("ogg"), ContentType: "audio/ogg"}}

	if text, err := up.Capture(context.Background(), "es"); err != nil || text != "hola" {
		t.Fatalf("Capture = %q, %v", text, err)
	}
	if rec.got.ContentType != "audio/ogg" {
		t.Errorf("content type = %q", rec.got.ContentType)
	}

	if _, err := (Upload{Recognizer: rec}).Capture(context.Background(), "es"); !errors.Is(err, speech.ErrNotUnderstood) {
		t.Errorf("expected ErrNotUnderstood for empty upload, got %v", err)
	}
}
