package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_translator/internal/config"
)

var fakeMP3 = []byte{0xFF, 0xFB, 0x90, 0x64}

func TestGoogleTTSSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "g-key" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		var req googleSynthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if req.Voice.LanguageCode != "es-ES" {
			t.Errorf("languageCode = %q", req.Voice.LanguageCode)
		}
		if req.AudioConfig.AudioEncoding != "MP3" {
			t.Errorf("encoding = %q", req.AudioConfig.AudioEncoding)
		}
		if req.Input.Text != "Hola, ¿cómo estás?" {
			t.Errorf("text = %q", req.Input.Text)
		}
		_ = json.NewEncoder(w).Encode(googleSynthResponse{AudioContent: base64.StdEncoding.EncodeToString(fakeMP3)})
	}))
	defer srv.Close()

	g, err := NewGoogleTTS("g-key", zap.NewNop())
	if err != nil {
		t.Fatalf("NewGoogleTTS: %v", err)
	}
	g.baseURL = srv.URL

	data, err := g.Synthesize(context.Background(), "Hola, ¿cómo estás?", "es")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(data) != string(fakeMP3) {
		t.Errorf("audio = %v", data)
	}
}

func TestGoogleTTSUnsupportedLanguage(t *testing.T) {
	g, _ := NewGoogleTTS("g-key", nil)

	_, err := g.Synthesize(context.Background(), "hi", "tlh")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestGoogleTTSCoversCatalogCodes(t *testing.T) {
	for _, code := range []string{"hi", "kn", "te", "ta", "ml", "en", "es", "fr", "de", "zh-CN", "ja", "ru"} {
		if _, ok := googleLanguageCodes[code]; !ok {
			t.Errorf("no google language for %q", code)
		}
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/voice-1") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "el-key" {
			t.Errorf("xi-api-key = %q", r.Header.Get("xi-api-key"))
		}
		var req elevenLabsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.LanguageCode != "hi" {
			t.Errorf("language_code = %q", req.LanguageCode)
		}
		_, _ = w.Write(fakeMP3)
	}))
	defer srv.Close()

	c, err := NewElevenLabsClient("el-key", "voice-1", nil)
	if err != nil {
		t.Fatalf("NewElevenLabsClient: %v", err)
	}
	c.baseURL = srv.URL + "/"

	data, err := c.Synthesize(context.Background(), "सुप्रभात", "hi")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(data) != len(fakeMP3) {
		t.Errorf("audio length = %d", len(data))
	}
}

func TestElevenLabsUnsupportedLanguage(t *testing.T) {
	c, _ := NewElevenLabsClient("el-key", "", nil)

	_, err := c.Synthesize(context.Background(), "ನಮಸ್ಕಾರ", "kn")
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestOpenAITTSSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/speech") {
			t.Errorf("path = %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"response_format":"mp3"`) {
			t.Errorf("request = %s", body)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(fakeMP3)
	}))
	defer srv.Close()

	o, err := NewOpenAITTS("sk-test", srv.URL+"/v1")
	if err != nil {
		t.Fatalf("NewOpenAITTS: %v", err)
	}

	data, err := o.Synthesize(context.Background(), "Bonjour", "fr")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(data) != string(fakeMP3) {
		t.Errorf("audio = %v", data)
	}
}

func TestBackendSelection(t *testing.T) {
	cfg := &config.Config{
		STTBackend:       "deepgram",
		DeepgramAPIKey:   "dg",
		TTSBackend:       "google",
		GoogleAPIKey:     "g",
		OpenAIAPIKey:     "sk",
		ElevenLabsAPIKey: "el",
	}

	r, err := NewRecognizer(cfg, nil)
	if err != nil {
		t.Fatalf("NewRecognizer: %v", err)
	}
	if _, ok := r.(*DeepgramClient); !ok {
		t.Errorf("recognizer = %T", r)
	}

	s, err := NewSynthesizer(cfg, nil)
	if err != nil {
		t.Fatalf("NewSynthesizer: %v", err)
	}
	if _, ok := s.(*GoogleTTS); !ok {
		t.Errorf("synthesizer = %T", s)
	}

	cfg.STTBackend, cfg.TTSBackend = "whisper", "elevenlabs"
	if r, _ := NewRecognizer(cfg, nil); r == nil {
		t.Error("whisper recognizer not built")
	}
	if s, _ := NewSynthesizer(cfg, nil); s == nil {
		t.Error("elevenlabs synthesizer not built")
	}

	cfg.STTBackend, cfg.TTSBackend = "vosk", "piper"
	if _, err := NewRecognizer(cfg, nil); err == nil {
		t.Error("expected unknown STT backend error")
	}
	if _, err := NewSynthesizer(cfg, nil); err == nil {
		t.Error("expected unknown TTS backend error")
	}
}

func TestBackendSelectionMissingKey(t *testing.T) {
	cfg := &config.Config{STTBackend: "deepgram", TTSBackend: "google"}

	r, err := NewRecognizer(cfg, nil)
	if err == nil || r != nil {
		t.Errorf("expected nil recognizer and error, got %v, %v", r, err)
	}
	s, err := NewSynthesizer(cfg, nil)
	if err == nil || s != nil {
		t.Errorf("expected nil synthesizer and error, got %v, %v", s, err)
	}
}

type stubRecognizer struct {
	text string
	err  error
}

func (s stubRecognizer) Transcribe(context.Context, Audio, string) (string, error) {
	return s.text, s.err
}

func TestServiceWithoutBackends(t *testing.T) {
	svc := NewService(nil, nil, nil)

	if _, err := svc.Transcribe(context.Background(), Audio{}, "en"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Synthesize(context.Background(), "x", "en"); err == nil {
		t.Error("expected error without synthesizer")
	}

	svc = NewService(stubRecognizer{text: "ok"}, nil, zap.NewNop())
	if text, err := svc.Transcribe(context.Background(), Audio{}, "en"); err != nil || text != "ok" {
		t.Errorf("Transcribe = %q, %v", text, err)
	}
}
