package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Vovarama1992/voice_translator/internal/ai"
	"github.com/Vovarama1992/voice_translator/internal/artifact"
	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/speech"
	"github.com/Vovarama1992/voice_translator/internal/textrules"
)

type translateCall struct{ text, from, to string }

type stubTranslator struct {
	reply string
	err   error
	calls []translateCall
}

func (s *stubTranslator) Translate(_ context.Context, text, from, to string) (string, error) {
	s.calls = append(s.calls, translateCall{text, from, to})
	return s.reply, s.err
}

type synthCall struct{ text, lang string }

type stubSynthesizer struct {
	err   error
	calls []synthCall
}

func (s *stubSynthesizer) Synthesize(_ context.Context, text, lang string) ([]byte, error) {
	s.calls = append(s.calls, synthCall{text, lang})
	if s.err != nil {
		return nil, s.err
	}
	return []byte("mp3:" + text), nil
}

type memStore struct {
	err   error
	saved []*artifact.Artifact
}

func (m *memStore) Save(_ context.Context, lang string, data []byte) (*artifact.Artifact, error) {
	if m.err != nil {
		return nil, m.err
	}
	a := &artifact.Artifact{
		ID:           fmt.Sprintf("a%d", len(m.saved)+1),
		LanguageCode: lang,
		ContentType:  artifact.ContentTypeMP3,
		Size:         int64(len(data)),
	}
	m.saved = append(m.saved, a)
	return a, nil
}

func (m *memStore) Open(context.Context, string) (io.ReadCloser, *artifact.Artifact, error) {
	return nil, nil, artifact.ErrNotFound
}

type stubCapture struct {
	text  string
	err   error
	langs []string
}

func (s *stubCapture) Capture(_ context.Context, lang string) (string, error) {
	s.langs = append(s.langs, lang)
	return s.text, s.err
}

type recordingNotifier struct {
	sources []string
}

func (n *recordingNotifier) Notify(_ context.Context, source string, _ error, _ string) error {
	n.sources = append(n.sources, source)
	return nil
}

type fixture struct {
	tr    *stubTranslator
	syn   *stubSynthesizer
	store *memStore
	note  *recordingNotifier
	p     *Pipeline
}

func newFixture(reply string, rules textrules.Service) *fixture {
	f := &fixture{
		tr:    &stubTranslator{reply: reply},
		syn:   &stubSynthesizer{},
		store: &memStore{},
		note:  &recordingNotifier{},
	}
	f.p = New(languages.Default(), f.tr, f.syn, f.store, rules, f.note, nil)
	return f
}

func TestRunTextScenario(t *testing.T) {
	f := newFixture("Hola, ¿cómo estás?", nil)

	res, err := f.p.RunText(context.Background(), TextRequest{
		Text:   "Hello, how are you?",
		Source: "English",
		Target: "Spanish",
	})
	if err != nil {
		t.Fatalf("RunText: %v", err)
	}

	if len(f.tr.calls) != 1 || f.tr.calls[0] != (translateCall{"Hello, how are you?", "English", "Spanish"}) {
		t.Errorf("translator calls = %+v", f.tr.calls)
	}
	if len(f.syn.calls) != 1 || f.syn.calls[0] != (synthCall{"Hola, ¿cómo estás?", "es"}) {
		t.Errorf("synthesizer calls = %+v", f.syn.calls)
	}
	if res.Mode != ModeText || res.Translation != "Hola, ¿cómo estás?" {
		t.Errorf("result = %+v", res)
	}
	if res.Artifact == nil || res.Artifact.LanguageCode != "es" || res.Artifact.ContentType != "audio/mp3" {
		t.Errorf("artifact = %+v", res.Artifact)
	}
}

func TestRunSpeechScenario(t *testing.T) {
	f := newFixture("सुप्रभात", nil)
	capture := &stubCapture{text: "Good morning"}

	var events []string
	res, err := f.p.RunSpeech(context.Background(), SpeechRequest{
		Source:   "English",
		Target:   "Hindi",
		Observer: func(e Event) { events = append(events, e.Name) },
	}, capture)
	if err != nil {
		t.Fatalf("RunSpeech: %v", err)
	}

	if len(capture.langs) != 1 || capture.langs[0] != "en" {
		t.Errorf("capture languages = %v", capture.langs)
	}
	if len(f.tr.calls) != 1 || f.tr.calls[0] != (translateCall{"Good morning", "English", "Hindi"}) {
		t.Errorf("translator calls = %+v", f.tr.calls)
	}
	if len(f.syn.calls) != 1 || f.syn.calls[0] != (synthCall{"सुप्रभात", "hi"}) {
		t.Errorf("synthesizer calls = %+v", f.syn.calls)
	}
	if res.Mode != ModeSpeech || res.Transcript != "Good morning" || res.Artifact.LanguageCode != "hi" {
		t.Errorf("result = %+v", res)
	}

	want := "listening,recognized,translating,translated,synthesized"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestRunTextEmptyIsNoop(t *testing.T) {
	f := newFixture("unused", nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		res, err := f.p.RunText(context.Background(), TextRequest{Text: text, Source: "English", Target: "French"})
		if err != nil {
			t.Fatalf("RunText(%q): %v", text, err)
		}
		if !res.Skipped || res.Notice != NoticeEmptyText {
			t.Errorf("RunText(%q) = %+v", text, res)
		}
	}
	if len(f.tr.calls) != 0 || len(f.syn.calls) != 0 {
		t.Errorf("backends called: %d translate, %d synth", len(f.tr.calls), len(f.syn.calls))
	}
}

func TestRunTextEmptyResponse(t *testing.T) {
	f := newFixture("", nil)
	f.tr.err = ai.ErrEmptyResponse

	res, err := f.p.RunText(context.Background(), TextRequest{Text: "Hello", Source: "English", Target: "German"})
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	fl, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected *Failure, got %v", err)
	}
	if fl.Stage != StageTranslation || fl.Reason != ReasonEmptyResponse {
		t.Errorf("failure = %s/%s", fl.Stage, fl.Reason)
	}
	if len(f.syn.calls) != 0 || len(f.store.saved) != 0 {
		t.Error("synthesis ran after an empty translation")
	}
	if len(f.note.sources) != 0 {
		t.Errorf("empty response must not page the admin: %v", f.note.sources)
	}
}

func TestRunTextTranslatorFailureSkipsSynthesis(t *testing.T) {
	cases := map[string]struct {
		err    error
		reason Reason
	}{
		"backend":    {errors.New("translator internal error: 500"), ReasonBackendError},
		"credential": {ai.ErrMissingCredential, ReasonMissingCredential},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture("", nil)
			f.tr.err = tc.err

			_, err := f.p.RunText(context.Background(), TextRequest{Text: "Hi", Source: "English", Target: "Japanese"})
			fl, ok := AsFailure(err)
			if !ok || fl.Reason != tc.reason || fl.Message == "" {
				t.Fatalf("failure = %+v", fl)
			}
			if !errors.Is(err, tc.err) {
				t.Error("cause not wrapped")
			}
			if len(f.syn.calls) != 0 {
				t.Error("synthesizer called")
			}
			if len(f.note.sources) != 1 || f.note.sources[0] != "translation" {
				t.Errorf("notifications = %v", f.note.sources)
			}
		})
	}
}

func TestRunSpeechRecognitionFailures(t *testing.T) {
	cases := map[string]struct {
		err    error
		reason Reason
		notify int
	}{
		"not understood": {fmt.Errorf("%w: no alternatives", speech.ErrNotUnderstood), ReasonNotUnderstood, 0},
		"unavailable":    {fmt.Errorf("%w: 503", speech.ErrUnavailable), ReasonServiceUnavailable, 1},
		"unknown":        {errors.New("socket closed"), ReasonServiceUnavailable, 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture("unused", nil)

			res, err := f.p.RunSpeech(context.Background(), SpeechRequest{Source: "Tamil", Target: "English"}, &stubCapture{err: tc.err})
			if res != nil {
				t.Errorf("result = %+v", res)
			}
			fl, ok := AsFailure(err)
			if !ok || fl.Stage != StageRecognition || fl.Reason != tc.reason {
				t.Fatalf("failure = %+v", fl)
			}
			if len(f.tr.calls) != 0 || len(f.syn.calls) != 0 {
				t.Error("backends called after recognition failure")
			}
			if len(f.note.sources) != tc.notify {
				t.Errorf("notifications = %v", f.note.sources)
			}
		})
	}
}

func TestRunSpeechEmptyTranscript(t *testing.T) {
	f := newFixture("unused", nil)

	res, err := f.p.RunSpeech(context.Background(), SpeechRequest{Source: "English", Target: "Spanish"}, &stubCapture{text: "  "})
	if err != nil {
		t.Fatalf("RunSpeech: %v", err)
	}
	if !res.Skipped || res.Notice != NoticeHeardNothing {
		t.Errorf("result = %+v", res)
	}
	if res.Notice == NoticeEmptyText {
		t.Error("heard-nothing notice must differ from the empty-text notice")
	}
	if len(f.tr.calls) != 0 {
		t.Error("translator called with an empty transcript")
	}
}

func TestUnknownLanguage(t *testing.T) {
	f := newFixture("x", nil)
	capture := &stubCapture{text: "hello"}

	_, err := f.p.RunText(context.Background(), TextRequest{Text: "hello", Source: "Klingon", Target: "Spanish"})
	if !errors.Is(err, languages.ErrUnknownLanguage) {
		t.Errorf("source: %v", err)
	}
	_, err = f.p.RunSpeech(context.Background(), SpeechRequest{Source: "English", Target: "Elvish"}, capture)
	if !errors.Is(err, languages.ErrUnknownLanguage) {
		t.Errorf("target: %v", err)
	}
	if _, ok := AsFailure(err); ok {
		t.Error("unknown language is not a stage failure")
	}
	if len(capture.langs) != 0 || len(f.tr.calls) != 0 {
		t.Error("backend called with an unknown language")
	}
}

func TestSynthesisFailureKeepsTranslation(t *testing.T) {
	f := newFixture("Bonjour", nil)
	f.syn.err = fmt.Errorf("%w: fr", speech.ErrUnsupportedLanguage)

	res, err := f.p.RunText(context.Background(), TextRequest{Text: "Hello", Source: "English", Target: "French"})
	fl, ok := AsFailure(err)
	if !ok || fl.Stage != StageSynthesis || fl.Reason != ReasonUnsupportedLanguage {
		t.Fatalf("failure = %+v", fl)
	}
	if res == nil || res.Translation != "Bonjour" || res.Artifact != nil {
		t.Errorf("result = %+v", res)
	}
	if len(f.note.sources) != 0 {
		t.Error("unsupported language must not page the admin")
	}
}

func TestStoreFailureIsSynthesisBackendError(t *testing.T) {
	f := newFixture("Hallo", nil)
	f.store.err = errors.New("disk full")

	res, err := f.p.RunText(context.Background(), TextRequest{Text: "Hello", Source: "English", Target: "German"})
	fl, ok := AsFailure(err)
	if !ok || fl.Stage != StageSynthesis || fl.Reason != ReasonBackendError {
		t.Fatalf("failure = %+v", fl)
	}
	if res == nil || res.Translation != "Hallo" {
		t.Errorf("result = %+v", res)
	}
	if len(f.note.sources) != 1 || f.note.sources[0] != "synthesis" {
		t.Errorf("notifications = %v", f.note.sources)
	}
}

type upperRules struct{ lang string }

func (u *upperRules) Process(_ context.Context, text, lang string) (string, error) {
	u.lang = lang
	return strings.ToUpper(text), nil
}

func TestRulesApplyOnlyToSpokenText(t *testing.T) {
	rules := &upperRules{}
	f := newFixture("hola", rules)

	res, err := f.p.RunText(context.Background(), TextRequest{Text: "hello", Source: "English", Target: "Spanish"})
	if err != nil {
		t.Fatalf("RunText: %v", err)
	}
	if res.Translation != "hola" {
		t.Errorf("displayed translation altered: %q", res.Translation)
	}
	if f.syn.calls[0].text != "HOLA" || rules.lang != "es" {
		t.Errorf("synth got %q, rules lang %q", f.syn.calls[0].text, rules.lang)
	}
}

// English→French→English goes through the translator twice and nothing
// promises the original text comes back.
func TestRoundTripIsNotIdentity(t *testing.T) {
	f := newFixture("Bonjour, comment ça va ?", nil)
	fr, err := f.p.RunText(context.Background(), TextRequest{Text: "Hello, how are you?", Source: "English", Target: "French"})
	if err != nil {
		t.Fatal(err)
	}

	f.tr.reply = "Hello, how is it going?"
	back, err := f.p.RunText(context.Background(), TextRequest{Text: fr.Translation, Source: "French", Target: "English"})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.tr.calls) != 2 || f.tr.calls[1].text != fr.Translation {
		t.Errorf("calls = %+v", f.tr.calls)
	}
	if back.Translation == "Hello, how are you?" {
		t.Log("round trip happened to match")
	}
}
