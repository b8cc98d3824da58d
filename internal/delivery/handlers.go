package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/voice_translator/internal/capture"
	"github.com/Vovarama1992/voice_translator/internal/languages"
	"github.com/Vovarama1992/voice_translator/internal/pipeline"
	"github.com/Vovarama1992/voice_translator/internal/speech"
)

const maxUploadBytes = 25 << 20

// Runner is what the handlers need from *pipeline.Pipeline.
type Runner interface {
	RunText(ctx context.Context, req pipeline.TextRequest) (*pipeline.Result, error)
	RunSpeech(ctx context.Context, req pipeline.SpeechRequest, c pipeline.SpeechCapture) (*pipeline.Result, error)
}

// Defaults fill in languages the client left blank.
type Defaults struct {
	Source string
	Target string
}

type TranslateHandler struct {
	pipe       Runner
	recognizer speech.Recognizer
	catalog    *languages.Catalog
	defaults   Defaults
	log        *logger.ZapLogger
}

func NewTranslateHandler(
	pipe Runner,
	recognizer speech.Recognizer,
	catalog *languages.Catalog,
	defaults Defaults,
	log *logger.ZapLogger,
) *TranslateHandler {
	return &TranslateHandler{
		pipe:       pipe,
		recognizer: recognizer,
		catalog:    catalog,
		defaults:   defaults,
		log:        log,
	}
}

type errorBody struct {
	Stage   string `json:"stage,omitempty"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type translateResponse struct {
	Mode        string     `json:"mode"`
	Transcript  string     `json:"transcript,omitempty"`
	Translation string     `json:"translation,omitempty"`
	AudioURL    string     `json:"audio_url,omitempty"`
	AudioSize   string     `json:"audio_size,omitempty"`
	Skipped     bool       `json:"skipped,omitempty"`
	Notice      string     `json:"notice,omitempty"`
	Error       *errorBody `json:"error,omitempty"`
}

// GET /api/languages
func (h *TranslateHandler) Languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Entries())
}

// POST /api/translate/text
// body: { "text": "Hello", "source": "English", "target": "Spanish" }
func (h *TranslateHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string `json:"text"`
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Mode:  string(pipeline.ModeText),
			Error: &errorBody{Reason: "invalid-request", Message: "invalid json: " + err.Error()},
		})
		return
	}

	res, err := h.pipe.RunText(r.Context(), pipeline.TextRequest{
		Text:   body.Text,
		Source: languageOrDefault(body.Source, h.defaults.Source),
		Target: languageOrDefault(body.Target, h.defaults.Target),
	})
	h.respond(w, pipeline.ModeText, res, err)
}

// POST /api/translate/speech
// multipart: audio (file), source, target
func (h *TranslateHandler) TranslateSpeech(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.log.Log(logger.LogEntry{Level: "warn", Message: "invalid multipart", Service: "delivery", Error: err})
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Mode:  string(pipeline.ModeSpeech),
			Error: &errorBody{Reason: "invalid-request", Message: "invalid multipart: " + err.Error()},
		})
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Mode:  string(pipeline.ModeSpeech),
			Error: &errorBody{Reason: "invalid-request", Message: "missing audio: " + err.Error()},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "failed to read upload", Service: "delivery", Error: err})
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Mode:  string(pipeline.ModeSpeech),
			Error: &errorBody{Reason: "invalid-request", Message: "failed to read audio"},
		})
		return
	}

	upload := capture.Upload{
		Recognizer: h.recognizer,
		Audio:      speech.Audio{Data: data, ContentType: header.Header.Get("Content-Type")},
	}
	res, err := h.pipe.RunSpeech(r.Context(), pipeline.SpeechRequest{
		Source: languageOrDefault(r.FormValue("source"), h.defaults.Source),
		Target: languageOrDefault(r.FormValue("target"), h.defaults.Target),
	}, upload)
	h.respond(w, pipeline.ModeSpeech, res, err)
}

func (h *TranslateHandler) respond(w http.ResponseWriter, mode pipeline.Mode, res *pipeline.Result, err error) {
	out := translateResponse{Mode: string(mode)}
	if res != nil {
		out.Transcript = res.Transcript
		out.Translation = res.Translation
		out.Skipped = res.Skipped
		out.Notice = res.Notice
		if res.Artifact != nil {
			out.AudioURL = "/artifacts/" + res.Artifact.ID
			out.AudioSize = res.Artifact.HumanSize()
		}
	}

	if err == nil {
		writeJSON(w, http.StatusOK, out)
		return
	}

	if errors.Is(err, languages.ErrUnknownLanguage) {
		out.Error = &errorBody{Reason: "unknown-language", Message: err.Error()}
		writeJSON(w, http.StatusBadRequest, out)
		return
	}

	f, ok := pipeline.AsFailure(err)
	if !ok {
		h.log.Log(logger.LogEntry{Level: "error", Message: "pipeline error", Service: "delivery", Error: err})
		out.Error = &errorBody{Reason: "internal", Message: "internal error"}
		writeJSON(w, http.StatusInternalServerError, out)
		return
	}

	out.Error = &errorBody{Stage: string(f.Stage), Reason: string(f.Reason), Message: f.Message}
	writeJSON(w, statusFor(f.Reason), out)
}

func statusFor(reason pipeline.Reason) int {
	switch reason {
	case pipeline.ReasonNotUnderstood, pipeline.ReasonEmptyResponse, pipeline.ReasonUnsupportedLanguage:
		return http.StatusUnprocessableEntity
	case pipeline.ReasonMissingCredential:
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func languageOrDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
