package pipeline

import (
	"errors"
	"fmt"

	"github.com/Vovarama1992/voice_translator/internal/ai"
	"github.com/Vovarama1992/voice_translator/internal/speech"
)

type Stage string

const (
	StageRecognition Stage = "recognition"
	StageTranslation Stage = "translation"
	StageSynthesis   Stage = "synthesis"
)

type Reason string

const (
	ReasonNotUnderstood       Reason = "not-understood"
	ReasonServiceUnavailable  Reason = "service-unavailable"
	ReasonEmptyResponse       Reason = "empty-response"
	ReasonBackendError        Reason = "backend-error"
	ReasonUnsupportedLanguage Reason = "unsupported-language"
	ReasonMissingCredential   Reason = "missing-credential"
)

// Failure stops a run at Stage. Message is safe to show to the user.
type Failure struct {
	Stage   Stage
	Reason  Reason
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s failed (%s)", f.Stage, f.Reason)
	}
	return fmt.Sprintf("%s failed (%s): %v", f.Stage, f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// backend reports whether the failure points at a broken dependency rather than the input.
func (f *Failure) backend() bool {
	switch f.Reason {
	case ReasonServiceUnavailable, ReasonBackendError, ReasonMissingCredential:
		return true
	}
	return false
}

func recognitionFailure(err error) *Failure {
	if errors.Is(err, speech.ErrNotUnderstood) {
		return &Failure{
			Stage:   StageRecognition,
			Reason:  ReasonNotUnderstood,
			Message: "Sorry, I could not understand the audio.",
			Err:     err,
		}
	}
	return &Failure{
		Stage:   StageRecognition,
		Reason:  ReasonServiceUnavailable,
		Message: fmt.Sprintf("Could not request results; %v", err),
		Err:     err,
	}
}

func translationFailure(err error) *Failure {
	switch {
	case errors.Is(err, ai.ErrEmptyResponse):
		return &Failure{
			Stage:   StageTranslation,
			Reason:  ReasonEmptyResponse,
			Message: "Translation could not be generated. Please try rephrasing your input.",
			Err:     err,
		}
	case errors.Is(err, ai.ErrMissingCredential):
		return &Failure{
			Stage:   StageTranslation,
			Reason:  ReasonMissingCredential,
			Message: "Translator API key is not configured.",
			Err:     err,
		}
	}
	return &Failure{
		Stage:   StageTranslation,
		Reason:  ReasonBackendError,
		Message: fmt.Sprintf("Error in translation (%s). Please try again or rephrase your input.", ai.Diagnose(err)),
		Err:     err,
	}
}

func synthesisFailure(err error, languageCode string) *Failure {
	if errors.Is(err, speech.ErrUnsupportedLanguage) {
		return &Failure{
			Stage:   StageSynthesis,
			Reason:  ReasonUnsupportedLanguage,
			Message: fmt.Sprintf("Text-to-Speech is not available for %q.", languageCode),
			Err:     err,
		}
	}
	return &Failure{
		Stage:   StageSynthesis,
		Reason:  ReasonBackendError,
		Message: fmt.Sprintf("Text-to-Speech error: %v", err),
		Err:     err,
	}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}
