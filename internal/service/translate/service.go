package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/language"
	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
)

// Status messages shown to staff.
const (
	StatusNoAudio         = "No audio provided. Please upload or record audio first."
	StatusEmptyTranscript = "No transcription returned. Please try again with a clearer recording."
	StatusTranscribed     = "Transcription complete."
	StatusNoText          = "No text to translate. Please transcribe audio first."
	StatusUnrecognized    = "Translation failed: unrecognized response from the translation service."
)

type Transcriber interface {
	Transcribe(ctx context.Context, ep model.Endpoint, audio backend.File, languageName string) (model.Transcription, error)
}

type Translator interface {
	Translate(ctx context.Context, ep model.Endpoint, text, source, target string) (string, error)
}

type TranslateServicer interface {
	Transcribe(ctx context.Context, backends model.Backends, audio *backend.File, languageName string) model.Transcription
	Translate(ctx context.Context, backends model.Backends, text, source, target string) model.Translation
}

type Service struct {
	stt Transcriber
	mt  Translator
	log *logger.Logger
}

func NewService(stt Transcriber, mt Translator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{stt: stt, mt: mt, log: log}
}

// Transcribe converts audio to text. languageName is the patient's language;
// empty means auto-detect. Failures are reported in Status with empty Text.
func (s *Service) Transcribe(ctx context.Context, backends model.Backends, audio *backend.File, languageName string) model.Transcription {
	if audio == nil || audio.Open == nil {
		return model.Transcription{Language: language.Unknown, Status: StatusNoAudio}
	}

	out, err := s.stt.Transcribe(ctx, backends.Whisper, *audio, languageName)
	if err != nil {
		s.log.WithContext(ctx).Error(err, "transcription failed", "language", languageName)
		return model.Transcription{Language: language.Unknown, Status: failure("Transcription", err)}
	}
	if strings.TrimSpace(out.Text) == "" {
		return model.Transcription{Language: out.Language, Status: StatusEmptyTranscript}
	}

	out.Status = StatusTranscribed
	if languageName != "" {
		out.Status = fmt.Sprintf("Transcribed in %s.", languageName)
	}
	return out
}

// Translate converts text between two languages, skipping the backend when
// both are the same.
func (s *Service) Translate(ctx context.Context, backends model.Backends, text, source, target string) model.Translation {
	if strings.TrimSpace(text) == "" {
		return model.Translation{Status: StatusNoText}
	}
	if language.Same(source, target) {
		return model.Translation{
			Text:   text,
			Status: fmt.Sprintf("Translation skipped (both languages are %s).", source),
		}
	}

	translated, err := s.mt.Translate(ctx, backends.NLLB, text, source, target)
	if err != nil {
		s.log.WithContext(ctx).Error(err, "translation failed", "source", source, "target", target)
		if errors.Is(err, parser.ErrUnrecognizedShape) {
			return model.Translation{Status: StatusUnrecognized}
		}
		return model.Translation{Status: failure("Translation", err)}
	}
	return model.Translation{
		Text:   translated,
		Status: fmt.Sprintf("Translated from %s to %s.", source, target),
	}
}

// failure turns a backend error into the status line shown to staff.
func failure(action string, err error) string {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("%s failed: API returned status %d", action, statusErr.StatusCode)
	}
	return fmt.Sprintf("Error: %v", err)
}
