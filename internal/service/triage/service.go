package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/triage-assistant/internal/backend"
	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
	"github.com/jwalitptl/triage-assistant/internal/repository"
	"github.com/jwalitptl/triage-assistant/internal/triage"
	"github.com/jwalitptl/triage-assistant/pkg/logger"
	"github.com/jwalitptl/triage-assistant/pkg/messaging"
)

// EventSaved is published after a summary is stored.
const EventSaved = "triage.saved"

const (
	StatusNoNotes     = "No transcription to analyze. Please transcribe audio first."
	StatusAnalyzed    = "Analysis complete."
	StatusNoData      = "No data to save. Please run a diagnosis first."
	StatusNoValidData = "No valid data to save to database."
	StatusParseFailed = "Failed to parse JSON data."
)

// StatusUnrecognized reports a MedReason reply without any known text field.
const StatusUnrecognized = "Error: unrecognized response from the MedReason API."

var errNoDatabase = errors.New("database is not configured")

// Reasoner produces a free-text triage response for a prompt.
type Reasoner interface {
	Complete(ctx context.Context, ep model.Endpoint, prompt string, temperature float64) (string, error)
}

type TriageServicer interface {
	Diagnose(ctx context.Context, backends model.Backends, notes string) model.Diagnosis
	Save(ctx context.Context, summary string) model.SaveResult
}

type Options struct {
	Temperature float64
	// RepairJSON lets the extractor fix malformed objects before giving up.
	RepairJSON bool
}

type Service struct {
	reasoner  Reasoner
	repo      repository.TriageRepository
	publisher messaging.Publisher
	log       *logger.Logger
	opts      Options
}

// NewService wires the triage flow. repo may be nil when no database is
// configured; saves then fail with a database error.
func NewService(reasoner Reasoner, repo repository.TriageRepository, publisher messaging.Publisher, log *logger.Logger, opts Options) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		reasoner:  reasoner,
		repo:      repo,
		publisher: publisher,
		log:       log,
		opts:      opts,
	}
}

// Diagnose asks the reasoning backend for a triage assessment of notes and
// splits the answer into its sections and the structured summary.
func (s *Service) Diagnose(ctx context.Context, backends model.Backends, notes string) model.Diagnosis {
	if strings.TrimSpace(notes) == "" {
		return model.Diagnosis{Status: StatusNoNotes}
	}

	raw, err := s.reasoner.Complete(ctx, backends.MedReason, backend.TriagePrompt(notes), s.opts.Temperature)
	if err != nil {
		s.log.WithContext(ctx).Error(err, "diagnosis failed")
		return model.Diagnosis{Status: failure(err)}
	}

	sections := parser.ExtractSections(raw)
	source := sections.FinalAnswer
	if strings.TrimSpace(source) == "" {
		source = raw
	}

	return model.Diagnosis{
		RawResponse: raw,
		Sections:    sections,
		Summary:     s.summarize(source),
		Status:      StatusAnalyzed,
	}
}

func (s *Service) summarize(text string) string {
	record, err := parser.Extractor{Repair: s.opts.RepairJSON}.Extract(text)
	if err != nil {
		return parser.SentinelMessage(err)
	}
	out, err := parser.FormatRecord(record)
	if err != nil {
		return parser.SentinelMessage(err)
	}
	return out
}

// Save stores a summary produced by Diagnose, possibly edited by staff. It
// never touches storage for empty input or an extraction failure message.
func (s *Service) Save(ctx context.Context, summary string) model.SaveResult {
	if strings.TrimSpace(summary) == "" {
		return model.SaveResult{Message: StatusNoData}
	}
	if parser.IsSentinel(summary) {
		return model.SaveResult{Message: StatusNoValidData}
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(summary), &data); err != nil || data == nil {
		return model.SaveResult{Message: StatusParseFailed}
	}

	if s.repo == nil {
		return model.SaveResult{Message: fmt.Sprintf("Database error: %v", errNoDatabase)}
	}

	record := triage.Normalize(data)
	id, err := s.repo.Create(ctx, &record)
	if err != nil {
		s.log.WithContext(ctx).Error(err, "failed to save diagnosis")
		return model.SaveResult{Message: fmt.Sprintf("Database error: %v", err)}
	}
	record.ID = id

	s.publishSaved(ctx, record)

	return model.SaveResult{
		OK:      true,
		Message: fmt.Sprintf("Diagnosis saved successfully to database with ID: %d", id),
		ID:      &id,
	}
}

func (s *Service) publishSaved(ctx context.Context, record model.DiagnosisRecord) {
	payload := map[string]interface{}{
		"id":         record.ID,
		"severity":   record.Severity,
		"visit_time": record.VisitTimeValue(),
	}
	if err := s.publisher.Publish(ctx, EventSaved, payload); err != nil {
		s.log.WithContext(ctx).Warn("failed to publish saved event", "id", record.ID, "error", err.Error())
	}
}

func failure(err error) string {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Error: MedReason API returned status code %d", statusErr.StatusCode)
	}
	if errors.Is(err, parser.ErrUnrecognizedShape) {
		return StatusUnrecognized
	}
	return fmt.Sprintf("Error: %v", err)
}
