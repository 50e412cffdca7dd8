package repository

import (
	"context"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

type (
	// TriageRepository persists normalized triage records.
	TriageRepository interface {
		// Create inserts rec and returns the generated row ID.
		Create(ctx context.Context, rec *model.DiagnosisRecord) (int64, error)
		// Ping verifies the database is reachable.
		Ping(ctx context.Context) error
	}
)
