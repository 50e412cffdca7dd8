package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/repository"
	"github.com/jwalitptl/triage-assistant/pkg/metrics"
)

// Schema creates the triage table. It is applied by triagectl migrate.
const Schema = `
CREATE TABLE IF NOT EXISTS triage (
	id                    BIGSERIAL PRIMARY KEY,
	patient_name          TEXT NOT NULL,
	date_of_birth         DATE,
	visit_time            TIMESTAMP,
	severity              TEXT NOT NULL,
	primary_diagnosis     TEXT NOT NULL,
	secondary_diagnoses   TEXT NOT NULL,
	recommended_tests     TEXT NOT NULL,
	recommended_treatment TEXT NOT NULL,
	follow_up             TEXT NOT NULL,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type triageRepository struct {
	connect Connector
	metrics *metrics.Metrics
}

// NewTriageRepository opens a connection for every call and closes it before
// returning, so no handle outlives a request.
func NewTriageRepository(connect Connector, m *metrics.Metrics) repository.TriageRepository {
	return &triageRepository{connect: connect, metrics: m}
}

func (r *triageRepository) Create(ctx context.Context, rec *model.DiagnosisRecord) (int64, error) {
	query := `
		INSERT INTO triage (
			patient_name, date_of_birth, visit_time, severity, primary_diagnosis,
			secondary_diagnoses, recommended_tests, recommended_treatment, follow_up
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING id
	`
	start := time.Now()

	db, err := r.connect(ctx)
	if err != nil {
		r.metrics.ObserveDatabase("insert", "error", time.Since(start))
		return 0, err
	}
	defer db.Close()

	var id int64
	err = db.QueryRowxContext(ctx, query,
		rec.PatientName,
		rec.DateOfBirthValue(),
		rec.VisitTimeValue(),
		rec.Severity,
		rec.PrimaryDiagnosis,
		rec.SecondaryDiagnoses,
		rec.RecommendedTests,
		rec.RecommendedTreatment,
		rec.FollowUp,
	).Scan(&id)
	if err != nil {
		r.metrics.ObserveDatabase("insert", "error", time.Since(start))
		return 0, fmt.Errorf("failed to create triage record: %w", err)
	}

	r.metrics.ObserveDatabase("insert", "success", time.Since(start))
	rec.ID = id
	return id, nil
}

func (r *triageRepository) Ping(ctx context.Context) error {
	db, err := r.connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}

// Migrate applies Schema.
func Migrate(ctx context.Context, connect Connector) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create triage table: %w", err)
	}
	return nil
}
