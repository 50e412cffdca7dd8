package model

import (
	"encoding/json"
	"time"
)

// NotAvailable marks a field the model did not supply or supplied in an unusable shape.
const NotAvailable = "N/A"

// Layouts accepted for the date-typed columns of the triage table.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Keys of the structured triage summary returned by the reasoning backend.
const (
	FieldPatientName          = "patient_name"
	FieldDateOfBirth          = "date_of_birth"
	FieldVisitTime            = "visit_time"
	FieldSeverity             = "severity"
	FieldPrimaryDiagnosis     = "primary_diagnosis"
	FieldSecondaryDiagnoses   = "secondary_diagnoses"
	FieldRecommendedTests     = "recommended_tests"
	FieldRecommendedTreatment = "recommended_treatment"
	FieldFollowUp             = "follow_up"
	FieldMedicalReasoning     = "medical_reasoning"
)

// DiagnosisRecord is one row of the triage table. Text fields always hold either
// model-supplied text or NotAvailable; a nil date means the column is stored as NULL.
type DiagnosisRecord struct {
	ID                   int64      `json:"id,omitempty" db:"id"`
	PatientName          string     `json:"patient_name" db:"patient_name"`
	DateOfBirth          *time.Time `json:"-" db:"date_of_birth"`
	VisitTime            *time.Time `json:"-" db:"visit_time"`
	Severity             string     `json:"severity" db:"severity"`
	PrimaryDiagnosis     string     `json:"primary_diagnosis" db:"primary_diagnosis"`
	SecondaryDiagnoses   string     `json:"secondary_diagnoses" db:"secondary_diagnoses"`
	RecommendedTests     string     `json:"recommended_tests" db:"recommended_tests"`
	RecommendedTreatment string     `json:"recommended_treatment" db:"recommended_treatment"`
	FollowUp             string     `json:"follow_up" db:"follow_up"`
}

// DateOfBirthValue returns the column value for date_of_birth: nil or "YYYY-MM-DD".
func (r DiagnosisRecord) DateOfBirthValue() interface{} {
	if r.DateOfBirth == nil {
		return nil
	}
	return r.DateOfBirth.Format(DateLayout)
}

// VisitTimeValue returns the column value for visit_time: nil or "YYYY-MM-DD HH:MM:SS".
func (r DiagnosisRecord) VisitTimeValue() interface{} {
	if r.VisitTime == nil {
		return nil
	}
	return r.VisitTime.Format(DateTimeLayout)
}

func (r DiagnosisRecord) MarshalJSON() ([]byte, error) {
	type plain DiagnosisRecord
	return json.Marshal(struct {
		plain
		DateOfBirth interface{} `json:"date_of_birth"`
		VisitTime   interface{} `json:"visit_time"`
	}{
		plain:       plain(r),
		DateOfBirth: r.DateOfBirthValue(),
		VisitTime:   r.VisitTimeValue(),
	})
}

// SaveResult is the outcome of a save request as reported to staff.
type SaveResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      *int64 `json:"id,omitempty"`
}
