package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-assistant/internal/model"
	"github.com/jwalitptl/triage-assistant/internal/parser"
)

func TestNormalize_CompleteSummary(t *testing.T) {
	summary := `{
  "patient_name": "Jane Doe",
  "date_of_birth": "1978-01-10",
  "visit_time": "2025-04-23T14:30:00",
  "severity": "Moderate",
  "primary_diagnosis": "Community-acquired pneumonia",
  "secondary_diagnoses": ["Dehydration", "Hypertension"],
  "recommended_tests": "Chest X-ray, CBC",
  "recommended_treatment": "Amoxicillin 500mg TID",
  "follow_up": "Review in 48 hours",
  "medical_reasoning": "Fever, cough and focal crackles."
}`
	data, err := parser.ExtractRecord(summary)
	require.NoError(t, err)

	rec := Normalize(data)

	assert.Equal(t, "Jane Doe", rec.PatientName)
	assert.Equal(t, "1978-01-10", rec.DateOfBirthValue())
	assert.Equal(t, "2025-04-23 14:30:00", rec.VisitTimeValue())
	assert.Equal(t, "Moderate", rec.Severity)
	assert.Equal(t, "Community-acquired pneumonia", rec.PrimaryDiagnosis)
	assert.Equal(t, "Dehydration, Hypertension", rec.SecondaryDiagnoses)
	assert.Equal(t, "Chest X-ray, CBC", rec.RecommendedTests)
	assert.Equal(t, "Amoxicillin 500mg TID", rec.RecommendedTreatment)
	assert.Equal(t, "Review in 48 hours", rec.FollowUp)
}

func TestNormalize_MissingFields(t *testing.T) {
	rec := Normalize(map[string]interface{}{})

	assert.Equal(t, model.NotAvailable, rec.PatientName)
	assert.Equal(t, model.NotAvailable, rec.Severity)
	assert.Equal(t, model.NotAvailable, rec.PrimaryDiagnosis)
	assert.Equal(t, model.NotAvailable, rec.SecondaryDiagnoses)
	assert.Equal(t, model.NotAvailable, rec.RecommendedTests)
	assert.Equal(t, model.NotAvailable, rec.RecommendedTreatment)
	assert.Equal(t, model.NotAvailable, rec.FollowUp)
	assert.Nil(t, rec.DateOfBirth)
	assert.Nil(t, rec.VisitTime)
}

func TestNormalize_NonStringValues(t *testing.T) {
	rec := Normalize(map[string]interface{}{
		"patient_name":        nil,
		"severity":            float64(3),
		"primary_diagnosis":   "   ",
		"secondary_diagnoses": []interface{}{},
		"recommended_tests":   true,
		"follow_up":           map[string]interface{}{"days": float64(2)},
	})

	assert.Equal(t, model.NotAvailable, rec.PatientName)
	assert.Equal(t, "3", rec.Severity)
	assert.Equal(t, model.NotAvailable, rec.PrimaryDiagnosis)
	assert.Equal(t, model.NotAvailable, rec.SecondaryDiagnoses)
	assert.Equal(t, "true", rec.RecommendedTests)
	assert.Equal(t, `{"days":2}`, rec.FollowUp)
}

func TestNormalize_SeverityIsFreeText(t *testing.T) {
	rec := Normalize(map[string]interface{}{"severity": "Critical - call resus"})
	assert.Equal(t, "Critical - call resus", rec.Severity)
}

func TestParseDateOfBirth(t *testing.T) {
	tests := []struct {
		in   interface{}
		want interface{}
	}{
		{"1978-01-10", "1978-01-10"},
		{"N/A", nil},
		{"", nil},
		{"10/01/1978", nil},
		{"1978-1-10", nil},
		{"1978-01-10 00:00:00", nil},
		{"1978-02-30", nil},
		{float64(1978), nil},
		{nil, nil},
	}
	for _, tt := range tests {
		rec := model.DiagnosisRecord{DateOfBirth: ParseDateOfBirth(tt.in)}
		assert.Equal(t, tt.want, rec.DateOfBirthValue(), "input %v", tt.in)
	}
}

func TestParseVisitTime(t *testing.T) {
	tests := []struct {
		in   interface{}
		want interface{}
	}{
		{"2025-04-23T14:30:00", "2025-04-23 14:30:00"},
		{"2025-04-23 14:30:00", "2025-04-23 14:30:00"},
		{"2025-04-23", "2025-04-23 00:00:00"},
		{"2025-04-23T14:30", nil},
		{"2025-04-23T14:30:00Z", nil},
		{"23.04.2025", nil},
		{"N/A", nil},
		{" 2025-04-23", nil},
		{nil, nil},
	}
	for _, tt := range tests {
		rec := model.DiagnosisRecord{VisitTime: ParseVisitTime(tt.in)}
		assert.Equal(t, tt.want, rec.VisitTimeValue(), "input %v", tt.in)
	}
}

func TestNormalizeVisitTime_Idempotent(t *testing.T) {
	for _, in := range []string{"2025-04-23", "2025-04-23T08:00:00", "2025-04-23 08:00:00", "garbage", ""} {
		once := NormalizeVisitTime(in)
		assert.Equal(t, once, NormalizeVisitTime(once), "input %q", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize(map[string]interface{}{
		"patient_name":  "Jan Novák",
		"date_of_birth": "1990-05-05",
		"visit_time":    "2025-01-02",
		"severity":      "Mild",
	})

	again := Normalize(map[string]interface{}{
		"patient_name":  first.PatientName,
		"date_of_birth": first.DateOfBirthValue(),
		"visit_time":    first.VisitTimeValue(),
		"severity":      first.Severity,
	})

	assert.Equal(t, first, again)
	require.NotNil(t, again.VisitTime)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), *again.VisitTime)
}
