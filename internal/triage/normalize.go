// Package triage validates and normalizes extracted triage summaries into rows
// of the triage table.
package triage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Normalize maps an extracted summary to a DiagnosisRecord. It never fails:
// missing or unusable text fields become model.NotAvailable and unparseable
// dates become nil. medical_reasoning is intentionally not carried over.
func Normalize(data map[string]interface{}) model.DiagnosisRecord {
	return model.DiagnosisRecord{
		PatientName:          textField(data, model.FieldPatientName),
		DateOfBirth:          ParseDateOfBirth(data[model.FieldDateOfBirth]),
		VisitTime:            ParseVisitTime(data[model.FieldVisitTime]),
		Severity:             textField(data, model.FieldSeverity),
		PrimaryDiagnosis:     textField(data, model.FieldPrimaryDiagnosis),
		SecondaryDiagnoses:   textField(data, model.FieldSecondaryDiagnoses),
		RecommendedTests:     textField(data, model.FieldRecommendedTests),
		RecommendedTreatment: textField(data, model.FieldRecommendedTreatment),
		FollowUp:             textField(data, model.FieldFollowUp),
	}
}

// ParseDateOfBirth accepts only a string in exactly YYYY-MM-DD form.
func ParseDateOfBirth(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok || len(s) != len(model.DateLayout) {
		return nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// NormalizeVisitTime rewrites an ISO "T" separator to a space and widens a bare
// date to midnight. Applying it twice gives the same result as applying it once.
func NormalizeVisitTime(s string) string {
	s = strings.ReplaceAll(s, "T", " ")
	if len(s) == len(model.DateLayout) && strings.Count(s, "-") == 2 {
		s += " 00:00:00"
	}
	return s
}

// ParseVisitTime normalizes v and accepts only YYYY-MM-DD HH:MM:SS.
func ParseVisitTime(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = NormalizeVisitTime(s)
	if len(s) != len(model.DateTimeLayout) {
		return nil
	}
	t, err := time.Parse(model.DateTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func textField(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok {
		return model.NotAvailable
	}
	s := toText(v)
	if strings.TrimSpace(s) == "" {
		return model.NotAvailable
	}
	return s
}

func toText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := toText(e); strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return fmt.Sprint(v)
}
