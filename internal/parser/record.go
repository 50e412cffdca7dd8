package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Messages shown in place of a summary when extraction fails. A summary equal to
// one of these is never saved.
const (
	NoJSONMessage      = "No JSON found in response"
	InvalidJSONMessage = "Invalid JSON format"
)

var (
	// ErrNoJSON means the text contains no JSON object at all.
	ErrNoJSON = errors.New("no JSON object found")
	// ErrInvalidJSON means JSON-like text is present but does not parse.
	ErrInvalidJSON = errors.New("invalid JSON format")
)

// SentinelMessage maps an extraction error to the message shown to staff.
func SentinelMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoJSON):
		return NoJSONMessage
	case errors.Is(err, ErrInvalidJSON):
		return InvalidJSONMessage
	}
	return fmt.Sprintf("Error extracting JSON: %v", err)
}

// IsSentinel reports whether summary is an extraction failure message rather than a record.
func IsSentinel(summary string) bool {
	s := strings.TrimSpace(summary)
	return s == NoJSONMessage || s == InvalidJSONMessage
}

// Extractor locates the JSON object embedded in a final answer.
type Extractor struct {
	// Repair retries malformed or truncated objects through jsonrepair before
	// reporting ErrInvalidJSON.
	Repair bool
}

// ExtractRecord extracts with the default, non-repairing Extractor.
func ExtractRecord(text string) (map[string]interface{}, error) {
	return Extractor{}.Extract(text)
}

// Extract finds the first '{' and its matching '}' by nesting depth, ignoring
// braces inside string literals, and parses the object between them. Stray
// braces in trailing prose do not move the end of the object.
func (e Extractor) Extract(text string) (map[string]interface{}, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 || !strings.Contains(text[start:], "}") {
		return nil, ErrNoJSON
	}

	candidate := text[start:]
	end, ok := matchBraces(candidate)
	if ok {
		candidate = candidate[:end+1]
	}

	var out map[string]interface{}
	err := json.Unmarshal([]byte(candidate), &out)
	if ok && err == nil {
		return out, nil
	}
	if e.Repair {
		if repaired, rerr := jsonrepair.JSONRepair(candidate); rerr == nil {
			out = nil
			if json.Unmarshal([]byte(repaired), &out) == nil && out != nil {
				return out, nil
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: unbalanced braces", ErrInvalidJSON)
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}

// matchBraces returns the index of the '}' matching the '{' at s[0]. String
// literals, including escaped quotes, are skipped.
func matchBraces(s string) (int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return 0, false
	}

	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// summaryFieldOrder is the order fields are requested in the triage prompt.
var summaryFieldOrder = []string{
	model.FieldPatientName,
	model.FieldDateOfBirth,
	model.FieldVisitTime,
	model.FieldSeverity,
	model.FieldPrimaryDiagnosis,
	model.FieldSecondaryDiagnoses,
	model.FieldRecommendedTests,
	model.FieldRecommendedTreatment,
	model.FieldFollowUp,
	model.FieldMedicalReasoning,
}

// FormatRecord renders a record as two-space indented JSON with the known
// summary fields first, in prompt order, followed by any others sorted by key.
func FormatRecord(record map[string]interface{}) (string, error) {
	keys := make([]string, 0, len(record))
	seen := make(map[string]bool, len(summaryFieldOrder))
	for _, k := range summaryFieldOrder {
		if _, ok := record[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range record {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(k)
		if err != nil {
			return "", err
		}
		val, err := json.MarshalIndent(record[k], "  ", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to format field %s: %w", k, err)
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String(), nil
}
