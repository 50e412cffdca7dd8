// Package parser turns free-text backend responses into structured values.
//
// ExtractSections splits a reasoning response into its narrative sections,
// ExtractRecord pulls the embedded JSON summary out of the final answer, and
// the shape helpers unwrap the JSON envelopes of the individual backends.
// Every function here is pure and safe for concurrent use.
package parser

import (
	"strings"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

// Marker headings the reasoning prompt asks the model to emit.
const (
	MarkerThinking         = "## Thinking"
	MarkerReasoningProcess = "### Reasoning Process"
	MarkerConclusion       = "### Conclusion"
	MarkerFinalAnswer      = "## Final Answer"
	MarkerTriageSummary    = "## Triage Summary"
	MarkerRule             = "---"
)

// ExtractSections splits text into the four sections of a ParsedResponse.
// Missing headings leave the section empty; it never fails.
func ExtractSections(text string) model.ParsedResponse {
	var p model.ParsedResponse

	if body, ok := segmentAfter(text, MarkerThinking); ok {
		p.Thinking = cutAtFirst(body, MarkerFinalAnswer, MarkerTriageSummary)
	}
	if body, ok := segmentAfter(text, MarkerReasoningProcess); ok {
		p.Reasoning = cutAtFirst(body, MarkerRule, MarkerConclusion)
	}
	if body, ok := segmentAfter(text, MarkerConclusion); ok {
		p.Conclusion = cutAtFirst(body, MarkerFinalAnswer, MarkerTriageSummary)
	}
	p.FinalAnswer = FinalAnswer(text)

	return p
}

// FinalAnswer returns the text after the last triage-summary heading, or after the
// last final-answer heading when no triage summary exists. Triage Summary wins
// when both are present.
func FinalAnswer(text string) string {
	for _, marker := range []string{MarkerTriageSummary, MarkerFinalAnswer} {
		if i := strings.LastIndex(text, marker); i >= 0 {
			return strings.TrimSpace(text[i+len(marker):])
		}
	}
	return ""
}

// segmentAfter returns the text between the first occurrence of marker and
// its next occurrence (or the end of text).
func segmentAfter(text, marker string) (string, bool) {
	i := strings.Index(text, marker)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(marker):]
	if j := strings.Index(rest, marker); j >= 0 {
		rest = rest[:j]
	}
	return rest, true
}

// cutAtFirst truncates body at the first terminator present, checked in the
// given priority order, and trims the result.
func cutAtFirst(body string, terminators ...string) string {
	for _, t := range terminators {
		if i := strings.Index(body, t); i >= 0 {
			return strings.TrimSpace(body[:i])
		}
	}
	return strings.TrimSpace(body)
}
