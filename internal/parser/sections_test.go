package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/triage-assistant/internal/model"
)

const fullResponse = `## Thinking
Consider pneumonia versus bronchitis.
### Reasoning Process
Fever and productive cough for five days.
---
### Conclusion
Likely community-acquired pneumonia.
## Triage Summary
{"patient_name": "Jane Doe", "severity": "Moderate"}`

func TestExtractSections_NoMarkers(t *testing.T) {
	for _, text := range []string{"", "plain prose with no headings", "# Thinking\n{}"} {
		p := ExtractSections(text)
		assert.Equal(t, model.ParsedResponse{}, p, "text %q", text)
	}
}

func TestExtractSections_Full(t *testing.T) {
	p := ExtractSections(fullResponse)

	assert.Equal(t, "Consider pneumonia versus bronchitis.\n"+
		"### Reasoning Process\nFever and productive cough for five days.\n---\n"+
		"### Conclusion\nLikely community-acquired pneumonia.", p.Thinking)
	assert.Equal(t, "Fever and productive cough for five days.", p.Reasoning)
	assert.Equal(t, "Likely community-acquired pneumonia.", p.Conclusion)
	assert.Equal(t, `{"patient_name": "Jane Doe", "severity": "Moderate"}`, p.FinalAnswer)
}

func TestExtractSections_ReasoningBoundedByConclusion(t *testing.T) {
	p := ExtractSections("### Reasoning Process\nstep one\n### Conclusion\ndone")
	assert.Equal(t, "step one", p.Reasoning)
	assert.Equal(t, "done", p.Conclusion)
	assert.Empty(t, p.Thinking)
	assert.Empty(t, p.FinalAnswer)
}

func TestExtractSections_ThinkingToEndOfText(t *testing.T) {
	p := ExtractSections("## Thinking\nstill thinking")
	assert.Equal(t, "still thinking", p.Thinking)
}

func TestExtractSections_ThinkingStopsAtFinalAnswer(t *testing.T) {
	p := ExtractSections("## Thinking\nidea\n## Final Answer\n{}")
	assert.Equal(t, "idea", p.Thinking)
	assert.Equal(t, "{}", p.FinalAnswer)
}

func TestFinalAnswer_PrefersTriageSummary(t *testing.T) {
	text := "## Final Answer\nold answer\n## Triage Summary\nsummary"
	assert.Equal(t, "summary", FinalAnswer(text))
}

func TestFinalAnswer_LastOccurrence(t *testing.T) {
	text := "## Final Answer\nfirst\n## Final Answer\nsecond"
	assert.Equal(t, "second", FinalAnswer(text))
}

func TestParsedResponse_Section(t *testing.T) {
	p := ExtractSections(fullResponse)
	assert.Equal(t, p.Reasoning, p.Section(model.SectionReasoning))
	assert.Empty(t, p.Section("appendix"))
	assert.Len(t, p.Sections(), 4)
}
