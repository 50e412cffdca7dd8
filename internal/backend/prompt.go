package backend

import "strings"

const triagePromptTemplate = `{{NOTES}}

Analyze the medical information above. After your analysis, provide your conclusion in valid JSON format with the following fields:
{
  "patient_name": "Full Name",
  "date_of_birth": "YYYY-MM-DD",
  "visit_time": "YYYY-MM-DD HH:MM:SS",
  "severity": "Mild/Moderate/Severe",
  "primary_diagnosis": "Primary diagnosis",
  "secondary_diagnoses": "Comma-separated list of secondary diagnoses or 'None'",
  "recommended_tests": "Comma-separated list of recommended tests",
  "recommended_treatment": "Treatment plan",
  "follow_up": "Follow-up recommendations",
  "medical_reasoning": "Brief summary of your medical reasoning"
}

Analyze the case carefully step by step. Include your thinking process and medical reasoning, following this structure:

## Thinking
Systematically explore possible diagnoses based on symptoms, findings, and medical history.

### Reasoning Process
Explain your diagnostic reasoning in detail, considering differential diagnoses and their likelihood.

### Conclusion
Summarize your findings and medical assessment.

## Triage Summary
Return your final answer in valid JSON format with all the fields mentioned above. Each field must contain a string value - no arrays allowed.

IMPORTANT: Format dates and times as follows:
- date_of_birth: Use YYYY-MM-DD format (e.g., 1978-01-10)
- visit_time: Use YYYY-MM-DD HH:MM:SS format (e.g., 2025-04-23 14:30:00)

Return ONLY valid JSON with no additional text.
`

// TriagePrompt wraps clinical notes in the instructions that make the
// reasoning model answer with the section headings and JSON summary the
// parser expects.
func TriagePrompt(notes string) string {
	return strings.Replace(triagePromptTemplate, "{{NOTES}}", strings.TrimSpace(notes), 1)
}
