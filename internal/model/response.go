package model

// Section names of a reasoning response. The set is closed.
const (
	SectionThinking    = "thinking"
	SectionReasoning   = "reasoning"
	SectionConclusion  = "conclusion"
	SectionFinalAnswer = "final_answer"
)

// ParsedResponse holds the narrative sections of one reasoning response.
// A section whose heading is absent is the empty string.
type ParsedResponse struct {
	Thinking    string `json:"thinking"`
	Reasoning   string `json:"reasoning"`
	Conclusion  string `json:"conclusion"`
	FinalAnswer string `json:"final_answer"`
}

// Section returns the text of the named section, or "" for unknown names.
func (p ParsedResponse) Section(name string) string {
	switch name {
	case SectionThinking:
		return p.Thinking
	case SectionReasoning:
		return p.Reasoning
	case SectionConclusion:
		return p.Conclusion
	case SectionFinalAnswer:
		return p.FinalAnswer
	}
	return ""
}

func (p ParsedResponse) Sections() map[string]string {
	return map[string]string{
		SectionThinking:    p.Thinking,
		SectionReasoning:   p.Reasoning,
		SectionConclusion:  p.Conclusion,
		SectionFinalAnswer: p.FinalAnswer,
	}
}

// Diagnosis is the result of one diagnose action.
type Diagnosis struct {
	RawResponse string         `json:"raw_response"`
	Sections    ParsedResponse `json:"sections"`
	// Summary is the indented JSON record, or one of the extractor sentinel messages.
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

// Transcription is the result of one speech-to-text call.
type Transcription struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Status   string `json:"status"`
}

// Translation is the result of one translate action.
type Translation struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// ImageAnalysis is the result of one X-ray analysis.
type ImageAnalysis struct {
	Analysis string `json:"analysis"`
	Status   string `json:"status"`
}
