// Package models defines the core domain types shared across the DDQ
// ingestion, inference and reporting layers.
package models

// AnswerRow is one questionnaire response as extracted from a DDQ workbook
// sheet. Rows are immutable once parsed; the inference layers consume them
// read-only.
type AnswerRow struct {
	Sheet          string   `json:"sheet"`
	QuestionID     string   `json:"question_id"`
	QuestionText   string   `json:"question_text"`
	RawResponse    string   `json:"raw_response"`
	Confidence     string   `json:"confidence"` // free text, e.g. "High"/"Medium"/"Low"
	Narrative      string   `json:"narrative_justification"`
	Citations      []string `json:"source_citations"`
	EscalationFlag string   `json:"board_escalation_flag,omitempty"`
	TriggerRule    string   `json:"trigger_rule_description,omitempty"`
	RawPoints      *float64 `json:"raw_points,omitempty"`
	FinalScore     *float64 `json:"final_score,omitempty"`
	RowNumber      int      `json:"row_number"`
}

// HasCitations reports whether the row carries at least one non-empty citation.
func (a *AnswerRow) HasCitations() bool {
	for _, c := range a.Citations {
		if c != "" {
			return true
		}
	}
	return false
}

// TokenCategory is the parsed A1.1 token-category answer from the
// fundamentals sheet ("Primary: Native L1; Secondary: Gas/Fee").
type TokenCategory struct {
	QuestionID  string `json:"question_id"`
	Raw         string `json:"raw"`
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Confidence  string `json:"confidence"`
	Narrative   string `json:"narrative"`
	SourceSheet string `json:"source_sheet"`
}
