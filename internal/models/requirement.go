package models

// Severity levels for listing requirements.
const (
	SeverityInformational = "Informational"
	SeverityRecommended   = "Recommended"
	SeverityRequired      = "Required"
)

// Requirement is one applicable listing requirement produced by the rule
// engine, in catalogue order.
type Requirement struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Text     string `json:"text"`
}
