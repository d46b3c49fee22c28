package models

import "strings"

// DomainStats holds domain-level risk statistics from the Master_Summary sheet.
type DomainStats struct {
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	Weight               float64 `json:"weight"`
	AvgScore             float64 `json:"avg_score"`
	BandName             string  `json:"band_name"`
	BandNumeric          int     `json:"band_numeric"`
	HasBoardEscalation   bool    `json:"has_board_escalation"`
	BoardEscalationCount int     `json:"board_escalation_count"`
}

// Citation is a labelled source reference attached to an escalation row.
type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// BoardEscalation is a single row from a domain sheet where the
// Board_Escalation_Flag column is set, including informational "No Review"
// narratives. Whether a row is a real committee trigger is decided by
// IsRealTriggerFlag, never by the presence of the row itself.
type BoardEscalation struct {
	ID                   string     `json:"id"`
	DomainCode           string     `json:"domain_code"`
	DomainName           string     `json:"domain_name"`
	QuestionID           string     `json:"question_id"`
	QuestionText         string     `json:"question_text"`
	Flag                 string     `json:"flag"`
	TriggerRule          string     `json:"trigger_rule,omitempty"`
	RawNarrative         string     `json:"raw_narrative,omitempty"`
	MostRecentSourceDate string     `json:"most_recent_source_date,omitempty"`
	StalenessClass       string     `json:"staleness_class,omitempty"`
	Citations            []Citation `json:"citations"`
}

// IsRealTrigger reports whether this escalation is a genuine committee-level
// trigger rather than an informational narrative.
func (e *BoardEscalation) IsRealTrigger() bool {
	return IsRealTriggerFlag(e.Flag)
}

// Flags that mean "this is NOT a real board trigger".
var nonEscalationFlags = map[string]struct{}{
	"":          {},
	"no":        {},
	"false":     {},
	"0":         {},
	"no review": {}, // informational only
}

// Substrings that indicate a real escalation.
var realEscalationKeywords = []string{
	"review required",
	"board review",
	"listing committee",
	"escalate",
	"reject",
}

// IsRealTriggerFlag returns true only for flags that mean "this needs board
// attention", not for "No Review" informational narratives.
//
// Every component that counts escalations (parser enrichment, snapshot cards,
// listing context) must go through this one function; the requirement engine's
// thresholds and the rendered escalation cards have to agree on what counts.
func IsRealTriggerFlag(flag string) bool {
	f := strings.ToLower(strings.TrimSpace(flag))
	if _, ok := nonEscalationFlags[f]; ok {
		return false
	}
	for _, k := range realEscalationKeywords {
		if strings.Contains(f, k) {
			return true
		}
	}
	return false
}

// EscalationDomain buckets a DDQ domain name for escalation counting.
type EscalationDomain string

const (
	EscalationDomainESG        EscalationDomain = "esg"
	EscalationDomainTechnical  EscalationDomain = "technical"
	EscalationDomainGovernance EscalationDomain = "governance"
	EscalationDomainRegulatory EscalationDomain = "regulatory"
	EscalationDomainOther      EscalationDomain = "other"
)

// ClassifyEscalationDomain maps a free-text domain/sheet name onto the
// escalation counting buckets by case-insensitive substring match. A name
// matching none of the buckets contributes only to the total count.
func ClassifyEscalationDomain(domainName string) EscalationDomain {
	d := strings.ToLower(domainName)
	switch {
	case strings.Contains(d, "strategic") || strings.Contains(d, "esg") || strings.Contains(d, "reputational"):
		return EscalationDomainESG
	case strings.Contains(d, "technical") || strings.Contains(d, "protocol"):
		return EscalationDomainTechnical
	case strings.Contains(d, "token fundamentals") || strings.Contains(d, "governance"):
		return EscalationDomainGovernance
	case strings.Contains(d, "regulatory") || strings.Contains(d, "legal"):
		return EscalationDomainRegulatory
	default:
		return EscalationDomainOther
	}
}
