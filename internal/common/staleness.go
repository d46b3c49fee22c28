package common

import (
	"strings"
	"time"
)

// Staleness classes for DDQ evidence dates. The DDQ workbook usually carries
// its own Staleness_Class column; these are the fallback classifications used
// when that column is blank.
const (
	StalenessFresh   = "fresh"
	StalenessAging   = "aging"
	StalenessStale   = "stale"
	StalenessUnknown = "unknown"
)

// Evidence older than these cutoffs moves down a class.
const (
	freshEvidenceMaxAge = 90 * 24 * time.Hour
	agingEvidenceMaxAge = 365 * 24 * time.Hour
)

// Date layouts seen in the Most_Recent_Source_Date column.
var sourceDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ClassifyEvidenceDate classifies a most-recent-source-date string into a
// staleness class relative to now. An unparseable or empty date yields
// StalenessUnknown rather than an error; evidence dating is best-effort.
func ClassifyEvidenceDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StalenessUnknown
	}

	var parsed time.Time
	ok := false
	for _, layout := range sourceDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			parsed = t
			ok = true
			break
		}
	}
	if !ok {
		return StalenessUnknown
	}

	age := now.Sub(parsed)
	switch {
	case age < 0:
		// Future-dated evidence is treated as fresh; the workbook sometimes
		// carries publication dates slightly ahead of the assessment date.
		return StalenessFresh
	case age <= freshEvidenceMaxAge:
		return StalenessFresh
	case age <= agingEvidenceMaxAge:
		return StalenessAging
	default:
		return StalenessStale
	}
}

// NormalizeStalenessClass maps workbook-provided staleness labels onto the
// canonical classes, falling back to classifying the date itself.
func NormalizeStalenessClass(label, sourceDate string, now time.Time) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "fresh", "current", "recent":
		return StalenessFresh
	case "aging", "ageing", "dated":
		return StalenessAging
	case "stale", "old", "outdated":
		return StalenessStale
	case "":
		return ClassifyEvidenceDate(sourceDate, now)
	default:
		return ClassifyEvidenceDate(sourceDate, now)
	}
}
