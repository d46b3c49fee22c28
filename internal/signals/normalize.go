// Package signals turns raw DDQ answer rows into normalised, queryable
// signals for the deterministic inference layer.
//
// The key idea is to detect objective features and control-quality
// indicators, not to do naive keyword-to-risk tagging.
package signals

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/censeo/internal/models"
)

var (
	naResponses = map[string]struct{}{
		"n/a":            {},
		"na":             {},
		"not applicable": {},
		"not-applicable": {},
	}

	unknownMarkers = []string{
		"unknown", "unclear", "not disclosed", "not provided", "tbc", "to be confirmed",
	}

	yesResponses = map[string]struct{}{"yes": {}, "y": {}, "true": {}}
	noResponses  = map[string]struct{}{"no": {}, "n": {}, "false": {}}

	// "None disclosed/identified/..." phrasing behaves like "no".
	noneResponses = map[string]struct{}{
		"none disclosed":  {},
		"none identified": {},
		"none reported":   {},
		"none known":      {},
	}

	partialMarkers = []string{
		"partial", "partially", "mixed", "limited", "some", "in part", "incomplete",
	}

	negativeCues = []string{
		"unclear", "unknown", "not disclosed", "not provided", "cannot confirm",
		"no evidence", "insufficient", "incomplete", "fallback error",
	}

	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// Normalize buckets a semi-consistent DDQ response into the closed response
// vocabulary. Checks run in a fixed order and the first match wins; in
// particular unknown-markers are checked before yes/no, so a response like
// "no oracle, not disclosed" normalises to unknown rather than no.
func Normalize(raw string) models.ResponseBucket {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.BucketUnknown
	}

	if _, ok := naResponses[s]; ok {
		return models.BucketNA
	}

	for _, k := range unknownMarkers {
		if strings.Contains(s, k) {
			return models.BucketUnknown
		}
	}

	if _, ok := yesResponses[s]; ok {
		return models.BucketYes
	}
	if strings.HasPrefix(s, "yes") {
		return models.BucketYes
	}
	if _, ok := noResponses[s]; ok {
		return models.BucketNo
	}
	if strings.HasPrefix(s, "no") {
		return models.BucketNo
	}
	if _, ok := noneResponses[s]; ok {
		return models.BucketNo
	}
	if strings.HasPrefix(s, "none disclosed") || strings.HasPrefix(s, "none identified") {
		return models.BucketNo
	}

	for _, k := range partialMarkers {
		if strings.Contains(s, k) {
			return models.BucketPartial
		}
	}

	return models.BucketOther
}

// ConfidenceRank maps a free-text confidence label onto an ordinal rank:
// high=3, medium=2, low=1, anything else 0.
func ConfidenceRank(confidence string) int {
	c := strings.ToLower(strings.TrimSpace(confidence))
	switch {
	case strings.HasPrefix(c, "high"):
		return 3
	case strings.HasPrefix(c, "medium"):
		return 2
	case strings.HasPrefix(c, "low"):
		return 1
	default:
		return 0
	}
}

// ExtractNumber pulls a numeric value out of inputs like "41.7", "41.7%",
// "≥4" or "<12 months". Symbolic prefixes are stripped without altering the
// captured digits. Returns nil when the text carries no digits.
func ExtractNumber(text string) *float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return nil
	}

	// Symbolic buckets carry their bound as the value
	s = strings.TrimPrefix(s, "≥")
	s = strings.TrimPrefix(s, ">=")
	s = strings.TrimPrefix(s, "<")

	m := numberPattern.FindString(s)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &v
}

// HasNegativeCues reports whether narrative text carries disclosure-quality
// warning phrases.
func HasNegativeCues(text string) bool {
	t := strings.ToLower(text)
	for _, k := range negativeCues {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// IsUnknownish treats an absent signal, or one whose bucket is unknown/na,
// as unknown for rule purposes. A missing signal never raises; it degrades
// to "unknown" here.
func IsUnknownish(ans *models.SignalAnswer) bool {
	if ans == nil {
		return true
	}
	return ans.Bucket == models.BucketUnknown || ans.Bucket == models.BucketNA
}
