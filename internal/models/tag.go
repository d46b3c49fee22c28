package models

import "strings"

// RefinedTag is one entry of the externally filtered tag list handed back by
// the tag-refinement layer. Include defaults to true so a raw inference
// output can be passed through unchanged.
type RefinedTag struct {
	ID      string `json:"id"`
	Include bool   `json:"include"`
	Reason  string `json:"reason,omitempty"`
}

// NewRefinedTag constructs a RefinedTag with defaults applied. This is the
// single place input shaping happens; callers never build the struct from
// loosely-typed maps.
func NewRefinedTag(id string, include bool, reason string) RefinedTag {
	return RefinedTag{
		ID:      strings.TrimSpace(id),
		Include: include,
		Reason:  strings.TrimSpace(reason),
	}
}

// IncludeAll wraps a raw tag-ID list as RefinedTags with Include=true,
// preserving order. Used when no refinement layer runs: downstream consumers
// must behave identically on raw and refined input.
func IncludeAll(tagIDs []string) []RefinedTag {
	out := make([]RefinedTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if strings.TrimSpace(id) == "" {
			continue
		}
		out = append(out, NewRefinedTag(id, true, ""))
	}
	return out
}

// EffectiveTagIDs returns the deduplicated set of tag IDs with Include=true.
func EffectiveTagIDs(tags []RefinedTag) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range tags {
		if !t.Include || t.ID == "" {
			continue
		}
		out[t.ID] = struct{}{}
	}
	return out
}

// TagEvidence is one contributing answer recorded against an emitted risk
// tag, exposed to the report layer for "why this matters" sections.
type TagEvidence struct {
	Sheet       string   `json:"sheet"`
	QuestionID  string   `json:"question_id"`
	RawResponse string   `json:"raw_response"`
	Confidence  string   `json:"confidence"`
	Citations   []string `json:"citations,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// EvidenceFromSignal converts a resolved signal answer into tag evidence.
func EvidenceFromSignal(ans *SignalAnswer, note string) TagEvidence {
	return TagEvidence{
		Sheet:       ans.Sheet,
		QuestionID:  ans.QuestionID,
		RawResponse: ans.RawResponse,
		Confidence:  ans.Confidence,
		Citations:   ans.Citations,
		Note:        note,
	}
}
