// Package listing derives listing obligations from the assessed risk picture:
// a posture context computed from bands, escalations and effective risk tags,
// and a static requirement catalogue evaluated against that context.
package listing

import (
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

// Posture is the derived oversight level for an asset.
type Posture string

const (
	PostureBenign       Posture = "benign"
	PostureIntermediate Posture = "intermediate"
	PostureHeightened   Posture = "heightened"
)

var postureRank = map[Posture]int{
	PostureBenign:       1,
	PostureIntermediate: 2,
	PostureHeightened:   3,
}

// Rank orders postures for minimum-posture conditions. Unknown values rank
// below benign so a malformed condition can never fire.
func (p Posture) Rank() int {
	return postureRank[p]
}

// Tags whose presence marks a speculative, narrative-driven asset profile.
var speculativeTags = map[string]struct{}{
	risk.TagMemecoinHypeDependency: {},
	risk.TagMemecoinNoUtility:      {},
	risk.TagUnsustainableYield:     {},
	risk.TagBehavioural:            {},
	risk.TagInsiderUnlocks:         {},
}

// Tags whose presence marks hard centralised control over token behaviour.
var hardControlTags = map[string]struct{}{
	risk.TagAdminKeyCentralisation: {},
	risk.TagUpgradeability:         {},
	risk.TagSmartContract:          {},
	risk.TagGovTokenConcentration:  {},
}

// Context is the ephemeral risk picture the requirement rules evaluate
// against. It is rebuilt fresh for every report and never persisted.
type Context struct {
	Tags                  map[string]struct{} `json:"-"`
	OverallBand           int                 `json:"overall_band"`
	TotalEscalations      int                 `json:"total_escalations"`
	ESGEscalations        int                 `json:"esg_escalations"`
	TechnicalEscalations  int                 `json:"technical_escalations"`
	GovernanceEscalations int                 `json:"governance_escalations"`
	RegulatoryEscalations int                 `json:"regulatory_escalations"`
	HasSpeculativeProfile bool                `json:"has_speculative_profile"`
	HasHardControl        bool                `json:"has_hard_control"`
	Posture               Posture             `json:"posture"`
}

// HasTag reports whether the effective tag set contains the given ID.
func (c *Context) HasTag(tagID string) bool {
	_, ok := c.Tags[tagID]
	return ok
}

// BuildContext derives the posture context from the overall band, the board
// escalation rows and the refined risk tags. Only rows that pass the shared
// real-trigger classifier count toward any threshold, so requirement logic
// and rendered escalation cards always agree on what counts.
func BuildContext(overallBandNumeric int, escalations []models.BoardEscalation, refinedTags []models.RefinedTag) Context {
	ctx := Context{
		Tags:        models.EffectiveTagIDs(refinedTags),
		OverallBand: overallBandNumeric,
	}

	for _, esc := range escalations {
		if !esc.IsRealTrigger() {
			continue
		}
		ctx.TotalEscalations++
		switch models.ClassifyEscalationDomain(esc.DomainName) {
		case models.EscalationDomainESG:
			ctx.ESGEscalations++
		case models.EscalationDomainTechnical:
			ctx.TechnicalEscalations++
		case models.EscalationDomainGovernance:
			ctx.GovernanceEscalations++
		case models.EscalationDomainRegulatory:
			ctx.RegulatoryEscalations++
		}
	}

	for id := range ctx.Tags {
		if _, ok := speculativeTags[id]; ok {
			ctx.HasSpeculativeProfile = true
		}
		if _, ok := hardControlTags[id]; ok {
			ctx.HasHardControl = true
		}
	}

	ctx.Posture = classifyPosture(ctx)
	return ctx
}

// classifyPosture applies the posture decision table top to bottom; the
// first matching row wins.
func classifyPosture(ctx Context) Posture {
	switch {
	case ctx.OverallBand >= 4,
		ctx.TotalEscalations >= 6,
		ctx.ESGEscalations >= 2,
		ctx.HasSpeculativeProfile && ctx.HasHardControl:
		return PostureHeightened
	case ctx.OverallBand >= 3 && (ctx.TotalEscalations >= 3 || ctx.HasHardControl):
		return PostureIntermediate
	default:
		return PostureBenign
	}
}
