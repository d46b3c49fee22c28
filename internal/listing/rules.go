package listing

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

// Condition gates a requirement rule on the listing context. Every set field
// must hold for the rule to fire; unset fields are ignored.
type Condition struct {
	MinOverallBand      *int     `json:"min_overall_band,omitempty" validate:"omitempty,min=0,max=5"`
	MaxOverallBand      *int     `json:"max_overall_band,omitempty" validate:"omitempty,min=0,max=5"`
	MinTotalEscalations *int     `json:"min_total_escalations,omitempty" validate:"omitempty,min=0"`
	MinESGEscalations   *int     `json:"min_esg_escalations,omitempty" validate:"omitempty,min=0"`
	AnyTag              []string `json:"any_tag,omitempty"`
	AllTags             []string `json:"all_tags,omitempty"`
	MinPosture          Posture  `json:"min_posture,omitempty" validate:"omitempty,oneof=benign intermediate heightened"`

	RequiresSpeculativeProfile       bool `json:"requires_speculative_profile,omitempty"`
	RequiresGovernanceCentralisation bool `json:"requires_governance_centralisation,omitempty"`
}

// Rule is a static catalogue entry. Rules are evaluated independently; more
// than one may fire for the same asset.
type Rule struct {
	ID        string    `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Severity  string    `json:"severity" validate:"required,oneof=Informational Recommended Required"`
	Text      string    `json:"text" validate:"required"`
	Condition Condition `json:"condition"`
}

// Matches reports whether every set condition field holds for ctx.
func (r Rule) Matches(ctx *Context) bool {
	c := r.Condition

	if c.MinOverallBand != nil && ctx.OverallBand < *c.MinOverallBand {
		return false
	}
	if c.MaxOverallBand != nil && ctx.OverallBand > *c.MaxOverallBand {
		return false
	}
	if c.MinTotalEscalations != nil && ctx.TotalEscalations < *c.MinTotalEscalations {
		return false
	}
	if c.MinESGEscalations != nil && ctx.ESGEscalations < *c.MinESGEscalations {
		return false
	}

	if len(c.AnyTag) > 0 {
		found := false
		for _, tag := range c.AnyTag {
			if ctx.HasTag(tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, tag := range c.AllTags {
		if !ctx.HasTag(tag) {
			return false
		}
	}

	if c.MinPosture != "" && ctx.Posture.Rank() < c.MinPosture.Rank() {
		return false
	}
	if c.RequiresSpeculativeProfile && !ctx.HasSpeculativeProfile {
		return false
	}
	if c.RequiresGovernanceCentralisation && !ctx.HasHardControl {
		return false
	}
	return true
}

// ValidateCatalogue fails fast on a malformed rule set so a bad catalogue
// edit surfaces at startup rather than as silently missing requirements.
func ValidateCatalogue(rules []Rule) error {
	v := validator.New()
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		if err := v.Struct(rule); err != nil {
			return fmt.Errorf("listing rule %d (%s): %w", i, rule.ID, err)
		}
		if _, dup := seen[rule.ID]; dup {
			return fmt.Errorf("listing rule %d: duplicate id %q", i, rule.ID)
		}
		seen[rule.ID] = struct{}{}
	}
	return nil
}

func intp(v int) *int { return &v }

// DefaultCatalogue returns the built-in requirement rules, ordered by how
// they appear in reports. The catalogue is deliberately conservative for
// clean, established assets and more prescriptive for complex or
// controversy-heavy ones.
func DefaultCatalogue() []Rule {
	return []Rule{
		{
			ID:       "enhanced_structural_monitoring",
			Title:    "Treat this asset as a complex protocol in monitoring",
			Severity: models.SeverityRecommended,
			Text: "Classify this asset in your higher-complexity protocol tier and ensure it " +
				"is included in existing monitoring for major upgrades, security incidents " +
				"and governance changes, with clear internal triggers for re-review if a " +
				"serious incident occurs.",
			Condition: Condition{
				AnyTag: []string{
					risk.TagComplexProtocolDesign,
					risk.TagUpgradeability,
					risk.TagSmartContract,
					"bridge_dependency_risk",
				},
				MinPosture: PostureBenign,
			},
		},
		{
			ID:       "treasury_concentration_watch",
			Title:    "Watch treasury and reserve activity",
			Severity: models.SeverityRecommended,
			Text: "Track public disclosures and significant on-chain movements relating to " +
				"the project's treasury or reserves, and treat adverse developments " +
				"(for example large unexplained sales or governance controversy) as " +
				"triggers for risk re-review.",
			Condition: Condition{
				AnyTag:     []string{risk.TagTreasuryConcentration},
				MinPosture: PostureBenign,
			},
		},
		{
			ID:       "governance_and_admin_controls",
			Title:    "Document admin-key and governance controls",
			Severity: models.SeverityRecommended,
			Text: "Maintain a documented internal view of admin-key holders, upgrade " +
				"processes and governance controls for this asset, and ensure client " +
				"disclosures explain that a small group can materially influence or " +
				"interrupt token behaviour.",
			Condition: Condition{
				AnyTag: []string{
					risk.TagAdminKeyCentralisation,
					risk.TagGovTokenConcentration,
				},
				MinPosture:          PostureHeightened,
				MinTotalEscalations: intp(1),
			},
		},
		{
			ID:       "speculative_profile_retail_controls",
			Title:    "Tighter guard-rails for speculative profile",
			Severity: models.SeverityRequired,
			Text: "For this asset, apply tighter guard-rails for retail and smaller " +
				"institutional clients (for example lower exposure caps, stricter " +
				"appropriateness thresholds and clearer front-end warnings) reflecting " +
				"its speculative, controversy-prone profile and concentration of control.",
			Condition: Condition{
				RequiresSpeculativeProfile: true,
				MinPosture:                 PostureHeightened,
			},
		},
		{
			ID:       "esg_reputational_review",
			Title:    "ESG and reputational review before/on listing",
			Severity: models.SeverityRequired,
			Text: "Undertake an ESG and reputational assessment (including political, " +
				"governance and sanctions-adjacent issues) and ensure the outcome is " +
				"explicitly considered by the appropriate internal committee when " +
				"approving, maintaining or suspending listing for this asset.",
			Condition: Condition{
				MinESGEscalations: intp(1),
				MinPosture:        PostureIntermediate,
			},
		},
		{
			ID:       "committee_signoff_required",
			Title:    "Formal committee sign-off",
			Severity: models.SeverityRequired,
			Text: "Ensure initial listing and any future suspension or delisting decisions " +
				"for this asset are approved by an internal committee with full visibility " +
				"of the DDQ assessment, board-level escalation points and incident history.",
			Condition: Condition{
				MinTotalEscalations: intp(4),
				MinPosture:          PostureIntermediate,
			},
		},
		{
			ID:       "scheduled_risk_reassessment",
			Title:    "Scheduled risk reassessment",
			Severity: models.SeverityRecommended,
			Text: "Schedule periodic reassessment of this asset's risk profile, including " +
				"review of DDQ responses, incidents, regulatory developments and key " +
				"on-chain and market metrics, at least annually or after any major event.",
			Condition: Condition{
				MinOverallBand: intp(3),
			},
		},
	}
}
