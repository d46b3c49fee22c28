package snapshot

import (
	"fmt"
	"time"

	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
)

const (
	maxPositives     = 4
	maxMitigations   = 4
	maxNotable       = 2
	maxOpenQuestions = 4
)

// SummaryInput gathers the sections the executive summary condenses.
type SummaryInput struct {
	FactSheet       models.TokenFactSheet
	Dashboard       models.RiskDashboard
	DomainFindings  []models.DomainFinding
	RealEscalations []models.BoardEscalation
	Requirements    []models.Requirement
	ListingContext  listing.Context
	Now             func() time.Time
}

// HeadlineForPosture maps the listing posture onto the summary headline.
func HeadlineForPosture(posture listing.Posture) string {
	switch posture {
	case listing.PostureHeightened:
		return "Heightened risk – committee judgment required"
	case listing.PostureIntermediate:
		return "Suitable for listing with enhanced monitoring"
	case listing.PostureBenign:
		return "Suitable for listing with standard monitoring"
	default:
		return "Committee decision required"
	}
}

// BuildExecutiveSummary produces the deterministic board-facing summary.
// The LLM summary service reuses this as its fallback, so either path
// yields the same shape.
func BuildExecutiveSummary(in SummaryInput) models.ExecutiveSummary {
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}

	name := in.FactSheet.Asset.Name
	if name == "" {
		name = "This token"
	}

	narrative := fmt.Sprintf(
		"%s is assessed as %s overall (band %d/5). "+
			"%d DDQ item(s) triggered board-level escalation flags requiring senior review. "+
			"The recommended approach is to list only with controls proportionate to the identified risk drivers, "+
			"and to treat material protocol, governance, or reputational developments as re-review triggers.",
		name,
		in.Dashboard.OverallBand.Name,
		in.Dashboard.OverallBand.Numeric,
		len(in.RealEscalations),
	)

	return models.ExecutiveSummary{
		HeadlineDecisionView: HeadlineForPosture(in.ListingContext.Posture),
		OverallPosture:       string(in.ListingContext.Posture),
		Narrative:            narrative,
		KeyPositives:         summaryPositives(in.DomainFindings),
		RisksAndMitigations:  summaryMitigations(in.FactSheet.TopRiskTags, in.Requirements),
		NotableEscalations:   summaryNotable(in.RealEscalations),
		OpenQuestions:        summaryOpenQuestions(in.ListingContext),
		GeneratedAt:          now().UTC().Format(time.RFC3339),
		GeneratedBy:          "rules",
	}
}

// summaryPositives collects up to four strength statements from domains
// outside the highest bands, two per domain, deduplicated.
func summaryPositives(findings []models.DomainFinding) []string {
	positives := make([]string, 0, maxPositives)
	seen := make(map[string]struct{})

	for _, f := range findings {
		if f.BandNumeric > 3 {
			continue
		}
		strengths := f.Strengths
		if len(strengths) > 2 {
			strengths = strengths[:2]
		}
		for _, s := range strengths {
			if s == "" {
				continue
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			positives = append(positives, s)
			if len(positives) >= maxPositives {
				return positives
			}
		}
	}
	return positives
}

// summaryMitigations pairs the top risk drivers with listing requirements as
// their mitigation anchors, falling back to a generic control statement when
// requirements run out.
func summaryMitigations(topTags []models.TagHighlight, requirements []models.Requirement) []models.RiskMitigation {
	const defaultMitigation = "Apply the listed internal controls and monitoring actions, " +
		"and schedule re-review after material events."

	out := make([]models.RiskMitigation, 0, maxMitigations)
	for i, tag := range topTags {
		if i >= maxMitigations {
			break
		}
		riskText := tag.Label
		if tag.Reason != "" {
			riskText = fmt.Sprintf("%s: %s", tag.Label, tag.Reason)
		}
		mitigation := defaultMitigation
		if i < len(requirements) {
			mitigation = requirements[i].Text
		}
		out = append(out, models.RiskMitigation{Risk: riskText, Mitigation: mitigation})
	}
	return out
}

func summaryNotable(escalations []models.BoardEscalation) []models.NotableEscalation {
	out := make([]models.NotableEscalation, 0, maxNotable)
	for _, esc := range escalations {
		if len(out) >= maxNotable {
			break
		}
		issue := esc.QuestionText
		if len([]rune(issue)) > 113 {
			issue = truncate(issue, 110) + "..."
		}
		out = append(out, models.NotableEscalation{
			Domain: esc.DomainName,
			Issue:  issue,
		})
	}
	return out
}

func summaryOpenQuestions(ctx listing.Context) []string {
	var questions []string
	if ctx.HasHardControl {
		questions = append(questions,
			"Confirm who can exercise privileged control (admin keys, upgrades, governance) "+
				"and what oversight applies post-listing.")
	}
	if ctx.HasSpeculativeProfile {
		questions = append(questions,
			"Confirm whether additional retail guard-rails (exposure caps, stricter "+
				"appropriateness) are required for this asset profile.")
	}
	if len(questions) == 0 {
		questions = append(questions,
			"Confirm the monitoring and reassessment cadence to maintain an up-to-date "+
				"risk view post-listing.")
	}
	if len(questions) > maxOpenQuestions {
		questions = questions[:maxOpenQuestions]
	}
	return questions
}
