package snapshot

import (
	"fmt"
	"strings"

	"github.com/ternarybob/censeo/internal/models"
)

// BuildDomainFindings produces the deterministic per-domain narrative
// sections. An LLM provider can replace the narrative fields later; the
// shape stays the same either way, so renderers never care which path ran.
func BuildDomainFindings(domains []models.DomainStats, escalations []models.BoardEscalation) []models.DomainFinding {
	realByDomain := make(map[string][]models.BoardEscalation)
	for _, esc := range escalations {
		if esc.IsRealTrigger() {
			realByDomain[esc.DomainCode] = append(realByDomain[esc.DomainCode], esc)
		}
	}

	findings := make([]models.DomainFinding, 0, len(domains))
	for _, d := range domains {
		real := realByDomain[d.Code]
		findings = append(findings, models.DomainFinding{
			DomainCode:           d.Code,
			DomainName:           d.Name,
			BandName:             d.BandName,
			BandNumeric:          d.BandNumeric,
			AvgScore:             d.AvgScore,
			HasBoardEscalation:   d.HasBoardEscalation,
			BoardEscalationCount: d.BoardEscalationCount,
			OneLine:              findingOneLine(d, real),
			Strengths:            findingStrengths(d),
			Risks:                findingRisks(d, real),
			Watchpoints:          findingWatchpoints(d),
		})
	}
	return findings
}

func findingOneLine(d models.DomainStats, real []models.BoardEscalation) string {
	if d.HasBoardEscalation && len(real) > 0 {
		return fmt.Sprintf(
			"%s: %s risk with %d board escalation trigger(s) requiring senior review.",
			d.Name, d.BandName, d.BoardEscalationCount)
	}
	return fmt.Sprintf(
		"%s: %s risk with no board escalation triggers identified in the current assessment.",
		d.Name, d.BandName)
}

func findingStrengths(d models.DomainStats) []string {
	var strengths []string

	switch {
	case d.BandNumeric <= 2:
		strengths = append(strengths,
			"Scores cluster in the lower risk bands, indicating relatively "+
				"limited concern in this domain on current evidence.")
	case d.BandNumeric == 3:
		strengths = append(strengths,
			"Scores are broadly in the Medium band, suggesting a balanced "+
				"risk profile with meaningful strengths and weaknesses.")
	default:
		strengths = append(strengths,
			"Despite an elevated risk band, the domain is supported by a "+
				"structured due-diligence review and documented controls.")
	}

	if !d.HasBoardEscalation {
		strengths = append(strengths,
			"No questions in this domain triggered board-level escalation "+
				"flags in the current DDQ run.")
	}

	if d.AvgScore >= 8 {
		strengths = append(strengths,
			"Average scores above 8 indicate strong controls or favourable "+
				"characteristics in this area relative to peers.")
	}
	return strengths
}

func findingRisks(d models.DomainStats, real []models.BoardEscalation) []string {
	var risks []string

	switch {
	case d.BandNumeric >= 4:
		risks = append(risks, fmt.Sprintf(
			"The domain is rated %s, indicating multiple higher-concern "+
				"factors that may require mitigations before listing.", d.BandName))
	case d.BandNumeric == 3:
		risks = append(risks,
			"Medium risk band: residual issues and uncertainties remain, "+
				"and further comfort may be needed depending on the use-case.")
	default:
		risks = append(risks,
			"While overall risk is in the lower bands, crypto assets remain "+
				"inherently volatile and subject to rapid change.")
	}

	if d.HasBoardEscalation && len(real) > 0 {
		risks = append(risks,
			"One or more DDQ questions triggered a board escalation flag; "+
				"these items should be considered individually by the listing "+
				"or risk committee.")
		for _, esc := range real {
			risks = append(risks, fmt.Sprintf(
				"Escalation: %s – %s...", esc.QuestionID, truncate(esc.QuestionText, 90)))
		}
	}
	return risks
}

func findingWatchpoints(d models.DomainStats) []string {
	var watchpoints []string
	name := strings.ToLower(d.Name)

	if strings.Contains(name, "regulatory") || strings.Contains(name, "legal") {
		watchpoints = append(watchpoints,
			"Monitor for new regulatory actions, guidance or enforcement "+
				"affecting the issuer, token, or comparable projects.")
	}
	if strings.Contains(name, "aml") || strings.Contains(name, "sanctions") {
		watchpoints = append(watchpoints,
			"Keep under review any changes in sanctions regimes, law "+
				"enforcement actions or on-chain typologies linked to the asset.")
	}
	if strings.Contains(name, "technical") || strings.Contains(name, "protocol") {
		watchpoints = append(watchpoints,
			"Track protocol upgrades, security advisories and incident "+
				"reports that could affect technical risk over time.")
	}
	if strings.Contains(name, "market") || strings.Contains(name, "liquidity") {
		watchpoints = append(watchpoints,
			"Monitor market depth, spreads and derivatives activity, "+
				"particularly around stress events and large flows.")
	}
	if strings.Contains(name, "strategic") || strings.Contains(name, "reputational") {
		watchpoints = append(watchpoints,
			"Monitor media coverage, community sentiment and major "+
				"partnerships that could alter the project's risk profile.")
	}
	if len(watchpoints) == 0 {
		watchpoints = append(watchpoints,
			"Revisit this domain periodically as part of ongoing monitoring "+
				"to capture new information or emerging risks.")
	}
	return watchpoints
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
