package snapshot

import (
	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/models"
)

// Assemble stitches the computed sections into the final report payload and
// stamps it with a fresh report ID.
func Assemble(
	dashboard models.RiskDashboard,
	realEscalations []models.BoardEscalation,
	findings []models.DomainFinding,
	refinedTags []models.RefinedTag,
	tagEvidence map[string][]models.TagEvidence,
	requirements []models.Requirement,
	factSheet models.TokenFactSheet,
	summary models.ExecutiveSummary,
) models.ReportSnapshot {
	return models.ReportSnapshot{
		ReportID:            common.NewReportID(),
		RiskDashboard:       dashboard,
		BoardEscalations:    realEscalations,
		DomainFindings:      findings,
		RiskTags:            refinedTags,
		TagEvidence:         tagEvidence,
		ListingRequirements: requirements,
		TokenFactSheet:      factSheet,
		ExecutiveSummary:    summary,
	}
}
