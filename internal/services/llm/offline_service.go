package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/snapshot"
)

var _ interfaces.LLMService = (*OfflineService)(nil)

// OfflineService produces narratives from the deterministic rule-based
// builders. It is the default provider and the fallback for every cloud
// failure, so a report always renders without network access or API keys.
type OfflineService struct {
	logger arbor.ILogger
}

// NewOfflineService creates the deterministic narrative service.
func NewOfflineService() *OfflineService {
	return &OfflineService{
		logger: common.GetLogger(),
	}
}

// Mode reports that narratives are generated locally.
func (s *OfflineService) Mode() interfaces.LLMMode {
	return interfaces.LLMModeOffline
}

// RefineTags passes the inferred tags through unchanged. Without a model to
// review evidence, every tag stays included.
func (s *OfflineService) RefineTags(ctx context.Context, tags []string, evidence map[string][]models.TagEvidence) ([]models.RefinedTag, error) {
	return models.IncludeAll(tags), nil
}

// DomainFindings builds the rule-based finding for one domain.
func (s *OfflineService) DomainFindings(ctx context.Context, domain models.DomainStats, escalations []models.BoardEscalation) (*models.DomainFinding, error) {
	findings := snapshot.BuildDomainFindings([]models.DomainStats{domain}, escalations)
	if len(findings) == 0 {
		return nil, fmt.Errorf("no finding produced for domain %s", domain.Code)
	}
	return &findings[0], nil
}

// ExecutiveSummary rebuilds the rule-based summary from the assembled
// snapshot. The posture context is rederived from the snapshot's own band,
// escalations and tags, so the result matches what the deterministic
// pipeline would have produced directly.
func (s *OfflineService) ExecutiveSummary(ctx context.Context, snap *models.ReportSnapshot) (*models.ExecutiveSummary, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	listingCtx := listing.BuildContext(snap.RiskDashboard.OverallBand.Numeric, snap.BoardEscalations, snap.RiskTags)

	summary := snapshot.BuildExecutiveSummary(snapshot.SummaryInput{
		FactSheet:       snap.TokenFactSheet,
		Dashboard:       snap.RiskDashboard,
		DomainFindings:  snap.DomainFindings,
		RealEscalations: snap.BoardEscalations,
		Requirements:    snap.ListingRequirements,
		ListingContext:  listingCtx,
	})

	return &summary, nil
}
