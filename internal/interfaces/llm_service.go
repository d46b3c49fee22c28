// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/censeo/internal/models"
)

// LLMMode represents the operational mode of the narrative service.
type LLMMode string

const (
	// LLMModeCloud indicates narratives are generated via the Anthropic API.
	LLMModeCloud LLMMode = "cloud"

	// LLMModeOffline indicates the deterministic rule-based generator is in use.
	LLMModeOffline LLMMode = "offline"
)

// LLMService generates the narrative sections of a report. Implementations
// must be safe to call concurrently and must degrade gracefully: any error
// lets the caller fall back to the rule-based builders, so a report always
// renders even when the provider is down.
type LLMService interface {
	// Mode reports whether this service calls a cloud provider or runs offline.
	Mode() LLMMode

	// RefineTags reviews inferred risk tags against their DDQ evidence and
	// returns the refined set with include/exclude decisions and reasons.
	// The returned set may exclude tags but never invents new evidence.
	RefineTags(ctx context.Context, tags []string, evidence map[string][]models.TagEvidence) ([]models.RefinedTag, error)

	// DomainFindings writes the narrative fields for one domain, using all of
	// that domain's escalation rows (informational ones included) as context.
	DomainFindings(ctx context.Context, domain models.DomainStats, escalations []models.BoardEscalation) (*models.DomainFinding, error)

	// ExecutiveSummary condenses the assembled report sections into the
	// board-facing summary.
	ExecutiveSummary(ctx context.Context, snapshot *models.ReportSnapshot) (*models.ExecutiveSummary, error)
}
