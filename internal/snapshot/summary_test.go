package snapshot

import (
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func TestBuildExecutiveSummary(t *testing.T) {
	findings := []models.DomainFinding{
		{BandNumeric: 2, Strengths: []string{"strength one", "strength two", "strength three"}},
		{BandNumeric: 5, Strengths: []string{"high band strength"}},
		{BandNumeric: 3, Strengths: []string{"strength one", "strength four"}},
	}
	escalations := []models.BoardEscalation{
		{DomainName: "Technical & Protocol Security", QuestionText: "Privileged scope question", Flag: "Review Required"},
		{DomainName: "Regulatory & Legal", QuestionText: strings.Repeat("x", 150), Flag: "Board Review"},
		{DomainName: "Market & Liquidity Integrity", QuestionText: "Third one", Flag: "Escalate"},
	}
	requirements := []models.Requirement{
		{ID: "committee_signoff_required", Text: "Ensure committee sign-off."},
	}
	factSheet := models.TokenFactSheet{
		Asset: models.FactSheetAsset{Name: "Example Token"},
		TopRiskTags: []models.TagHighlight{
			{ID: "admin_key_centralisation_risk", Label: "Admin keys / privileged access", Reason: "broad powers"},
			{ID: "upgradeability_risk", Label: "Upgradability / change control"},
		},
	}

	summary := BuildExecutiveSummary(SummaryInput{
		FactSheet:       factSheet,
		Dashboard:       models.RiskDashboard{OverallBand: models.OverallBand{Numeric: 4, Name: "Medium-High"}},
		DomainFindings:  findings,
		RealEscalations: escalations,
		Requirements:    requirements,
		ListingContext:  listing.Context{Posture: listing.PostureHeightened, HasHardControl: true},
		Now:             fixedNow,
	})

	if summary.HeadlineDecisionView != "Heightened risk – committee judgment required" {
		t.Errorf("headline = %q", summary.HeadlineDecisionView)
	}
	if !strings.Contains(summary.Narrative, "Example Token is assessed as Medium-High overall (band 4/5).") {
		t.Errorf("narrative = %q", summary.Narrative)
	}
	if !strings.Contains(summary.Narrative, "3 DDQ item(s)") {
		t.Errorf("narrative should count escalations: %q", summary.Narrative)
	}

	// Two strengths per low/medium domain, deduplicated, high-band skipped.
	want := []string{"strength one", "strength two", "strength four"}
	if len(summary.KeyPositives) != len(want) {
		t.Fatalf("positives = %v, want %v", summary.KeyPositives, want)
	}
	for i, p := range want {
		if summary.KeyPositives[i] != p {
			t.Errorf("positives[%d] = %q, want %q", i, summary.KeyPositives[i], p)
		}
	}

	// First mitigation comes from the requirement, second falls back.
	if len(summary.RisksAndMitigations) != 2 {
		t.Fatalf("mitigations = %+v", summary.RisksAndMitigations)
	}
	if summary.RisksAndMitigations[0].Mitigation != "Ensure committee sign-off." {
		t.Errorf("first mitigation = %q", summary.RisksAndMitigations[0].Mitigation)
	}
	if !strings.Contains(summary.RisksAndMitigations[1].Mitigation, "schedule re-review") {
		t.Errorf("fallback mitigation = %q", summary.RisksAndMitigations[1].Mitigation)
	}

	// Notable escalations cap at two, long questions are truncated.
	if len(summary.NotableEscalations) != 2 {
		t.Fatalf("notable = %+v", summary.NotableEscalations)
	}
	if !strings.HasSuffix(summary.NotableEscalations[1].Issue, "...") {
		t.Errorf("long issue should be truncated: %q", summary.NotableEscalations[1].Issue)
	}

	if len(summary.OpenQuestions) != 1 || !strings.Contains(summary.OpenQuestions[0], "privileged control") {
		t.Errorf("open questions = %v", summary.OpenQuestions)
	}

	if summary.GeneratedAt != "2026-08-01T12:00:00Z" {
		t.Errorf("generated at = %q", summary.GeneratedAt)
	}
	if summary.GeneratedBy != "rules" {
		t.Errorf("generated by = %q", summary.GeneratedBy)
	}
}

func TestBuildExecutiveSummaryBenignDefaults(t *testing.T) {
	summary := BuildExecutiveSummary(SummaryInput{
		Dashboard:      models.RiskDashboard{OverallBand: models.OverallBand{Numeric: 2, Name: "Low"}},
		ListingContext: listing.Context{Posture: listing.PostureBenign},
		Now:            fixedNow,
	})

	if summary.HeadlineDecisionView != "Suitable for listing with standard monitoring" {
		t.Errorf("headline = %q", summary.HeadlineDecisionView)
	}
	if !strings.HasPrefix(summary.Narrative, "This token is assessed") {
		t.Errorf("narrative should use the fallback name: %q", summary.Narrative)
	}
	if len(summary.OpenQuestions) != 1 || !strings.Contains(summary.OpenQuestions[0], "reassessment cadence") {
		t.Errorf("open questions = %v", summary.OpenQuestions)
	}
}
