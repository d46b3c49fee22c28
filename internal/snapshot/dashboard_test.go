package snapshot

import (
	"math"
	"testing"

	"github.com/ternarybob/censeo/internal/models"
)

func domain(code, name string, weight float64, band int, bandName string, escalations int) models.DomainStats {
	return models.DomainStats{
		Code:                 code,
		Name:                 name,
		Weight:               weight,
		BandNumeric:          band,
		BandName:             bandName,
		HasBoardEscalation:   escalations > 0,
		BoardEscalationCount: escalations,
	}
}

func TestBuildDashboardWeightedBand(t *testing.T) {
	domains := []models.DomainStats{
		domain("A", "Technical & Protocol Security", 0.5, 4, "Medium-High", 2),
		domain("B", "Regulatory & Legal", 0.3, 2, "Low", 0),
		domain("C", "Market & Liquidity Integrity", 0.2, 3, "Medium", 0),
	}

	dash := BuildDashboard(domains)

	// 4*0.5 + 2*0.3 + 3*0.2 = 3.2 -> rounds to 3.
	if dash.OverallBand.Numeric != 3 {
		t.Errorf("overall band = %d, want 3", dash.OverallBand.Numeric)
	}
	if dash.OverallBand.Name != "Medium" {
		t.Errorf("overall band name = %q, want Medium", dash.OverallBand.Name)
	}

	if got := dash.BandDistribution["Medium-High"]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Medium-High share = %v, want 0.5", got)
	}
	if got := dash.BandDistribution["Low"]; math.Abs(got-0.3) > 1e-9 {
		t.Errorf("Low share = %v, want 0.3", got)
	}
}

func TestBuildDashboardZeroWeightsFallBackToEqualAverage(t *testing.T) {
	domains := []models.DomainStats{
		domain("A", "Technical & Protocol Security", 0, 5, "High", 0),
		domain("B", "Regulatory & Legal", 0, 1, "Very Low", 0),
	}

	dash := BuildDashboard(domains)

	if dash.OverallBand.Numeric != 3 {
		t.Errorf("equal-weight overall band = %d, want 3", dash.OverallBand.Numeric)
	}
	if len(dash.BandDistribution) != 0 {
		t.Errorf("distribution should be empty with zero total weight, got %v", dash.BandDistribution)
	}
}

func TestBuildDashboardEmpty(t *testing.T) {
	dash := BuildDashboard(nil)
	if dash.OverallBand.Numeric != 0 || dash.OverallBand.Name != "Unknown" {
		t.Errorf("empty dashboard band = %+v, want 0/Unknown", dash.OverallBand)
	}
}

func TestRealEscalationsFiltersInformationalRows(t *testing.T) {
	escalations := []models.BoardEscalation{
		{QuestionID: "B1.1", Flag: "Review Required"},
		{QuestionID: "B1.2", Flag: "No Review"},
		{QuestionID: "B1.3", Flag: ""},
		{QuestionID: "B1.4", Flag: "Escalate to Listing Committee"},
	}

	real := RealEscalations(escalations)

	if len(real) != 2 {
		t.Fatalf("got %d real escalations, want 2", len(real))
	}
	if real[0].QuestionID != "B1.1" || real[1].QuestionID != "B1.4" {
		t.Errorf("unexpected rows kept: %+v", real)
	}
}
