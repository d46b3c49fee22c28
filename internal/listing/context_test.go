package listing

import (
	"testing"

	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

func realEscalations(domain string, n int) []models.BoardEscalation {
	out := make([]models.BoardEscalation, n)
	for i := range out {
		out[i] = models.BoardEscalation{
			DomainName: domain,
			Flag:       "Review Required",
		}
	}
	return out
}

func tags(ids ...string) []models.RefinedTag {
	return models.IncludeAll(ids)
}

func TestClassifyPosture(t *testing.T) {
	tests := []struct {
		name        string
		band        int
		escalations []models.BoardEscalation
		tags        []models.RefinedTag
		want        Posture
	}{
		{"clean low band", 2, nil, nil, PostureBenign},
		{"high band alone", 4, nil, nil, PostureHeightened},
		{"five total escalations stay intermediate", 3, realEscalations("Technical & Protocol Security", 5), nil, PostureIntermediate},
		{"six total escalations tip heightened", 3, realEscalations("Technical & Protocol Security", 6), nil, PostureHeightened},
		{"two esg escalations tip heightened", 1, realEscalations("Strategic, ESG & Reputational", 2), nil, PostureHeightened},
		{"speculative plus hard control at low band", 2, nil,
			tags(risk.TagMemecoinHypeDependency, risk.TagAdminKeyCentralisation), PostureHeightened},
		{"speculative alone stays benign", 2, nil, tags(risk.TagMemecoinHypeDependency), PostureBenign},
		{"band three with hard control", 3, nil, tags(risk.TagUpgradeability), PostureIntermediate},
		{"band three with three escalations", 3, realEscalations("Regulatory & Legal", 3), nil, PostureIntermediate},
		{"band three alone stays benign", 3, nil, nil, PostureBenign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := BuildContext(tt.band, tt.escalations, tt.tags)
			if ctx.Posture != tt.want {
				t.Errorf("posture = %q, want %q (ctx %+v)", ctx.Posture, tt.want, ctx)
			}
		})
	}
}

func TestBuildContextCountsOnlyRealTriggers(t *testing.T) {
	escalations := []models.BoardEscalation{
		{DomainName: "Strategic, ESG & Reputational", Flag: "Review Required"},
		{DomainName: "Strategic, ESG & Reputational", Flag: "No Review"},
		{DomainName: "Technical & Protocol Security", Flag: "Listing Committee"},
		{DomainName: "Token Fundamentals & Governance", Flag: ""},
		{DomainName: "Regulatory & Legal", Flag: "Escalate to board"},
		{DomainName: "Operational Stability", Flag: "Board Review"},
	}

	ctx := BuildContext(2, escalations, nil)

	if ctx.TotalEscalations != 4 {
		t.Errorf("TotalEscalations = %d, want 4", ctx.TotalEscalations)
	}
	if ctx.ESGEscalations != 1 {
		t.Errorf("ESGEscalations = %d, want 1", ctx.ESGEscalations)
	}
	if ctx.TechnicalEscalations != 1 {
		t.Errorf("TechnicalEscalations = %d, want 1", ctx.TechnicalEscalations)
	}
	if ctx.RegulatoryEscalations != 1 {
		t.Errorf("RegulatoryEscalations = %d, want 1", ctx.RegulatoryEscalations)
	}
	// "Operational Stability" matches no bucket but still counts in the total.
	if ctx.GovernanceEscalations != 0 {
		t.Errorf("GovernanceEscalations = %d, want 0", ctx.GovernanceEscalations)
	}
}

func TestBuildContextExcludedTagsDoNotCount(t *testing.T) {
	refined := []models.RefinedTag{
		models.NewRefinedTag(risk.TagAdminKeyCentralisation, false, "not material for this asset"),
		models.NewRefinedTag(risk.TagTreasuryConcentration, true, ""),
	}

	ctx := BuildContext(2, nil, refined)

	if ctx.HasHardControl {
		t.Error("excluded admin-key tag should not set HasHardControl")
	}
	if !ctx.HasTag(risk.TagTreasuryConcentration) {
		t.Error("included tag missing from effective set")
	}
}

func TestPostureRank(t *testing.T) {
	if !(PostureBenign.Rank() < PostureIntermediate.Rank() &&
		PostureIntermediate.Rank() < PostureHeightened.Rank()) {
		t.Error("posture ranks out of order")
	}
	if Posture("bogus").Rank() != 0 {
		t.Error("unknown posture should rank below benign")
	}
}
