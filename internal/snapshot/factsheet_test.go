package snapshot

import (
	"testing"

	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

func TestBuildTokenFactSheet(t *testing.T) {
	refined := []models.RefinedTag{
		models.NewRefinedTag(risk.TagAdminKeyCentralisation, true, "broad multisig powers"),
		models.NewRefinedTag(risk.TagPoorDisclosureQuality, true, ""),
		models.NewRefinedTag(risk.TagWashTrading, false, "no supporting evidence"),
	}
	domains := []models.DomainStats{
		domain("REG", "Regulatory & Legal", 0.3, 2, "Low", 0),
		domain("TECH", "Technical & Protocol Security", 0.4, 4, "Medium-High", 2),
		domain("MKT", "Market & Liquidity Integrity", 0.3, 3, "Medium", 1),
	}
	external := &models.ExternalTokenMetadata{
		Provider: "coingecko",
		Enabled:  true,
		LogoURL:  "https://example.com/logo.png",
		Website:  "https://example.com",
		Chains:   []string{"ethereum", "arbitrum-one"},
	}

	ctx := listing.BuildContext(3, nil, refined)
	sheet := BuildTokenFactSheet(FactSheetInput{
		Meta:           models.TokenMeta{Name: "Example Token", Ticker: "EXT", TokenType: "defi"},
		Dashboard:      BuildDashboard(domains),
		RefinedTags:    refined,
		ListingContext: ctx,
		External:       external,
	})

	if sheet.Asset.PrimaryChain != "ethereum" {
		t.Errorf("primary chain = %q, want ethereum", sheet.Asset.PrimaryChain)
	}
	if sheet.ExternalMetadataSource != "coingecko" {
		t.Errorf("external source = %q, want coingecko", sheet.ExternalMetadataSource)
	}

	// Excluded tags never reach the highlights.
	if len(sheet.TopRiskTags) != 2 {
		t.Fatalf("got %d top tags, want 2: %+v", len(sheet.TopRiskTags), sheet.TopRiskTags)
	}
	if sheet.TopRiskTags[0].Label != "Admin keys / privileged access" {
		t.Errorf("top tag label = %q", sheet.TopRiskTags[0].Label)
	}

	// Highest-band domain leads the top-domains list.
	if sheet.TopDomains[0].Code != "TECH" {
		t.Errorf("top domain = %q, want TECH", sheet.TopDomains[0].Code)
	}

	if sheet.DisclosureQualityFlag != "poor" {
		t.Errorf("disclosure flag = %q, want poor", sheet.DisclosureQualityFlag)
	}

	var adminSignal, washSignal *models.ControlSignal
	for i := range sheet.ControlSignals {
		switch sheet.ControlSignals[i].ID {
		case risk.TagAdminKeyCentralisation:
			adminSignal = &sheet.ControlSignals[i]
		case risk.TagUpgradeability:
			washSignal = &sheet.ControlSignals[i]
		}
	}
	if adminSignal == nil || !adminSignal.Present {
		t.Error("admin-key control signal should be present")
	}
	if washSignal == nil || washSignal.Present {
		t.Error("upgradeability control signal should be absent")
	}
}

func TestBuildTokenFactSheetDefaults(t *testing.T) {
	sheet := BuildTokenFactSheet(FactSheetInput{})

	if sheet.Asset.Name != "Unknown token" {
		t.Errorf("default name = %q", sheet.Asset.Name)
	}
	if sheet.Asset.TokenType != "governance_utility" {
		t.Errorf("default token type = %q", sheet.Asset.TokenType)
	}
	if sheet.DisclosureQualityFlag != "unknown" {
		t.Errorf("default disclosure flag = %q", sheet.DisclosureQualityFlag)
	}
	if sheet.ExternalMetadataSource != "" {
		t.Errorf("no external lookup should leave source empty, got %q", sheet.ExternalMetadataSource)
	}
}

func TestBuildTokenFactSheetFailedLookupIgnored(t *testing.T) {
	sheet := BuildTokenFactSheet(FactSheetInput{
		Meta: models.TokenMeta{Name: "Example", Ticker: "EXT"},
		External: &models.ExternalTokenMetadata{
			Provider: "coingecko",
			Enabled:  true,
			Error:    "could not resolve coin id",
			LogoURL:  "https://stale.example/logo.png",
		},
	})

	if sheet.Asset.LogoURL != "" || sheet.ExternalMetadataSource != "" {
		t.Errorf("failed lookup should not contribute asset fields: %+v", sheet.Asset)
	}
}
