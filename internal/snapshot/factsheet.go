package snapshot

import (
	"sort"
	"strings"

	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
)

// Governance/control tags surfaced as explicit present/absent signals on the
// fact sheet, in display order.
var controlSignalIDs = []string{
	risk.TagAdminKeyCentralisation,
	risk.TagUpgradeability,
	risk.TagSmartContract,
	risk.TagGovTokenConcentration,
}

const maxTopTags = 6
const maxTopDomains = 3

// FactSheetInput gathers everything the fact sheet draws on. External
// metadata is optional; a nil value renders an identity-only sheet.
type FactSheetInput struct {
	Meta            models.TokenMeta
	Dashboard       models.RiskDashboard
	RefinedTags     []models.RefinedTag
	RealEscalations []models.BoardEscalation
	ListingContext  listing.Context
	Requirements    []models.Requirement
	External        *models.ExternalTokenMetadata
}

// BuildTokenFactSheet assembles the render-friendly "key facts" section.
func BuildTokenFactSheet(in FactSheetInput) models.TokenFactSheet {
	name := strings.TrimSpace(in.Meta.Name)
	if name == "" {
		name = "Unknown token"
	}
	tokenType := strings.TrimSpace(in.Meta.TokenType)
	if tokenType == "" {
		tokenType = string(risk.TokenTypeGovUtility)
	}

	asset := models.FactSheetAsset{
		Name:      name,
		Ticker:    strings.TrimSpace(in.Meta.Ticker),
		TokenType: tokenType,
	}
	externalSource := ""
	if ext := in.External; ext != nil && ext.Enabled && ext.Error == "" {
		asset.Description = ext.Description
		asset.Website = ext.Website
		asset.Whitepaper = ext.Whitepaper
		asset.LogoURL = ext.LogoURL
		asset.Chains = ext.Chains
		if len(ext.Chains) > 0 {
			asset.PrimaryChain = ext.Chains[0]
		}
		if ext.LogoURL != "" {
			externalSource = ext.Provider
		}
	}

	included := includedTags(in.RefinedTags)
	topTags := included
	if len(topTags) > maxTopTags {
		topTags = topTags[:maxTopTags]
	}

	highlights := make([]models.TagHighlight, 0, len(topTags))
	for _, t := range topTags {
		highlights = append(highlights, models.TagHighlight{
			ID:     t.ID,
			Label:  risk.TagLabel(t.ID),
			Reason: strings.TrimSpace(t.Reason),
		})
	}

	effective := models.EffectiveTagIDs(in.RefinedTags)
	signals := make([]models.ControlSignal, 0, len(controlSignalIDs))
	for _, id := range controlSignalIDs {
		_, present := effective[id]
		signals = append(signals, models.ControlSignal{
			ID:      id,
			Label:   risk.TagLabel(id),
			Present: present,
		})
	}

	disclosureFlag := "unknown"
	if _, poor := effective[risk.TagPoorDisclosureQuality]; poor {
		disclosureFlag = "poor"
	}

	return models.TokenFactSheet{
		Asset: asset,
		Classification: models.FactSheetClassification{
			ReportScope:          "Listing risk snapshot",
			OverallBand:          in.Dashboard.OverallBand,
			Posture:              string(in.ListingContext.Posture),
			IsSpeculativeProfile: in.ListingContext.HasSpeculativeProfile,
			HasHardControlRisks:  in.ListingContext.HasHardControl,
			BoardEscalationCount: len(in.RealEscalations),
		},
		TopRiskTags:            highlights,
		TopDomains:             topDomains(in.Dashboard.Domains),
		ControlSignals:         signals,
		RequirementsSummary:    in.Requirements,
		DisclosureQualityFlag:  disclosureFlag,
		ExternalMetadataSource: externalSource,
	}
}

// includedTags keeps only tags with Include set, preserving input order.
func includedTags(tags []models.RefinedTag) []models.RefinedTag {
	out := make([]models.RefinedTag, 0, len(tags))
	for _, t := range tags {
		if t.Include && strings.TrimSpace(t.ID) != "" {
			out = append(out, t)
		}
	}
	return out
}

// topDomains picks the highest-risk domains by (band, escalation count,
// weight), descending. The stable sort keeps ties in input order so the
// selection is deterministic.
func topDomains(domains []models.DomainStats) []models.DomainStats {
	sorted := make([]models.DomainStats, len(domains))
	copy(sorted, domains)

	sort.SliceStable(sorted, func(i, j int) bool {
		return domainRiskier(sorted[i], sorted[j])
	})

	if len(sorted) > maxTopDomains {
		sorted = sorted[:maxTopDomains]
	}
	return sorted
}

func domainRiskier(a, b models.DomainStats) bool {
	if a.BandNumeric != b.BandNumeric {
		return a.BandNumeric > b.BandNumeric
	}
	if a.BoardEscalationCount != b.BoardEscalationCount {
		return a.BoardEscalationCount > b.BoardEscalationCount
	}
	return a.Weight > b.Weight
}
