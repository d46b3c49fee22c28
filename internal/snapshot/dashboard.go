// Package snapshot assembles the materialised report payload: the risk
// dashboard, per-domain findings, escalation cards, token fact sheet and
// executive summary that the renderers consume.
package snapshot

import (
	"math"

	"github.com/ternarybob/censeo/internal/ddq"
	"github.com/ternarybob/censeo/internal/models"
)

// BuildDashboard computes the top-panel risk picture from domain statistics.
func BuildDashboard(domains []models.DomainStats) models.RiskDashboard {
	numeric, name := overallBand(domains)
	return models.RiskDashboard{
		OverallBand:      models.OverallBand{Numeric: numeric, Name: name},
		BandDistribution: bandDistribution(domains),
		Domains:          domains,
	}
}

// overallBand is the weight-averaged domain band, rounded to the nearest
// integer band. Zero or missing weights fall back to an equal-weight average.
func overallBand(domains []models.DomainStats) (int, string) {
	if len(domains) == 0 {
		return 0, "Unknown"
	}

	totalWeight := 0.0
	for _, d := range domains {
		totalWeight += d.Weight
	}

	var weightedSum float64
	if totalWeight <= 0 {
		totalWeight = float64(len(domains))
		for _, d := range domains {
			weightedSum += float64(d.BandNumeric)
		}
	} else {
		for _, d := range domains {
			weightedSum += float64(d.BandNumeric) * d.Weight
		}
	}

	numeric := int(math.Round(weightedSum / totalWeight))
	return numeric, ddq.BandNameFromNumeric(numeric)
}

// bandDistribution returns each band name's share of total domain weight,
// for the dashboard's stacked bar. Empty when weights sum to zero.
func bandDistribution(domains []models.DomainStats) map[string]float64 {
	out := make(map[string]float64)
	totalWeight := 0.0
	for _, d := range domains {
		totalWeight += d.Weight
	}
	if totalWeight <= 0 {
		return out
	}
	for _, d := range domains {
		out[d.BandName] += d.Weight / totalWeight
	}
	return out
}

// RealEscalations filters the parsed escalation rows down to genuine
// committee triggers, dropping informational "No Review" narratives.
func RealEscalations(escalations []models.BoardEscalation) []models.BoardEscalation {
	out := make([]models.BoardEscalation, 0, len(escalations))
	for _, esc := range escalations {
		if esc.IsRealTrigger() {
			out = append(out, esc)
		}
	}
	return out
}
