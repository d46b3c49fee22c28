package snapshot

import (
	"strings"
	"testing"

	"github.com/ternarybob/censeo/internal/models"
)

func TestBuildDomainFindingsEscalatedDomain(t *testing.T) {
	domains := []models.DomainStats{
		domain("TECH", "Technical & Protocol Security", 0.4, 4, "Medium-High", 2),
	}
	escalations := []models.BoardEscalation{
		{DomainCode: "TECH", QuestionID: "B3.1", QuestionText: "Privileged function scope", Flag: "Review Required"},
		{DomainCode: "TECH", QuestionID: "B3.2", QuestionText: "Pause controls", Flag: "No Review"},
	}

	findings := BuildDomainFindings(domains, escalations)

	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]

	if !strings.Contains(f.OneLine, "board escalation trigger(s) requiring senior review") {
		t.Errorf("one-line missing escalation wording: %q", f.OneLine)
	}

	// Only the real trigger appears as an escalation bullet.
	bullets := 0
	for _, r := range f.Risks {
		if strings.HasPrefix(r, "Escalation: ") {
			bullets++
			if !strings.Contains(r, "B3.1") {
				t.Errorf("escalation bullet names wrong question: %q", r)
			}
		}
	}
	if bullets != 1 {
		t.Errorf("got %d escalation bullets, want 1", bullets)
	}

	if !strings.Contains(f.Watchpoints[0], "protocol upgrades") {
		t.Errorf("technical domain should get the protocol watchpoint, got %v", f.Watchpoints)
	}
}

func TestBuildDomainFindingsCleanLowBandDomain(t *testing.T) {
	domains := []models.DomainStats{
		{Code: "REG", Name: "Regulatory & Legal", Weight: 0.3, BandNumeric: 2, BandName: "Low", AvgScore: 8.4},
	}

	findings := BuildDomainFindings(domains, nil)
	f := findings[0]

	if !strings.Contains(f.OneLine, "no board escalation triggers") {
		t.Errorf("clean domain one-line wrong: %q", f.OneLine)
	}
	// Low band + no escalation + avg score >= 8 yields three strengths.
	if len(f.Strengths) != 3 {
		t.Errorf("got %d strengths, want 3: %v", len(f.Strengths), f.Strengths)
	}
	if !strings.Contains(f.Watchpoints[0], "regulatory actions") {
		t.Errorf("regulatory domain should get the regulatory watchpoint, got %v", f.Watchpoints)
	}
}

func TestBuildDomainFindingsUnmatchedDomainGetsGenericWatchpoint(t *testing.T) {
	domains := []models.DomainStats{
		{Code: "OPS", Name: "Operational Stability", BandNumeric: 3, BandName: "Medium"},
	}

	f := BuildDomainFindings(domains, nil)[0]

	if len(f.Watchpoints) != 1 || !strings.Contains(f.Watchpoints[0], "Revisit this domain periodically") {
		t.Errorf("expected the generic watchpoint only, got %v", f.Watchpoints)
	}
}
