package models

import "testing"

func TestIsRealTriggerFlag(t *testing.T) {
	tests := []struct {
		flag string
		want bool
	}{
		{"", false},
		{"No Review", false},
		{"no", false},
		{"false", false},
		{"0", false},
		{"Review Required", true},
		{"review required", true},
		{"  Review Required  ", true},
		{"Escalate to committee", true},
		{"Board Review - tokenomics", true},
		{"Refer to Listing Committee", true},
		{"Reject", true},
		// Flag text that is set but matches no trigger keyword is informational.
		{"monitoring only", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			if got := IsRealTriggerFlag(tt.flag); got != tt.want {
				t.Errorf("IsRealTriggerFlag(%q) = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestClassifyEscalationDomain(t *testing.T) {
	tests := []struct {
		domain string
		want   EscalationDomain
	}{
		{"Strategic & Reputational (ESG)", EscalationDomainESG},
		{"Technical & Protocol Security", EscalationDomainTechnical},
		{"Token Fundamentals & Governance", EscalationDomainGovernance},
		{"Regulatory & Legal", EscalationDomainRegulatory},
		{"Market & Liquidity Integrity", EscalationDomainOther},
		{"", EscalationDomainOther},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			if got := ClassifyEscalationDomain(tt.domain); got != tt.want {
				t.Errorf("ClassifyEscalationDomain(%q) = %q, want %q", tt.domain, got, tt.want)
			}
		})
	}
}

func TestEffectiveTagIDs(t *testing.T) {
	tags := []RefinedTag{
		NewRefinedTag("upgradeability_risk", true, ""),
		NewRefinedTag("wash_trading_risk", false, "no supporting evidence"),
		NewRefinedTag("upgradeability_risk", true, "duplicate"),
		NewRefinedTag("  ", true, ""),
	}

	got := EffectiveTagIDs(tags)
	if len(got) != 1 {
		t.Fatalf("expected 1 effective tag, got %d: %v", len(got), got)
	}
	if _, ok := got["upgradeability_risk"]; !ok {
		t.Errorf("expected upgradeability_risk to be effective")
	}
}
