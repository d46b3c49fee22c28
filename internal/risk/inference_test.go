package risk

import (
	"sort"
	"testing"

	"github.com/ternarybob/censeo/internal/ddq"
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/signals"
)

const (
	techSheet    = "Technical & Protocol Security"
	fundamentals = "Token Fundamentals & Governance"
	amlSheet     = "AML & Sanctions Risk"
)

func answer(sheet, qid, raw string) *models.AnswerRow {
	return &models.AnswerRow{
		Sheet:       sheet,
		QuestionID:  qid,
		RawResponse: raw,
		Confidence:  "High",
	}
}

func newTestEngine(t *testing.T, rows ...*models.AnswerRow) *Engine {
	t.Helper()
	store := ddq.NewAnswerStore()
	for _, r := range rows {
		store.Add(r)
	}
	registry, err := signals.NewDefaultRegistry()
	if err != nil {
		t.Fatalf("NewDefaultRegistry: %v", err)
	}
	return NewEngine(signals.NewResolver(store, registry))
}

// fullControlRows fills the governance/control and disclosure signals with
// clean answers so those rules stay quiet in tests aimed at other rules.
func fullControlRows() []*models.AnswerRow {
	return []*models.AnswerRow{
		answer(techSheet, "B3.1", "Yes - narrowly scoped multisig"),
		answer(techSheet, "B3.2", "Yes - documented pause procedure"),
		answer(techSheet, "C1.1", "Yes - fully disclosed"),
		answer(techSheet, "C3.1", "Yes - 48h timelock"),
		answer(techSheet, "A4.2", "No oracle dependency"),
		answer(fundamentals, "E2.5", "5"),
	}
}

func hasTag(tags []string, id string) bool {
	i := sort.SearchStrings(tags, id)
	return i < len(tags) && tags[i] == id
}

func TestInferTokenomicsThresholds(t *testing.T) {
	tests := []struct {
		name                  string
		team, investors, tres string
		wantTreasury          bool
		wantConcentration     bool
	}{
		{"large allocations fire both", "20", "20", "25", true, true},
		{"small allocations fire neither", "10", "10", "10", false, false},
		{"single dominant holder fires concentration only", "40", "5", "5", false, true},
		{"treasury at threshold", "5", "5", "25", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := append(fullControlRows(),
				answer(fundamentals, "E2.1", tt.team),
				answer(fundamentals, "E2.2", tt.investors),
				answer(fundamentals, "E2.3", tt.tres),
			)
			got := newTestEngine(t, rows...).Infer(nil)

			if hasTag(got.Tags, TagTreasuryConcentration) != tt.wantTreasury {
				t.Errorf("treasury_concentration fired=%v, want %v (tags %v)",
					!tt.wantTreasury, tt.wantTreasury, got.Tags)
			}
			if hasTag(got.Tags, TagTokenomicsConcentration) != tt.wantConcentration {
				t.Errorf("tokenomics_concentration fired=%v, want %v (tags %v)",
					!tt.wantConcentration, tt.wantConcentration, got.Tags)
			}
		})
	}
}

func TestInferAdminKeyCentralisation(t *testing.T) {
	// Missing privileged-scope answer makes the signal unknown-ish.
	got := newTestEngine(t,
		answer(techSheet, "B3.2", "Yes"),
		answer(techSheet, "C1.1", "Yes"),
	).Infer(nil)

	if !hasTag(got.Tags, TagAdminKeyCentralisation) {
		t.Fatalf("expected admin_key_centralisation_risk, got %v", got.Tags)
	}
	ev := got.Evidence[TagAdminKeyCentralisation]
	if len(ev) == 0 {
		t.Fatal("expected evidence for admin_key_centralisation_risk")
	}
	for _, e := range ev {
		if e.Note == "" {
			t.Error("admin key evidence should carry the rule note")
		}
	}
}

func TestInferUpgradeabilityAndTimelock(t *testing.T) {
	got := newTestEngine(t,
		answer(techSheet, "A4.3", "Yes - proxy upgradeable"),
		answer(techSheet, "C3.1", "No"),
	).Infer(nil)

	if !hasTag(got.Tags, TagUpgradeability) {
		t.Errorf("expected upgradeability_risk, got %v", got.Tags)
	}
	if !hasTag(got.Tags, TagTimelockAbsence) {
		t.Errorf("expected timelock_absence_risk, got %v", got.Tags)
	}

	// Immutable contracts fire neither.
	got = newTestEngine(t,
		answer(techSheet, "A4.3", "No - contracts are immutable"),
		answer(techSheet, "C3.1", "No"),
	).Infer(nil)
	if hasTag(got.Tags, TagUpgradeability) || hasTag(got.Tags, TagTimelockAbsence) {
		t.Errorf("immutable contracts should not fire upgrade tags, got %v", got.Tags)
	}
}

func TestInferOracleDependency(t *testing.T) {
	got := newTestEngine(t, append(fullControlRows()[:4],
		answer(techSheet, "A4.2", "Partial - mixed Chainlink and custom oracle design"),
	)...).Infer(nil)

	for _, want := range []string{TagOracleDependency, TagDefiLiquidationMechanism, TagComplexProtocolDesign} {
		if !hasTag(got.Tags, want) {
			t.Errorf("expected %s, got %v", want, got.Tags)
		}
	}

	// An explicit "no oracle" answer is not a dependency.
	got = newTestEngine(t, fullControlRows()...).Infer(nil)
	if hasTag(got.Tags, TagOracleDependency) {
		t.Errorf("no-oracle answer should not fire oracle_dependency_risk, got %v", got.Tags)
	}
}

func TestInferSmartContractByTokenType(t *testing.T) {
	engine := newTestEngine(t,
		answer(techSheet, "A1.1", "Yes - all core contracts audited"),
		answer(techSheet, "A1.3", "Within last 12 months"),
	)

	got := engine.Infer(&models.TokenCategory{Primary: "DeFi Protocol Token"})
	if !hasTag(got.Tags, TagSmartContract) {
		t.Fatalf("defi token should carry smart_contract_risk, got %v", got.Tags)
	}
	// Type-driven rule has no direct signal; evidence is backfilled from audits.
	if len(got.Evidence[TagSmartContract]) != 2 {
		t.Errorf("expected 2 backfilled audit evidence entries, got %d", len(got.Evidence[TagSmartContract]))
	}

	got = engine.Infer(&models.TokenCategory{Primary: "Native L1 Token"})
	if hasTag(got.Tags, TagSmartContract) {
		t.Errorf("native L1 should not carry smart_contract_risk, got %v", got.Tags)
	}
}

func TestInferUnlockRules(t *testing.T) {
	got := newTestEngine(t, append(fullControlRows(),
		answer(fundamentals, "E2.4", "No"),
		answer(fundamentals, "E3.3", "No"),
	)...).Infer(nil)

	if !hasTag(got.Tags, TagUnlockScheduleUncertainty) {
		t.Errorf("expected unlock_schedule_uncertainty_risk, got %v", got.Tags)
	}
	if !hasTag(got.Tags, TagInsiderUnlocks) {
		t.Errorf("expected insider_unlocks_risk, got %v", got.Tags)
	}
}

func TestInferPoorDisclosureAccumulatesEvidence(t *testing.T) {
	// Two unknown-ish control signals plus a negative narrative cue: the tag
	// fires from two independent rules and evidence accumulates under one ID.
	got := newTestEngine(t,
		answer(techSheet, "B3.1", "Unknown"),
		answer(techSheet, "B3.2", "Not disclosed"),
		&models.AnswerRow{
			Sheet:       techSheet,
			QuestionID:  "C1.1",
			RawResponse: "Yes",
			Confidence:  "High",
			Narrative:   "Roles listed but scope cannot confirm coverage of mint authority.",
		},
	).Infer(nil)

	if !hasTag(got.Tags, TagPoorDisclosureQuality) {
		t.Fatalf("expected poor_disclosure_quality_risk, got %v", got.Tags)
	}
	if len(got.Evidence[TagPoorDisclosureQuality]) == 0 {
		t.Error("expected narrative-cue evidence for poor_disclosure_quality_risk")
	}
	if count := countTag(got.Tags, TagPoorDisclosureQuality); count != 1 {
		t.Errorf("tag emitted %d times, want deduplicated to 1", count)
	}
}

func TestInferSanctionsRules(t *testing.T) {
	got := newTestEngine(t, append(fullControlRows(),
		answer(amlSheet, "B1.1", "Yes - historical interaction with designated mixer"),
		answer(amlSheet, "B1.2", "Partial"),
		answer(amlSheet, "B2.1", "High volume via high-risk jurisdictions"),
		answer(amlSheet, "B2.3", "Material structural exposure via bridges"),
		answer(amlSheet, "D1.2", "Partial"),
	)...).Infer(nil)

	for _, want := range []string{
		TagSanctionsDesignated,
		TagSanctionsEnforcementWatch,
		TagSanctionsExposure,
		TagSanctionsScreening,
	} {
		if !hasTag(got.Tags, want) {
			t.Errorf("expected %s, got %v", want, got.Tags)
		}
	}

	// Both the geo-volume and structural rules contribute exposure evidence.
	if len(got.Evidence[TagSanctionsExposure]) < 2 {
		t.Errorf("expected accumulated sanctions_exposure evidence, got %d entries",
			len(got.Evidence[TagSanctionsExposure]))
	}
}

func TestInferDeterministic(t *testing.T) {
	rows := append(fullControlRows(),
		answer(fundamentals, "E2.1", "22"),
		answer(fundamentals, "E2.2", "18"),
		answer(fundamentals, "E2.3", "30"),
		answer(amlSheet, "D1.2", "Unknown"),
	)
	cat := &models.TokenCategory{Primary: "Governance Token", Secondary: "Utility"}

	first := newTestEngine(t, rows...).Infer(cat)
	second := newTestEngine(t, rows...).Infer(cat)

	if len(first.Tags) != len(second.Tags) {
		t.Fatalf("runs disagree: %v vs %v", first.Tags, second.Tags)
	}
	for i := range first.Tags {
		if first.Tags[i] != second.Tags[i] {
			t.Fatalf("runs disagree at %d: %v vs %v", i, first.Tags, second.Tags)
		}
	}
	if !sort.StringsAreSorted(first.Tags) {
		t.Errorf("tags not sorted: %v", first.Tags)
	}
	if first.TokenType.Type != TokenTypeGovUtility {
		t.Errorf("token type = %q, want %q", first.TokenType.Type, TokenTypeGovUtility)
	}
}

func countTag(tags []string, id string) int {
	n := 0
	for _, t := range tags {
		if t == id {
			n++
		}
	}
	return n
}
