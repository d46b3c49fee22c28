package risk

import (
	"sort"
	"strings"

	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/signals"
)

// Engine runs the deterministic tag battery over resolved DDQ signals.
// Same workbook in, same tags out. Every emitted tag carries the signal
// answers that made its rule fire so reports can show a DDQ evidence trail.
type Engine struct {
	resolver *signals.Resolver
}

// Inference is the paired result of a tag run: the deduplicated, sorted tag
// IDs, the per-tag evidence trail, and the derived token classification.
type Inference struct {
	Tags      []string
	Evidence  map[string][]models.TagEvidence
	TokenType TokenClassification
}

func NewEngine(resolver *signals.Resolver) *Engine {
	return &Engine{resolver: resolver}
}

// evidenceHints names the signals that justify a tag when its rule fired
// without capturing direct evidence (type-driven rules like smart_contract).
var evidenceHints = map[string][]string{
	TagSmartContract: {"audit_coverage", "audit_recency"},
}

// Infer evaluates the full rule battery. Rules are independent; several may
// emit the same tag, in which case the evidence accumulates under one ID.
func (e *Engine) Infer(category *models.TokenCategory) Inference {
	out := Inference{
		Evidence:  make(map[string][]models.TagEvidence),
		TokenType: ClassifyTokenType(category),
	}
	seen := make(map[string]struct{})

	add := func(tag string, note string, answers ...*models.SignalAnswer) {
		seen[tag] = struct{}{}
		for _, a := range answers {
			if a == nil {
				continue
			}
			out.Evidence[tag] = append(out.Evidence[tag], models.EvidenceFromSignal(a, note))
		}
	}

	privilegedScope := e.resolver.Resolve("privileged_functions_scope")
	pauseControls := e.resolver.Resolve("emergency_pause_controls")
	privilegedDisclosure := e.resolver.Resolve("privileged_roles_disclosure")
	timelock := e.resolver.Resolve("timelock_present")
	upgradeability := e.resolver.Resolve("upgradeability_profile")
	oracle := e.resolver.Resolve("oracle_reliability")

	liquidityConc := e.resolver.Resolve("liquidity_concentration")
	exitFeasibility := e.resolver.Resolve("exit_feasibility")
	washFlags := e.resolver.Resolve("wash_trading_flags")

	teamAlloc := e.resolver.Resolve("team_allocation_pct")
	investorAlloc := e.resolver.Resolve("investor_allocation_pct")
	treasuryAlloc := e.resolver.Resolve("treasury_allocation_pct")
	unlockDisclosed := e.resolver.Resolve("unlock_schedule_disclosed")
	unlockNext6 := e.resolver.Resolve("unlock_next_6m_pct")
	unlockMilestone := e.resolver.Resolve("unlocks_milestone_link")

	govWhitepaper := e.resolver.Resolve("governance_described_in_whitepaper")
	govDisputes := e.resolver.Resolve("prior_governance_disputes")

	sancDesignated := e.resolver.Resolve("sanctions_designated_wallets")
	sancEnforcement := e.resolver.Resolve("sanctions_enforcement_actions")
	sancGeoVolume := e.resolver.Resolve("sanctions_high_risk_geo_volume")
	sancStructural := e.resolver.Resolve("sanctions_structural_exposure")
	sancScreening := e.resolver.Resolve("sanctions_screening_controls")

	// Governance and control.

	if signals.IsUnknownish(privilegedScope) ||
		signals.IsUnknownish(privilegedDisclosure) ||
		signals.IsUnknownish(pauseControls) ||
		(privilegedDisclosure != nil && privilegedDisclosure.Bucket == models.BucketPartial) {
		add(TagAdminKeyCentralisation,
			"Privileged controls exist but scope/disclosure/controls are incomplete or unclear.",
			privilegedScope, privilegedDisclosure, pauseControls)
	}

	if upgradeability != nil && bucketIn(upgradeability, models.BucketYes, models.BucketPartial, models.BucketOther) {
		add(TagUpgradeability, "Contracts appear upgradeable (even if limited).", upgradeability, timelock)
		if timelock != nil && bucketIn(timelock, models.BucketNo, models.BucketUnknown, models.BucketPartial) {
			add(TagTimelockAbsence, "Upgrade/parameter changes may not be adequately timelocked.", timelock)
		}
	}

	if govDisputes != nil && govDisputes.Bucket == models.BucketYes {
		add(TagGovernanceDisputeHistory, "", govDisputes)
	}

	// Technical and protocol.

	switch out.TokenType.Type {
	case TokenTypeDefi, TokenTypeGovernance, TokenTypeGovUtility, TokenTypeUtility:
		add(TagSmartContract, "")
	}

	if oracle != nil && oracle.Bucket != models.BucketNA {
		low := strings.ToLower(oracle.RawResponse)
		if !strings.Contains(low, "no oracle") && !strings.Contains(low, "not oracle") {
			add(TagOracleDependency, "", oracle)
			if bucketIn(oracle, models.BucketPartial, models.BucketUnknown) {
				add(TagDefiLiquidationMechanism, "Oracle design/reliability may affect liquidations.", oracle)
			}
		}
	}

	if (oracle != nil && containsAny(oracle.RawResponse, "mixed", "custom", "multi", "oracle-agnostic")) ||
		(signals.IsUnknownish(privilegedScope) && signals.IsUnknownish(pauseControls)) {
		add(TagComplexProtocolDesign, "", oracle, privilegedScope, pauseControls)
	}

	// Market integrity and liquidity.

	if liquidityConc != nil && containsAny(liquidityConc.RawResponse, "concentrated", "few") {
		add(TagLiquidityConcentration, "", liquidityConc)
	}

	if exitFeasibility != nil && containsAny(exitFeasibility.RawResponse, "significant care", "difficult", "limited") {
		add(TagLowLiquidity, "", exitFeasibility)
	}

	if washFlags != nil {
		low := strings.ToLower(washFlags.RawResponse)
		if containsAny(low, "significant", "concern", "flags", "elevated") && !strings.Contains(low, "no significant") {
			add(TagWashTrading, "", washFlags)
		}
	}

	// Tokenomics and supply overhang.

	team := pct(teamAlloc)
	investors := pct(investorAlloc)
	treasury := pct(treasuryAlloc)

	if treasury >= 25 {
		add(TagTreasuryConcentration,
			"Large treasury/foundation allocation suggests concentration risk.", treasuryAlloc)
	}

	if team+investors+treasury >= 60 || maxOf(team, investors, treasury) >= 35 {
		add(TagTokenomicsConcentration,
			"Large insider/treasury allocations may increase concentration and supply overhang risk.",
			teamAlloc, investorAlloc, treasuryAlloc)
	}

	if unlockDisclosed != nil && bucketIn(unlockDisclosed, models.BucketNo, models.BucketUnknown) {
		add(TagUnlockScheduleUncertainty, "", unlockDisclosed)
	}
	if unlockNext6 != nil && unlockNext6.Bucket == models.BucketUnknown {
		add(TagUnlockScheduleUncertainty, "Near-term unlock percentage is unclear.", unlockNext6)
	}
	if unlockMilestone != nil && unlockMilestone.Bucket == models.BucketNo {
		add(TagInsiderUnlocks, "Unlocks are not tied to adoption milestones.", unlockMilestone)
	}

	// Disclosure and transparency.

	if govWhitepaper != nil && govWhitepaper.Bucket == models.BucketNo {
		add(TagGovernanceDocGaps, "", govWhitepaper)
	}

	unknownCount := 0
	for _, a := range []*models.SignalAnswer{privilegedScope, pauseControls, privilegedDisclosure, oracle, unlockNext6} {
		if signals.IsUnknownish(a) {
			unknownCount++
		}
	}
	if unknownCount >= 2 {
		add(TagPoorDisclosureQuality, "Multiple key DDQ controls/metrics are unknown or unclear.")
	}

	for _, a := range []*models.SignalAnswer{privilegedScope, pauseControls, privilegedDisclosure, oracle} {
		if a != nil && signals.HasNegativeCues(a.Narrative) {
			add(TagPoorDisclosureQuality, "", a)
		}
	}

	// Sanctions and financial crime.

	if sancDesignated != nil && bucketIn(sancDesignated, models.BucketYes, models.BucketPartial) {
		add(TagSanctionsDesignated,
			"Token/project has been linked to designated wallets/entities.", sancDesignated)
	}

	if sancEnforcement != nil && bucketIn(sancEnforcement, models.BucketYes, models.BucketPartial) {
		add(TagSanctionsEnforcementWatch,
			"Public enforcement / regulatory actions referencing sanctions risk.", sancEnforcement)
	}

	if sancStructural != nil {
		if containsAny(sancStructural.RawResponse, "high", "structural", "material") ||
			bucketIn(sancStructural, models.BucketYes, models.BucketPartial, models.BucketUnknown) {
			add(TagSanctionsExposure,
				"DDQ indicates structural sanctions / high-risk ecosystem exposure.", sancStructural)
		}
	}

	if sancGeoVolume != nil {
		if containsAny(sancGeoVolume.RawResponse, "high", "material", "meaningful", "unknown") ||
			bucketIn(sancGeoVolume, models.BucketPartial, models.BucketUnknown) {
			add(TagSanctionsExposure,
				"DDQ indicates non-trivial or uncertain exposure to high-risk jurisdictions.", sancGeoVolume)
		}
	}

	if sancScreening != nil && bucketIn(sancScreening, models.BucketNo, models.BucketPartial, models.BucketUnknown) {
		add(TagSanctionsScreening,
			"Sanctions screening controls appear partial/unclear or absent.", sancScreening)
	}

	e.backfillEvidence(seen, out.Evidence)

	out.Tags = make([]string, 0, len(seen))
	for tag := range seen {
		out.Tags = append(out.Tags, tag)
	}
	sort.Strings(out.Tags)
	return out
}

// backfillEvidence attaches hint-signal answers to fired tags that have no
// direct evidence, so the report's evidence trail is never empty for them.
func (e *Engine) backfillEvidence(seen map[string]struct{}, evidence map[string][]models.TagEvidence) {
	for tag, hints := range evidenceHints {
		if _, fired := seen[tag]; !fired {
			continue
		}
		if len(evidence[tag]) > 0 {
			continue
		}
		for _, name := range hints {
			if ans := e.resolver.Resolve(name); ans != nil {
				evidence[tag] = append(evidence[tag], models.EvidenceFromSignal(ans, ""))
			}
		}
	}
}

func bucketIn(ans *models.SignalAnswer, buckets ...models.ResponseBucket) bool {
	for _, b := range buckets {
		if ans.Bucket == b {
			return true
		}
	}
	return false
}

func containsAny(text string, needles ...string) bool {
	low := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(low, n) {
			return true
		}
	}
	return false
}

func pct(ans *models.SignalAnswer) float64 {
	if ans == nil {
		return 0
	}
	return ans.NumericOrZero()
}

func maxOf(values ...float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
