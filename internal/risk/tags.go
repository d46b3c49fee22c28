package risk

import "strings"

// Canonical risk-tag identifiers produced by the inference engine. The IDs are
// stable: downstream rule catalogues and report templates key on them.
const (
	TagAdminKeyCentralisation    = "admin_key_centralisation_risk"
	TagUpgradeability            = "upgradeability_risk"
	TagTimelockAbsence           = "timelock_absence_risk"
	TagGovernanceDisputeHistory  = "governance_dispute_history_risk"
	TagGovernanceDocGaps         = "governance_documentation_gaps_risk"
	TagGovTokenConcentration     = "gov_token_governance_concentration_risk"
	TagSmartContract             = "smart_contract_risk"
	TagOracleDependency          = "oracle_dependency_risk"
	TagDefiLiquidationMechanism  = "defi_liquidation_mechanism_risk"
	TagComplexProtocolDesign     = "complex_protocol_design_risk"
	TagLiquidityConcentration    = "liquidity_concentration_risk"
	TagLowLiquidity              = "low_liquidity_risk"
	TagWashTrading               = "wash_trading_risk"
	TagTreasuryConcentration     = "treasury_concentration_risk"
	TagTokenomicsConcentration   = "tokenomics_concentration_risk"
	TagUnlockScheduleUncertainty = "unlock_schedule_uncertainty_risk"
	TagInsiderUnlocks            = "insider_unlocks_risk"
	TagPoorDisclosureQuality     = "poor_disclosure_quality_risk"
	TagSanctionsDesignated       = "sanctions_designated_wallets_risk"
	TagSanctionsEnforcementWatch = "sanctions_enforcement_watch_risk"
	TagSanctionsExposure         = "sanctions_exposure_risk"
	TagSanctionsScreening        = "sanctions_screening_controls_risk"
	TagInfraCentralisation       = "infrastructure_centralisation_risk"
	TagBehavioural               = "behavioural_risk"
	TagMemecoinHypeDependency    = "memecoin_hype_dependency_risk"
	TagMemecoinNoUtility         = "memecoin_no_utility_risk"
	TagUnsustainableYield        = "unsustainable_yield_risk"
)

var tagLabels = map[string]string{
	TagAdminKeyCentralisation: "Admin keys / privileged access",
	TagUpgradeability:         "Upgradability / change control",
	TagSmartContract:          "Smart contract dependency",
	TagTreasuryConcentration:  "Treasury / reserve concentration",
	TagInfraCentralisation:    "Infrastructure centralisation",
	TagInsiderUnlocks:         "Insider unlocks / allocations",
	TagPoorDisclosureQuality:  "Disclosure quality concerns",
}

// TagLabel returns the human display label for a tag ID, falling back to the
// ID with underscores replaced by spaces.
func TagLabel(tagID string) string {
	if label, ok := tagLabels[tagID]; ok {
		return label
	}
	return strings.ReplaceAll(tagID, "_", " ")
}
