package models

// OverallBand is the asset-level risk band derived from weighted domain bands.
type OverallBand struct {
	Numeric int    `json:"numeric"` // 0-5, 0 = unknown
	Name    string `json:"name"`
}

// RiskDashboard is the top panel of the report snapshot.
type RiskDashboard struct {
	OverallBand      OverallBand        `json:"overall_band"`
	BandDistribution map[string]float64 `json:"band_distribution"` // band name -> weight share
	Domains          []DomainStats      `json:"domains"`
}

// DomainFinding carries the per-domain narrative section of the report.
// The shape is identical whether the narrative fields were produced by the
// rule-based builder or by the LLM provider.
type DomainFinding struct {
	DomainCode           string   `json:"domain_code"`
	DomainName           string   `json:"domain_name"`
	BandName             string   `json:"band_name"`
	BandNumeric          int      `json:"band_numeric"`
	AvgScore             float64  `json:"avg_score"`
	HasBoardEscalation   bool     `json:"has_board_escalation"`
	BoardEscalationCount int      `json:"board_escalation_count"`
	OneLine              string   `json:"one_line"`
	Strengths            []string `json:"strengths"`
	Risks                []string `json:"risks"`
	Watchpoints          []string `json:"watchpoints"`
}

// RiskMitigation pairs one identified risk with the control that addresses it.
type RiskMitigation struct {
	Risk       string `json:"risk"`
	Mitigation string `json:"mitigation"`
}

// NotableEscalation is a compact escalation reference for the summary page.
type NotableEscalation struct {
	Domain string `json:"domain"`
	Issue  string `json:"issue"`
}

// ExecutiveSummary is the board-facing summary section.
type ExecutiveSummary struct {
	HeadlineDecisionView string              `json:"headline_decision_view"`
	OverallPosture       string              `json:"overall_posture"`
	Narrative            string              `json:"one_paragraph_narrative"`
	KeyPositives         []string            `json:"key_positives"`
	RisksAndMitigations  []RiskMitigation    `json:"risks_and_mitigations"`
	NotableEscalations   []NotableEscalation `json:"notable_escalations"`
	OpenQuestions        []string            `json:"open_questions"`
	GeneratedAt          string              `json:"generated_at"`
	GeneratedBy          string              `json:"generated_by"` // "rules" or the LLM model name
}

// TagHighlight is one included risk tag with its display label and the
// refinement reason, if any.
type TagHighlight struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Reason string `json:"reason,omitempty"`
}

// ControlSignal marks whether a governance/control risk tag is present.
type ControlSignal struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Present bool   `json:"present"`
}

// FactSheetAsset is the identity block of the token fact sheet.
type FactSheetAsset struct {
	Name         string   `json:"name"`
	Ticker       string   `json:"ticker"`
	TokenType    string   `json:"token_type"`
	Description  string   `json:"description_short,omitempty"`
	PrimaryChain string   `json:"primary_chain,omitempty"`
	Chains       []string `json:"chains,omitempty"`
	Website      string   `json:"website,omitempty"`
	Whitepaper   string   `json:"whitepaper,omitempty"`
	LogoURL      string   `json:"logo_url,omitempty"`
}

// FactSheetClassification summarises the listing posture for the fact sheet.
type FactSheetClassification struct {
	ReportScope          string      `json:"report_scope"`
	OverallBand          OverallBand `json:"overall_band"`
	Posture              string      `json:"posture"`
	IsSpeculativeProfile bool        `json:"is_speculative_profile"`
	HasHardControlRisks  bool        `json:"has_hard_control_risks"`
	BoardEscalationCount int         `json:"board_escalations_count"`
}

// TokenFactSheet is the render-friendly "key facts" section.
type TokenFactSheet struct {
	Asset                  FactSheetAsset          `json:"asset"`
	Classification         FactSheetClassification `json:"classification"`
	TopRiskTags            []TagHighlight          `json:"top_risk_tags"`
	TopDomains             []DomainStats           `json:"top_domains"`
	ControlSignals         []ControlSignal         `json:"control_signals"`
	RequirementsSummary    []Requirement           `json:"listing_requirements_summary"`
	DisclosureQualityFlag  string                  `json:"disclosure_quality_flag"`
	ExternalMetadataSource string                  `json:"external_metadata_source,omitempty"`
}

// ReportSnapshot is the full materialised report payload consumed by the
// JSON/HTML/PDF renderers. Rebuilt fresh per report; never persisted.
type ReportSnapshot struct {
	ReportID            string                   `json:"report_id"`
	RiskDashboard       RiskDashboard            `json:"risk_dashboard"`
	BoardEscalations    []BoardEscalation        `json:"board_escalations"` // real triggers only
	DomainFindings      []DomainFinding          `json:"domain_findings"`
	RiskTags            []RefinedTag             `json:"risk_tags"`
	TagEvidence         map[string][]TagEvidence `json:"tag_evidence"`
	ListingRequirements []Requirement            `json:"listing_requirements"`
	TokenFactSheet      TokenFactSheet           `json:"token_fact_sheet"`
	ExecutiveSummary    ExecutiveSummary         `json:"executive_summary"`
}
