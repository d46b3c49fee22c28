// Package risk provides the deterministic risk-tag inference engine: a fixed
// battery of condition checks over resolved DDQ signals, producing auditable,
// evidence-bearing risk tags.
package risk

import (
	"strings"

	"github.com/ternarybob/censeo/internal/models"
)

// TokenType is the canonical internal token classification.
type TokenType string

const (
	TokenTypeStablecoinFiat TokenType = "stablecoin_fiat"
	TokenTypeStablecoinAlgo TokenType = "stablecoin_algorithmic"
	TokenTypeWrapped        TokenType = "wrapped"
	TokenTypeSecurity       TokenType = "security_token"
	TokenTypeMemecoin       TokenType = "memecoin"
	TokenTypeDefi           TokenType = "defi"
	TokenTypeNativeL1       TokenType = "native_l1"
	TokenTypeNativeL2       TokenType = "native_l2"
	TokenTypeGovernance     TokenType = "governance"
	TokenTypeUtility        TokenType = "utility"
	TokenTypeGovUtility     TokenType = "governance_utility"
	TokenTypeOther          TokenType = "other"
)

// TokenClassification is the token-type result with its provenance.
type TokenClassification struct {
	Type       TokenType `json:"token_type"`
	Primary    string    `json:"primary,omitempty"`
	Secondary  string    `json:"secondary,omitempty"`
	Confidence string    `json:"confidence,omitempty"`
	Rationale  string    `json:"rationale"`
}

// ClassifyTokenType maps the DDQ A1.1 primary/secondary category pair onto
// the canonical token type. The cascade is a fixed priority order of
// case-insensitive substring checks; the first match wins.
func ClassifyTokenType(category *models.TokenCategory) TokenClassification {
	if category == nil {
		return TokenClassification{
			Type:      TokenTypeOther,
			Rationale: "No A1.1 token category found in DDQ; defaulted to 'other'.",
		}
	}

	primary := strings.TrimSpace(category.Primary)
	secondary := strings.TrimSpace(category.Secondary)
	p := strings.ToLower(primary)
	s := strings.ToLower(secondary)

	has := func(txt string, needles ...string) bool {
		for _, n := range needles {
			if strings.Contains(txt, n) {
				return true
			}
		}
		return false
	}
	either := func(needles ...string) bool {
		return has(p, needles...) || has(s, needles...)
	}

	result := func(t TokenType, rationale string) TokenClassification {
		return TokenClassification{
			Type:       t,
			Primary:    primary,
			Secondary:  secondary,
			Confidence: category.Confidence,
			Rationale:  rationale,
		}
	}

	switch {
	case either("stablecoin"):
		if either("algorithm", "algo") {
			return result(TokenTypeStablecoinAlgo, "DDQ category indicates a stablecoin with algorithmic characteristics.")
		}
		return result(TokenTypeStablecoinFiat, "DDQ category indicates a reserve/fiat-backed stablecoin (default stablecoin mapping).")
	case either("wrapped"):
		return result(TokenTypeWrapped, "DDQ category indicates a wrapped token.")
	case either("security", "tokenised"):
		return result(TokenTypeSecurity, "DDQ category indicates a security/tokenised asset.")
	case either("meme"):
		return result(TokenTypeMemecoin, "DDQ category indicates a memecoin.")
	case either("defi"):
		return result(TokenTypeDefi, "DDQ category indicates a DeFi protocol token.")
	case has(p, "native") && has(p, "l1", "layer 1", "layer-1"):
		return result(TokenTypeNativeL1, "DDQ category indicates a native Layer-1 network token.")
	case has(p, "native") && has(p, "l2", "layer 2", "layer-2"):
		return result(TokenTypeNativeL2, "DDQ category indicates a native Layer-2 network token.")
	case has(p, "govern") && (has(s, "utility") || has(p, "utility")):
		return result(TokenTypeGovUtility, "DDQ category indicates combined governance + utility role.")
	case has(p, "govern"):
		return result(TokenTypeGovernance, "DDQ category indicates a governance token role.")
	case has(p, "utility"):
		return result(TokenTypeUtility, "DDQ category indicates a utility token role.")
	default:
		return result(TokenTypeOther, "DDQ category did not match known mappings; defaulted to 'other'.")
	}
}

// HumanTokenTypeLabel returns the report display label for a token type.
func HumanTokenTypeLabel(t TokenType) string {
	switch t {
	case TokenTypeNativeL1:
		return "Native Layer-1 network token"
	case TokenTypeNativeL2:
		return "Native Layer-2 network token"
	case TokenTypeDefi:
		return "DeFi protocol token"
	case TokenTypeMemecoin:
		return "Memecoin"
	case TokenTypeStablecoinFiat:
		return "Stablecoin (reserve/fiat-backed)"
	case TokenTypeStablecoinAlgo:
		return "Stablecoin (algorithmic)"
	case TokenTypeWrapped:
		return "Wrapped token"
	case TokenTypeSecurity:
		return "Security / tokenised asset"
	case TokenTypeGovernance:
		return "Governance token"
	case TokenTypeUtility:
		return "Utility token"
	case TokenTypeGovUtility:
		return "Governance & utility token"
	case TokenTypeOther:
		return "Other / unclassified"
	default:
		return string(t)
	}
}
