package models

// TokenMeta is the operator-supplied identity of the asset under assessment.
// Optional provider IDs pin the external metadata lookup to an exact listing
// instead of relying on name/ticker matching.
type TokenMeta struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	TokenType   string `json:"token_type,omitempty"`
	CoinGeckoID string `json:"coingecko_id,omitempty"`
	CMCID       string `json:"cmc_id,omitempty"`
	CMCSlug     string `json:"cmc_slug,omitempty"`
}

// MarketFacts is the compact market subset shown on the fact sheet.
type MarketFacts struct {
	MarketCapRank     int      `json:"market_cap_rank,omitempty"`
	MarketCapUSD      float64  `json:"market_cap_usd,omitempty"`
	Volume24hUSD      float64  `json:"volume_24h_usd,omitempty"`
	CirculatingSupply float64  `json:"circulating_supply,omitempty"`
	TotalSupply       float64  `json:"total_supply,omitempty"`
	MaxSupply         *float64 `json:"max_supply,omitempty"`
	LastUpdated       string   `json:"last_updated,omitempty"`
}

// ExternalTokenMetadata is the provider-neutral enrichment record. Lookups
// are best-effort; a failed or disabled lookup still yields a record with
// Enabled/Error set so the report can show provenance.
type ExternalTokenMetadata struct {
	Provider     string      `json:"provider"`
	Enabled      bool        `json:"enabled"`
	ResolvedID   string      `json:"resolved_id,omitempty"`
	ResolvedNote string      `json:"resolved_note,omitempty"`
	FetchedAt    string      `json:"fetched_at_utc,omitempty"`
	Name         string      `json:"name,omitempty"`
	Symbol       string      `json:"symbol,omitempty"`
	Categories   []string    `json:"categories,omitempty"`
	Description  string      `json:"description,omitempty"`
	LogoURL      string      `json:"logo_url,omitempty"`
	Website      string      `json:"website,omitempty"`
	Whitepaper   string      `json:"whitepaper,omitempty"`
	Explorers    []string    `json:"explorers,omitempty"`
	Repos        []string    `json:"repos,omitempty"`
	Chains       []string    `json:"chains,omitempty"`
	Market       MarketFacts `json:"market,omitempty"`
	Error        string      `json:"error,omitempty"`
}
