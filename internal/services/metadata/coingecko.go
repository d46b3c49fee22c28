// Package metadata enriches token fact sheets with best-effort external
// metadata from CoinGecko or CoinMarketCap, cached between runs.
package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/httpclient"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/models"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"

	// The coins list is large and changes slowly; cache it for a week.
	coinsListCacheKey = "coingecko:coins_list"
	coinsListCacheTTL = 7 * 24 * time.Hour
)

type geckoCoin struct {
	ID        string            `json:"id"`
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Platforms map[string]string `json:"platforms"`
}

type geckoCoinDetail struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Symbol      string              `json:"symbol"`
	Categories  []string            `json:"categories"`
	Description map[string]string   `json:"description"`
	Platforms   map[string]string   `json:"platforms"`
	Image       map[string]string   `json:"image"`
	Links       geckoLinks          `json:"links"`
	MarketData  geckoMarketData     `json:"market_data"`
	MarketRank  int                 `json:"market_cap_rank"`
}

type geckoLinks struct {
	Homepage       []string            `json:"homepage"`
	Whitepaper     string              `json:"whitepaper"`
	BlockchainSite []string            `json:"blockchain_site"`
	ReposURL       map[string][]string `json:"repos_url"`
}

type geckoMarketData struct {
	MarketCap         map[string]float64 `json:"market_cap"`
	TotalVolume       map[string]float64 `json:"total_volume"`
	CirculatingSupply float64            `json:"circulating_supply"`
	TotalSupply       float64            `json:"total_supply"`
	MaxSupply         *float64           `json:"max_supply"`
	LastUpdated       string             `json:"last_updated"`
}

// CoinGeckoService implements interfaces.MetadataService via the CoinGecko
// demo API.
type CoinGeckoService struct {
	apiKey string
	client httpGetter
	cache  interfaces.CacheService
	logger arbor.ILogger
	now    func() time.Time
}

// httpGetter abstracts the HTTP fetch so tests can stub provider responses.
type httpGetter func(ctx context.Context, url string, headers map[string]string, dest interface{}) error

var _ interfaces.MetadataService = (*CoinGeckoService)(nil)

func NewCoinGeckoService(apiKey string, cacheSvc interfaces.CacheService) *CoinGeckoService {
	client := httpclient.NewDefaultHTTPClient(20 * time.Second)
	return &CoinGeckoService{
		apiKey: apiKey,
		client: func(ctx context.Context, url string, headers map[string]string, dest interface{}) error {
			return httpclient.GetJSON(ctx, client, url, headers, dest)
		},
		cache:  cacheSvc,
		logger: common.GetLogger(),
		now:    time.Now,
	}
}

func (s *CoinGeckoService) headers() map[string]string {
	return map[string]string{"x-cg-demo-api-key": s.apiKey}
}

// Fetch resolves the asset to a CoinGecko coin ID and returns the compact
// metadata subset the fact sheet renders.
func (s *CoinGeckoService) Fetch(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error) {
	out := &models.ExternalTokenMetadata{Provider: "coingecko", Enabled: true}

	coinID, note, err := s.resolveCoinID(ctx, meta)
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	if coinID == "" {
		out.ResolvedNote = note
		out.Error = "could not resolve CoinGecko coin ID"
		return out, nil
	}

	var detail geckoCoinDetail
	detailURL := fmt.Sprintf("%s/coins/%s", coingeckoBaseURL, url.PathEscape(coinID))
	if err := s.client(ctx, detailURL, s.headers(), &detail); err != nil {
		out.ResolvedID = coinID
		out.ResolvedNote = note
		out.Error = err.Error()
		return out, nil
	}

	desc := strings.TrimSpace(detail.Description["en"])
	if runes := []rune(desc); len(runes) > 600 {
		desc = string(runes[:597]) + "..."
	}

	var chains []string
	for chain, addr := range detail.Platforms {
		if strings.TrimSpace(addr) != "" {
			chains = append(chains, chain)
		}
	}

	var homepage string
	if len(detail.Links.Homepage) > 0 {
		homepage = detail.Links.Homepage[0]
	}
	var repos []string
	for _, urls := range detail.Links.ReposURL {
		repos = append(repos, urls...)
	}

	out.ResolvedID = coinID
	out.ResolvedNote = note
	out.FetchedAt = s.now().UTC().Format(time.RFC3339)
	out.Name = detail.Name
	out.Symbol = detail.Symbol
	out.Categories = detail.Categories
	out.Description = desc
	out.LogoURL = firstNonEmpty(detail.Image["large"], detail.Image["small"], detail.Image["thumb"])
	out.Website = homepage
	out.Whitepaper = detail.Links.Whitepaper
	out.Explorers = compact(detail.Links.BlockchainSite)
	out.Repos = repos
	out.Chains = chains
	out.Market = models.MarketFacts{
		MarketCapRank:     detail.MarketRank,
		MarketCapUSD:      detail.MarketData.MarketCap["usd"],
		Volume24hUSD:      detail.MarketData.TotalVolume["usd"],
		CirculatingSupply: detail.MarketData.CirculatingSupply,
		TotalSupply:       detail.MarketData.TotalSupply,
		MaxSupply:         detail.MarketData.MaxSupply,
		LastUpdated:       detail.MarketData.LastUpdated,
	}
	return out, nil
}

// resolveCoinID maps name/ticker onto a coin ID via the cached coins list.
// An explicit coingecko_id in the token meta short-circuits the matching.
func (s *CoinGeckoService) resolveCoinID(ctx context.Context, meta models.TokenMeta) (string, string, error) {
	if id := strings.TrimSpace(meta.CoinGeckoID); id != "" {
		return id, "explicit coingecko_id provided", nil
	}

	ticker := strings.ToLower(strings.TrimSpace(meta.Ticker))
	name := strings.ToLower(strings.TrimSpace(meta.Name))
	if ticker == "" && name == "" {
		return "", "no name/ticker to resolve", nil
	}

	coins, err := s.coinsList(ctx)
	if err != nil {
		return "", "", err
	}

	var candidates []geckoCoin
	for _, c := range coins {
		if ticker != "" && strings.ToLower(c.Symbol) != ticker {
			continue
		}
		if name != "" && strings.ToLower(c.Name) == name {
			return c.ID, "exact name+symbol match", nil
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		for _, c := range coins {
			if name != "" && strings.ToLower(c.Name) == name {
				return c.ID, "exact name match (symbol mismatch)", nil
			}
		}
		return "", "no match in coins/list", nil
	}

	if name != "" {
		for _, c := range candidates {
			cn := strings.ToLower(c.Name)
			if strings.Contains(cn, name) || strings.Contains(name, cn) {
				return c.ID, "fuzzy name match among same-symbol candidates", nil
			}
		}
	}
	return candidates[0].ID, "symbol-only match (ambiguous)", nil
}

func (s *CoinGeckoService) coinsList(ctx context.Context) ([]geckoCoin, error) {
	var coins []geckoCoin
	if s.cache != nil {
		if hit, err := s.cache.Get(coinsListCacheKey, &coins); err == nil && hit {
			return coins, nil
		}
	}

	listURL := coingeckoBaseURL + "/coins/list?include_platform=true"
	if err := s.client(ctx, listURL, s.headers(), &coins); err != nil {
		return nil, fmt.Errorf("coins/list fetch failed: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(coinsListCacheKey, coins, coinsListCacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache CoinGecko coins list")
		}
	}
	return coins, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
