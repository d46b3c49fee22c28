package metadata

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/httpclient"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/models"
)

const cmcInfoURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/info"

type cmcInfoResponse struct {
	Data map[string]cmcCoin `json:"data"`
}

type cmcCoin struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Logo        string       `json:"logo"`
	URLs        cmcCoinURLs  `json:"urls"`
	Tags        []string     `json:"tags"`
	Platform    *cmcPlatform `json:"platform"`
}

type cmcCoinURLs struct {
	Website      []string `json:"website"`
	TechnicalDoc []string `json:"technical_doc"`
	Explorer     []string `json:"explorer"`
	SourceCode   []string `json:"source_code"`
}

type cmcPlatform struct {
	Name string `json:"name"`
}

// CoinMarketCapService implements interfaces.MetadataService via the
// CoinMarketCap /cryptocurrency/info endpoint.
type CoinMarketCapService struct {
	apiKey string
	client httpGetter
	logger arbor.ILogger
	now    func() time.Time
}

var _ interfaces.MetadataService = (*CoinMarketCapService)(nil)

func NewCoinMarketCapService(apiKey string) *CoinMarketCapService {
	client := httpclient.NewDefaultHTTPClient(20 * time.Second)
	return &CoinMarketCapService{
		apiKey: apiKey,
		client: func(ctx context.Context, url string, headers map[string]string, dest interface{}) error {
			return httpclient.GetJSON(ctx, client, url, headers, dest)
		},
		logger: common.GetLogger(),
		now:    time.Now,
	}
}

func (s *CoinMarketCapService) Fetch(ctx context.Context, meta models.TokenMeta) (*models.ExternalTokenMetadata, error) {
	out := &models.ExternalTokenMetadata{Provider: "coinmarketcap", Enabled: true}

	// Prefer explicit IDs/slugs over symbol matching.
	params := url.Values{}
	switch {
	case strings.TrimSpace(meta.CMCID) != "":
		params.Set("id", strings.TrimSpace(meta.CMCID))
	case strings.TrimSpace(meta.CMCSlug) != "":
		params.Set("slug", strings.TrimSpace(meta.CMCSlug))
	case strings.TrimSpace(meta.Ticker) != "":
		params.Set("symbol", strings.TrimSpace(meta.Ticker))
	default:
		out.Error = "no cmc_id/cmc_slug/ticker available to query /cryptocurrency/info"
		return out, nil
	}

	var resp cmcInfoResponse
	headers := map[string]string{"X-CMC_PRO_API_KEY": s.apiKey}
	if err := s.client(ctx, cmcInfoURL+"?"+params.Encode(), headers, &resp); err != nil {
		out.Error = err.Error()
		return out, nil
	}

	var coin *cmcCoin
	for _, c := range resp.Data {
		coin = &c
		break
	}
	if coin == nil {
		out.FetchedAt = s.now().UTC().Format(time.RFC3339)
		out.Error = "no data returned from /cryptocurrency/info"
		return out, nil
	}

	desc := strings.TrimSpace(coin.Description)
	if runes := []rune(desc); len(runes) > 600 {
		desc = string(runes[:597]) + "..."
	}

	var website, whitepaper string
	if len(coin.URLs.Website) > 0 {
		website = coin.URLs.Website[0]
	}
	if len(coin.URLs.TechnicalDoc) > 0 {
		whitepaper = coin.URLs.TechnicalDoc[0]
	}

	var chains []string
	if coin.Platform != nil && coin.Platform.Name != "" {
		chains = append(chains, coin.Platform.Name)
	}

	out.ResolvedID = coin.Slug
	out.FetchedAt = s.now().UTC().Format(time.RFC3339)
	out.Name = coin.Name
	out.Symbol = coin.Symbol
	out.Categories = coin.Tags
	out.Description = desc
	out.LogoURL = coin.Logo
	out.Website = website
	out.Whitepaper = whitepaper
	out.Explorers = compact(coin.URLs.Explorer)
	out.Repos = compact(coin.URLs.SourceCode)
	out.Chains = chains
	return out, nil
}
