package discoveryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	discoverydomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/domain"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"golang.org/x/oauth2"
)

const (
	rateLimitCode    = 1
	rateLimitMessage = "operateTooMuch"
)

// ErrListDropped indica que uma listagem continuou limitada após todas as tentativas
var ErrListDropped = errors.New("discovery: listing dropped after rate limit retries")

// AssetListing separa os anúncios obtidos das campanhas cuja lista não veio
type AssetListing struct {
	Assets   []domain.RemoteAsset
	Unlisted []string
}

type Client interface {
	Authenticate(ctx context.Context, secret string) (*oauth2.Token, error)
	ListCampaigns(ctx context.Context, token *oauth2.Token) ([]domain.RemoteCampaign, error)
	ListAssets(ctx context.Context, token *oauth2.Token, campaignIDs []string) (AssetListing, error)
	FetchReports(ctx context.Context, token *oauth2.Token, assets []domain.RemoteAsset, dr domain.DateRange) ([]ReportResult, error)
}

type DiscoveryClient struct {
	fetcher   *fetcher.Fetcher
	auth      *AuthResolver
	baseURL   string
	country   string
	batchSize int
}

func NewClient(cfg config.Discovery, f *fetcher.Fetcher) Client {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	return &DiscoveryClient{
		fetcher:   f,
		auth:      NewAuthResolver(cfg, f),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		country:   cfg.Country,
		batchSize: batchSize,
	}
}

// NewFetcher monta o fetcher com a assinatura de limite da plataforma
func NewFetcher(cfg config.Discovery, timeout time.Duration) *fetcher.Fetcher {
	return fetcher.New(
		fetcher.NewHTTPBatchDoer(timeout),
		IsRateLimited,
		fetcher.WithMaxAttempts(cfg.MaxAttempts),
	)
}

func (c *DiscoveryClient) Authenticate(ctx context.Context, secret string) (*oauth2.Token, error) {
	return c.auth.Resolve(ctx, secret)
}

// IsRateLimited reconhece a resposta {"code":1,"msg":"...operateTooMuch..."}
func IsRateLimited(resp fetcher.Response) bool {
	var envelope struct {
		Code discoverydomain.FlexInt `json:"code"`
		Msg  string                  `json:"msg"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return false
	}
	return envelope.Code == rateLimitCode && strings.Contains(envelope.Msg, rateLimitMessage)
}

func bearerHeader(token *oauth2.Token) http.Header {
	req := &http.Request{Header: make(http.Header)}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	return req.Header
}
