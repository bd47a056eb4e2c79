package discoveryclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	discoverydomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/domain"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"golang.org/x/oauth2"
)

func (c *DiscoveryClient) adListURL(campaignID string) string {
	return c.baseURL + "/ad/" + url.PathEscape(campaignID) + "/lists"
}

// ListAssets busca os anúncios de cada campanha, um pedido por campanha.
// Campanhas sem lista válida ao fim das tentativas voltam em Unlisted.
func (c *DiscoveryClient) ListAssets(ctx context.Context, token *oauth2.Token, campaignIDs []string) (AssetListing, error) {
	listing := AssetListing{Assets: make([]domain.RemoteAsset, 0)}
	if len(campaignIDs) == 0 {
		return listing, nil
	}

	header := bearerHeader(token)
	reqs := make([]fetcher.Request, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		reqs = append(reqs, fetcher.Request{
			Method: http.MethodGet,
			URL:    c.adListURL(id),
			Header: header,
		})
	}

	outcomes, err := c.fetcher.FetchAccounted(ctx, reqs, c.batchSize)
	if err != nil {
		return AssetListing{}, errors.Wrap(err, "discovery: fetching ad lists")
	}

	for i, outcome := range outcomes {
		campaignID := campaignIDs[i]
		logger := logrus.WithField("campaign_id", campaignID)

		if outcome.Err != nil || outcome.Response == nil {
			logger.Warn("discovery: ad list dropped after rate limit retries")
			listing.Unlisted = append(listing.Unlisted, campaignID)
			continue
		}

		resp := *outcome.Response
		if resp.StatusCode != http.StatusOK {
			logger.WithField("status_code", resp.StatusCode).Warn("discovery: failed to fetch ads for campaign")
			listing.Unlisted = append(listing.Unlisted, campaignID)
			continue
		}

		var payload discoverydomain.AdListResponse
		if err := json.Unmarshal(resp.Body, &payload); err != nil {
			logger.WithError(err).Warn("discovery: skipping malformed ad list")
			listing.Unlisted = append(listing.Unlisted, campaignID)
			continue
		}

		for _, ad := range payload.Data {
			if ad.MongoID == "" {
				continue
			}
			owner := ad.Campaign.String()
			if owner == "" {
				owner = campaignID
			}
			listing.Assets = append(listing.Assets, domain.RemoteAsset{
				ID:         ad.MongoID.String(),
				CampaignID: owner,
				Title:      ad.Title,
				Image:      ad.Image,
			})
		}
	}

	return listing, nil
}

func pathSegments(raw string) ([]string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, false
	}

	parts := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	for i, part := range parts {
		unescaped, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		parts[i] = unescaped
	}
	return parts, true
}
