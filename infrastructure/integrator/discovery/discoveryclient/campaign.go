package discoveryclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	discoverydomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/domain"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"golang.org/x/oauth2"
)

func (c *DiscoveryClient) campaignListURL() string {
	query := url.Values{}
	if c.country != "" {
		query.Set("country_id", c.country)
	}

	endpoint := c.baseURL + "/campaign/lists"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// ListCampaigns busca a lista completa de campanhas visíveis para o token
func (c *DiscoveryClient) ListCampaigns(ctx context.Context, token *oauth2.Token) ([]domain.RemoteCampaign, error) {
	req := fetcher.Request{
		Method: http.MethodGet,
		URL:    c.campaignListURL(),
		Header: bearerHeader(token),
	}

	outcomes, err := c.fetcher.FetchAccounted(ctx, []fetcher.Request{req}, 1)
	if err != nil {
		return nil, errors.Wrap(err, "discovery: fetching campaign list")
	}

	outcome := outcomes[0]
	if outcome.Err != nil || outcome.Response == nil {
		logrus.WithField("attempts", outcome.Attempts).Warn("discovery: campaign list dropped after rate limit retries")
		return nil, errors.Wrap(ErrListDropped, "discovery: campaign list")
	}

	resp := *outcome.Response
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery: campaign list returned status %d", resp.StatusCode)
	}

	var payload discoverydomain.CampaignListResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrap(err, "discovery: decoding campaign list")
	}

	campaigns := make([]domain.RemoteCampaign, 0, len(payload.Data))
	for _, item := range payload.Data {
		if item.ID() == "" {
			continue
		}
		campaigns = append(campaigns, domain.RemoteCampaign{
			ID:        item.ID(),
			AccountID: item.Owner(),
			Name:      item.Name,
			EndDate:   item.EndDate,
			Status:    item.Status.String(),
		})
	}

	return campaigns, nil
}
