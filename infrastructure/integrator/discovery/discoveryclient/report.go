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

// ReportResult é a contabilidade do relatório de um anúncio.
// Fetched=false significa que a requisição esgotou as tentativas.
type ReportResult struct {
	CampaignID string
	AssetID    string
	Fetched    bool
	Rows       []discoverydomain.ReportRow
	Err        error
}

func (c *DiscoveryClient) reportURL(campaignID, assetID string, dr domain.DateRange) string {
	return fmt.Sprintf("%s/ad/%s/%s/%s/%s/date_reporting",
		c.baseURL,
		url.PathEscape(campaignID),
		url.PathEscape(assetID),
		dr.Start.Format(domain.CompactDateLayout),
		dr.End.Format(domain.CompactDateLayout),
	)
}

// FetchReports pede um relatório por anúncio cobrindo o intervalo inteiro
func (c *DiscoveryClient) FetchReports(ctx context.Context, token *oauth2.Token, assets []domain.RemoteAsset, dr domain.DateRange) ([]ReportResult, error) {
	if len(assets) == 0 {
		return nil, nil
	}

	header := bearerHeader(token)
	reqs := make([]fetcher.Request, 0, len(assets))
	for _, asset := range assets {
		reqs = append(reqs, fetcher.Request{
			Method: http.MethodGet,
			URL:    c.reportURL(asset.CampaignID, asset.ID, dr),
			Header: header,
		})
	}

	outcomes, err := c.fetcher.FetchAccounted(ctx, reqs, c.batchSize)
	if err != nil {
		return nil, errors.Wrap(err, "discovery: fetching ad reports")
	}

	results := make([]ReportResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		campaignID, assetID, ok := idsFromReportURL(outcome.Request.URL)
		if !ok {
			logrus.WithField("url", outcome.Request.URL).Warn("discovery: unable to correlate report response")
			continue
		}

		result := ReportResult{CampaignID: campaignID, AssetID: assetID}

		switch {
		case outcome.Err != nil:
			result.Err = outcome.Err
		case outcome.Response == nil:
			result.Err = fmt.Errorf("discovery: no response for report %s/%s", campaignID, assetID)
		default:
			result.Fetched = true
			result.Rows, result.Err = parseReport(*outcome.Response)
			if result.Err != nil {
				logrus.WithError(result.Err).WithFields(logrus.Fields{
					"campaign_id": campaignID,
					"asset_id":    assetID,
				}).Warn("discovery: skipping unusable report response")
			}
		}

		results = append(results, result)
	}

	return results, nil
}

func parseReport(resp fetcher.Response) ([]discoverydomain.ReportRow, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("report returned status %d", resp.StatusCode)
	}

	var payload discoverydomain.ReportResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrap(err, "decoding report")
	}

	rows, err := payload.Rows()
	if err != nil {
		return nil, errors.Wrap(err, "decoding report rows")
	}
	return rows, nil
}

// idsFromReportURL extrai campanha e anúncio de .../ad/{campaign}/{ad}/{start}/{end}/date_reporting
func idsFromReportURL(raw string) (string, string, bool) {
	segments, ok := pathSegments(raw)
	if !ok || len(segments) < 6 {
		return "", "", false
	}

	n := len(segments)
	if segments[n-1] != "date_reporting" || segments[n-6] != "ad" {
		return "", "", false
	}
	return segments[n-5], segments[n-4], true
}
