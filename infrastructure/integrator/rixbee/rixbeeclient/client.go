package rixbeeclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	rixbeedomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/domain"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

// WindowReport são as linhas de uma janela do relatório
type WindowReport struct {
	Window domain.DateRange
	Rows   []rixbeedomain.Row
}

type Client interface {
	FetchWindows(ctx context.Context, cred config.RixbeeCredential, userIDs []string, windows []domain.DateRange) ([]WindowReport, error)
}

type RixbeeClient struct {
	fetcher       *fetcher.Fetcher
	url           string
	timezone      string
	currency      string
	dimensions    []string
	maxConcurrent int
}

func NewClient(cfg config.Rixbee, f *fetcher.Fetcher) Client {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	dimensions := cfg.Dimensions
	if len(dimensions) == 0 {
		dimensions = []string{"day", "user_id"}
	}

	return &RixbeeClient{
		fetcher:       f,
		url:           cfg.URL,
		timezone:      cfg.Timezone,
		currency:      cfg.Currency,
		dimensions:    dimensions,
		maxConcurrent: maxConcurrent,
	}
}

// NewFetcher monta um fetcher sem retentativa por limite, a plataforma sinaliza erros pelo status.
// O ritmo padrão entre lotes continua valendo.
func NewFetcher(timeout time.Duration, opts ...fetcher.Option) *fetcher.Fetcher {
	return fetcher.New(
		fetcher.NewHTTPBatchDoer(timeout),
		fetcher.NeverRateLimited,
		append([]fetcher.Option{fetcher.WithMaxAttempts(1)}, opts...)...,
	)
}

func (c *RixbeeClient) reportURL(cred config.RixbeeCredential, userIDs []string, window domain.DateRange) string {
	query := url.Values{}
	query.Set("start_date", window.Start.Format(time.DateOnly))
	query.Set("end_date", window.End.Format(time.DateOnly))
	query.Set("timezone", c.timezone)
	query.Set("currency", c.currency)
	for _, dimension := range c.dimensions {
		query.Add("dimensions[]", strings.TrimSpace(dimension))
	}
	query.Set("x-userid", cred.UserID)
	query.Set("x-authorization", cred.Token)
	for _, id := range userIDs {
		query.Add("user_id[]", id)
	}

	return c.url + "?" + query.Encode()
}

// FetchWindows pede uma janela por requisição, todas concorrentes até o limite configurado
func (c *RixbeeClient) FetchWindows(ctx context.Context, cred config.RixbeeCredential, userIDs []string, windows []domain.DateRange) ([]WindowReport, error) {
	if len(windows) == 0 {
		return nil, nil
	}

	reqs := make([]fetcher.Request, 0, len(windows))
	for _, window := range windows {
		reqs = append(reqs, fetcher.Request{
			Method: http.MethodGet,
			URL:    c.reportURL(cred, userIDs, window),
			Header: http.Header{"Accept": {"application/json"}},
		})
	}

	responses, err := c.fetcher.Fetch(ctx, reqs, min(len(reqs), c.maxConcurrent))
	if err != nil {
		return nil, errors.Wrap(err, "rixbee: fetching report windows")
	}

	reports := make([]WindowReport, 0, len(responses))
	for _, resp := range responses {
		window, ok := windowFromURL(resp.Request.URL)
		if !ok {
			logrus.WithField("user_id", cred.UserID).Warn("rixbee: unable to correlate report window")
			continue
		}

		rows, err := parseReport(resp)
		if err != nil {
			return nil, err
		}

		logrus.WithFields(logrus.Fields{
			"window": window.String(),
			"rows":   len(rows),
		}).Debug("rixbee: report window fetched")

		reports = append(reports, WindowReport{Window: window, Rows: rows})
	}

	return reports, nil
}

func parseReport(resp fetcher.Response) ([]rixbeedomain.Row, error) {
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var payload rixbeedomain.ReportResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrap(err, "rixbee: decoding report")
	}

	if !payload.Status.OK() {
		return nil, NewStatusError(payload.Status.Code.String(), payload.Status.Message)
	}

	return payload.Data.Data, nil
}

func windowFromURL(raw string) (domain.DateRange, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.DateRange{}, false
	}

	start, err := time.Parse(time.DateOnly, u.Query().Get("start_date"))
	if err != nil {
		return domain.DateRange{}, false
	}
	end, err := time.Parse(time.DateOnly, u.Query().Get("end_date"))
	if err != nil {
		return domain.DateRange{}, false
	}

	window, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, false
	}
	return window, true
}
