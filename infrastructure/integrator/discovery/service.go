package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/discoveryclient"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

var (
	// ErrAuthFailed interrompe a execução inteira da conta
	ErrAuthFailed = discoveryclient.ErrAuthFailed
	// ErrListDropped marca uma listagem que esgotou as tentativas
	ErrListDropped = discoveryclient.ErrListDropped
)

// ProgressFunc recebe uma mensagem ao fim de cada etapa concluída
type ProgressFunc func(message string)

type Input struct {
	Secret   string
	Accounts []domain.Account
	Range    domain.DateRange
}

// AssetReport representa o relatório de um anúncio descoberto.
// Fetched=false indica que o relatório foi tentado e não obtido.
type AssetReport struct {
	Asset   domain.RemoteAsset
	Fetched bool
	Records []domain.ReportRecord
}

type Output struct {
	Campaigns []domain.RemoteCampaign
	Assets    []domain.RemoteAsset
	Reports   []AssetReport
	// campanhas cuja lista de anúncios não foi obtida
	UnlistedCampaigns []string
}

// Records junta os registros de todos os relatórios obtidos
func (o *Output) Records() []domain.ReportRecord {
	if o == nil {
		return nil
	}

	records := make([]domain.ReportRecord, 0)
	for _, report := range o.Reports {
		records = append(records, report.Records...)
	}
	return records
}

// UnfetchedByAccount conta, por conta, as listas de anúncios e os relatórios que não foram obtidos
func (o *Output) UnfetchedByAccount() map[string]int {
	result := make(map[string]int)
	if o == nil {
		return result
	}

	owners := make(map[string]string, len(o.Campaigns))
	for _, c := range o.Campaigns {
		owners[c.ID] = c.AccountID
	}

	for _, campaignID := range o.UnlistedCampaigns {
		result[owners[campaignID]]++
	}

	for _, report := range o.Reports {
		if !report.Fetched {
			result[owners[report.Asset.CampaignID]]++
		}
	}
	return result
}

type Integrator interface {
	Run(ctx context.Context, in Input, progress ProgressFunc) (*Output, error)
}

type Pipeline struct {
	client             discoveryclient.Client
	allowlistAccount   string
	allowlistCampaigns map[string]struct{}
}

func New(cfg *config.Config, client discoveryclient.Client) Integrator {
	allowlist := make(map[string]struct{}, len(cfg.Discovery.AllowlistCampaigns))
	for _, id := range cfg.Discovery.AllowlistCampaigns {
		if id != "" {
			allowlist[id] = struct{}{}
		}
	}

	return &Pipeline{
		client:             client,
		allowlistAccount:   cfg.Discovery.AllowlistAccount,
		allowlistCampaigns: allowlist,
	}
}

func (p *Pipeline) Run(ctx context.Context, in Input, progress ProgressFunc) (*Output, error) {
	if progress == nil {
		progress = func(string) {}
	}

	token, err := p.client.Authenticate(ctx, in.Secret)
	if err != nil {
		return nil, err
	}
	progress("Token de acesso obtido")

	// Etapa A: campanhas
	campaigns, err := p.client.ListCampaigns(ctx, token)
	if err != nil {
		return nil, err
	}

	retained := p.filterCampaigns(campaigns, in.Accounts, in.Range.Start)
	progress(fmt.Sprintf("%d de %d campanhas selecionadas", len(retained), len(campaigns)))

	output := &Output{Campaigns: retained}
	if len(retained) == 0 {
		return output, nil
	}

	campaignIndex := make(map[string]domain.RemoteCampaign, len(retained))
	campaignIDs := make([]string, 0, len(retained))
	for _, c := range retained {
		campaignIndex[c.ID] = c
		campaignIDs = append(campaignIDs, c.ID)
	}

	// Etapa B: anúncios
	listing, err := p.client.ListAssets(ctx, token, campaignIDs)
	if err != nil {
		return nil, err
	}
	output.UnlistedCampaigns = listing.Unlisted

	assetIndex := make(map[string]domain.RemoteAsset, len(listing.Assets))
	for _, a := range listing.Assets {
		if _, exists := assetIndex[a.ID]; exists {
			continue
		}
		assetIndex[a.ID] = a
		output.Assets = append(output.Assets, a)
	}
	progress(fmt.Sprintf("%d anúncios encontrados em %d campanhas", len(output.Assets), len(retained)-len(listing.Unlisted)))

	if len(output.Assets) == 0 {
		return output, nil
	}

	// Etapa C: relatórios
	results, err := p.client.FetchReports(ctx, token, output.Assets, in.Range)
	if err != nil {
		return nil, err
	}

	accountNames := make(map[string]string, len(in.Accounts))
	for _, acc := range in.Accounts {
		accountNames[acc.AccountID] = acc.AccountName
	}

	fetched := 0
	for _, result := range results {
		asset, ok := assetIndex[result.AssetID]
		if !ok {
			asset = domain.RemoteAsset{ID: result.AssetID, CampaignID: result.CampaignID}
		}

		report := AssetReport{Asset: asset, Fetched: result.Fetched}
		if result.Fetched {
			fetched++
		}

		if result.Err == nil {
			campaign := campaignIndex[asset.CampaignID]
			report.Records = p.enrich(result, asset, campaign, accountNames[campaign.AccountID])
		}

		output.Reports = append(output.Reports, report)
	}

	progress(fmt.Sprintf("%d de %d relatórios de anúncios obtidos", fetched, len(results)))

	return output, nil
}

// filterCampaigns aplica a regra de fim + 1 mês ou a lista fixa da conta especial
func (p *Pipeline) filterCampaigns(campaigns []domain.RemoteCampaign, accounts []domain.Account, rangeStart time.Time) []domain.RemoteCampaign {
	requested := make(map[string]struct{}, len(accounts))
	for _, acc := range accounts {
		requested[acc.AccountID] = struct{}{}
	}

	retained := make([]domain.RemoteCampaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.AccountID == "" && len(accounts) == 1 {
			c.AccountID = accounts[0].AccountID
		}

		if c.AccountID == "" {
			logrus.WithField("campaign_id", c.ID).Warn("discovery: campaign without account, skipping")
			continue
		}

		if len(requested) > 0 {
			if _, ok := requested[c.AccountID]; !ok {
				continue
			}
		}

		if p.retain(c, rangeStart) {
			retained = append(retained, c)
		}
	}

	return retained
}

func (p *Pipeline) retain(c domain.RemoteCampaign, rangeStart time.Time) bool {
	if p.allowlistAccount != "" && c.AccountID == p.allowlistAccount {
		_, ok := p.allowlistCampaigns[c.ID]
		return ok
	}

	if c.EndDate == "" {
		return true
	}

	end, err := domain.ParseDay(c.EndDate)
	if err != nil {
		logrus.WithError(err).WithField("campaign_id", c.ID).Warn("discovery: unparseable campaign end date, keeping campaign")
		return true
	}

	return !end.AddDate(0, 1, 0).Before(rangeStart)
}

func (p *Pipeline) enrich(result discoveryclient.ReportResult, asset domain.RemoteAsset, campaign domain.RemoteCampaign, accountName string) []domain.ReportRecord {
	records := make([]domain.ReportRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		date, err := domain.CompactDate(row.ReportDate())
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"asset_id": asset.ID,
				"date":     row.ReportDate(),
			}).Warn("discovery: skipping report row without valid date")
			continue
		}

		records = append(records, domain.ReportRecord{
			AccountID:    campaign.AccountID,
			AccountName:  accountName,
			Date:         date,
			CampaignID:   asset.CampaignID,
			CampaignName: campaign.Name,
			CreativeID:   asset.ID,
			AssetTitle:   asset.Title,
			AssetImage:   asset.Image,
			Spend:        row.Spend(),
			Impressions:  int64(row.Imp),
			Clicks:       int64(row.Click),
			Conversions:  int64(row.CV),
			Raw:          row.Raw,
		})
	}
	return records
}
