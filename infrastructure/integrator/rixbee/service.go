package rixbee

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	rixbeedomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/domain"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

const DefaultWindowDays = 7

type Integrator interface {
	Fetch(ctx context.Context, accounts []domain.Account, dr domain.DateRange) ([]domain.ReportRecord, error)
}

type ReportFetcher struct {
	client      rixbeeclient.Client
	credentials map[domain.Agent]config.RixbeeCredential
	windowDays  int
}

func New(cfg *config.Config, client rixbeeclient.Client) Integrator {
	windowDays := cfg.Rixbee.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	return &ReportFetcher{
		client:      client,
		credentials: cfg.Rixbee.Credentials,
		windowDays:  windowDays,
	}
}

// SplitWindows divide o intervalo em janelas contíguas de até size dias; a última é cortada no fim
func SplitWindows(dr domain.DateRange, size int) []domain.DateRange {
	if size <= 0 {
		size = DefaultWindowDays
	}

	windows := make([]domain.DateRange, 0, dr.Days()/size+1)
	for start := dr.Start; !start.After(dr.End); start = start.AddDate(0, 0, size) {
		end := start.AddDate(0, 0, size-1)
		if end.After(dr.End) {
			end = dr.End
		}
		windows = append(windows, domain.DateRange{Start: start, End: end})
	}
	return windows
}

// Fetch consulta o relatório das contas de um mesmo agente. Contas sem agente usam a
// credencial padrão e recorrem à direta em falha de transporte.
func (f *ReportFetcher) Fetch(ctx context.Context, accounts []domain.Account, dr domain.DateRange) ([]domain.ReportRecord, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	agents := []domain.Agent{accounts[0].Agent}
	if accounts[0].Agent == "" {
		agents = []domain.Agent{domain.AgentDefault, domain.AgentDirect}
	}

	userIDs := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		userIDs = append(userIDs, acc.AccountID)
	}

	windows := SplitWindows(dr, f.windowDays)

	var (
		reports []rixbeeclient.WindowReport
		err     error
	)
	for _, agent := range agents {
		cred, ok := f.credentials[agent]
		if !ok {
			err = fmt.Errorf("rixbee: no credential configured for agent %q", agent)
			continue
		}

		reports, err = f.client.FetchWindows(ctx, cred, userIDs, windows)
		if err == nil {
			break
		}

		var statusErr *rixbeeclient.StatusError
		if errors.As(err, &statusErr) {
			return nil, err
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"agent":    agent,
			"accounts": len(accounts),
		}).Warn("rixbee: report request failed with credential")
	}
	if err != nil {
		return nil, err
	}

	return mapRecords(reports, accounts), nil
}

func mapRecords(reports []rixbeeclient.WindowReport, accounts []domain.Account) []domain.ReportRecord {
	byID := make(map[string]domain.Account, len(accounts))
	fields := make(map[string][]string, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
		fields[acc.AccountID] = rixbeedomain.ConversionFields(acc.ConversionEvents())
	}

	records := make([]domain.ReportRecord, 0)
	for _, report := range reports {
		for _, row := range report.Rows {
			accountID := row.String("user_id")
			if accountID == "" && len(accounts) == 1 {
				accountID = accounts[0].AccountID
			}

			account, ok := byID[accountID]
			if !ok {
				logrus.WithField("user_id", accountID).Warn("rixbee: skipping row for unrequested account")
				continue
			}

			date, err := domain.CompactDate(row.String("day"))
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": accountID,
					"window":  report.Window.String(),
				}).Warn("rixbee: skipping row without valid day")
				continue
			}

			records = append(records, mapRow(row, account, date, fields[accountID]))
		}
	}

	return records
}

func mapRow(row rixbeedomain.Row, account domain.Account, date string, conversionFields []string) domain.ReportRecord {
	name := row.String("user_name")
	if name == "" {
		name = account.AccountName
	}

	return domain.ReportRecord{
		AccountID:     account.AccountID,
		AccountName:   name,
		Date:          date,
		Country:       row.String("country"),
		CampaignID:    row.String("cpg_id"),
		CampaignName:  row.String("cpg_name"),
		GroupID:       row.String("group_id"),
		CreativeID:    row.String("cr_id"),
		Channel:       row.String("ad_channel"),
		LandingTarget: row.String("ad_target"),
		Device:        row.String("device"),
		Spend:         row.Decimal("payment_revenue"),
		Impressions:   row.Int("impression"),
		Clicks:        row.Int("click"),
		Conversions:   row.Conversions(conversionFields),
		Raw:           row.Raw(),
	}
}
