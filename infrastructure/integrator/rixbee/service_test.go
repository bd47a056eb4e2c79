package rixbee

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rixbeedomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/domain"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient/mocks"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"go.uber.org/mock/gomock"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) domain.DateRange {
	t.Helper()
	dr, err := domain.NewDateRange(start, end)
	require.NoError(t, err)
	return dr
}

func testConfig() *config.Config {
	return &config.Config{Rixbee: config.Rixbee{
		WindowDays: 7,
		Credentials: map[domain.Agent]config.RixbeeCredential{
			domain.AgentDefault: {UserID: "7161", Token: "tk-default"},
			domain.AgentDirect:  {UserID: "7168", Token: "tk-direct"},
			domain.AgentSuper:   {UserID: "7153", Token: "tk-super"},
		},
	}}
}

func parseRows(t *testing.T, body string) []rixbeedomain.Row {
	t.Helper()
	var rows []rixbeedomain.Row
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	return rows
}

func TestSplitWindows_Example(t *testing.T) {
	windows := SplitWindows(mustRange(t, day(2024, 1, 1), day(2024, 1, 20)), 7)

	assert.Equal(t, []domain.DateRange{
		{Start: day(2024, 1, 1), End: day(2024, 1, 7)},
		{Start: day(2024, 1, 8), End: day(2024, 1, 14)},
		{Start: day(2024, 1, 15), End: day(2024, 1, 20)},
	}, windows)
}

// Para qualquer intervalo, as janelas são contíguas, sem sobreposição e cobrem o intervalo inteiro
func TestSplitWindows_Coverage(t *testing.T) {
	base := day(2024, 2, 20)

	for offset := 0; offset < 10; offset++ {
		for length := 1; length <= 40; length++ {
			start := base.AddDate(0, 0, offset)
			dr := mustRange(t, start, start.AddDate(0, 0, length-1))
			windows := SplitWindows(dr, 7)

			require.NotEmpty(t, windows)
			assert.Equal(t, dr.Start, windows[0].Start)
			assert.Equal(t, dr.End, windows[len(windows)-1].End)

			total := 0
			for i, w := range windows {
				assert.False(t, w.End.Before(w.Start))
				assert.LessOrEqual(t, w.Days(), 7)
				if i > 0 {
					assert.Equal(t, windows[i-1].End.AddDate(0, 0, 1), w.Start)
				}
				total += w.Days()
			}
			assert.Equal(t, dr.Days(), total)
		}
	}
}

func TestReportFetcher_Fetch_MapsFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	dr := mustRange(t, day(2024, 1, 1), day(2024, 1, 8))

	accounts := []domain.Account{
		{AccountID: "9001", AccountName: "Loja A", Agent: domain.AgentSuper, CVDefinition: "CompleteCheckout, AddToCart,Unknown"},
		{AccountID: "9002", AccountName: "Loja B", Agent: domain.AgentSuper},
	}

	client.EXPECT().
		FetchWindows(gomock.Any(), config.RixbeeCredential{UserID: "7153", Token: "tk-super"}, []string{"9001", "9002"}, SplitWindows(dr, 7)).
		Return([]rixbeeclient.WindowReport{
			{Window: domain.DateRange{Start: day(2024, 1, 8), End: day(2024, 1, 8)}, Rows: parseRows(t, `[
				{"day":"2024-01-08","user_id":9002,"payment_revenue":"3.10","impression":"30","click":3,"behavior1":7}
			]`)},
			{Window: domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 7)}, Rows: parseRows(t, `[
				{"day":"2024-01-01","user_id":"9001","user_name":"Marca A","country":"TW","cpg_id":11,"cpg_name":"Campanha","group_id":"g1","cr_id":"cr1","ad_channel":"1","ad_target":"web","payment_revenue":12.34,"impression":1000,"click":20,"behavior1":2,"behavior4":3,"behavior0":50,"unknown_field":"x"},
				{"day":"","user_id":"9001","payment_revenue":1},
				{"day":"2024-01-02","user_id":"7777","payment_revenue":1}
			]`)},
		}, nil)

	records, err := New(testConfig(), client).Fetch(context.Background(), accounts, dr)
	require.NoError(t, err)
	require.Len(t, records, 2)

	b := records[0]
	assert.Equal(t, "9002", b.AccountID)
	assert.Equal(t, "Loja B", b.AccountName)
	assert.Equal(t, "20240108", b.Date)
	assert.Equal(t, "3.1", b.Spend.String())
	assert.EqualValues(t, 30, b.Impressions)
	assert.EqualValues(t, 0, b.Conversions)

	a := records[1]
	assert.Equal(t, "9001", a.AccountID)
	assert.Equal(t, "Marca A", a.AccountName)
	assert.Equal(t, "20240101", a.Date)
	assert.Equal(t, "TW", a.Country)
	assert.Equal(t, "11", a.CampaignID)
	assert.Equal(t, "Campanha", a.CampaignName)
	assert.Equal(t, "g1", a.GroupID)
	assert.Equal(t, "cr1", a.CreativeID)
	assert.Equal(t, "1", a.Channel)
	assert.Equal(t, "web", a.LandingTarget)
	assert.Equal(t, "", a.Device)
	assert.Equal(t, "12.34", a.Spend.String())
	assert.EqualValues(t, 1000, a.Impressions)
	assert.EqualValues(t, 20, a.Clicks)
	assert.EqualValues(t, 5, a.Conversions)
	assert.Contains(t, string(a.Raw), "unknown_field")
}

func TestReportFetcher_Fetch_StatusIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	dr := mustRange(t, day(2024, 1, 1), day(2024, 1, 1))

	// código de status não troca de credencial
	client.EXPECT().
		FetchWindows(gomock.Any(), config.RixbeeCredential{UserID: "7161", Token: "tk-default"}, []string{"9001"}, gomock.Any()).
		Return(nil, rixbeeclient.NewStatusError("1003", "daily limit"))

	records, err := New(testConfig(), client).Fetch(context.Background(), []domain.Account{{AccountID: "9001"}}, dr)
	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rixbeeclient.ErrBadStatus))
	assert.Contains(t, err.Error(), "Limite diário de requisições da Rixbee atingido")
	assert.Contains(t, err.Error(), "1003")
	assert.Contains(t, err.Error(), "daily limit")
}

func TestReportFetcher_Fetch_Failover(t *testing.T) {
	dr := mustRange(t, day(2024, 1, 1), day(2024, 1, 1))
	rows := `[{"day":"2024-01-01","payment_revenue":5}]`

	t.Run("sem agente recorre à credencial direta", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)

		gomock.InOrder(
			client.EXPECT().
				FetchWindows(gomock.Any(), config.RixbeeCredential{UserID: "7161", Token: "tk-default"}, gomock.Any(), gomock.Any()).
				Return(nil, &rixbeeclient.HTTPError{StatusCode: 502, Body: "bad gateway"}),
			client.EXPECT().
				FetchWindows(gomock.Any(), config.RixbeeCredential{UserID: "7168", Token: "tk-direct"}, gomock.Any(), gomock.Any()).
				Return([]rixbeeclient.WindowReport{{Window: dr, Rows: parseRows(t, rows)}}, nil),
		)

		records, err := New(testConfig(), client).Fetch(context.Background(), []domain.Account{{AccountID: "9001"}}, dr)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "9001", records[0].AccountID)
	})

	t.Run("agente explícito não troca de credencial", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)

		client.EXPECT().
			FetchWindows(gomock.Any(), config.RixbeeCredential{UserID: "7168", Token: "tk-direct"}, gomock.Any(), gomock.Any()).
			Return(nil, &rixbeeclient.HTTPError{StatusCode: 500})

		_, err := New(testConfig(), client).Fetch(context.Background(), []domain.Account{{AccountID: "9001", Agent: domain.AgentDirect}}, dr)
		var httpErr *rixbeeclient.HTTPError
		assert.True(t, errors.As(err, &httpErr))
	})

	t.Run("as duas credenciais falham", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)

		client.EXPECT().
			FetchWindows(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &rixbeeclient.HTTPError{StatusCode: 500}).
			Times(2)

		_, err := New(testConfig(), client).Fetch(context.Background(), []domain.Account{{AccountID: "9001"}}, dr)
		assert.Error(t, err)
	})
}
