package syncing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery"
	discoverymocks "github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/mocks"
	rixbeemocks "github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/mocks"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient"
	"github.com/vfg2006/budget-hunter/infrastructure/repository/mocks"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	accounts  *mocks.MockAccountRepository
	stats     *mocks.MockDailyStatRepository
	discovery *discoverymocks.MockIntegrator
	rixbee    *rixbeemocks.MockIntegrator
	svc       *Service
}

var syncDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		accounts:  mocks.NewMockAccountRepository(ctrl),
		stats:     mocks.NewMockDailyStatRepository(ctrl),
		discovery: discoverymocks.NewMockIntegrator(ctrl),
		rixbee:    rixbeemocks.NewMockIntegrator(ctrl),
	}

	cfg := &config.Config{
		Sync: config.Sync{UTCOffsetHours: 8, Location: time.FixedZone("UTC+8", 8*3600)},
	}

	f.svc = NewService(cfg, f.accounts, f.stats, aggregating.NewService(f.stats), f.discovery, f.rixbee).
		WithClock(func() time.Time { return time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC) })

	return f
}

func rixbeeAccount(id string) *domain.Account {
	return &domain.Account{AccountID: id, Platform: domain.PlatformRixbee, Status: domain.AccountStatusActive}
}

func discoveryAccount(id string) *domain.Account {
	return &domain.Account{AccountID: id, Platform: domain.PlatformDiscovery, Status: domain.AccountStatusActive}
}

func assertSingleDone(t *testing.T, events []domain.SyncEvent) domain.SyncEvent {
	t.Helper()
	require.NotEmpty(t, events)

	var done int
	for _, event := range events {
		if event.Done {
			done++
		}
	}
	assert.Equal(t, 1, done)

	last := events[len(events)-1]
	assert.True(t, last.Done)
	return last
}

func kinds(events []domain.SyncEvent) []domain.SyncEventKind {
	out := make([]domain.SyncEventKind, 0, len(events))
	for _, event := range events {
		out = append(out, event.Kind)
	}
	return out
}

func TestSync_WritesAllPlatforms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.accounts.EXPECT().
		ListAccounts(gomock.Any(), domain.AccountFilter{Statuses: []domain.AccountStatus{domain.AccountStatusActive}}).
		Return([]*domain.Account{rixbeeAccount("r1"), rixbeeAccount("r2"), discoveryAccount("d1"), discoveryAccount("d2")}, nil)

	f.rixbee.EXPECT().
		Fetch(gomock.Any(), gomock.Len(2), domain.SingleDay(syncDay)).
		Return([]domain.ReportRecord{
			{AccountID: "r1", Date: "20240310", Spend: decimal.NewFromInt(5), Impressions: 10},
		}, nil)

	f.accounts.EXPECT().
		ListDiscoveryTokens(gomock.Any(), []string{"d1", "d2"}).
		Return(map[string]string{"d1": "segredo"}, nil)

	f.discovery.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in discovery.Input, progress discovery.ProgressFunc) (*discovery.Output, error) {
			assert.Equal(t, "segredo", in.Secret)
			require.Len(t, in.Accounts, 1)
			progress("Campanhas obtidas")
			return &discovery.Output{
				Campaigns: []domain.RemoteCampaign{{ID: "c1", AccountID: "d1"}},
				Reports: []discovery.AssetReport{{
					Asset:   domain.RemoteAsset{ID: "a1", CampaignID: "c1"},
					Fetched: true,
					Records: []domain.ReportRecord{{AccountID: "d1", Date: "20240310", Spend: decimal.NewFromInt(2), Clicks: 3}},
				}},
			}, nil
		})

	var saved []*domain.DailyStat
	f.stats.EXPECT().
		SaveOrUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, stats []*domain.DailyStat) error {
			saved = stats
			return nil
		})

	events := Collect(f.svc.Sync(ctx, domain.SyncRequest{}))

	last := assertSingleDone(t, events)
	assert.Equal(t, domain.SyncEventInfo, last.Kind)
	assert.Equal(t, messageDone, last.Message)
	assert.Equal(t, []domain.SyncEventKind{
		domain.SyncEventInfo,     // início
		domain.SyncEventProgress, // rixbee
		domain.SyncEventInfo,     // d2 sem token
		domain.SyncEventProgress, // etapa da discovery
		domain.SyncEventProgress, // gravação
		domain.SyncEventInfo,     // done
	}, kinds(events))

	require.Len(t, saved, 3)
	byAccount := make(map[string]*domain.DailyStat)
	for _, stat := range saved {
		byAccount[stat.AccountID] = stat
		assert.Equal(t, syncDay, stat.Date)
	}
	assert.Equal(t, "5", byAccount["r1"].Spend.String())
	assert.True(t, byAccount["r2"].Spend.IsZero())
	assert.EqualValues(t, 3, byAccount["d1"].Clicks)
	assert.NotContains(t, byAccount, "d2")
}

func TestSync_FatalErrors(t *testing.T) {
	tests := []struct {
		name     string
		accounts []*domain.Account
		setup    func(f *fixture)
		contains []string
	}{
		{
			name:     "status da rixbee diferente de zero",
			accounts: []*domain.Account{rixbeeAccount("r1"), discoveryAccount("d1")},
			setup: func(f *fixture) {
				f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, rixbeeclient.NewStatusError("1003", "daily limit"))
			},
			contains: []string{"Limite diário de requisições da Rixbee atingido", "1003", "daily limit"},
		},
		{
			name:     "falha de autenticação da discovery",
			accounts: []*domain.Account{discoveryAccount("d1")},
			setup: func(f *fixture) {
				f.accounts.EXPECT().ListDiscoveryTokens(gomock.Any(), gomock.Any()).Return(map[string]string{"d1": "s"}, nil)
				f.discovery.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, discovery.ErrAuthFailed)
			},
			contains: []string{"Falha na autenticação da Discovery", "d1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).Return(tt.accounts, nil)
			tt.setup(f)

			events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{})
			require.ErrorIs(t, err, ErrSyncFailed)

			last := assertSingleDone(t, events)
			assert.Equal(t, domain.SyncEventError, last.Kind)

			fatal := events[len(events)-2]
			assert.Equal(t, domain.SyncEventError, fatal.Kind)
			for _, fragment := range tt.contains {
				assert.Contains(t, fatal.Message, fragment)
			}
		})
	}
}

func TestSync_NonFatalErrorContinues(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).
		Return([]*domain.Account{rixbeeAccount("r1"), discoveryAccount("d1")}, nil)
	f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &rixbeeclient.HTTPError{StatusCode: 502, Body: "bad gateway"})
	f.accounts.EXPECT().ListDiscoveryTokens(gomock.Any(), gomock.Any()).Return(map[string]string{"d1": "s"}, nil)
	f.discovery.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(&discovery.Output{}, nil)

	f.stats.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, stats []*domain.DailyStat) error {
			// r1 falhou e não recebe linha zerada
			require.Len(t, stats, 1)
			assert.Equal(t, "d1", stats[0].AccountID)
			return nil
		})

	events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)

	last := assertSingleDone(t, events)
	assert.Equal(t, messageDone, last.Message)
	assert.Contains(t, kinds(events), domain.SyncEventError)
}

func TestSync_UnfetchedReportsAreNotZeroFilled(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).Return([]*domain.Account{discoveryAccount("d1")}, nil)
	f.accounts.EXPECT().ListDiscoveryTokens(gomock.Any(), gomock.Any()).Return(map[string]string{"d1": "s"}, nil)
	f.discovery.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(&discovery.Output{
		Campaigns: []domain.RemoteCampaign{{ID: "c1", AccountID: "d1"}},
		Reports:   []discovery.AssetReport{{Asset: domain.RemoteAsset{ID: "a1", CampaignID: "c1"}, Fetched: false}},
	}, nil)

	events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)

	last := assertSingleDone(t, events)
	assert.Equal(t, domain.SyncEventInfo, last.Kind)

	var reported bool
	for _, event := range events {
		if event.Kind == domain.SyncEventError {
			reported = true
			assert.Contains(t, event.Message, "d1")
		}
	}
	assert.True(t, reported)
}

func TestSync_DroppedDiscoveryListingsAreNotZeroFilled(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).
		Return([]*domain.Account{discoveryAccount("d1"), discoveryAccount("d2"), discoveryAccount("d3")}, nil)
	f.accounts.EXPECT().ListDiscoveryTokens(gomock.Any(), gomock.Any()).
		Return(map[string]string{"d1": "s1", "d2": "s2", "d3": "s3"}, nil)
	f.discovery.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Times(3).
		DoAndReturn(func(_ context.Context, in discovery.Input, _ discovery.ProgressFunc) (*discovery.Output, error) {
			switch in.Secret {
			case "s1":
				return nil, fmt.Errorf("discovery: campaign list: %w", discovery.ErrListDropped)
			case "s2":
				return &discovery.Output{
					Campaigns:         []domain.RemoteCampaign{{ID: "c2", AccountID: "d2"}},
					UnlistedCampaigns: []string{"c2"},
				}, nil
			default:
				return &discovery.Output{}, nil
			}
		})

	f.stats.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, stats []*domain.DailyStat) error {
			// só d3 respondeu por completo e recebe a linha zerada
			require.Len(t, stats, 1)
			assert.Equal(t, "d3", stats[0].AccountID)
			return nil
		})

	events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)

	last := assertSingleDone(t, events)
	assert.Equal(t, messageDone, last.Message)

	var errorMessages []string
	for _, event := range events {
		if event.Kind == domain.SyncEventError {
			errorMessages = append(errorMessages, event.Message)
		}
	}
	require.Len(t, errorMessages, 2)
	assert.Contains(t, errorMessages[0], "d1")
	assert.Contains(t, errorMessages[1], "d2")
}

func TestSync_CanceledSkipsWrites(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).Return([]*domain.Account{rixbeeAccount("r1")}, nil)
	f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []domain.Account, domain.DateRange) ([]domain.ReportRecord, error) {
			cancel()
			return []domain.ReportRecord{{AccountID: "r1", Date: "20240310"}}, nil
		})

	// sem EXPECT de SaveOrUpdate: qualquer gravação falha o teste
	done := make(chan []domain.SyncEvent)
	go func() { done <- Collect(f.svc.Sync(ctx, domain.SyncRequest{})) }()

	select {
	case events := <-done:
		for _, event := range events {
			assert.NotEqual(t, messageDone, event.Message)
		}
		last := assertSingleDone(t, events)
		assert.Equal(t, messageCanceled, last.Message)
		assert.ErrorIs(t, terminalError(events), ErrSyncCanceled)
	case <-time.After(2 * time.Second):
		t.Fatal("o fluxo não foi encerrado após o cancelamento")
	}
}

func TestSync_WithExplicitRangeAndAccount(t *testing.T) {
	f := newFixture(t)
	dr := domain.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}

	f.accounts.EXPECT().
		ListAccounts(gomock.Any(), domain.AccountFilter{AccountID: "r1", Statuses: []domain.AccountStatus{domain.AccountStatusActive}}).
		Return([]*domain.Account{rixbeeAccount("r1")}, nil)
	f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), dr).Return(nil, nil)
	f.stats.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Len(2)).Return(nil)

	events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{AccountID: "r1", Range: &dr})
	require.NoError(t, err)
	assertSingleDone(t, events)
}

func TestSync_NoAccounts(t *testing.T) {
	f := newFixture(t)
	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).Return(nil, nil)

	events, err := f.svc.SyncDaily(context.Background(), domain.SyncRequest{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Nenhuma conta ativa encontrada", events[0].Message)
}

func TestDefaultRange(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		lookback int
		want     domain.DateRange
	}{
		{
			name: "ontem no fuso UTC+8",
			now:  time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			want: domain.SingleDay(syncDay),
		},
		{
			name: "antes da virada do dia local",
			now:  time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC),
			want: domain.SingleDay(syncDay.AddDate(0, 0, -1)),
		},
		{
			name:     "janela de três dias",
			now:      time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			lookback: 3,
			want:     domain.DateRange{Start: syncDay.AddDate(0, 0, -2), End: syncDay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{
				cfg: &config.Config{
					Sync:      config.Sync{Location: time.FixedZone("UTC+8", 8*3600)},
					DailySync: config.DailySync{LookbackDays: tt.lookback},
				},
				now: func() time.Time { return tt.now },
			}
			assert.Equal(t, tt.want, svc.defaultRange())
		})
	}
}

func TestCheckConsistency(t *testing.T) {
	f := newFixture(t)
	start := syncDay.AddDate(0, 0, -4)

	acc := rixbeeAccount("r1")
	acc.StartDate = &start

	noStart := rixbeeAccount("r2")

	f.accounts.EXPECT().
		ListAccounts(gomock.Any(), domain.AccountFilter{Statuses: []domain.AccountStatus{domain.AccountStatusActive}}).
		Return([]*domain.Account{acc, noStart}, nil)

	f.stats.EXPECT().ListDates(gomock.Any(), "r1", start, syncDay).Return(map[string]struct{}{
		"2024-03-07": {},
	}, nil)

	// lacunas: 06 e 08..10
	gap1 := domain.DateRange{Start: start, End: start}
	gap2 := domain.DateRange{Start: syncDay.AddDate(0, 0, -2), End: syncDay}

	f.accounts.EXPECT().ListAccounts(gomock.Any(), domain.AccountFilter{AccountID: "r1", Statuses: []domain.AccountStatus{domain.AccountStatusActive}}).
		Return([]*domain.Account{acc}, nil).Times(2)
	f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), gap1).Return(nil, nil)
	f.rixbee.EXPECT().Fetch(gomock.Any(), gomock.Any(), gap2).Return(nil, nil)
	f.stats.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Len(1)).Return(nil)
	f.stats.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Len(3)).Return(nil)

	events, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)

	var done int
	for _, event := range events {
		if event.Done {
			done++
		}
	}
	assert.Equal(t, 2, done)
}

func TestCheckConsistency_RepositoryError(t *testing.T) {
	f := newFixture(t)
	dbErr := errors.New("timeout")
	f.accounts.EXPECT().ListAccounts(gomock.Any(), gomock.Any()).Return(nil, dbErr)

	_, err := f.svc.CheckConsistency(context.Background())
	assert.ErrorIs(t, err, dbErr)
}

func TestMissingRanges(t *testing.T) {
	dr := domain.DateRange{Start: syncDay, End: syncDay.AddDate(0, 0, 5)}

	tests := []struct {
		name     string
		existing []string
		want     []domain.DateRange
	}{
		{
			name: "sem dados",
			want: []domain.DateRange{dr},
		},
		{
			name:     "completo",
			existing: []string{"2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14", "2024-03-15"},
			want:     []domain.DateRange{},
		},
		{
			name:     "lacunas separadas",
			existing: []string{"2024-03-11", "2024-03-12", "2024-03-15"},
			want: []domain.DateRange{
				{Start: syncDay, End: syncDay},
				{Start: syncDay.AddDate(0, 0, 3), End: syncDay.AddDate(0, 0, 4)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := make(map[string]struct{})
			for _, d := range tt.existing {
				existing[d] = struct{}{}
			}
			assert.Equal(t, tt.want, missingRanges(dr, existing))
		})
	}
}
