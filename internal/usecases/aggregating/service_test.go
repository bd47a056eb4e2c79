package aggregating

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/budget-hunter/infrastructure/repository/mocks"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"go.uber.org/mock/gomock"
)

// memoryStore reproduz o contrato de upsert por (account_id, date)
type memoryStore struct {
	rows map[string]domain.DailyStat
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]domain.DailyStat)}
}

func (m *memoryStore) SaveOrUpdate(_ context.Context, stats []*domain.DailyStat) error {
	for _, stat := range stats {
		m.rows[stat.Key()] = *stat
	}
	return nil
}

func (m *memoryStore) GetByDateRange(_ context.Context, accountID string, start, end time.Time) ([]*domain.DailyStat, error) {
	out := make([]*domain.DailyStat, 0)
	for _, row := range m.rows {
		if row.AccountID == accountID && !row.Date.Before(start) && !row.Date.After(end) {
			r := row
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memoryStore) ListDates(_ context.Context, accountID string, start, end time.Time) (map[string]struct{}, error) {
	dates := make(map[string]struct{})
	for _, row := range m.rows {
		if row.AccountID == accountID && !row.Date.Before(start) && !row.Date.After(end) {
			dates[row.Date.Format(time.DateOnly)] = struct{}{}
		}
	}
	return dates, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []domain.ReportRecord {
	return []domain.ReportRecord{
		{AccountID: "acc-1", Date: "20240101", Spend: decimal.RequireFromString("10.10"), Impressions: 100, Clicks: 5, Conversions: 1, Raw: json.RawMessage(`{"n":1}`)},
		{AccountID: "acc-1", Date: "20240101", Spend: decimal.RequireFromString("0.20"), Impressions: 50, Clicks: 2, Conversions: 0, Raw: json.RawMessage(`{"n":2}`)},
		{AccountID: "acc-1", Date: "20240102", Spend: decimal.RequireFromString("1"), Impressions: 10, Clicks: 1},
		{AccountID: "acc-2", Date: "2024-01-01", Spend: decimal.RequireFromString("3.5"), Impressions: 7, Clicks: 0, Conversions: 2},
		{AccountID: "acc-2", Date: "data ruim", Spend: decimal.RequireFromString("99")},
		{AccountID: "", Date: "20240101", Spend: decimal.RequireFromString("99")},
	}
}

func TestAggregate(t *testing.T) {
	svc := &Service{}
	dr := domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 2)}

	stats := svc.Aggregate(sampleRecords(), nil, dr)
	require.Len(t, stats, 3)

	first := stats[0]
	assert.Equal(t, "acc-1", first.AccountID)
	assert.Equal(t, day(2024, 1, 1), first.Date)
	assert.Equal(t, "10.3", first.Spend.String())
	assert.EqualValues(t, 150, first.Impressions)
	assert.EqualValues(t, 7, first.Clicks)
	assert.EqualValues(t, 1, first.Conversions)
	assert.JSONEq(t, `{"n":2}`, string(first.RawData))

	assert.Equal(t, "acc-1", stats[1].AccountID)
	assert.Equal(t, day(2024, 1, 2), stats[1].Date)
	assert.Nil(t, stats[1].RawData)

	assert.Equal(t, "acc-2", stats[2].AccountID)
	assert.Equal(t, "3.5", stats[2].Spend.String())
	assert.EqualValues(t, 2, stats[2].Conversions)
}

func TestAggregate_ZeroFill(t *testing.T) {
	svc := &Service{}
	dr := domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 3)}

	records := []domain.ReportRecord{
		{AccountID: "acc-1", Date: "20240102", Spend: decimal.NewFromInt(4), Impressions: 3},
	}

	stats := svc.Aggregate(records, []string{"acc-1", "acc-9"}, dr)
	require.Len(t, stats, 6)

	seen := make(map[string]*domain.DailyStat)
	for _, stat := range stats {
		_, dup := seen[stat.Key()]
		assert.False(t, dup, "chave duplicada: %s", stat.Key())
		seen[stat.Key()] = stat
	}

	assert.Equal(t, "4", seen["acc-1:2024-01-02"].Spend.String())
	zero := seen["acc-9:2024-01-03"]
	require.NotNil(t, zero)
	assert.True(t, zero.Spend.IsZero())
	assert.Zero(t, zero.Impressions)
	assert.Nil(t, zero.RawData)
}

func TestApply_Idempotent(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	dr := domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 2)}
	ctx := context.Background()

	require.NoError(t, svc.Apply(ctx, svc.Aggregate(sampleRecords(), []string{"acc-1"}, dr)))
	firstPass := make(map[string]domain.DailyStat, len(store.rows))
	for k, v := range store.rows {
		firstPass[k] = v
	}

	require.NoError(t, svc.Apply(ctx, svc.Aggregate(sampleRecords(), []string{"acc-1"}, dr)))
	assert.Equal(t, firstPass, store.rows)

	// uma nova execução substitui as métricas, não soma
	replacement := []domain.ReportRecord{{AccountID: "acc-1", Date: "20240101", Spend: decimal.NewFromInt(1), Impressions: 1}}
	require.NoError(t, svc.Apply(ctx, svc.Aggregate(replacement, nil, dr)))

	row := store.rows["acc-1:2024-01-01"]
	assert.Equal(t, "1", row.Spend.String())
	assert.EqualValues(t, 1, row.Impressions)
	assert.EqualValues(t, 0, row.Clicks)
	assert.Nil(t, row.RawData)
}

func TestApply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockDailyStatRepository(ctrl)
	svc := NewService(repo)

	t.Run("sem linhas não acessa o banco", func(t *testing.T) {
		assert.NoError(t, svc.Apply(context.Background(), nil))
	})

	t.Run("erro do repositório é propagado", func(t *testing.T) {
		dbErr := errors.New("conexão perdida")
		repo.EXPECT().SaveOrUpdate(gomock.Any(), gomock.Any()).Return(dbErr)

		err := svc.Apply(context.Background(), []*domain.DailyStat{{AccountID: "acc-1", Date: day(2024, 1, 1)}})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestGetDailyStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockDailyStatRepository(ctrl)
	svc := NewService(repo)
	dr := domain.DateRange{Start: day(2024, 1, 1), End: day(2024, 1, 31)}

	t.Run("conta obrigatória", func(t *testing.T) {
		_, err := svc.GetDailyStats(context.Background(), "", dr)
		assert.ErrorIs(t, err, ErrAccountIDRequired)
	})

	t.Run("sem linhas devolve lista vazia", func(t *testing.T) {
		repo.EXPECT().GetByDateRange(gomock.Any(), "acc-1", dr.Start, dr.End).Return(nil, nil)

		stats, err := svc.GetDailyStats(context.Background(), "acc-1", dr)
		require.NoError(t, err)
		assert.NotNil(t, stats)
		assert.Empty(t, stats)
	})
}
