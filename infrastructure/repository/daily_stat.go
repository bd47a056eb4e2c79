package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/budget-hunter/infrastructure/database/postgres"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

const (
	dailyStatsTable = "bh_daily_stats ds"

	// limite de linhas por INSERT para não estourar os parâmetros do postgres
	dailyStatsChunkSize = 500
)

type DailyStatRepository interface {
	SaveOrUpdate(ctx context.Context, stats []*domain.DailyStat) error
	GetByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyStat, error)
	ListDates(ctx context.Context, accountID string, start, end time.Time) (map[string]struct{}, error)
}

type dailyStatRepository struct {
	conn postgres.Conn
}

func NewDailyStatRepository(conn postgres.Conn) DailyStatRepository {
	return &dailyStatRepository{
		conn: conn,
	}
}

// SaveOrUpdate grava todas as linhas numa única transação, sobrescrevendo pela chave (account_id, date)
func (r *dailyStatRepository) SaveOrUpdate(ctx context.Context, stats []*domain.DailyStat) error {
	stats = uniqueByKey(stats)
	if len(stats) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(stats); start += dailyStatsChunkSize {
			end := min(start+dailyStatsChunkSize, len(stats))
			if err := upsertDailyStats(ctx, tx, stats[start:end]); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertDailyStats(ctx context.Context, q postgres.Queryer, stats []*domain.DailyStat) error {
	query := squirrel.StatementBuilder.
		Insert("bh_daily_stats").
		Columns("account_id", "date", "spend", "impressions", "clicks", "conversions", "raw_data")

	for _, stat := range stats {
		var rawData any
		if len(stat.RawData) > 0 {
			rawData = []byte(stat.RawData)
		}

		query = query.Values(
			stat.AccountID,
			stat.Date.Format(time.DateOnly),
			stat.Spend.StringFixed(2),
			stat.Impressions,
			stat.Clicks,
			stat.Conversions,
			rawData,
		)
	}

	sqlQuery, args, err := query.
		Suffix(`
			ON CONFLICT (account_id, date) DO UPDATE SET
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				raw_data = EXCLUDED.raw_data,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err = q.ExecContext(ctx, sqlQuery, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", err, pqErr.Code)
		}
		return fmt.Errorf("erro ao salvar estatísticas diárias: %w", err)
	}

	return nil
}

// uniqueByKey mantém a última ocorrência de cada chave, o postgres recusa a mesma chave duas vezes no mesmo INSERT
func uniqueByKey(stats []*domain.DailyStat) []*domain.DailyStat {
	index := make(map[string]int, len(stats))
	unique := make([]*domain.DailyStat, 0, len(stats))

	for _, stat := range stats {
		if stat == nil {
			continue
		}
		if i, ok := index[stat.Key()]; ok {
			unique[i] = stat
			continue
		}
		index[stat.Key()] = len(unique)
		unique = append(unique, stat)
	}

	return unique
}

func (r *dailyStatRepository) GetByDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*domain.DailyStat, error) {
	query, args, err := squirrel.
		Select("ds.account_id, ds.date, ds.spend, ds.impressions, ds.clicks, ds.conversions, ds.raw_data, ds.updated_at").
		From(dailyStatsTable).
		Where(squirrel.Eq{"ds.account_id": accountID}).
		Where(squirrel.GtOrEq{"ds.date": start.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"ds.date": end.Format(time.DateOnly)}).
		OrderBy("ds.date ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	stats := make([]*domain.DailyStat, 0)
	for rows.Next() {
		var (
			stat    domain.DailyStat
			rawData []byte
		)

		if err := rows.Scan(
			&stat.AccountID,
			&stat.Date,
			&stat.Spend,
			&stat.Impressions,
			&stat.Clicks,
			&stat.Conversions,
			&rawData,
			&stat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear estatística diária: %w", err)
		}

		if len(rawData) > 0 {
			stat.RawData = json.RawMessage(rawData)
		}
		stats = append(stats, &stat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stats, nil
}

// ListDates devolve os dias (YYYY-MM-DD) que já possuem linha gravada no intervalo
func (r *dailyStatRepository) ListDates(ctx context.Context, accountID string, start, end time.Time) (map[string]struct{}, error) {
	query, args, err := squirrel.
		Select("ds.date").
		From(dailyStatsTable).
		Where(squirrel.Eq{"ds.account_id": accountID}).
		Where(squirrel.GtOrEq{"ds.date": start.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"ds.date": end.Format(time.DateOnly)}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("erro ao escanear data: %w", err)
		}
		dates[date.Format(time.DateOnly)] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return dates, nil
}
