package aggregating

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/repository"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

var ErrAccountIDRequired = errors.New("account ID is required")

// Aggregator reduz registros normalizados a uma linha por conta e dia e grava com substituição
type Aggregator interface {
	Aggregate(records []domain.ReportRecord, zeroFill []string, dr domain.DateRange) []*domain.DailyStat
	Apply(ctx context.Context, stats []*domain.DailyStat) error
	GetDailyStats(ctx context.Context, accountID string, dr domain.DateRange) ([]*domain.DailyStat, error)
}

type Service struct {
	dailyStatRepository repository.DailyStatRepository
}

func NewService(dailyStatRepo repository.DailyStatRepository) Aggregator {
	return &Service{
		dailyStatRepository: dailyStatRepo,
	}
}

// Aggregate soma as métricas por (conta, dia). Contas em zeroFill recebem linha zerada para
// cada dia do intervalo que não trouxe dados.
func (s *Service) Aggregate(records []domain.ReportRecord, zeroFill []string, dr domain.DateRange) []*domain.DailyStat {
	buckets := make(map[string]*domain.DailyStat)

	for _, record := range records {
		if record.AccountID == "" {
			continue
		}

		day, err := domain.ParseDay(record.Date)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": record.AccountID,
				"date":       record.Date,
			}).Warn("Registro ignorado por data inválida")
			continue
		}

		stat := statFor(buckets, record.AccountID, day)
		stat.Spend = stat.Spend.Add(record.Spend)
		stat.Impressions += record.Impressions
		stat.Clicks += record.Clicks
		stat.Conversions += record.Conversions

		if len(record.Raw) > 0 {
			stat.RawData = record.Raw
		}
	}

	for _, accountID := range zeroFill {
		for _, day := range dr.Dates() {
			statFor(buckets, accountID, day)
		}
	}

	stats := make([]*domain.DailyStat, 0, len(buckets))
	for _, stat := range buckets {
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AccountID != stats[j].AccountID {
			return stats[i].AccountID < stats[j].AccountID
		}
		return stats[i].Date.Before(stats[j].Date)
	})

	return stats
}

func statFor(buckets map[string]*domain.DailyStat, accountID string, day time.Time) *domain.DailyStat {
	key := domain.DailyStat{AccountID: accountID, Date: day}.Key()
	if stat, ok := buckets[key]; ok {
		return stat
	}

	stat := &domain.DailyStat{
		AccountID: accountID,
		Date:      day,
		Spend:     decimal.Zero,
	}
	buckets[key] = stat
	return stat
}

// Apply grava as linhas agregadas, substituindo as métricas já existentes
func (s *Service) Apply(ctx context.Context, stats []*domain.DailyStat) error {
	if len(stats) == 0 {
		return nil
	}

	if err := s.dailyStatRepository.SaveOrUpdate(ctx, stats); err != nil {
		return fmt.Errorf("erro ao gravar estatísticas diárias: %w", err)
	}

	logrus.WithField("rows", len(stats)).Info("Estatísticas diárias gravadas")
	return nil
}

func (s *Service) GetDailyStats(ctx context.Context, accountID string, dr domain.DateRange) ([]*domain.DailyStat, error) {
	if accountID == "" {
		return nil, ErrAccountIDRequired
	}

	stats, err := s.dailyStatRepository.GetByDateRange(ctx, accountID, dr.Start, dr.End)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar estatísticas diárias: %w", err)
	}

	if stats == nil {
		stats = []*domain.DailyStat{}
	}

	return stats, nil
}
