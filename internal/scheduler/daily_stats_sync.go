package scheduler

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
)

// DailyStatsSyncService agenda a sincronização diária das estatísticas de todas as contas ativas
type DailyStatsSyncService struct {
	*cronJob
	lookbackDays int
}

func NewDailyStatsSyncService(appConfig *config.Config, syncer syncing.Syncer) *DailyStatsSyncService {
	cfg := appConfig.DailySync

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.CronSchedule,
		"lookback_days": cfg.LookbackDays,
		"sync_enabled":  cfg.Enabled,
	}).Info("Configuração do agendador de estatísticas diárias carregada")

	run := func(ctx context.Context) ([]domain.SyncEvent, error) {
		return syncer.SyncDaily(ctx, domain.SyncRequest{})
	}

	return &DailyStatsSyncService{
		cronJob:      newCronJob("Sincronização diária de estatísticas", cfg.CronSchedule, cfg.Enabled, appConfig.Sync.Location, run),
		lookbackDays: cfg.LookbackDays,
	}
}

func (s *DailyStatsSyncService) GetStatus() map[string]any {
	status := s.cronJob.GetStatus()
	status["lookback_days"] = s.lookbackDays
	return status
}
