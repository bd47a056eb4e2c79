package scheduler

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
)

// IntegrityCheckService agenda o preenchimento dos dias sem estatística gravada
type IntegrityCheckService struct {
	*cronJob
}

func NewIntegrityCheckService(appConfig *config.Config, syncer syncing.Syncer) *IntegrityCheckService {
	cfg := appConfig.IntegritySync

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.CronSchedule,
		"sync_enabled":  cfg.Enabled,
	}).Info("Configuração do agendador de integridade carregada")

	return &IntegrityCheckService{
		cronJob: newCronJob("Verificação de integridade", cfg.CronSchedule, cfg.Enabled, appConfig.Sync.Location, syncer.CheckConsistency),
	}
}
