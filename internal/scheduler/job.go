package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

// Job é um agendador com disparo manual e status, exposto nas rotas de cron
type Job interface {
	Start(ctx context.Context) error
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// runFunc executa uma rodada e devolve os eventos coletados
type runFunc func(ctx context.Context) ([]domain.SyncEvent, error)

// cronJob guarda o estado comum aos agendadores: exclusão mútua e horários da última execução
type cronJob struct {
	name      string
	cron      string
	enabled   bool
	scheduler *gocron.Scheduler
	run       runFunc

	ctx             context.Context
	mu              sync.Mutex
	running         bool
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastEvents      int
	lastError       string
}

func newCronJob(name, cron string, enabled bool, loc *time.Location, run runFunc) *cronJob {
	if loc == nil {
		loc = time.Local
	}

	return &cronJob{
		name:      name,
		cron:      cron,
		enabled:   enabled,
		scheduler: gocron.NewScheduler(loc),
		run:       run,
		ctx:       context.Background(),
	}
}

func (j *cronJob) Start(ctx context.Context) error {
	j.ctx = ctx

	if !j.enabled {
		logrus.Infof("%s desabilitada por configuração", j.name)
		return nil
	}

	logrus.WithField("cron", j.cron).Infof("Iniciando agendador: %s", j.name)

	_, err := j.scheduler.Cron(j.cron).Do(func() {
		j.execute(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar %s: %w", j.name, err)
	}

	j.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Infof("Parando agendador: %s", j.name)
		j.scheduler.Stop()
	}()

	return nil
}

func (j *cronJob) tryAcquire() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return false
	}
	j.running = true
	j.lastStartedAt = time.Now()
	return true
}

func (j *cronJob) execute(ctx context.Context) {
	if !j.tryAcquire() {
		logrus.Infof("%s já em andamento, ignorando", j.name)
		return
	}
	j.finish(j.run(ctx))
}

func (j *cronJob) finish(events []domain.SyncEvent, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.running = false
	j.lastCompletedAt = time.Now()
	j.lastEvents = len(events)
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}

	entry := logrus.WithFields(logrus.Fields{
		"duration": j.lastCompletedAt.Sub(j.lastStartedAt).String(),
		"events":   len(events),
	})
	if err != nil {
		entry.WithError(err).Errorf("%s concluída com erro", j.name)
		return
	}
	entry.Infof("%s concluída", j.name)
}

// TriggerManualSync dispara uma rodada em segundo plano; false quando já existe uma em execução
func (j *cronJob) TriggerManualSync() bool {
	if !j.tryAcquire() {
		logrus.Infof("%s já em andamento, ignorando solicitação manual", j.name)
		return false
	}

	logrus.Infof("Iniciando execução manual: %s", j.name)
	go func() {
		j.finish(j.run(j.ctx))
	}()
	return true
}

func (j *cronJob) GetStatus() map[string]any {
	j.mu.Lock()
	defer j.mu.Unlock()

	return map[string]any{
		"enabled":                j.enabled,
		"cron":                   j.cron,
		"running":                j.running,
		"last_sync_started_at":   j.lastStartedAt,
		"last_sync_completed_at": j.lastCompletedAt,
		"last_sync_events":       j.lastEvents,
		"last_sync_error":        j.lastError,
	}
}
