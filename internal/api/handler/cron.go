package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/scheduler"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeDaily     = "daily"
	CronJobTypeIntegrity = "integrity"
	CronJobTypeAll       = "all"
)

// CronJobServices contém os agendadores e o sincronizador usados pelas rotas de cron
type CronJobServices struct {
	DailyStatsSync scheduler.Job
	IntegrityCheck scheduler.Job
	Syncer         syncing.Syncer
}

// cronRunResponse é a resposta das execuções síncronas disparadas pelo agendador externo
type cronRunResponse struct {
	Success  bool     `json:"success"`
	Messages []string `json:"messages"`
}

// RunDailySync sincroniza ontem para todas as contas ativas e devolve as mensagens coletadas
func RunDailySync(syncer syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunDailySync")

		events, err := syncer.SyncDaily(r.Context(), domain.SyncRequest{})
		writeCronRun(w, events, err)
	}
}

// RunIntegritySync preenche os dias sem estatística desde o início de cada campanha
func RunIntegritySync(syncer syncing.Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunIntegritySync")

		events, err := syncer.CheckConsistency(r.Context())
		writeCronRun(w, events, err)
	}
}

func writeCronRun(w http.ResponseWriter, events []domain.SyncEvent, err error) {
	messages := make([]string, 0, len(events))
	for _, event := range events {
		messages = append(messages, event.Message)
	}

	if err != nil {
		logrus.WithError(err).Warn("Execução de cron terminou com erro")

		code := apiErrors.ErrSyncFailed
		if errors.Is(err, syncing.ErrSyncCanceled) || errors.Is(err, context.Canceled) {
			code = apiErrors.ErrSyncCanceled
		}
		apiErrors.WriteError(w, code, err.Error(), cronRunResponse{Success: false, Messages: messages})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(cronRunResponse{Success: true, Messages: messages})
}

// RunCronJob dispara manualmente um agendador em segundo plano
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		started := map[string]bool{}

		switch cronType {
		case CronJobTypeDaily:
			if services.DailyStatsSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização diária não disponível", nil)
				return
			}
			started[CronJobTypeDaily] = services.DailyStatsSync.TriggerManualSync()

		case CronJobTypeIntegrity:
			if services.IntegrityCheck == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de verificação de integridade não disponível", nil)
				return
			}
			started[CronJobTypeIntegrity] = services.IntegrityCheck.TriggerManualSync()

		case CronJobTypeAll:
			if services.DailyStatsSync != nil {
				started[CronJobTypeDaily] = services.DailyStatsSync.TriggerManualSync()
			}
			if services.IntegrityCheck != nil {
				started[CronJobTypeIntegrity] = services.IntegrityCheck.TriggerManualSync()
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: daily, integrity, all", nil)
			return
		}

		anyStarted := false
		for _, ok := range started {
			anyStarted = anyStarted || ok
		}
		if !anyStarted {
			apiErrors.WriteError(w, apiErrors.ErrSyncInProcess, "Cron job já em andamento", started)
			return
		}

		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"started": started,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.DailyStatsSync != nil {
			status[CronJobTypeDaily] = services.DailyStatsSync.GetStatus()
		}
		if services.IntegrityCheck != nil {
			status[CronJobTypeIntegrity] = services.IntegrityCheck.GetStatus()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	}
}
