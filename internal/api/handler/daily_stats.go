package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
	"github.com/vfg2006/budget-hunter/pkg/log"
)

func GetDailyStats(aggregator aggregating.Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		dr, err := parseRange(r.URL.Query())
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id": id,
				"error":      err.Error(),
			}).Warn("stats: invalid range parameters")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}
		if dr == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Parâmetros start e end são obrigatórios", nil)
			return
		}

		logger.WithFields(log.Fields{
			"account_id": id,
			"start":      dr.Start.Format(time.DateOnly),
			"end":        dr.End.Format(time.DateOnly),
		}).Debug("stats: fetching daily stats")

		stats, err := aggregator.GetDailyStats(r.Context(), id, *dr)
		if err != nil {
			if errors.Is(err, aggregating.ErrAccountIDRequired) {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
				return
			}

			logger.WithError(err).WithField("account_id", id).Error("stats: error fetching daily stats")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar estatísticas diárias", nil)
			return
		}

		response := struct {
			AccountID string              `json:"account_id"`
			Start     string              `json:"start"`
			End       string              `json:"end"`
			Stats     []*domain.DailyStat `json:"stats"`
		}{
			AccountID: id,
			Start:     dr.Start.Format(time.DateOnly),
			End:       dr.End.Format(time.DateOnly),
			Stats:     stats,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("stats: error encoding response")
		}
	})
}
