package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
	"github.com/vfg2006/budget-hunter/pkg/log"
	"github.com/vfg2006/budget-hunter/pkg/utils"
)

var errPartialRange = errors.New("informe start e end juntos")

// StreamSync executa uma sincronização e transmite o progresso em text/event-stream
func StreamSync(syncer syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Streaming não suportado", nil)
			return
		}

		query := r.URL.Query()
		dr, err := parseSyncRange(query)
		if err != nil {
			logger.WithError(err).Warn("sync: invalid range parameters")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		req := domain.SyncRequest{
			AccountID: query.Get("account_id"),
			Range:     dr,
		}

		ctx, runID := log.WithRunID(r.Context())
		logger = log.ForContext(ctx)

		w.Header().Set(log.RunIDHeader, runID)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		logger.WithField("account_id", req.AccountID).Info("sync: stream opened")

		// o canal só fecha depois do evento done, mesmo com o cliente desconectado
		disconnected := false
		for event := range syncer.Sync(ctx, req) {
			if disconnected {
				continue
			}

			payload, err := json.Marshal(event)
			if err != nil {
				logger.WithError(err).Error("sync: error encoding event")
				continue
			}

			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				logger.WithError(err).Warn("sync: client disconnected")
				disconnected = true
				continue
			}
			flusher.Flush()
		}

		logger.Info("sync: stream closed")
	})
}

// parseSyncRange aceita date=AAAA-MM-DD ou start/end; sem parâmetros a sincronização usa ontem
func parseSyncRange(query url.Values) (*domain.DateRange, error) {
	day, err := utils.ParseDate(query.Get("date"))
	if err != nil {
		return nil, err
	}
	if day != nil {
		dr := domain.SingleDay(*day)
		return &dr, nil
	}

	return parseRange(query)
}

func parseRange(query url.Values) (*domain.DateRange, error) {
	start, err := utils.ParseDate(query.Get("start"))
	if err != nil {
		return nil, err
	}

	end, err := utils.ParseDate(query.Get("end"))
	if err != nil {
		return nil, err
	}

	switch {
	case start == nil && end == nil:
		return nil, nil
	case start == nil || end == nil:
		return nil, errPartialRange
	}

	dr, err := domain.NewDateRange(*start, *end)
	if err != nil {
		return nil, err
	}

	return &dr, nil
}
