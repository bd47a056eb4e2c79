package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/committing"
	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
	"github.com/vfg2006/budget-hunter/pkg/log"
)

// CommitCampaigns grava a árvore campanha/grupo/criativo na Broadciel e devolve o resultado por nó
func CommitCampaigns(committer committing.Committer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var payload domain.CommitPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			logger.WithError(err).Warn("commit: invalid request body")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"account_email": payload.AccountEmail,
			"campaigns":     len(payload.Campaigns),
		}).Info("commit: starting")

		result, err := committer.Commit(r.Context(), payload)
		if err != nil {
			logger.WithError(err).Warn("commit: rejected")

			switch {
			case errors.Is(err, committing.ErrTokenNotFound):
				apiErrors.WriteError(w, apiErrors.ErrCommitTokenNotFound, err.Error(), nil)
			case errors.Is(err, committing.ErrAccountEmailRequired), errors.Is(err, committing.ErrNoCampaigns):
				apiErrors.WriteError(w, apiErrors.ErrCommitInvalid, err.Error(), nil)
			default:
				apiErrors.WriteError(w, apiErrors.ErrExternalService, err.Error(), nil)
			}
			return
		}

		logger.WithFields(log.Fields{
			"successful_campaigns": result.Summary.SuccessfulCampaigns,
			"failed_campaigns":     result.Summary.FailedCampaigns,
		}).Info("commit: finished")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("commit: error encoding response")
		}
	})
}
