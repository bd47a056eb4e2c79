package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/vfg2006/budget-hunter/pkg/apiErrors"
	"github.com/vfg2006/budget-hunter/pkg/log"
)

const SchedulerSecretHeader = "X-Scheduler-Secret"

// SchedulerSecret restringe a rota ao agendador externo que conhece o segredo compartilhado
func SchedulerSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				log.ForContext(r.Context()).Warn("Segredo do agendador não configurado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Agendador não configurado", nil)
				return
			}

			got := r.Header.Get(SchedulerSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Segredo do agendador inválido")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Segredo do agendador inválido", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
