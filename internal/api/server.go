package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/internal/api/handler"
	"github.com/vfg2006/budget-hunter/internal/api/handler/router"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/scheduler"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"github.com/vfg2006/budget-hunter/internal/usecases/committing"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
	"github.com/vfg2006/budget-hunter/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	syncer syncing.Syncer,
	committer committing.Committer,
	aggregator aggregating.Aggregator,
	dailyStatsSync scheduler.Job,
	integrityCheck scheduler.Job,
) (*Server, error) {
	cronServices := handler.CronJobServices{
		DailyStatsSync: dailyStatsSync,
		IntegrityCheck: integrityCheck,
		Syncer:         syncer,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Sync(syncer)...),
		router.WithRoutes(handler.Commit(committer)...),
		router.WithRoutes(handler.DailyStats(aggregator)...),
		router.WithRoutes(handler.CronJobs(cronServices, config.Auth.SchedulerSecret)...),
	)

	logrus.WithField("routes", rt.Routes()).Debug("Rotas registradas")

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Auth.AllowedOrigins),
		middleware.AuthMiddleware(middleware.NewJWTValidator(config.Auth.Secret), handler.PublicPaths()...),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown encerra o servidor HTTP; streams abertos são cancelados pelo contexto das requisições
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
