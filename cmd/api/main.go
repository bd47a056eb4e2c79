package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/database/postgres"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel/broadcielclient"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/discoveryclient"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient"
	"github.com/vfg2006/budget-hunter/infrastructure/migration"
	"github.com/vfg2006/budget-hunter/infrastructure/repository"
	"github.com/vfg2006/budget-hunter/internal/api"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/scheduler"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"github.com/vfg2006/budget-hunter/internal/usecases/committing"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
)

// timeout por requisição dos clientes das plataformas
const integratorTimeout = 30 * time.Second

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.Up(ctx, pgConn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	accountRepo := repository.NewAccountRepository(pgConn)
	dailyStatRepo := repository.NewDailyStatRepository(pgConn)

	discoveryClient := discoveryclient.NewClient(cfg.Discovery, discoveryclient.NewFetcher(cfg.Discovery, integratorTimeout))
	discoveryIntegrator := discovery.New(cfg, discoveryClient)

	rixbeeClient := rixbeeclient.NewClient(cfg.Rixbee, rixbeeclient.NewFetcher(integratorTimeout))
	rixbeeIntegrator := rixbee.New(cfg, rixbeeClient)

	broadcielWriter := broadciel.New(broadcielclient.NewClient(cfg.Broadciel))

	aggregator := aggregating.NewService(dailyStatRepo)
	committer := committing.NewProcessor(cfg, broadcielWriter)
	syncer := syncing.NewService(
		cfg,
		accountRepo,
		dailyStatRepo,
		aggregator,
		discoveryIntegrator,
		rixbeeIntegrator,
	)

	dailyStatsSyncService := scheduler.NewDailyStatsSyncService(cfg, syncer)
	integrityCheckService := scheduler.NewIntegrityCheckService(cfg, syncer)

	// Inicia os agendadores em background
	if err := dailyStatsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização diária")
	} else {
		logrus.Info("Agendador de sincronização diária iniciado com sucesso")
	}

	if err := integrityCheckService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de verificação de integridade")
	} else {
		logrus.Info("Agendador de verificação de integridade iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		syncer,
		committer,
		aggregator,
		dailyStatsSyncService,
		integrityCheckService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	_ = os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
