package syncing

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/rixbee/rixbeeclient"
	"github.com/vfg2006/budget-hunter/infrastructure/repository"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"github.com/vfg2006/budget-hunter/pkg/log"
)

const (
	messageDone        = "Sincronização concluída"
	messageInterrupted = "Sincronização interrompida"
	messageCanceled    = "Sincronização cancelada"
)

// Syncer executa a sincronização das contas ativas e publica o progresso
type Syncer interface {
	Sync(ctx context.Context, req domain.SyncRequest) <-chan domain.SyncEvent
	SyncDaily(ctx context.Context, req domain.SyncRequest) ([]domain.SyncEvent, error)
	CheckConsistency(ctx context.Context) ([]domain.SyncEvent, error)
}

type Service struct {
	cfg               *config.Config
	accountRepository repository.AccountRepository
	dailyStatRepo     repository.DailyStatRepository
	aggregator        aggregating.Aggregator
	discovery         discovery.Integrator
	rixbee            rixbee.Integrator
	now               func() time.Time
}

func NewService(
	cfg *config.Config,
	accountRepo repository.AccountRepository,
	dailyStatRepo repository.DailyStatRepository,
	aggregator aggregating.Aggregator,
	discoveryIntegrator discovery.Integrator,
	rixbeeIntegrator rixbee.Integrator,
) *Service {
	return &Service{
		cfg:               cfg,
		accountRepository: accountRepo,
		dailyStatRepo:     dailyStatRepo,
		aggregator:        aggregator,
		discovery:         discoveryIntegrator,
		rixbee:            rixbeeIntegrator,
		now:               time.Now,
	}
}

// WithClock substitui o relógio usado para calcular "ontem"
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Sync inicia uma execução em segundo plano. O canal é fechado depois do evento done.
// Um run id já presente no contexto é reaproveitado.
func (s *Service) Sync(ctx context.Context, req domain.SyncRequest) <-chan domain.SyncEvent {
	ctx, runID := log.EnsureRunID(ctx)
	stream := NewStream(ctx, defaultStreamBuffer)

	go s.run(ctx, runID, req, stream)

	return stream.Events()
}

func (s *Service) run(ctx context.Context, runID string, req domain.SyncRequest, stream *Stream) {
	logger := log.ForContext(ctx).WithField("account_id", req.AccountID)

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(log.Fields{
				"error": r,
				"stack": string(debug.Stack()),
			}).Error("Panic durante a sincronização")
			stream.Error(fmt.Sprintf("Erro interno: %v", r))
			stream.Done(domain.SyncEventError, messageInterrupted)
		}
	}()

	logger.Infof("Iniciando sincronização %s", runID)
	err := s.execute(ctx, req, stream)

	var fatal *FatalError
	switch {
	case err == nil:
		logger.Info(messageDone)
		stream.Done(domain.SyncEventInfo, messageDone)
	case errors.As(err, &fatal):
		logger.WithError(err).Error("Sincronização interrompida por erro fatal")
		stream.Error(fatal.Message)
		stream.Done(domain.SyncEventError, messageInterrupted)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Observador desconectado, nenhuma gravação realizada")
		stream.Done(domain.SyncEventInfo, messageCanceled)
	default:
		logger.WithError(err).Error("Erro na sincronização")
		stream.Error(err.Error())
		stream.Done(domain.SyncEventError, messageInterrupted)
	}
}

// batch acumula os registros de todas as plataformas antes da única gravação da execução
type batch struct {
	records  []domain.ReportRecord
	zeroFill []string
}

func (s *Service) execute(ctx context.Context, req domain.SyncRequest, stream *Stream) error {
	dr := s.defaultRange()
	if req.Range != nil {
		dr = *req.Range
	}

	accounts, err := s.accountRepository.ListAccounts(ctx, domain.AccountFilter{
		AccountID: req.AccountID,
		Statuses:  []domain.AccountStatus{domain.AccountStatusActive},
	})
	if err != nil {
		return fmt.Errorf("erro ao buscar contas: %w", err)
	}

	if len(accounts) == 0 {
		stream.Info("Nenhuma conta ativa encontrada")
		return nil
	}

	stream.Info(fmt.Sprintf("Sincronizando %d conta(s) de %s", len(accounts), dr))

	rixbeeAccounts, discoveryAccounts := splitByPlatform(accounts)
	b := &batch{}

	if err := s.syncRixbee(ctx, rixbeeAccounts, dr, stream, b); err != nil {
		return err
	}

	if err := s.syncDiscovery(ctx, discoveryAccounts, dr, stream, b); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	stats := s.aggregator.Aggregate(b.records, b.zeroFill, dr)
	if err := s.aggregator.Apply(ctx, stats); err != nil {
		return err
	}

	stream.Progress(fmt.Sprintf("%d linha(s) de estatísticas gravada(s)", len(stats)))
	return nil
}

func (s *Service) syncRixbee(ctx context.Context, accounts []domain.Account, dr domain.DateRange, stream *Stream, b *batch) error {
	for _, group := range groupByAgent(accounts) {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := s.rixbee.Fetch(ctx, group, dr)
		if err != nil {
			if errors.Is(err, rixbeeclient.ErrBadStatus) {
				return NewFatalError(err.Error(), err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			log.ForContext(ctx).WithError(err).WithField("platform", domain.PlatformRixbee).Warn("Falha ao consultar a Rixbee")
			stream.Error(fmt.Sprintf("Falha ao consultar a Rixbee para %s: %v", joinIDs(group), err))
			continue
		}

		b.records = append(b.records, records...)
		b.zeroFill = append(b.zeroFill, accountIDs(group)...)
		stream.Progress(fmt.Sprintf("Rixbee: %d registro(s) para %d conta(s)", len(records), len(group)))
	}

	return nil
}

func (s *Service) syncDiscovery(ctx context.Context, accounts []domain.Account, dr domain.DateRange, stream *Stream, b *batch) error {
	if len(accounts) == 0 {
		return nil
	}

	tokens, err := s.accountRepository.ListDiscoveryTokens(ctx, accountIDs(accounts))
	if err != nil {
		return fmt.Errorf("erro ao buscar tokens da Discovery: %w", err)
	}

	withToken := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if tokens[acc.AccountID] == "" {
			stream.Info(fmt.Sprintf("Conta %s sem token da Discovery, ignorada", acc.AccountID))
			continue
		}
		withToken = append(withToken, acc)
	}

	for _, group := range groupByToken(withToken, tokens) {
		if err := ctx.Err(); err != nil {
			return err
		}

		in := discovery.Input{
			Secret:   tokens[group[0].AccountID],
			Accounts: group,
			Range:    dr,
		}

		out, err := s.discovery.Run(ctx, in, func(message string) { stream.Progress(message) })
		if err != nil {
			if errors.Is(err, discovery.ErrAuthFailed) {
				return NewFatalError(fmt.Sprintf("Falha na autenticação da Discovery para %s", joinIDs(group)), err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			log.ForContext(ctx).WithError(err).WithField("platform", domain.PlatformDiscovery).Warn("Falha ao consultar a Discovery")
			if errors.Is(err, discovery.ErrListDropped) {
				stream.Error(fmt.Sprintf("Lista de campanhas da Discovery não obtida para %s após as tentativas", joinIDs(group)))
				continue
			}
			stream.Error(fmt.Sprintf("Falha ao consultar a Discovery para %s: %v", joinIDs(group), err))
			continue
		}

		b.records = append(b.records, out.Records()...)

		unfetched := out.UnfetchedByAccount()
		for _, acc := range group {
			if missing := unfetched[acc.AccountID]; missing > 0 {
				stream.Error(fmt.Sprintf("Conta %s: %d consulta(s) da Discovery não obtida(s) após as tentativas", acc.AccountID, missing))
				continue
			}
			b.zeroFill = append(b.zeroFill, acc.AccountID)
		}
	}

	return nil
}

// SyncDaily executa a sincronização e devolve todos os eventos coletados
func (s *Service) SyncDaily(ctx context.Context, req domain.SyncRequest) ([]domain.SyncEvent, error) {
	events := Collect(s.Sync(ctx, req))
	return events, terminalError(events)
}

// CheckConsistency sincroniza os dias sem linha gravada entre o início da campanha e ontem
func (s *Service) CheckConsistency(ctx context.Context) ([]domain.SyncEvent, error) {
	accounts, err := s.accountRepository.ListAccounts(ctx, domain.AccountFilter{
		Statuses: []domain.AccountStatus{domain.AccountStatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar contas: %w", err)
	}

	yesterday := s.defaultRange().End
	events := make([]domain.SyncEvent, 0)
	var failures int

	for _, acc := range accounts {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		dr, ok := campaignRange(acc, yesterday)
		if !ok {
			continue
		}

		existing, err := s.dailyStatRepo.ListDates(ctx, acc.AccountID, dr.Start, dr.End)
		if err != nil {
			return events, fmt.Errorf("erro ao buscar datas gravadas da conta %s: %w", acc.AccountID, err)
		}

		for _, missing := range missingRanges(dr, existing) {
			log.ForContext(ctx).WithField("account_id", acc.AccountID).Infof("Preenchendo lacuna %s", missing)

			r := missing
			runEvents, err := s.SyncDaily(ctx, domain.SyncRequest{AccountID: acc.AccountID, Range: &r})
			events = append(events, runEvents...)
			if err != nil {
				failures++
			}
		}
	}

	if failures > 0 {
		return events, fmt.Errorf("%w: %d execução(ões) de preenchimento com erro", ErrSyncFailed, failures)
	}

	return events, nil
}

// defaultRange devolve os últimos LookbackDays dias terminando ontem no fuso da sincronização
func (s *Service) defaultRange() domain.DateRange {
	loc := time.UTC
	if s.cfg != nil && s.cfg.Sync.Location != nil {
		loc = s.cfg.Sync.Location
	}

	lookback := 1
	if s.cfg != nil && s.cfg.DailySync.LookbackDays > 1 {
		lookback = s.cfg.DailySync.LookbackDays
	}

	yesterday := domain.SingleDay(s.now().In(loc).AddDate(0, 0, -1)).End
	return domain.DateRange{
		Start: yesterday.AddDate(0, 0, -(lookback - 1)),
		End:   yesterday,
	}
}

func terminalError(events []domain.SyncEvent) error {
	if len(events) == 0 {
		return ErrSyncCanceled
	}

	last := events[len(events)-1]
	switch {
	case !last.Done, last.Message == messageCanceled:
		return ErrSyncCanceled
	case last.Kind == domain.SyncEventError:
		for i := len(events) - 2; i >= 0; i-- {
			if events[i].Kind == domain.SyncEventError {
				return fmt.Errorf("%w: %s", ErrSyncFailed, events[i].Message)
			}
		}
		return ErrSyncFailed
	}

	return nil
}
