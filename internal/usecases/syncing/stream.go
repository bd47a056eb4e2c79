package syncing

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/budget-hunter/internal/domain"
)

const (
	defaultStreamBuffer = 16

	// tempo extra para um leitor que ainda drena o canal receber o done após o cancelamento
	terminalGrace = time.Second
)

// Stream entrega os eventos de uma execução na ordem em que foram emitidos
// e termina com exatamente um evento done=true.
type Stream struct {
	ctx    context.Context
	events chan domain.SyncEvent

	mu       sync.Mutex
	finished bool
	once     sync.Once
}

func NewStream(ctx context.Context, buffer int) *Stream {
	if buffer < 0 {
		buffer = defaultStreamBuffer
	}

	return &Stream{
		ctx:    ctx,
		events: make(chan domain.SyncEvent, buffer),
	}
}

func (s *Stream) Events() <-chan domain.SyncEvent {
	return s.events
}

func (s *Stream) Info(message string) bool {
	return s.emit(domain.SyncEvent{Message: message, Kind: domain.SyncEventInfo})
}

func (s *Stream) Progress(message string) bool {
	return s.emit(domain.SyncEvent{Message: message, Kind: domain.SyncEventProgress})
}

func (s *Stream) Error(message string) bool {
	return s.emit(domain.SyncEvent{Message: message, Kind: domain.SyncEventError})
}

// Done emite o evento terminal e fecha o canal. Chamadas seguintes são ignoradas.
// O evento terminal é entregue mesmo com o contexto já cancelado sempre que houver espaço no buffer.
func (s *Stream) Done(kind domain.SyncEventKind, message string) {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.deliverTerminal(domain.SyncEvent{Message: message, Kind: kind, Done: true})
		s.finished = true
		close(s.events)
	})
}

func (s *Stream) deliverTerminal(event domain.SyncEvent) {
	if s.trySend(event) {
		return
	}

	select {
	case s.events <- event:
		return
	case <-s.ctx.Done():
	}

	timer := time.NewTimer(terminalGrace)
	defer timer.Stop()

	select {
	case s.events <- event:
	case <-timer.C:
	}
}

// emit bloqueia até o observador consumir o evento ou desconectar
func (s *Stream) emit(event domain.SyncEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return false
	}

	if s.trySend(event) {
		return true
	}

	select {
	case s.events <- event:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Stream) trySend(event domain.SyncEvent) bool {
	select {
	case s.events <- event:
		return true
	default:
		return false
	}
}

// Collect consome o canal até o evento terminal
func Collect(events <-chan domain.SyncEvent) []domain.SyncEvent {
	collected := make([]domain.SyncEvent, 0)
	for event := range events {
		collected = append(collected, event)
	}
	return collected
}
