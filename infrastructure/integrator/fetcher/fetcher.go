package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxAttempts = 3
	DefaultPace        = time.Second
)

// ErrRetriesExhausted indica que a requisição continuou limitada após todas as tentativas
var ErrRetriesExhausted = errors.New("fetcher: rate limit retries exhausted")

// Request descreve uma requisição HTTP de saída
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

func (r Request) key() string {
	return r.Method + " " + r.URL + " " + string(r.Body)
}

// Response carrega a requisição de origem para que o chamador faça a correlação
type Response struct {
	Request    Request
	StatusCode int
	Body       []byte
}

// Outcome é o resultado contabilizado de uma requisição
type Outcome struct {
	Request  Request
	Response *Response
	Attempts int
	Err      error
}

// RateLimitFunc reconhece a assinatura de limite de requisições da plataforma
type RateLimitFunc func(Response) bool

// NeverRateLimited é usado por plataformas sem limitação sinalizada no corpo
func NeverRateLimited(Response) bool { return false }

// BatchDoer executa um lote de requisições concorrentemente
type BatchDoer interface {
	DoBatch(ctx context.Context, reqs []Request) ([]Response, error)
}

type Fetcher struct {
	doer          BatchDoer
	isRateLimited RateLimitFunc
	maxAttempts   int
	pace          time.Duration
	now           func() time.Time
	sleep         func(ctx context.Context, d time.Duration) error
	logger        *logrus.Entry
}

type Option func(*Fetcher)

// WithMaxAttempts define o total de tentativas por requisição limitada
func WithMaxAttempts(attempts int) Option {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// WithPace define a duração mínima de cada lote
func WithPace(pace time.Duration) Option {
	return func(f *Fetcher) {
		f.pace = pace
	}
}

// WithClock substitui relógio e espera, usado nos testes
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		f.now = now
		f.sleep = sleep
	}
}

func WithLogger(entry *logrus.Entry) Option {
	return func(f *Fetcher) {
		f.logger = entry
	}
}

func New(doer BatchDoer, isRateLimited RateLimitFunc, opts ...Option) *Fetcher {
	if isRateLimited == nil {
		isRateLimited = NeverRateLimited
	}

	f := &Fetcher{
		doer:          doer,
		isRateLimited: isRateLimited,
		maxAttempts:   DefaultMaxAttempts,
		pace:          DefaultPace,
		now:           time.Now,
		sleep:         sleepContext,
		logger:        logrus.WithField("component", "fetcher"),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch executa as requisições e devolve apenas as respostas aceitas,
// sem garantia de ordem. Requisições que esgotam as tentativas são descartadas.
func (f *Fetcher) Fetch(ctx context.Context, reqs []Request, batchSize int) ([]Response, error) {
	outcomes, err := f.FetchAccounted(ctx, reqs, batchSize)

	responses := make([]Response, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err == nil && outcome.Response != nil {
			responses = append(responses, *outcome.Response)
		}
	}

	return responses, err
}

// FetchAccounted devolve exatamente um Outcome por requisição, na ordem de entrada.
// Em caso de erro de transporte ou cancelamento, os Outcomes ainda pendentes ficam sem resposta.
func (f *Fetcher) FetchAccounted(ctx context.Context, reqs []Request, batchSize int) ([]Outcome, error) {
	if batchSize <= 0 {
		batchSize = 1
	}

	outcomes := make([]Outcome, len(reqs))
	pending := make([]int, len(reqs))
	for i, req := range reqs {
		outcomes[i] = Outcome{Request: req}
		pending[i] = i
	}

	var lastStart time.Time
	batches := 0

	for attempt := 1; attempt <= f.maxAttempts && len(pending) > 0; attempt++ {
		throttled := make([]int, 0)

		for start := 0; start < len(pending); start += batchSize {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}

			if batches > 0 {
				if err := f.waitPace(ctx, lastStart); err != nil {
					return outcomes, err
				}
			}

			end := min(start+batchSize, len(pending))
			batch := pending[start:end]

			lastStart = f.now()
			batches++

			limited, err := f.runBatch(ctx, outcomes, batch, attempt)
			if err != nil {
				return outcomes, err
			}
			throttled = append(throttled, limited...)
		}

		if len(throttled) > 0 {
			f.logger.WithFields(logrus.Fields{
				"attempt":   attempt,
				"throttled": len(throttled),
			}).Warn("fetcher: requests rate limited, scheduling retry")
		}

		pending = throttled
	}

	for _, idx := range pending {
		outcomes[idx].Err = ErrRetriesExhausted
		f.logger.WithFields(logrus.Fields{
			"url":      outcomes[idx].Request.URL,
			"attempts": outcomes[idx].Attempts,
		}).Warn("fetcher: dropping request after exhausting retries")
	}

	return outcomes, nil
}

// runBatch envia um lote e devolve os índices limitados pela plataforma
func (f *Fetcher) runBatch(ctx context.Context, outcomes []Outcome, batch []int, attempt int) ([]int, error) {
	reqs := make([]Request, len(batch))
	byKey := make(map[string][]int, len(batch))
	for i, idx := range batch {
		reqs[i] = outcomes[idx].Request
		outcomes[idx].Attempts = attempt
		k := reqs[i].key()
		byKey[k] = append(byKey[k], idx)
	}

	responses, err := f.doer.DoBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}

	throttled := make([]int, 0)
	for i := range responses {
		resp := responses[i]

		k := resp.Request.key()
		queue := byKey[k]
		if len(queue) == 0 {
			f.logger.WithField("url", resp.Request.URL).Warn("fetcher: response without matching request")
			continue
		}
		idx := queue[0]
		byKey[k] = queue[1:]

		outcomes[idx].Response = &resp
		if f.isRateLimited(resp) {
			throttled = append(throttled, idx)
		}
	}

	return throttled, nil
}

func (f *Fetcher) waitPace(ctx context.Context, lastStart time.Time) error {
	wait := f.pace - f.now().Sub(lastStart)
	if wait <= 0 {
		return nil
	}
	return f.sleep(ctx, wait)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
