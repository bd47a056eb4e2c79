package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// HTTPBatchDoer executa cada lote com uma goroutine por requisição
type HTTPBatchDoer struct {
	httpClient *http.Client
}

func NewHTTPBatchDoer(timeout time.Duration) *HTTPBatchDoer {
	return &HTTPBatchDoer{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func NewHTTPBatchDoerWithClient(httpClient *http.Client) *HTTPBatchDoer {
	return &HTTPBatchDoer{httpClient: httpClient}
}

// DoBatch devolve as respostas na ordem em que terminam. O lote em andamento
// sempre termina, mesmo que o contexto do chamador seja cancelado.
func (d *HTTPBatchDoer) DoBatch(ctx context.Context, reqs []Request) ([]Response, error) {
	reqCtx := context.WithoutCancel(ctx)

	var (
		mu        sync.Mutex
		responses = make([]Response, 0, len(reqs))
		g         errgroup.Group
	)

	for _, req := range reqs {
		g.Go(func() error {
			resp, err := d.do(reqCtx, req)
			if err != nil {
				return err
			}

			mu.Lock()
			responses = append(responses, resp)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return responses, err
	}

	return responses, nil
}

func (d *HTTPBatchDoer) do(ctx context.Context, req Request) (Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetcher: building request %s", req.URL)
	}
	for name, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetcher: executing request %s", req.URL)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, errors.Wrapf(err, "fetcher: reading response %s", req.URL)
	}

	return Response{
		Request:    req,
		StatusCode: resp.StatusCode,
		Body:       payload,
	}, nil
}
