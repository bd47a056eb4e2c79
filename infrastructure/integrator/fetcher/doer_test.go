package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPBatchDoer_DoBatch(t *testing.T) {
	var inFlight, peak int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)

		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(r.Method + ":" + r.Header.Get("Authorization") + ":" + string(body)))
	}))
	defer server.Close()

	doer := NewHTTPBatchDoer(5 * time.Second)

	reqs := []Request{
		{Method: http.MethodGet, URL: server.URL + "/a", Header: http.Header{"Authorization": {"Bearer x"}}},
		{Method: http.MethodPost, URL: server.URL + "/b", Body: []byte("payload")},
		{URL: server.URL + "/c"},
	}

	responses, err := doer.DoBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, responses, 3)

	bodies := map[string]string{}
	for _, resp := range responses {
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		bodies[resp.Request.URL] = string(resp.Body)
	}

	assert.Equal(t, "GET:Bearer x:", bodies[server.URL+"/a"])
	assert.Equal(t, "POST::payload", bodies[server.URL+"/b"])
	assert.Equal(t, "GET::", bodies[server.URL+"/c"])
	assert.Greater(t, atomic.LoadInt32(&peak), int32(1), "requisições do lote devem rodar em paralelo")
}

func TestHTTPBatchDoer_InFlightSurvivesCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("done"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	responses, err := NewHTTPBatchDoer(5*time.Second).DoBatch(ctx, []Request{{URL: server.URL}})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "done", string(responses[0].Body))
}

func TestHTTPBatchDoer_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPBatchDoer(time.Second).DoBatch(context.Background(), []Request{{URL: url}})
	assert.Error(t, err)
}
