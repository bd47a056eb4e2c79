package discoveryclient

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
	"golang.org/x/oauth2"
)

type fakeDiscovery struct {
	mu    sync.Mutex
	calls map[string]int
	route func(w http.ResponseWriter, r *http.Request, call int)
}

func newFakeDiscovery(t *testing.T, route func(w http.ResponseWriter, r *http.Request, call int)) (*httptest.Server, *fakeDiscovery) {
	t.Helper()

	fake := &fakeDiscovery{calls: map[string]int{}, route: route}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.mu.Lock()
		fake.calls[r.URL.Path]++
		call := fake.calls[r.URL.Path]
		fake.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		fake.route(w, r, call)
	}))
	t.Cleanup(srv.Close)

	return srv, fake
}

func (f *fakeDiscovery) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func newTestClient(srv *httptest.Server) Client {
	cfg := config.Discovery{
		AuthURL:   srv.URL + "/authentication",
		BaseURL:   srv.URL + "/",
		Country:   "tw",
		BatchSize: 2,
	}
	f := fetcher.New(
		fetcher.NewHTTPBatchDoerWithClient(srv.Client()),
		IsRateLimited,
		fetcher.WithPace(0),
	)
	return NewClient(cfg, f)
}

func testToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "access-123", TokenType: "Bearer"}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "assinatura de limite", body: `{"code":1,"msg":"error: operateTooMuch, retry later"}`, want: true},
		{name: "código como texto", body: `{"code":"1","msg":"operateTooMuch"}`, want: true},
		{name: "mesmo código com outra mensagem", body: `{"code":1,"msg":"invalid campaign"}`, want: false},
		{name: "resposta normal", body: `{"data":[]}`, want: false},
		{name: "corpo inválido", body: `<html>`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(fetcher.Response{Body: []byte(tt.body)}))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("troca o segredo por um token", func(t *testing.T) {
		var gotAuth, gotMethod string
		srv, _ := newFakeDiscovery(t, func(w http.ResponseWriter, r *http.Request, _ int) {
			gotAuth = r.Header.Get("Authorization")
			gotMethod = r.Method
			_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
		})

		before := time.Now()
		token, err := newTestClient(srv).Authenticate(context.Background(), "client:secret")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("client:secret")), gotAuth)
		assert.Equal(t, "abc", token.AccessToken)
		assert.Equal(t, "Bearer", token.Type())
		assert.WithinDuration(t, before.Add(time.Hour), token.Expiry, 5*time.Second)
	})

	failures := []struct {
		name   string
		secret string
		status int
		body   string
	}{
		{name: "segredo vazio", secret: "", status: http.StatusOK, body: `{"access_token":"abc"}`},
		{name: "sem access_token", secret: "s", status: http.StatusOK, body: `{"token_type":"bearer"}`},
		{name: "corpo inválido", secret: "s", status: http.StatusOK, body: `not-json`},
		{name: "status de erro", secret: "s", status: http.StatusUnauthorized, body: `{"msg":"bad secret"}`},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newFakeDiscovery(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			token, err := newTestClient(srv).Authenticate(context.Background(), tt.secret)
			assert.Nil(t, token)
			assert.ErrorIs(t, err, ErrAuthFailed)
		})
	}
}

func TestListCampaigns(t *testing.T) {
	var gotAuth, gotCountry string
	srv, _ := newFakeDiscovery(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		gotAuth = r.Header.Get("Authorization")
		gotCountry = r.URL.Query().Get("country_id")
		_, _ = w.Write([]byte(`{"data":[
			{"mongo_id":"c1","name":"Campanha 1","end_date":"2024-01-31","account_id":"acc-1","status":1},
			{"remote_id":12,"name":"Campanha 2","end_date":"","account":"acc-2"},
			{"mongo_id":"c3","name":"Sem conta","account_id":"None","account":"None"},
			{"name":"sem id"}
		]}`))
	})

	campaigns, err := newTestClient(srv).ListCampaigns(context.Background(), testToken())
	require.NoError(t, err)

	assert.Equal(t, "Bearer access-123", gotAuth)
	assert.Equal(t, "tw", gotCountry)
	assert.Equal(t, []domain.RemoteCampaign{
		{ID: "c1", AccountID: "acc-1", Name: "Campanha 1", EndDate: "2024-01-31", Status: "1"},
		{ID: "12", AccountID: "acc-2", Name: "Campanha 2"},
		{ID: "c3", Name: "Sem conta"},
	}, campaigns)
}

func TestListCampaigns_DroppedAfterRateLimit(t *testing.T) {
	srv, fake := newFakeDiscovery(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		_, _ = w.Write([]byte(`{"code":1,"msg":"operateTooMuch"}`))
	})

	campaigns, err := newTestClient(srv).ListCampaigns(context.Background(), testToken())
	assert.ErrorIs(t, err, ErrListDropped)
	assert.Nil(t, campaigns)
	assert.Equal(t, fetcher.DefaultMaxAttempts, fake.count("/campaign/lists"))
}

func TestListAssets(t *testing.T) {
	srv, _ := newFakeDiscovery(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		switch r.URL.Path {
		case "/ad/c1/lists":
			_, _ = w.Write([]byte(`{"data":[{"mongo_id":"a1","title":"Título 1","image":"img1.png","campaign":"c1"},{"mongo_id":"a2","title":"Título 2"}]}`))
		case "/ad/c2/lists":
			_, _ = w.Write([]byte(`{"data": [`))
		case "/ad/c 3/lists":
			w.WriteHeader(http.StatusInternalServerError)
		case "/ad/c4/lists":
			_, _ = w.Write([]byte(`{"code":1,"msg":"operateTooMuch"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	listing, err := newTestClient(srv).ListAssets(context.Background(), testToken(), []string{"c1", "c2", "c 3", "c4"})
	require.NoError(t, err)

	assets := listing.Assets
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	assert.Equal(t, []domain.RemoteAsset{
		{ID: "a1", CampaignID: "c1", Title: "Título 1", Image: "img1.png"},
		{ID: "a2", CampaignID: "c1", Title: "Título 2"},
	}, assets)

	// c4 segue limitada após as tentativas, c2 e c 3 não trouxeram lista válida
	assert.ElementsMatch(t, []string{"c2", "c 3", "c4"}, listing.Unlisted)
}

func TestFetchReports(t *testing.T) {
	srv, fake := newFakeDiscovery(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/ad/c1/a1/"):
			_, _ = w.Write([]byte(`{"data":[{"date":"2024-01-01","charge":"10.50","imp":100,"click":"5","cv":1},{"day":"2024-01-02","cost":2.25,"imp":20}]}`))
		case strings.HasPrefix(r.URL.Path, "/ad/c1/a2/"):
			_, _ = w.Write([]byte(`{"data":{"2024-01-02":{"charge":1,"imp":3},"2024-01-01":{"charge":2,"imp":4}}}`))
		case strings.HasPrefix(r.URL.Path, "/ad/c2/a3/"):
			_, _ = w.Write([]byte(`{"code":1,"msg":"operateTooMuch"}`))
		case strings.HasPrefix(r.URL.Path, "/ad/c2/a4/"):
			_, _ = w.Write([]byte(`{"data":[{"date":`))
		}
	})

	dr, err := domain.NewDateRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assets := []domain.RemoteAsset{
		{ID: "a1", CampaignID: "c1"},
		{ID: "a2", CampaignID: "c1"},
		{ID: "a3", CampaignID: "c2"},
		{ID: "a4", CampaignID: "c2"},
	}

	results, err := newTestClient(srv).FetchReports(context.Background(), testToken(), assets, dr)
	require.NoError(t, err)
	require.Len(t, results, 4)

	byAsset := map[string]ReportResult{}
	for _, r := range results {
		byAsset[r.AssetID] = r
	}

	a1 := byAsset["a1"]
	assert.True(t, a1.Fetched)
	require.NoError(t, a1.Err)
	require.Len(t, a1.Rows, 2)
	assert.Equal(t, "2024-01-01", a1.Rows[0].ReportDate())
	assert.Equal(t, "10.5", a1.Rows[0].Spend().String())
	assert.EqualValues(t, 5, a1.Rows[0].Click)
	assert.Equal(t, "2024-01-02", a1.Rows[1].ReportDate())
	assert.Equal(t, "2.25", a1.Rows[1].Spend().String())

	a2 := byAsset["a2"]
	require.NoError(t, a2.Err)
	require.Len(t, a2.Rows, 2)
	assert.Equal(t, "2024-01-01", a2.Rows[0].ReportDate())
	assert.EqualValues(t, 4, a2.Rows[0].Imp)

	a3 := byAsset["a3"]
	assert.False(t, a3.Fetched)
	assert.ErrorIs(t, a3.Err, fetcher.ErrRetriesExhausted)
	assert.Equal(t, fetcher.DefaultMaxAttempts, fake.count("/ad/c2/a3/20240101/20240102/date_reporting"))

	a4 := byAsset["a4"]
	assert.True(t, a4.Fetched)
	assert.Error(t, a4.Err)
	assert.Empty(t, a4.Rows)
}

func TestIdsFromReportURL(t *testing.T) {
	campaign, asset, ok := idsFromReportURL("https://api.test/discovery/api/v2/ad/c%2F1/a1/20240101/20240102/date_reporting")
	require.True(t, ok)
	assert.Equal(t, "c/1", campaign)
	assert.Equal(t, "a1", asset)

	_, _, ok = idsFromReportURL("https://api.test/ad/c1/lists")
	assert.False(t, ok)
}
