package discoveryclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/fetcher"
	discoverydomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/discovery/domain"
	"github.com/vfg2006/budget-hunter/internal/config"
	"golang.org/x/oauth2"
)

const defaultTokenTTL = 55 * time.Minute

// ErrAuthFailed é fatal para a execução: sem token não há descoberta
var ErrAuthFailed = errors.New("discovery: authentication failed")

// AuthResolver troca o segredo armazenado por um token de acesso de curta duração
type AuthResolver struct {
	fetcher *fetcher.Fetcher
	authURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewAuthResolver(cfg config.Discovery, f *fetcher.Fetcher) *AuthResolver {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	return &AuthResolver{
		fetcher: f,
		authURL: cfg.AuthURL,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (a *AuthResolver) Resolve(ctx context.Context, secret string) (*oauth2.Token, error) {
	if secret == "" {
		return nil, errors.Wrap(ErrAuthFailed, "empty secret")
	}

	req := fetcher.Request{
		Method: http.MethodPost,
		URL:    a.authURL,
		Header: http.Header{
			"Authorization": {"Basic " + base64.StdEncoding.EncodeToString([]byte(secret))},
			"Content-Type":  {"application/x-www-form-urlencoded"},
		},
	}

	responses, err := a.fetcher.Fetch(ctx, []fetcher.Request{req}, 1)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthFailed, "exchange request: %v", err)
	}
	if len(responses) == 0 {
		return nil, errors.Wrap(ErrAuthFailed, "exchange request dropped after rate limit retries")
	}

	resp := responses[0]
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrAuthFailed, "exchange returned status %d", resp.StatusCode)
	}

	var payload discoverydomain.AuthResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, errors.Wrapf(ErrAuthFailed, "decoding exchange response: %v", err)
	}
	if payload.AccessToken == "" {
		return nil, errors.Wrap(ErrAuthFailed, "exchange response without access_token")
	}

	ttl := a.ttl
	if payload.ExpiresIn > 0 {
		ttl = time.Duration(payload.ExpiresIn) * time.Second
	}

	logrus.WithField("expires_in", ttl.String()).Debug("discovery: access token resolved")

	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   "Bearer",
		Expiry:      a.now().Add(ttl),
	}, nil
}
