package broadcielclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	broadcieldomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel/domain"
	"github.com/vfg2006/budget-hunter/internal/config"
)

const (
	campaignsPath = "/ad-campaigns"
	adGroupsPath  = "/ad-groups"
	creativesPath = "/ad-creatives"
)

type Client interface {
	CreateCampaign(ctx context.Context, token string, body broadcieldomain.CampaignRequest) (int64, error)
	UpdateCampaign(ctx context.Context, token string, body broadcieldomain.CampaignRequest) error
	CreateAdGroup(ctx context.Context, token string, body broadcieldomain.AdGroupRequest) (int64, error)
	UpdateAdGroup(ctx context.Context, token string, body broadcieldomain.AdGroupRequest) error
	CreateCreative(ctx context.Context, token string, body broadcieldomain.CreativeRequest) (int64, error)
	UpdateCreative(ctx context.Context, token string, body broadcieldomain.CreativeRequest) error
}

type BroadcielClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.Broadciel) Client {
	return &BroadcielClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func NewClientWithHTTP(cfg config.Broadciel, httpClient *http.Client) Client {
	return &BroadcielClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *BroadcielClient) CreateCampaign(ctx context.Context, token string, body broadcieldomain.CampaignRequest) (int64, error) {
	resp, err := c.send(ctx, http.MethodPost, campaignsPath, token, body)
	if err != nil {
		return 0, err
	}
	return resp.ID(broadcieldomain.FieldCampaignID), nil
}

func (c *BroadcielClient) UpdateCampaign(ctx context.Context, token string, body broadcieldomain.CampaignRequest) error {
	_, err := c.send(ctx, http.MethodPut, resourcePath(campaignsPath, body.CampaignID), token, body)
	return err
}

func (c *BroadcielClient) CreateAdGroup(ctx context.Context, token string, body broadcieldomain.AdGroupRequest) (int64, error) {
	resp, err := c.send(ctx, http.MethodPost, adGroupsPath, token, body)
	if err != nil {
		return 0, err
	}
	return resp.ID(broadcieldomain.FieldGroupID), nil
}

func (c *BroadcielClient) UpdateAdGroup(ctx context.Context, token string, body broadcieldomain.AdGroupRequest) error {
	_, err := c.send(ctx, http.MethodPut, resourcePath(adGroupsPath, body.GroupID), token, body)
	return err
}

func (c *BroadcielClient) CreateCreative(ctx context.Context, token string, body broadcieldomain.CreativeRequest) (int64, error) {
	resp, err := c.send(ctx, http.MethodPost, creativesPath, token, body)
	if err != nil {
		return 0, err
	}
	return resp.ID(broadcieldomain.FieldCreativeID), nil
}

func (c *BroadcielClient) UpdateCreative(ctx context.Context, token string, body broadcieldomain.CreativeRequest) error {
	_, err := c.send(ctx, http.MethodPut, resourcePath(creativesPath, body.CreativeID), token, body)
	return err
}

func resourcePath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// send executa a escrita e traduz os dois formatos de erro da API
func (c *BroadcielClient) send(ctx context.Context, method, path, token string, body any) (*broadcieldomain.APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar o corpo: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar a requisição: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a requisição: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler a resposta: %w", err)
	}

	var apiResp broadcieldomain.APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil, errors.New("invalid JSON response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, withDetails(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, apiResp.ErrorMessage()), apiResp)
	}

	if !apiResp.OK() {
		return nil, withDetails(fmt.Sprintf("API Error (code: %s): %s", apiResp.Code, apiResp.ErrorMessage()), apiResp)
	}

	return &apiResp, nil
}

func withDetails(message string, resp broadcieldomain.APIResponse) error {
	if details := resp.Details(); details != "" {
		message += " - Details: " + details
	}
	return errors.New(message)
}
