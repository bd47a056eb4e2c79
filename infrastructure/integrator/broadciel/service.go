package broadciel

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel/broadcielclient"
	broadcieldomain "github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel/domain"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

const (
	defaultDayBudget = 0.01
	defaultAdChannel = 1
	defaultStatus    = 1
	defaultIAB       = "IAB1"

	// appChannel é o único canal que aceita o objeto app
	appChannel = 1
)

// ErrEmptyID indica escrita aceita pela API sem devolver identificador
var ErrEmptyID = errors.New("creation/update returned empty ID")

// Writer cria ou atualiza cada nível da estrutura e devolve o ID remoto
type Writer interface {
	SaveCampaign(ctx context.Context, token string, in domain.CampaignInput) (int64, error)
	SaveAdGroup(ctx context.Context, token string, campaignID int64, in domain.AdGroupInput) (int64, error)
	SaveCreative(ctx context.Context, token string, groupID int64, in domain.CreativeInput) (int64, error)
}

type BroadcielWriter struct {
	client broadcielclient.Client
}

func New(client broadcielclient.Client) Writer {
	return &BroadcielWriter{client: client}
}

func (w *BroadcielWriter) SaveCampaign(ctx context.Context, token string, in domain.CampaignInput) (int64, error) {
	body := NewCampaignRequest(in)

	if in.CampaignID != 0 {
		logrus.WithField("cpg_id", in.CampaignID).Debug("broadciel: updating campaign")
		if err := w.client.UpdateCampaign(ctx, token, body); err != nil {
			return 0, fmt.Errorf("campaign update failed for ID %d: %w", in.CampaignID, err)
		}
		return in.CampaignID, nil
	}

	id, err := w.client.CreateCampaign(ctx, token, body)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("campaign %w", ErrEmptyID)
	}
	return id, nil
}

func (w *BroadcielWriter) SaveAdGroup(ctx context.Context, token string, campaignID int64, in domain.AdGroupInput) (int64, error) {
	body := NewAdGroupRequest(in, campaignID)

	if in.GroupID != 0 {
		logrus.WithField("group_id", in.GroupID).Debug("broadciel: updating ad group")
		if err := w.client.UpdateAdGroup(ctx, token, body); err != nil {
			return 0, fmt.Errorf("ad group update failed for ID %d: %w", in.GroupID, err)
		}
		return in.GroupID, nil
	}

	id, err := w.client.CreateAdGroup(ctx, token, body)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("ad group %w", ErrEmptyID)
	}
	return id, nil
}

func (w *BroadcielWriter) SaveCreative(ctx context.Context, token string, groupID int64, in domain.CreativeInput) (int64, error) {
	body := NewCreativeRequest(in, groupID)

	if in.CreativeID != 0 {
		logrus.WithField("cr_id", in.CreativeID).Debug("broadciel: updating creative")
		if err := w.client.UpdateCreative(ctx, token, body); err != nil {
			return 0, fmt.Errorf("creative update failed for ID %d: %w", in.CreativeID, err)
		}
		return in.CreativeID, nil
	}

	id, err := w.client.CreateCreative(ctx, token, body)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("creative %w", ErrEmptyID)
	}
	return id, nil
}

// NewCampaignRequest aplica os valores padrão exigidos pela API
func NewCampaignRequest(in domain.CampaignInput) broadcieldomain.CampaignRequest {
	req := broadcieldomain.CampaignRequest{
		CampaignID: in.CampaignID,
		Name:       in.Name,
		DayBudget:  defaultDayBudget,
		AdChannel:  defaultAdChannel,
		ADomain:    in.ADomain,
		Sponsored:  in.Sponsored,
		Status:     defaultStatus,
	}

	if in.DayBudget != nil {
		req.DayBudget = *in.DayBudget
	}
	if in.AdChannel != nil {
		req.AdChannel = *in.AdChannel
	}
	if in.Status != nil {
		req.Status = *in.Status
	}
	if in.AdChannel != nil && *in.AdChannel == appChannel && len(in.App) > 0 {
		req.App = in.App
	}

	return req
}

func NewAdGroupRequest(in domain.AdGroupInput, campaignID int64) broadcieldomain.AdGroupRequest {
	req := broadcieldomain.AdGroupRequest{
		GroupID:        in.GroupID,
		CampaignID:     campaignID,
		Name:           in.Name,
		TargetInfo:     in.TargetInfo,
		ClickURL:       in.ClickURL,
		ImpressionURL:  in.ImpressionURL,
		Budget:         in.Budget,
		Schedule:       in.Schedule,
		Location:       in.Location,
		AudienceTarget: in.AudienceTarget,
		Status:         defaultStatus,
	}

	if req.ClickURL == nil {
		req.ClickURL = []string{}
	}
	if req.ImpressionURL == nil {
		req.ImpressionURL = []string{}
	}
	if in.Status != nil {
		req.Status = *in.Status
	}

	return req
}

func NewCreativeRequest(in domain.CreativeInput, groupID int64) broadcieldomain.CreativeRequest {
	req := broadcieldomain.CreativeRequest{
		CreativeID: in.CreativeID,
		GroupID:    groupID,
		Name:       in.Name,
		Title:      in.Title,
		Desc:       in.Description,
		ButtonText: in.ButtonText,
		IAB:        in.IAB,
		MaterialID: in.MaterialID,
		IconID:     in.IconID,
		Status:     defaultStatus,
	}

	if req.IAB == "" {
		req.IAB = defaultIAB
	}
	if in.Status != nil {
		req.Status = *in.Status
	}

	return req
}
