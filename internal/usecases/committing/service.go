package committing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/budget-hunter/infrastructure/integrator/broadciel"
	"github.com/vfg2006/budget-hunter/internal/config"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

const (
	defaultMaxRetries   = 2
	defaultRetryBackoff = time.Second
)

// Committer grava a estrutura campanha -> grupo -> criativo na Broadciel
type Committer interface {
	Commit(ctx context.Context, payload domain.CommitPayload) (*domain.CommitResult, error)
}

type Processor struct {
	broadciel  config.Broadciel
	writer     broadciel.Writer
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewProcessor(cfg *config.Config, writer broadciel.Writer) *Processor {
	maxRetries := cfg.Broadciel.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	backoff := cfg.Broadciel.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Processor{
		broadciel:  cfg.Broadciel,
		writer:     writer,
		maxRetries: maxRetries,
		backoff:    backoff,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Commit processa as campanhas em ordem. A árvore devolvida sempre tem o mesmo formato da entrada.
func (p *Processor) Commit(ctx context.Context, payload domain.CommitPayload) (*domain.CommitResult, error) {
	if strings.TrimSpace(payload.AccountEmail) == "" {
		return nil, ErrAccountEmailRequired
	}

	if len(payload.Campaigns) == 0 {
		return nil, ErrNoCampaigns
	}

	token, ok := p.broadciel.TokenFor(payload.AccountEmail)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, payload.AccountEmail)
	}

	tree := make([]*domain.CommitResultNode, 0, len(payload.Campaigns))
	for i, campaign := range payload.Campaigns {
		tree = append(tree, p.commitCampaign(ctx, token, i, campaign))
	}

	return BuildResult(tree), nil
}

func (p *Processor) commitCampaign(ctx context.Context, token string, index int, in domain.CampaignInput) *domain.CommitResultNode {
	logger := logrus.WithFields(logrus.Fields{
		"campaign_index": index,
		"campaign_name":  in.Name,
	})

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		node := domain.NewCampaignNode(index, in.Name)
		node.RetryCount = attempt

		campaignID, err := p.writer.SaveCampaign(ctx, token, in)
		if err == nil {
			node.Succeed(campaignID)
			for j, group := range in.AdGroups {
				node.Children = append(node.Children, p.commitAdGroup(ctx, token, campaignID, j, group))
			}
			logger.WithField("cpg_id", campaignID).Infof("Campanha gravada após %d nova(s) tentativa(s)", attempt)
			return node
		}

		lastErr = err
		logger.WithError(err).Warnf("Tentativa %d falhou ao gravar a campanha", attempt+1)

		if attempt < p.maxRetries {
			if sleepErr := p.sleep(ctx, p.backoff*time.Duration(attempt+1)); sleepErr != nil {
				lastErr = sleepErr
				break
			}
		}
	}

	node := failedCampaign(index, in, fmt.Sprintf("Failed after %d attempts. Last error at campaign: %v", p.maxRetries+1, lastErr))
	node.RetryCount = p.maxRetries
	logger.Error(node.ErrorMessage)
	return node
}

func (p *Processor) commitAdGroup(ctx context.Context, token string, campaignID int64, index int, in domain.AdGroupInput) *domain.CommitResultNode {
	groupID, err := p.writer.SaveAdGroup(ctx, token, campaignID, in)
	if err != nil {
		logrus.WithError(err).WithField("cpg_id", campaignID).Warnf("Falha ao gravar o grupo %d", index)
		return failedAdGroup(index, in, err.Error())
	}

	node := domain.NewAdGroupNode(index, in.Name)
	node.Succeed(groupID)

	for k, creative := range in.Creatives {
		child := domain.NewCreativeNode(k, creative.Name)
		creativeID, err := p.writer.SaveCreative(ctx, token, groupID, creative)
		if err != nil {
			logrus.WithError(err).WithField("group_id", groupID).Warnf("Falha ao gravar o criativo %d", k)
			child.Fail(err.Error())
		} else {
			child.Succeed(creativeID)
		}
		node.Children = append(node.Children, child)
	}

	return node
}

// failedCampaign monta o nó falho com todos os descendentes marcados sem tentar gravá-los
func failedCampaign(index int, in domain.CampaignInput, message string) *domain.CommitResultNode {
	node := domain.NewCampaignNode(index, in.Name)
	node.Fail(message)
	for j, group := range in.AdGroups {
		node.Children = append(node.Children, failedAdGroup(j, group, parentFailedMessage))
	}
	return node
}

func failedAdGroup(index int, in domain.AdGroupInput, message string) *domain.CommitResultNode {
	node := domain.NewAdGroupNode(index, in.Name)
	node.Fail(message)
	for k, creative := range in.Creatives {
		child := domain.NewCreativeNode(k, creative.Name)
		child.Fail(parentFailedMessage)
		node.Children = append(node.Children, child)
	}
	return node
}

type levelCount struct {
	total      int
	successful int
}

func (c levelCount) rate() float64 {
	if c.total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(c.successful * 100)).
		DivRound(decimal.NewFromInt(int64(c.total)), 2).
		InexactFloat64()
}

// BuildResult percorre a árvore de três níveis e monta resumo, IDs gravados e lista de erros
func BuildResult(tree []*domain.CommitResultNode) *domain.CommitResult {
	var campaigns, groups, creatives levelCount

	result := &domain.CommitResult{
		SuccessfulIDs: domain.CommitSuccessfulIDs{
			CampaignIDs: []int64{},
			AdGroupIDs:  []int64{},
			CreativeIDs: []int64{},
		},
		Details: tree,
		Errors:  []domain.CommitError{},
	}

	for _, campaign := range tree {
		campaigns.total++
		if campaign.Success {
			campaigns.successful++
			result.SuccessfulIDs.CampaignIDs = append(result.SuccessfulIDs.CampaignIDs, campaign.RemoteID)
		} else {
			result.Errors = appendError(result.Errors, campaign, campaign.Index, nil, nil)
		}

		for _, group := range campaign.Children {
			groups.total++
			groupIndex := group.Index
			if group.Success {
				groups.successful++
				result.SuccessfulIDs.AdGroupIDs = append(result.SuccessfulIDs.AdGroupIDs, group.RemoteID)
			} else {
				result.Errors = appendError(result.Errors, group, campaign.Index, &groupIndex, nil)
			}

			for _, creative := range group.Children {
				creatives.total++
				creativeIndex := creative.Index
				if creative.Success {
					creatives.successful++
					result.SuccessfulIDs.CreativeIDs = append(result.SuccessfulIDs.CreativeIDs, creative.RemoteID)
				} else {
					result.Errors = appendError(result.Errors, creative, campaign.Index, &groupIndex, &creativeIndex)
				}
			}
		}
	}

	result.Summary = domain.CommitSummary{
		TotalCampaigns:      campaigns.total,
		SuccessfulCampaigns: campaigns.successful,
		FailedCampaigns:     campaigns.total - campaigns.successful,
		CampaignSuccessRate: campaigns.rate(),
		TotalAdGroups:       groups.total,
		SuccessfulAdGroups:  groups.successful,
		FailedAdGroups:      groups.total - groups.successful,
		AdGroupSuccessRate:  groups.rate(),
		TotalCreatives:      creatives.total,
		SuccessfulCreatives: creatives.successful,
		FailedCreatives:     creatives.total - creatives.successful,
		CreativeSuccessRate: creatives.rate(),
	}

	return result
}

// appendError registra apenas falhas próprias do nó; descendentes de um nó falho ficam só na árvore
func appendError(errs []domain.CommitError, node *domain.CommitResultNode, campaignIndex int, groupIndex, creativeIndex *int) []domain.CommitError {
	if node.ErrorMessage == parentFailedMessage {
		return errs
	}

	return append(errs, domain.CommitError{
		Level:         node.Level,
		CampaignIndex: campaignIndex,
		AdGroupIndex:  groupIndex,
		CreativeIndex: creativeIndex,
		Name:          node.Name,
		ErrorMessage:  node.ErrorMessage,
	})
}
