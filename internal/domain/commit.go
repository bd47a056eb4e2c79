package domain

import "encoding/json"

// CommitPayload é a estrutura hierárquica enviada para a Broadciel
type CommitPayload struct {
	AccountEmail string          `json:"account_email"`
	Campaigns    []CampaignInput `json:"campaigns"`
}

type CampaignInput struct {
	CampaignID int64           `json:"cpg_id,omitempty"`
	Name       string          `json:"cpg_name"`
	DayBudget  *float64        `json:"day_budget,omitempty"`
	AdChannel  *int            `json:"ad_channel,omitempty"`
	ADomain    string          `json:"adomain"`
	Sponsored  *string         `json:"sponsored,omitempty"`
	App        json.RawMessage `json:"app,omitempty"`
	Status     *int            `json:"cpg_status,omitempty"`
	AdGroups   []AdGroupInput  `json:"ad_group"`
}

type AdGroupInput struct {
	GroupID        int64           `json:"group_id,omitempty"`
	Name           string          `json:"group_name"`
	TargetInfo     string          `json:"target_info"`
	ClickURL       []string        `json:"click_url"`
	ImpressionURL  []string        `json:"impression_url"`
	Budget         json.RawMessage `json:"budget,omitempty"`
	Schedule       json.RawMessage `json:"schedule,omitempty"`
	Location       json.RawMessage `json:"location,omitempty"`
	AudienceTarget json.RawMessage `json:"audience_target,omitempty"`
	Status         *int            `json:"group_status,omitempty"`
	Creatives      []CreativeInput `json:"ad_asset"`
}

type CreativeInput struct {
	CreativeID  int64  `json:"cr_id,omitempty"`
	Name        string `json:"cr_name"`
	Title       string `json:"cr_title"`
	Description string `json:"cr_desc"`
	ButtonText  string `json:"cr_btn_text"`
	IAB         string `json:"iab,omitempty"`
	MaterialID  int64  `json:"cr_mt_id"`
	IconID      int64  `json:"cr_icon_id"`
	Status      *int   `json:"cr_status,omitempty"`
}

// CommitLevel identifica o nível de um nó da árvore de resultado
type CommitLevel string

const (
	CommitLevelCampaign CommitLevel = "campaign"
	CommitLevelAdGroup  CommitLevel = "ad_group"
	CommitLevelCreative CommitLevel = "creative"
)

// CommitResultNode guarda o resultado da escrita remota de um nó
type CommitResultNode struct {
	Level        CommitLevel         `json:"level"`
	Index        int                 `json:"index"`
	Name         string              `json:"name"`
	RemoteID     int64               `json:"remote_id,omitempty"`
	Success      bool                `json:"success"`
	ErrorMessage string              `json:"error_message,omitempty"`
	RetryCount   int                 `json:"retry_count,omitempty"`
	Children     []*CommitResultNode `json:"children"`
}

func NewCampaignNode(index int, name string) *CommitResultNode {
	return newCommitNode(CommitLevelCampaign, index, name, "Unknown Campaign")
}

func NewAdGroupNode(index int, name string) *CommitResultNode {
	return newCommitNode(CommitLevelAdGroup, index, name, "Unknown Ad Group")
}

func NewCreativeNode(index int, name string) *CommitResultNode {
	return newCommitNode(CommitLevelCreative, index, name, "Unknown Creative")
}

func newCommitNode(level CommitLevel, index int, name, fallback string) *CommitResultNode {
	if name == "" {
		name = fallback
	}
	return &CommitResultNode{
		Level:    level,
		Index:    index,
		Name:     name,
		Children: []*CommitResultNode{},
	}
}

// Fail marca o nó como falho
func (n *CommitResultNode) Fail(message string) {
	n.Success = false
	n.ErrorMessage = message
}

// Succeed marca o nó como gravado com o ID remoto recebido
func (n *CommitResultNode) Succeed(remoteID int64) {
	n.Success = true
	n.RemoteID = remoteID
	n.ErrorMessage = ""
}

type CommitSummary struct {
	TotalCampaigns      int     `json:"total_campaigns"`
	SuccessfulCampaigns int     `json:"successful_campaigns"`
	FailedCampaigns     int     `json:"failed_campaigns"`
	CampaignSuccessRate float64 `json:"campaign_success_rate"`
	TotalAdGroups       int     `json:"total_ad_groups"`
	SuccessfulAdGroups  int     `json:"successful_ad_groups"`
	FailedAdGroups      int     `json:"failed_ad_groups"`
	AdGroupSuccessRate  float64 `json:"ad_group_success_rate"`
	TotalCreatives      int     `json:"total_creatives"`
	SuccessfulCreatives int     `json:"successful_creatives"`
	FailedCreatives     int     `json:"failed_creatives"`
	CreativeSuccessRate float64 `json:"creative_success_rate"`
}

type CommitSuccessfulIDs struct {
	CampaignIDs []int64 `json:"campaign_ids"`
	AdGroupIDs  []int64 `json:"ad_group_ids"`
	CreativeIDs []int64 `json:"creative_ids"`
}

// CommitError é a visão achatada de um nó falho
type CommitError struct {
	Level         CommitLevel `json:"level"`
	CampaignIndex int         `json:"campaign_index"`
	AdGroupIndex  *int        `json:"ad_group_index,omitempty"`
	CreativeIndex *int        `json:"creative_index,omitempty"`
	Name          string      `json:"name"`
	ErrorMessage  string      `json:"error_message"`
}

type CommitResult struct {
	Summary       CommitSummary       `json:"summary"`
	SuccessfulIDs CommitSuccessfulIDs `json:"successful_ids"`
	Details       []*CommitResultNode `json:"details"`
	Errors        []CommitError       `json:"errors"`
}
