package broadcieldomain

import "encoding/json"

type CampaignRequest struct {
	CampaignID int64           `json:"cpg_id,omitempty"`
	Name       string          `json:"cpg_name"`
	DayBudget  float64         `json:"day_budget"`
	AdChannel  int             `json:"ad_channel"`
	ADomain    string          `json:"adomain"`
	Sponsored  *string         `json:"sponsored,omitempty"`
	App        json.RawMessage `json:"app,omitempty"`
	Status     int             `json:"cpg_status"`
}

type AdGroupRequest struct {
	GroupID        int64           `json:"group_id,omitempty"`
	CampaignID     int64           `json:"cpg_id"`
	Name           string          `json:"group_name"`
	TargetInfo     string          `json:"target_info"`
	ClickURL       []string        `json:"click_url"`
	ImpressionURL  []string        `json:"impression_url"`
	Budget         json.RawMessage `json:"budget,omitempty"`
	Schedule       json.RawMessage `json:"schedule,omitempty"`
	Location       json.RawMessage `json:"location,omitempty"`
	AudienceTarget json.RawMessage `json:"audience_target,omitempty"`
	Status         int             `json:"group_status"`
}

type CreativeRequest struct {
	CreativeID int64  `json:"cr_id,omitempty"`
	GroupID    int64  `json:"group_id"`
	Name       string `json:"cr_name"`
	Title      string `json:"cr_title"`
	Desc       string `json:"cr_desc"`
	ButtonText string `json:"cr_btn_text"`
	IAB        string `json:"iab"`
	MaterialID int64  `json:"cr_mt_id"`
	IconID     int64  `json:"cr_icon_id"`
	Status     int    `json:"cr_status"`
}
