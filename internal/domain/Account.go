package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Platform identifica a plataforma de anúncios de origem da conta
type Platform string

const (
	PlatformRixbee    Platform = "R"
	PlatformDiscovery Platform = "D"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusArchived AccountStatus = "archived"
)

// Agent seleciona o par de credenciais usado nos relatórios da Rixbee
type Agent string

const (
	AgentDefault Agent = "default"
	AgentDirect  Agent = "direct"
	AgentSuper   Agent = "super"
)

// agentCodes mapeia os códigos numéricos gravados na planilha de contas
var agentCodes = map[string]Agent{
	"7161": AgentDefault,
	"7168": AgentDirect,
	"7153": AgentSuper,
}

// ParseAgent aceita tanto o nome quanto o código numérico do agente
func ParseAgent(value string) Agent {
	value = strings.TrimSpace(value)
	if agent, ok := agentCodes[value]; ok {
		return agent
	}

	switch Agent(strings.ToLower(value)) {
	case AgentDefault, AgentDirect, AgentSuper:
		return Agent(strings.ToLower(value))
	}

	return ""
}

type Account struct {
	ID           int             `json:"id"`
	Platform     Platform        `json:"platform"`
	Agent        Agent           `json:"agent,omitempty"`
	AccountID    string          `json:"account_id"`
	AccountName  string          `json:"account_name"`
	Budget       decimal.Decimal `json:"budget"`
	StartDate    *time.Time      `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"`
	CPCGoal      *float64        `json:"cpc_goal,omitempty"`
	CPAGoal      *float64        `json:"cpa_goal,omitempty"`
	CTRGoal      *float64        `json:"ctr_goal,omitempty"`
	CVDefinition string          `json:"cv_definition,omitempty"`
	OwnerEmail   string          `json:"owner_email"`
	Status       AccountStatus   `json:"status"`
}

// ConversionEvents devolve a lista de eventos de conversão configurada na conta
func (a Account) ConversionEvents() []string {
	if a.CVDefinition == "" {
		return nil
	}

	events := make([]string, 0)
	for _, event := range strings.Split(a.CVDefinition, ",") {
		event = strings.TrimSpace(event)
		if event != "" {
			events = append(events, event)
		}
	}

	return events
}

type AccountFilter struct {
	AccountID string
	Platform  Platform
	Statuses  []AccountStatus
}
