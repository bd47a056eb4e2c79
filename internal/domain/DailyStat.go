package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DailyStat é a linha consolidada por conta e dia
type DailyStat struct {
	AccountID   string          `json:"account_id"`
	Date        time.Time       `json:"date"`
	Spend       decimal.Decimal `json:"spend"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	Conversions int64           `json:"conversions"`
	RawData     json.RawMessage `json:"raw_data,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Key devolve a chave natural da linha
func (s DailyStat) Key() string {
	return s.AccountID + ":" + s.Date.Format(time.DateOnly)
}
