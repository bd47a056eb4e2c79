package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CompactDateLayout é o formato de data canônico dos registros de relatório
const CompactDateLayout = "20060102"

var ErrInvalidDateRange = errors.New("invalid date range")

var dateLayouts = []string{
	time.DateOnly,
	CompactDateLayout,
	time.DateTime,
	"2006/01/02",
	time.RFC3339,
}

// DateRange é um intervalo fechado de datas civis
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normaliza os extremos para meia-noite UTC
func NewDateRange(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: civil(start), End: civil(end)}
	if dr.End.Before(dr.Start) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, dr.Start.Format(time.DateOnly), dr.End.Format(time.DateOnly))
	}
	return dr, nil
}

// SingleDay cria um intervalo de um único dia
func SingleDay(day time.Time) DateRange {
	d := civil(day)
	return DateRange{Start: d, End: d}
}

// Days retorna a quantidade de dias do intervalo, incluindo os extremos
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Dates lista cada dia do intervalo em ordem crescente
func (r DateRange) Dates() []time.Time {
	dates := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

func (r DateRange) Contains(day time.Time) bool {
	d := civil(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay interpreta as variações de data devolvidas pelas plataformas
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// CompactDate converte uma data de origem para o formato somente dígitos
func CompactDate(value string) (string, error) {
	t, err := ParseDay(value)
	if err != nil {
		return "", err
	}
	return t.Format(CompactDateLayout), nil
}

// ReportRecord é uma linha de relatório já no esquema canônico
type ReportRecord struct {
	AccountID     string          `json:"account_id"`
	AccountName   string          `json:"account_name,omitempty"`
	Date          string          `json:"date"`
	Country       string          `json:"country,omitempty"`
	CampaignID    string          `json:"campaign_id,omitempty"`
	CampaignName  string          `json:"campaign_name,omitempty"`
	GroupID       string          `json:"group_id,omitempty"`
	CreativeID    string          `json:"creative_id,omitempty"`
	AssetTitle    string          `json:"asset_title,omitempty"`
	AssetImage    string          `json:"asset_image,omitempty"`
	Channel       string          `json:"channel,omitempty"`
	LandingTarget string          `json:"landing_target,omitempty"`
	Device        string          `json:"device,omitempty"`
	Spend         decimal.Decimal `json:"spend"`
	Impressions   int64           `json:"impressions"`
	Clicks        int64           `json:"clicks"`
	Conversions   int64           `json:"conversions"`
	Raw           json.RawMessage `json:"raw,omitempty"`
}

// RemoteCampaign é uma campanha descoberta durante a sincronização
type RemoteCampaign struct {
	ID        string
	AccountID string
	Name      string
	EndDate   string
	Status    string
}

// RemoteAsset é um anúncio pertencente a uma campanha remota
type RemoteAsset struct {
	ID         string
	CampaignID string
	Title      string
	Image      string
}
