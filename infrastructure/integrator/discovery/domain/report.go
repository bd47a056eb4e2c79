package discoverydomain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ReportResponse pode trazer data como lista ou como objeto indexado por data
type ReportResponse struct {
	Code FlexInt         `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// ReportRow é uma linha diária do relatório de um anúncio
type ReportRow struct {
	Date   FlexString       `json:"date"`
	Day    FlexString       `json:"day"`
	Charge *decimal.Decimal `json:"charge"`
	Cost   *decimal.Decimal `json:"cost"`
	Imp    FlexInt          `json:"imp"`
	Click  FlexInt          `json:"click"`
	CV     FlexInt          `json:"cv"`

	Raw json.RawMessage `json:"-"`
}

// ReportDate devolve a data da linha, aceitando date ou day
func (r ReportRow) ReportDate() string {
	if r.Date != "" {
		return r.Date.String()
	}
	return r.Day.String()
}

// Spend usa charge e recorre a cost quando ausente
func (r ReportRow) Spend() decimal.Decimal {
	if r.Charge != nil {
		return *r.Charge
	}
	if r.Cost != nil {
		return *r.Cost
	}
	return decimal.Zero
}

// Rows decodifica o campo data nas duas formas aceitas pela plataforma
func (r ReportResponse) Rows() ([]ReportRow, error) {
	data := bytes.TrimSpace(r.Data)
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return decodeRows(items, nil)
	case '{':
		var byDate map[string]json.RawMessage
		if err := json.Unmarshal(data, &byDate); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(byDate))
		for k := range byDate {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		items := make([]json.RawMessage, 0, len(keys))
		for _, k := range keys {
			items = append(items, byDate[k])
		}
		return decodeRows(items, keys)
	}

	return nil, fmt.Errorf("unexpected report data: %.32s", string(data))
}

func decodeRows(items []json.RawMessage, dates []string) ([]ReportRow, error) {
	rows := make([]ReportRow, 0, len(items))
	for i, item := range items {
		var row ReportRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, err
		}
		if row.ReportDate() == "" && dates != nil {
			row.Date = FlexString(dates[i])
		}
		row.Raw = item
		rows = append(rows, row)
	}
	return rows, nil
}
