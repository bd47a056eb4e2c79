package rixbeedomain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Status é o envelope de status de toda resposta do relatório
type Status struct {
	Code    json.Number `json:"code"`
	Message string      `json:"message"`
}

// OK indica código 0; código ausente conta como erro
func (s Status) OK() bool {
	code, err := s.Code.Int64()
	return err == nil && code == 0
}

type ReportResponse struct {
	Status Status `json:"status"`
	Data   struct {
		Data []Row `json:"data"`
	} `json:"data"`
}

// Row mantém a linha como veio da API; os campos são lidos sob demanda
type Row map[string]json.RawMessage

// String devolve o campo como texto, aceitando números
func (r Row) String(field string) string {
	raw, ok := r[field]
	if !ok {
		return ""
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	if raw[0] == '"' {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return ""
		}
		return strings.TrimSpace(v)
	}

	return string(raw)
}

func (r Row) Decimal(field string) decimal.Decimal {
	value := r.String(field)
	if value == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (r Row) Int(field string) int64 {
	value := r.String(field)
	if value == "" {
		return 0
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// Raw serializa a linha de volta para diagnóstico
func (r Row) Raw() json.RawMessage {
	b, err := json.Marshal(map[string]json.RawMessage(r))
	if err != nil {
		return nil
	}
	return b
}
