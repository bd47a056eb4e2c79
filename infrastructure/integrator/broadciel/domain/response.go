package broadcieldomain

import (
	"bytes"
	"encoding/json"
)

const (
	FieldCampaignID = "cpg_id"
	FieldGroupID    = "group_id"
	FieldCreativeID = "cr_id"
)

// APIResponse é o envelope padrão da API de escrita; sucesso é code 200
type APIResponse struct {
	Code    json.Number     `json:"code"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func (r APIResponse) OK() bool {
	code, err := r.Code.Int64()
	return err == nil && code == 200
}

func (r APIResponse) ErrorMessage() string {
	if r.Message == "" {
		return "Unknown error"
	}
	return r.Message
}

// Details devolve o campo errors quando ele traz conteúdo
func (r APIResponse) Details() string {
	details := bytes.TrimSpace(r.Errors)
	switch string(details) {
	case "", "null", "{}", "[]", `""`:
		return ""
	}
	return string(details)
}

// ID lê o identificador criado em data; 0 quando ausente
func (r APIResponse) ID(field string) int64 {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return 0
	}

	var value json.Number
	if err := json.Unmarshal(data[field], &value); err != nil {
		return 0
	}

	id, err := value.Int64()
	if err != nil {
		return 0
	}
	return id
}
