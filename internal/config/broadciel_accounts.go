package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// BroadcielAccount associa o e-mail do responsável ao token de escrita na Broadciel
type BroadcielAccount struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// LoadBroadcielAccounts lê o arquivo de contas no formato [{name, email, token}]
func LoadBroadcielAccounts(path string) ([]BroadcielAccount, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: error reading broadciel accounts file: %w", err)
	}

	var accounts []BroadcielAccount
	if err := json.Unmarshal(content, &accounts); err != nil {
		return nil, fmt.Errorf("config: error decoding broadciel accounts file: %w", err)
	}

	return accounts, nil
}

// TokenFor devolve o token cadastrado para o e-mail informado
func (b Broadciel) TokenFor(email string) (string, bool) {
	email = strings.TrimSpace(email)
	for _, account := range b.Accounts {
		if strings.EqualFold(account.Email, email) && account.Token != "" {
			return account.Token, true
		}
	}
	return "", false
}
