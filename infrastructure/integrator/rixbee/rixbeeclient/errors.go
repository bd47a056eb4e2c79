package rixbeeclient

import (
	"errors"
	"fmt"
)

// ErrBadStatus identifica respostas com status.code diferente de zero
var ErrBadStatus = errors.New("rixbee: non-zero status code")

const genericStatusMessage = "Falha ao consultar o relatório da Rixbee"

var statusMessages = map[string]string{
	"1000": "Erro na API da Rixbee",
	"1003": "Limite diário de requisições da Rixbee atingido",
}

// StatusError é fatal para a execução e carrega a mensagem exibida ao usuário
type StatusError struct {
	Code        string
	Message     string
	UserMessage string
}

func NewStatusError(code, message string) *StatusError {
	userMessage, ok := statusMessages[code]
	if !ok {
		userMessage = genericStatusMessage
	}

	return &StatusError{
		Code:        code,
		Message:     message,
		UserMessage: userMessage,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (código: %s, mensagem: %s)", e.UserMessage, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrBadStatus
}

// HTTPError é uma falha de transporte ou de status HTTP, elegível para troca de credencial
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("rixbee: API error %d: %.200s", e.StatusCode, e.Body)
}
