package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carrega a identidade emitida pelo serviço externo de autenticação
type Claims struct {
	UserEmail string `json:"email"`
	UserName  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
