package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifica o chamador autenticado. A emissão do token é feita por outro serviço.
type Claims struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"email,omitempty"`
	UserRole  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

const UserRoleAdmin = "admin"

func (c *Claims) IsAdmin() bool {
	return c != nil && c.UserRole == UserRoleAdmin
}

type SetMetaTokenRequest struct {
	AccessToken string `json:"access_token"`
}
