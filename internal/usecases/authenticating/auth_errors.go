package authenticating

import (
	"errors"
)

var (
	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrMissingUserID = errors.New("token sem user_id")
	ErrMissingSecret = errors.New("segredo de assinatura não configurado")
)
