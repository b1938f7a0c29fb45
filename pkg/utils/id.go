package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const idLength = 16

// GenerateID gera as chaves substitutas das contas
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
