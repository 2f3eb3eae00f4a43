package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims do token de operador.
type Claims struct {
	Operador string `json:"operador"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token
const AccessTTL = 15 * time.Minute

var ErrTokenInvalido = errors.New("token inválido")

func segredo() []byte {
	return []byte(os.Getenv("AUTH_JWT_SECRET"))
}

// GerarToken emite um JWT HS256 para o operador autenticado.
func GerarToken(operador string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Operador: operador,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operador,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	assinado, err := tok.SignedString(segredo())
	if err != nil {
		return "", fmt.Errorf("assinar token: %w", err)
	}
	return assinado, nil
}

// Valida assinatura, método e expiração
func ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return segredo(), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalido
	}
	c, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenInvalido
	}
	return c, nil
}
