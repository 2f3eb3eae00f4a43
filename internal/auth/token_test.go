package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarEValidarToken(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	token, err := GerarToken("financeiro@exemplo.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "financeiro@exemplo.com", claims.Operador)
	assert.Equal(t, "financeiro@exemplo.com", claims.Subject)
}

func TestParseAndValidateTokenAdulterado(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	token, err := GerarToken("financeiro@exemplo.com")
	require.NoError(t, err)

	t.Setenv("AUTH_JWT_SECRET", "outro-segredo")
	_, err = ParseAndValidate(token)
	assert.ErrorIs(t, err, ErrTokenInvalido)
}

func TestParseAndValidateLixo(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	_, err := ParseAndValidate("nao-e-um-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalido)
}
