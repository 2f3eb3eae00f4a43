package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/splitpay/api-financeiro/internal/estorno"
	"github.com/splitpay/api-financeiro/internal/split"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type splitFake struct {
	err      error
	chamadas []uint
}

func (f *splitFake) ProcessarPagamentoConfirmado(ctx context.Context, vendaID uint) error {
	f.chamadas = append(f.chamadas, vendaID)
	return f.err
}

type estornadorFake struct {
	err     error
	motivos []string
}

func (f *estornadorFake) Reverter(ctx context.Context, vendaID uint, valor int64, motivo string) error {
	f.motivos = append(f.motivos, motivo)
	return f.err
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestPagamentoConfirmado(t *testing.T) {
	casos := []struct {
		nome   string
		err    error
		status int
	}{
		{"sucesso", nil, http.StatusCreated},
		{"duplicado", split.ErrProcessamentoDuplicado, http.StatusOK},
		{"liquido negativo", split.ErrLiquidoNegativo, http.StatusUnprocessableEntity},
		{"erro interno", errors.New("banco fora"), http.StatusInternalServerError},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			fake := &splitFake{err: c.err}
			h := NewHandler(fake, &estornadorFake{}, zaptest.NewLogger(t))

			rec := postJSON(t, h.PagamentoConfirmado, `{"vendaId": 7}`)

			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, []uint{7}, fake.chamadas)
		})
	}
}

func TestPagamentoConfirmadoPayloadInvalido(t *testing.T) {
	fake := &splitFake{}
	h := NewHandler(fake, &estornadorFake{}, zaptest.NewLogger(t))

	rec := postJSON(t, h.PagamentoConfirmado, `{"vendaId": 0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.chamadas)
}

func TestReembolsoEChargebackUsamMotivoCerto(t *testing.T) {
	fake := &estornadorFake{}
	h := NewHandler(&splitFake{}, fake, zaptest.NewLogger(t))

	rec := postJSON(t, h.Reembolso, `{"vendaId": 3, "valor": 10000}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Chargeback, `{"vendaId": 3, "valor": 10000}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{estorno.MotivoReembolso, estorno.MotivoChargeback}, fake.motivos)
}

func TestEstornoFalhaViraErroInterno(t *testing.T) {
	fake := &estornadorFake{err: errors.New("banco fora")}
	h := NewHandler(&splitFake{}, fake, zaptest.NewLogger(t))

	rec := postJSON(t, h.Reembolso, `{"vendaId": 3, "valor": 10000}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
