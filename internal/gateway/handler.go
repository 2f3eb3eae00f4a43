// Package gateway recebe os webhooks do gateway de pagamento. O gateway pode
// entregar o mesmo evento mais de uma vez; a idempotência é resolvida pelo
// split, aqui só se traduz o resultado em status HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/splitpay/api-financeiro/internal/estorno"
	"github.com/splitpay/api-financeiro/internal/split"
	"go.uber.org/zap"
)

// PagamentoConfirmadoDTO é o payload do evento de confirmação.
type PagamentoConfirmadoDTO struct {
	VendaID uint `json:"vendaId"`
}

// EstornoDTO é o payload dos eventos de reembolso e chargeback.
type EstornoDTO struct {
	VendaID uint  `json:"vendaId"`
	Valor   int64 `json:"valor"`
}

type ProcessadorDeSplit interface {
	ProcessarPagamentoConfirmado(ctx context.Context, vendaID uint) error
}

type Estornador interface {
	Reverter(ctx context.Context, vendaID uint, valor int64, motivo string) error
}

type Handler struct {
	Split      ProcessadorDeSplit
	Estornador Estornador
	Logger     *zap.Logger
}

func NewHandler(split ProcessadorDeSplit, estornador Estornador, logger *zap.Logger) *Handler {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Handler{Split: split, Estornador: estornador, Logger: logger}
}

// POST /webhooks/pagamento-confirmado
func (h *Handler) PagamentoConfirmado(w http.ResponseWriter, r *http.Request) {
	var dto PagamentoConfirmadoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.VendaID == 0 {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	err := h.Split.ProcessarPagamentoConfirmado(r.Context(), dto.VendaID)
	switch {
	case errors.Is(err, split.ErrProcessamentoDuplicado):
		// entrega repetida do gateway: responde ok para ele parar de reenviar
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, split.ErrLiquidoNegativo):
		http.Error(w, "Venda enviada para revisão financeira", http.StatusUnprocessableEntity)
	case err != nil:
		h.Logger.Error("falha no processamento do webhook de confirmação",
			zap.Uint("vendaId", dto.VendaID), zap.Error(err))
		http.Error(w, "Erro ao processar confirmação", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

// POST /webhooks/reembolso
func (h *Handler) Reembolso(w http.ResponseWriter, r *http.Request) {
	h.reverter(w, r, estorno.MotivoReembolso)
}

// POST /webhooks/chargeback
func (h *Handler) Chargeback(w http.ResponseWriter, r *http.Request) {
	h.reverter(w, r, estorno.MotivoChargeback)
}

func (h *Handler) reverter(w http.ResponseWriter, r *http.Request, motivo string) {
	var dto EstornoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.VendaID == 0 {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := h.Estornador.Reverter(r.Context(), dto.VendaID, dto.Valor, motivo); err != nil {
		h.Logger.Error("falha no processamento do estorno",
			zap.Uint("vendaId", dto.VendaID), zap.String("motivo", motivo), zap.Error(err))
		http.Error(w, "Erro ao processar estorno", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
