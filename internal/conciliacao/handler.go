package conciliacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/splitpay/api-financeiro/internal/venda"
)

type Handler struct {
	Servico *Servico
}

func NewHandler(servico *Servico) *Handler {
	return &Handler{Servico: servico}
}

// POST /transacoes-recebidas
func (h *Handler) Registrar(w http.ResponseWriter, r *http.Request) {
	var dto RegistrarTransacaoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	t := TransacaoRecebida{
		OrganizacaoID:    dto.OrganizacaoID,
		Valor:            dto.Valor,
		Canal:            dto.Canal,
		NomePagador:      dto.NomePagador,
		DocumentoPagador: dto.DocumentoPagador,
		ObservadaEm:      dto.ObservadaEm,
	}
	if err := h.Servico.Registrar(r.Context(), &t); err != nil {
		http.Error(w, "Erro ao registrar transação recebida", http.StatusUnprocessableEntity)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(t)
}

// GET /organizacoes/{id}/transacoes-recebidas
func (h *Handler) Pendentes(w http.ResponseWriter, r *http.Request) {
	orgID, _ := strconv.Atoi(mux.Vars(r)["id"])
	pendentes, err := h.Servico.Pendentes(r.Context(), uint(orgID))
	if err != nil {
		http.Error(w, "Erro ao buscar fila de conciliação", http.StatusInternalServerError)
		return
	}
	if pendentes == nil {
		pendentes = []TransacaoRecebida{}
	}
	json.NewEncoder(w).Encode(pendentes)
}

// GET /transacoes-recebidas/{uuid}/vendas-candidatas
func (h *Handler) VendasCandidatas(w http.ResponseWriter, r *http.Request) {
	transacaoUUID := mux.Vars(r)["uuid"]
	candidatas, err := h.Servico.VendasCandidatas(r.Context(), transacaoUUID)
	if err != nil {
		if errors.Is(err, ErrTransacaoJaConciliada) {
			http.Error(w, "Transação já conciliada ou ignorada", http.StatusConflict)
			return
		}
		http.Error(w, "Erro ao buscar vendas candidatas", http.StatusInternalServerError)
		return
	}
	if candidatas == nil {
		candidatas = []venda.Venda{}
	}
	json.NewEncoder(w).Encode(candidatas)
}

// GET /vendas/{id}/transacoes-recebidas/candidatas
func (h *Handler) Candidatas(w http.ResponseWriter, r *http.Request) {
	vendaID, _ := strconv.Atoi(mux.Vars(r)["id"])
	candidatas, err := h.Servico.Candidatas(r.Context(), uint(vendaID))
	if err != nil {
		if errors.Is(err, ErrVendaNaoPendente) {
			http.Error(w, "Venda não está aguardando pagamento", http.StatusConflict)
			return
		}
		http.Error(w, "Erro ao buscar candidatas", http.StatusInternalServerError)
		return
	}
	if candidatas == nil {
		candidatas = []TransacaoRecebida{}
	}
	json.NewEncoder(w).Encode(candidatas)
}

// POST /vendas/{id}/conciliar-automatico
func (h *Handler) ConciliarAutomatico(w http.ResponseWriter, r *http.Request) {
	vendaID, _ := strconv.Atoi(mux.Vars(r)["id"])
	t, err := h.Servico.ConciliarAutomatico(r.Context(), uint(vendaID))
	switch {
	case errors.Is(err, ErrSemCorrespondencia):
		http.Error(w, "Nenhuma transação candidata", http.StatusNotFound)
	case errors.Is(err, ErrConciliacaoAmbigua):
		http.Error(w, "Mais de uma candidata; conciliação manual necessária", http.StatusConflict)
	case errors.Is(err, ErrVendaNaoPendente):
		http.Error(w, "Venda não está aguardando pagamento", http.StatusConflict)
	case err != nil:
		http.Error(w, "Erro na conciliação automática", http.StatusInternalServerError)
	default:
		json.NewEncoder(w).Encode(t)
	}
}

// POST /conciliacoes
func (h *Handler) ConciliarManual(w http.ResponseWriter, r *http.Request) {
	var dto ConciliarManualDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	err := h.Servico.ConciliarManual(r.Context(), dto.TransacaoUUID, dto.VendaID)
	switch {
	case errors.Is(err, ErrTransacaoJaConciliada):
		http.Error(w, "Transação já conciliada ou ignorada", http.StatusConflict)
	case errors.Is(err, ErrVendaNaoPendente):
		http.Error(w, "Venda não está aguardando pagamento", http.StatusConflict)
	case errors.Is(err, ErrValorDivergente):
		http.Error(w, "Valor da transação não bate com o da venda", http.StatusUnprocessableEntity)
	case err != nil:
		http.Error(w, "Erro na conciliação manual", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /transacoes-recebidas/{uuid}/ignorar
func (h *Handler) Ignorar(w http.ResponseWriter, r *http.Request) {
	transacaoUUID := mux.Vars(r)["uuid"]
	err := h.Servico.Ignorar(r.Context(), transacaoUUID)
	switch {
	case errors.Is(err, ErrTransacaoJaConciliada):
		http.Error(w, "Transação já conciliada ou ignorada", http.StatusConflict)
	case err != nil:
		http.Error(w, "Erro ao ignorar transação", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
