package venda

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// POST /vendas
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto CriarVendaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if dto.ValorBruto <= 0 {
		http.Error(w, "Valor bruto deve ser positivo", http.StatusUnprocessableEntity)
		return
	}
	v := Venda{
		OrganizacaoID:   dto.OrganizacaoID,
		ValorBruto:      dto.ValorBruto,
		ValorJuros:      dto.ValorJuros,
		Moeda:           dto.Moeda,
		MetodoPagamento: dto.MetodoPagamento,
		QtdParcelas:     dto.QtdParcelas,
		JurosPorConta:   dto.JurosPorConta,
	}
	if v.Moeda == "" {
		v.Moeda = "BRL"
	}
	if v.QtdParcelas == 0 {
		v.QtdParcelas = 1
	}
	if err := h.Repository.Criar(h.DB, &v); err != nil {
		http.Error(w, "Erro ao salvar venda", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

// GET /vendas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	v, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Venda não encontrada", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(v)
}
