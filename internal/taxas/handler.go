package taxas

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

// GET /organizacoes/{id}/taxas
func (h *Handler) Buscar(w http.ResponseWriter, r *http.Request) {
	orgID, _ := strconv.Atoi(mux.Vars(r)["id"])
	tabela, err := h.Repository.BuscarPorOrganizacao(h.DB, uint(orgID))
	if err != nil {
		http.Error(w, "Tabela de taxas não encontrada", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(tabela)
}

// PUT /organizacoes/{id}/taxas
func (h *Handler) Salvar(w http.ResponseWriter, r *http.Request) {
	orgID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var tabela TabelaTaxas
	if err := json.NewDecoder(r.Body).Decode(&tabela); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	tabela.OrganizacaoID = uint(orgID)
	if err := tabela.Validar(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err := h.Repository.Salvar(h.DB, &tabela); err != nil {
		http.Error(w, "Erro ao salvar tabela de taxas", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(tabela)
}
