package contavirtual

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

// SaldoDTO é o snapshot consumido pelos dashboards.
type SaldoDTO struct {
	SaldoPendente   int64 `json:"saldoPendenteCentavos"`
	SaldoDisponivel int64 `json:"saldoDisponivelCentavos"`
	TotalRecebido   int64 `json:"totalRecebidoCentavos"`
}

// GET /contas/{id}/saldo
func (h *Handler) BuscarSaldo(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	conta, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Conta não encontrada", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(SaldoDTO{
		SaldoPendente:   conta.SaldoPendente,
		SaldoDisponivel: conta.SaldoDisponivel,
		TotalRecebido:   conta.TotalRecebido,
	})
}

// GET /organizacoes/{id}/contas
func (h *Handler) ListarPorOrganizacao(w http.ResponseWriter, r *http.Request) {
	orgID, _ := strconv.Atoi(mux.Vars(r)["id"])
	contas, err := h.Repository.ListarPorOrganizacao(h.DB, uint(orgID))
	if err != nil {
		http.Error(w, "Erro ao listar contas", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(contas)
}
