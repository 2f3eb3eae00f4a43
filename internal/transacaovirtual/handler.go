package transacaovirtual

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

// FatiaDTO é uma linha do detalhamento de split exibido no pedido.
type FatiaDTO struct {
	Papel        string `json:"papel"`
	ValorBruto   int64  `json:"valorBrutoCentavos"`
	ValorTaxa    int64  `json:"valorTaxaCentavos"`
	ValorLiquido int64  `json:"valorLiquidoCentavos"`
	Status       string `json:"status"`
}

// GET /contas/{id}/extrato
func (h *Handler) Extrato(w http.ResponseWriter, r *http.Request) {
	contaID, _ := strconv.Atoi(mux.Vars(r)["id"])
	lista, err := h.Repository.ListarPorConta(h.DB, uint(contaID))
	if err != nil {
		http.Error(w, "Erro ao listar transações", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(lista)
}

// GET /vendas/{id}/split
func (h *Handler) SplitDaVenda(w http.ResponseWriter, r *http.Request) {
	vendaID, _ := strconv.Atoi(mux.Vars(r)["id"])
	lista, err := h.Repository.ListarPorVenda(h.DB, uint(vendaID))
	if err != nil {
		http.Error(w, "Erro ao buscar split da venda", http.StatusInternalServerError)
		return
	}
	fatias := make([]FatiaDTO, 0, len(lista))
	for _, t := range lista {
		if t.Tipo != TipoCredito {
			continue
		}
		fatias = append(fatias, FatiaDTO{
			Papel:        t.Papel,
			ValorBruto:   t.ValorBruto,
			ValorTaxa:    t.ValorTaxa,
			ValorLiquido: t.ValorLiquido,
			Status:       t.Status,
		})
	}
	json.NewEncoder(w).Encode(fatias)
}
