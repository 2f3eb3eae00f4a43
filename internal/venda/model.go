package venda

import (
	"time"

	"gorm.io/gorm"
)

// Estados de uma venda no ciclo de pagamento. Os fluxos de checkout criam a
// venda como pendente; a transição para pagamento_confirmado acontece uma
// única vez e é o gatilho do cálculo de split.
const (
	StatusPendente            = "pendente"
	StatusPagamentoConfirmado = "pagamento_confirmado"
	StatusEmRevisao           = "em_revisao"
	StatusEstornada           = "estornada"
)

// Venda é o registro de uma compra confirmada. Depois de confirmada ela é
// imutável, exceto pelos marcadores de revisão e estorno.
type Venda struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	OrganizacaoID uint `gorm:"not null;index" json:"organizacaoId"`

	ValorBruto      int64  `gorm:"not null" json:"valorBruto"`
	ValorJuros      int64  `gorm:"not null;default:0" json:"valorJuros"`
	Moeda           string `gorm:"size:3;not null;default:'BRL'" json:"moeda"`
	MetodoPagamento string `gorm:"size:50" json:"metodoPagamento"`
	QtdParcelas     int    `gorm:"not null;default:1" json:"qtdParcelas"`
	JurosPorConta   string `gorm:"size:20" json:"jurosPorConta"`

	Status                string     `gorm:"size:50;not null;default:'pendente';index" json:"status"`
	PagamentoConfirmadoEm *time.Time `json:"pagamentoConfirmadoEm"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Venda{})
}
