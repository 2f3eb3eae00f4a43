package transacaovirtual

import (
	"time"

	"gorm.io/gorm"
)

const (
	TipoCredito = "credito"
	TipoEstorno = "estorno"
)

const (
	StatusPendente   = "pendente"
	StatusDisponivel = "disponivel"
	StatusEstornada  = "estornada"
)

// TransacaoVirtual é uma linha imutável do razão de repasses. LiberacaoEm é
// fixado na criação e nunca muda; só o Status troca, e só nos sentidos
// pendente -> disponivel ou pendente/disponivel -> estornada.
//
// O índice único (venda_id, papel, tipo) é a chave de idempotência real do
// split: a checagem em código é apenas atalho, quem decide é o banco.
type TransacaoVirtual struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ContaVirtualID uint   `gorm:"not null;index" json:"contaVirtualId"`
	VendaID        uint   `gorm:"not null;uniqueIndex:idx_venda_papel_tipo" json:"vendaId"`
	Papel          string `gorm:"size:50;not null;uniqueIndex:idx_venda_papel_tipo" json:"papel"`
	Tipo           string `gorm:"size:20;not null;default:'credito';uniqueIndex:idx_venda_papel_tipo" json:"tipo"`

	ValorBruto   int64 `gorm:"not null" json:"valorBruto"`
	ValorTaxa    int64 `gorm:"not null;default:0" json:"valorTaxa"`
	ValorLiquido int64 `gorm:"not null" json:"valorLiquido"`

	Status      string    `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	LiberacaoEm time.Time `gorm:"not null;index" json:"liberacaoEm"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TransacaoVirtual{})
}
