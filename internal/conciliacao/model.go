// Package conciliacao correlaciona pagamentos observados fora do canal
// automático (extrato bancário, recebimento PIX sem referência determinística)
// com as vendas em aberto que eles quitam.
package conciliacao

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPendente   = "pendente"
	StatusConciliada = "conciliada"
	StatusIgnorada   = "ignorada"
)

const (
	CanalPix    = "pix"
	CanalTed    = "ted"
	CanalCartao = "cartao"
)

// TransacaoRecebida é um pagamento de entrada observado de forma independente
// do registro da venda. Criada pela ingestão externa; só a conciliação muda o
// status, e uma transação conciliada guarda a referência da venda quitada.
type TransacaoRecebida struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UUID          string `gorm:"size:36;not null;uniqueIndex" json:"uuid"`
	OrganizacaoID uint   `gorm:"not null;index" json:"organizacaoId"`

	Valor            int64     `gorm:"not null" json:"valor"`
	Canal            string    `gorm:"size:20;not null" json:"canal"`
	NomePagador      string    `gorm:"size:255" json:"nomePagador"`
	DocumentoPagador string    `gorm:"size:20" json:"documentoPagador"`
	ObservadaEm      time.Time `gorm:"not null;index" json:"observadaEm"`

	Status  string `gorm:"size:20;not null;default:'pendente';index" json:"status"`
	VendaID *uint  `gorm:"index" json:"vendaId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TransacaoRecebida{})
}
