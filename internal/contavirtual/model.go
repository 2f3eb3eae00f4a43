package contavirtual

import (
	"time"

	"gorm.io/gorm"
)

// Papéis que podem ser donos de uma conta virtual.
const (
	PapelPlataforma  = "plataforma"
	PapelOrganizacao = "organizacao"
	PapelAfiliado    = "afiliado"
	PapelFabrica     = "fabrica"
	PapelIndustria   = "industria"
	PapelCoprodutor  = "coprodutor"
)

// ContaVirtual guarda os saldos de um titular de repasse. A conta da
// plataforma é global (DonoID e OrganizacaoID zerados); as demais são
// escopadas à organização. Contas nunca são removidas.
//
// Invariantes: TotalRecebido acumula todos os créditos não estornados;
// SaldoPendente + SaldoDisponivel pode ficar negativo apenas após estorno
// de valores já sacados.
type ContaVirtual struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Papel         string `gorm:"size:50;not null;uniqueIndex:idx_conta_titular" json:"papel"`
	DonoID        uint   `gorm:"not null;default:0;uniqueIndex:idx_conta_titular" json:"donoId"`
	OrganizacaoID uint   `gorm:"not null;default:0;uniqueIndex:idx_conta_titular;index" json:"organizacaoId"`

	SaldoPendente   int64 `gorm:"not null;default:0" json:"saldoPendente"`
	SaldoDisponivel int64 `gorm:"not null;default:0" json:"saldoDisponivel"`
	TotalRecebido   int64 `gorm:"not null;default:0" json:"totalRecebido"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&ContaVirtual{})
}
