package taxas

import (
	"errors"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/moeda"
	"gorm.io/gorm"
)

// DiasRetencaoPadrao é o prazo de retenção aplicado quando a organização
// não configurou outro.
const DiasRetencaoPadrao = 14

var (
	ErrPontosBaseInvalidos    = errors.New("pontos-base fora do intervalo 0..10000")
	ErrTaxaFixaNegativa       = errors.New("taxa fixa não pode ser negativa")
	ErrRetencaoNegativa       = errors.New("dias de retenção não podem ser negativos")
	ErrParticipacaoIncompleta = errors.New("participação exige dono e pontos-base juntos")
	ErrSomaAcimaDoTotal       = errors.New("soma das participações excede 100%")
)

// TabelaTaxas é a configuração de tarifas de uma organização, resolvida uma
// única vez antes do cálculo de split rodar. As participações de fornecedor
// (fábrica, indústria, coprodutor) são opcionais e independentes.
type TabelaTaxas struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	OrganizacaoID uint `gorm:"not null;uniqueIndex" json:"organizacaoId"`

	PlataformaPontosBase int64 `gorm:"not null;default:0" json:"plataformaPontosBase"`
	PlataformaTaxaFixa   int64 `gorm:"not null;default:0" json:"plataformaTaxaFixa"`
	DiasRetencao         int   `gorm:"not null;default:14" json:"diasRetencao"`

	FabricaID            *uint  `json:"fabricaId,omitempty"`
	FabricaPontosBase    *int64 `json:"fabricaPontosBase,omitempty"`
	IndustriaID          *uint  `json:"industriaId,omitempty"`
	IndustriaPontosBase  *int64 `json:"industriaPontosBase,omitempty"`
	CoprodutorID         *uint  `json:"coprodutorId,omitempty"`
	CoprodutorPontosBase *int64 `json:"coprodutorPontosBase,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Participacao é uma fatia de fornecedor já resolvida para um papel concreto.
type Participacao struct {
	Papel      string
	DonoID     uint
	PontosBase int64
}

// Validar confere a consistência da tabela antes de salvar ou usar.
func (t *TabelaTaxas) Validar() error {
	if t.PlataformaPontosBase < 0 || t.PlataformaPontosBase > moeda.PontosBaseTotal {
		return ErrPontosBaseInvalidos
	}
	if t.PlataformaTaxaFixa < 0 {
		return ErrTaxaFixaNegativa
	}
	if t.DiasRetencao < 0 {
		return ErrRetencaoNegativa
	}
	soma := t.PlataformaPontosBase
	pares := []struct {
		dono *uint
		pb   *int64
	}{
		{t.FabricaID, t.FabricaPontosBase},
		{t.IndustriaID, t.IndustriaPontosBase},
		{t.CoprodutorID, t.CoprodutorPontosBase},
	}
	for _, p := range pares {
		if (p.dono == nil) != (p.pb == nil) {
			return ErrParticipacaoIncompleta
		}
		if p.pb == nil {
			continue
		}
		if *p.pb < 0 || *p.pb > moeda.PontosBaseTotal {
			return ErrPontosBaseInvalidos
		}
		soma += *p.pb
	}
	if soma > moeda.PontosBaseTotal {
		return ErrSomaAcimaDoTotal
	}
	return nil
}

// Participacoes devolve a lista fechada de fatias de fornecedor configuradas,
// na ordem fábrica, indústria, coprodutor.
func (t *TabelaTaxas) Participacoes() []Participacao {
	var lista []Participacao
	if t.FabricaID != nil && t.FabricaPontosBase != nil {
		lista = append(lista, Participacao{contavirtual.PapelFabrica, *t.FabricaID, *t.FabricaPontosBase})
	}
	if t.IndustriaID != nil && t.IndustriaPontosBase != nil {
		lista = append(lista, Participacao{contavirtual.PapelIndustria, *t.IndustriaID, *t.IndustriaPontosBase})
	}
	if t.CoprodutorID != nil && t.CoprodutorPontosBase != nil {
		lista = append(lista, Participacao{contavirtual.PapelCoprodutor, *t.CoprodutorID, *t.CoprodutorPontosBase})
	}
	return lista
}

// Retencao devolve o prazo de retenção como duração.
func (t *TabelaTaxas) Retencao() time.Duration {
	dias := t.DiasRetencao
	if dias == 0 {
		dias = DiasRetencaoPadrao
	}
	return time.Duration(dias) * 24 * time.Hour
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&TabelaTaxas{})
}
