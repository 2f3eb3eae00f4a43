package venda

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, v *Venda) error
	BuscarPorID(db *gorm.DB, id uint) (*Venda, error)
	ConfirmarPagamento(db *gorm.DB, id uint, quando time.Time) (bool, error)
	AjustarParaBaseSemJuros(db *gorm.DB, id uint, base int64) error
	MarcarParaRevisao(db *gorm.DB, id uint) error
	MarcarEstornada(db *gorm.DB, id uint) error
	AbertasPorValor(db *gorm.DB, organizacaoID uint, valor int64) ([]Venda, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, v *Venda) error {
	return db.Create(v).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Venda, error) {
	var v Venda
	if err := db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ConfirmarPagamento faz a transição pendente -> pagamento_confirmado de forma
// guardada: o UPDATE só pega a linha se ela ainda estiver pendente, então a
// transição acontece exatamente uma vez mesmo com entregas duplicadas.
// Devolve true quando foi esta chamada que confirmou.
func (r *repositoryImpl) ConfirmarPagamento(db *gorm.DB, id uint, quando time.Time) (bool, error) {
	res := db.Model(&Venda{}).
		Where("id = ? AND status = ?", id, StatusPendente).
		Updates(map[string]interface{}{
			"status":                  StatusPagamentoConfirmado,
			"pagamento_confirmado_em": quando,
		})
	return res.RowsAffected > 0, res.Error
}

// AjustarParaBaseSemJuros regrava o total da venda na base sem juros, usado
// pela conciliação quando os juros correm por conta do vendedor. Os juros são
// zerados junto para não serem descontados de novo no split. Só vale enquanto
// a venda está pendente; depois de confirmada a venda é imutável.
func (r *repositoryImpl) AjustarParaBaseSemJuros(db *gorm.DB, id uint, base int64) error {
	return db.Model(&Venda{}).
		Where("id = ? AND status = ?", id, StatusPendente).
		Updates(map[string]interface{}{
			"valor_bruto": base,
			"valor_juros": 0,
		}).Error
}

func (r *repositoryImpl) MarcarParaRevisao(db *gorm.DB, id uint) error {
	return db.Model(&Venda{}).Where("id = ?", id).Update("status", StatusEmRevisao).Error
}

func (r *repositoryImpl) MarcarEstornada(db *gorm.DB, id uint) error {
	return db.Model(&Venda{}).Where("id = ?", id).Update("status", StatusEstornada).Error
}

// AbertasPorValor lista vendas pendentes da organização com o valor em aberto
// informado; é o lado interno do filtro de candidatas da conciliação.
func (r *repositoryImpl) AbertasPorValor(db *gorm.DB, organizacaoID uint, valor int64) ([]Venda, error) {
	var vendas []Venda
	err := db.Where("organizacao_id = ? AND status = ? AND valor_bruto = ?",
		organizacaoID, StatusPendente, valor).Find(&vendas).Error
	return vendas, err
}
