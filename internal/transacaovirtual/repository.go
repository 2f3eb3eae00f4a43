package transacaovirtual

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, t *TransacaoVirtual) error
	ExisteCreditoAtivo(db *gorm.DB, vendaID uint, papel string) (bool, error)
	CreditosAtivosDaVenda(db *gorm.DB, vendaID uint) ([]TransacaoVirtual, error)
	ListarPorVenda(db *gorm.DB, vendaID uint) ([]TransacaoVirtual, error)
	ListarPorConta(db *gorm.DB, contaID uint) ([]TransacaoVirtual, error)
	PendentesVencidas(db *gorm.DB, ate time.Time, limite int) ([]TransacaoVirtual, error)
	MarcarDisponivel(db *gorm.DB, id uint) (bool, error)
	MarcarEstornada(db *gorm.DB, id uint, deStatus string) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, t *TransacaoVirtual) error {
	return db.Create(t).Error
}

// ExisteCreditoAtivo é o atalho de idempotência do split: já existe crédito
// não estornado desta venda para este papel?
func (r *repositoryImpl) ExisteCreditoAtivo(db *gorm.DB, vendaID uint, papel string) (bool, error) {
	var total int64
	err := db.Model(&TransacaoVirtual{}).
		Where("venda_id = ? AND papel = ? AND tipo = ? AND status <> ?",
			vendaID, papel, TipoCredito, StatusEstornada).
		Count(&total).Error
	return total > 0, err
}

// CreditosAtivosDaVenda devolve os créditos não estornados da venda, na ordem
// de criação. Alimenta o cálculo de alocações prévias e o estorno.
func (r *repositoryImpl) CreditosAtivosDaVenda(db *gorm.DB, vendaID uint) ([]TransacaoVirtual, error) {
	var lista []TransacaoVirtual
	err := db.Where("venda_id = ? AND tipo = ? AND status <> ?",
		vendaID, TipoCredito, StatusEstornada).
		Order("id").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorVenda(db *gorm.DB, vendaID uint) ([]TransacaoVirtual, error) {
	var lista []TransacaoVirtual
	err := db.Where("venda_id = ?", vendaID).Order("id").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorConta(db *gorm.DB, contaID uint) ([]TransacaoVirtual, error) {
	var lista []TransacaoVirtual
	err := db.Where("conta_virtual_id = ?", contaID).Order("id DESC").Find(&lista).Error
	return lista, err
}

// PendentesVencidas seleciona o lote da varredura de liberação: pendentes com
// data de liberação alcançada.
func (r *repositoryImpl) PendentesVencidas(db *gorm.DB, ate time.Time, limite int) ([]TransacaoVirtual, error) {
	var lista []TransacaoVirtual
	err := db.Where("status = ? AND liberacao_em <= ?", StatusPendente, ate).
		Order("liberacao_em").Limit(limite).Find(&lista).Error
	return lista, err
}

// MarcarDisponivel promove pendente -> disponivel de forma guardada; devolve
// false quando outra varredura já promoveu a linha.
func (r *repositoryImpl) MarcarDisponivel(db *gorm.DB, id uint) (bool, error) {
	res := db.Model(&TransacaoVirtual{}).
		Where("id = ? AND status = ?", id, StatusPendente).
		Update("status", StatusDisponivel)
	return res.RowsAffected > 0, res.Error
}

// MarcarEstornada fecha a linha a partir do status de origem informado;
// devolve false quando a linha não está mais nesse status. A guarda diz ao
// estorno, no mesmo UPDATE, qual saldo ainda segura o valor.
func (r *repositoryImpl) MarcarEstornada(db *gorm.DB, id uint, deStatus string) (bool, error) {
	res := db.Model(&TransacaoVirtual{}).
		Where("id = ? AND status = ?", id, deStatus).
		Update("status", StatusEstornada)
	return res.RowsAffected > 0, res.Error
}
