package conciliacao

import (
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, t *TransacaoRecebida) error
	BuscarPorUUID(db *gorm.DB, uuid string) (*TransacaoRecebida, error)
	PendentesPorValor(db *gorm.DB, organizacaoID uint, valor int64) ([]TransacaoRecebida, error)
	ListarPorStatus(db *gorm.DB, organizacaoID uint, status string) ([]TransacaoRecebida, error)
	MarcarConciliada(db *gorm.DB, id, vendaID uint) (bool, error)
	MarcarIgnorada(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, t *TransacaoRecebida) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) BuscarPorUUID(db *gorm.DB, uuid string) (*TransacaoRecebida, error) {
	var t TransacaoRecebida
	if err := db.Where("uuid = ?", uuid).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) PendentesPorValor(db *gorm.DB, organizacaoID uint, valor int64) ([]TransacaoRecebida, error) {
	var lista []TransacaoRecebida
	err := db.Where("organizacao_id = ? AND status = ? AND valor = ?",
		organizacaoID, StatusPendente, valor).
		Order("observada_em").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorStatus(db *gorm.DB, organizacaoID uint, status string) ([]TransacaoRecebida, error) {
	var lista []TransacaoRecebida
	err := db.Where("organizacao_id = ? AND status = ?", organizacaoID, status).
		Order("observada_em DESC").Find(&lista).Error
	return lista, err
}

// MarcarConciliada fecha a transação com a referência da venda quitada. O
// UPDATE guardado perde para quem conciliar primeiro.
func (r *repositoryImpl) MarcarConciliada(db *gorm.DB, id, vendaID uint) (bool, error) {
	res := db.Model(&TransacaoRecebida{}).
		Where("id = ? AND status = ?", id, StatusPendente).
		Updates(map[string]interface{}{
			"status":   StatusConciliada,
			"venda_id": vendaID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repositoryImpl) MarcarIgnorada(db *gorm.DB, id uint) (bool, error) {
	res := db.Model(&TransacaoRecebida{}).
		Where("id = ? AND status = ?", id, StatusPendente).
		Update("status", StatusIgnorada)
	return res.RowsAffected > 0, res.Error
}
