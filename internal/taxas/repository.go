package taxas

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	BuscarPorOrganizacao(db *gorm.DB, organizacaoID uint) (*TabelaTaxas, error)
	Salvar(db *gorm.DB, t *TabelaTaxas) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorOrganizacao(db *gorm.DB, organizacaoID uint) (*TabelaTaxas, error) {
	var tabela TabelaTaxas
	if err := db.Where("organizacao_id = ?", organizacaoID).First(&tabela).Error; err != nil {
		return nil, err
	}
	return &tabela, nil
}

// Salvar insere ou substitui a tabela da organização (upsert pelo índice único).
func (r *repositoryImpl) Salvar(db *gorm.DB, t *TabelaTaxas) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organizacao_id"}},
		UpdateAll: true,
	}).Create(t).Error
}
