package contavirtual

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ObterOuCriar(db *gorm.DB, papel string, donoID, organizacaoID uint) (*ContaVirtual, error)
	BuscarPorID(db *gorm.DB, id uint) (*ContaVirtual, error)
	BuscarPorDono(db *gorm.DB, papel string, donoID, organizacaoID uint) (*ContaVirtual, error)
	ListarPorOrganizacao(db *gorm.DB, organizacaoID uint) ([]ContaVirtual, error)
	CreditarPendente(db *gorm.DB, contaID uint, valor int64) error
	Liberar(db *gorm.DB, contaID uint, valor int64) error
	Estornar(db *gorm.DB, contaID uint, valor int64, dePendente bool) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// ObterOuCriar devolve a conta do titular, criando-a na primeira utilização.
// O índice único (papel, dono_id, organizacao_id) resolve a corrida de
// primeira criação: quem perde o INSERT lê a linha do vencedor.
func (r *repositoryImpl) ObterOuCriar(db *gorm.DB, papel string, donoID, organizacaoID uint) (*ContaVirtual, error) {
	conta := ContaVirtual{Papel: papel, DonoID: donoID, OrganizacaoID: organizacaoID}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conta).Error
	if err != nil {
		return nil, err
	}
	if conta.ID != 0 {
		return &conta, nil
	}
	return r.BuscarPorDono(db, papel, donoID, organizacaoID)
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*ContaVirtual, error) {
	var conta ContaVirtual
	if err := db.First(&conta, id).Error; err != nil {
		return nil, err
	}
	return &conta, nil
}

func (r *repositoryImpl) BuscarPorDono(db *gorm.DB, papel string, donoID, organizacaoID uint) (*ContaVirtual, error) {
	var conta ContaVirtual
	err := db.Where("papel = ? AND dono_id = ? AND organizacao_id = ?", papel, donoID, organizacaoID).
		First(&conta).Error
	if err != nil {
		return nil, err
	}
	return &conta, nil
}

func (r *repositoryImpl) ListarPorOrganizacao(db *gorm.DB, organizacaoID uint) ([]ContaVirtual, error) {
	var contas []ContaVirtual
	err := db.Where("organizacao_id = ?", organizacaoID).Find(&contas).Error
	return contas, err
}

// CreditarPendente aplica um crédito de split: entra no saldo pendente e no
// total recebido. O delta roda no banco, nunca em memória.
func (r *repositoryImpl) CreditarPendente(db *gorm.DB, contaID uint, valor int64) error {
	return db.Model(&ContaVirtual{}).Where("id = ?", contaID).
		Updates(map[string]interface{}{
			"saldo_pendente": gorm.Expr("saldo_pendente + ?", valor),
			"total_recebido": gorm.Expr("total_recebido + ?", valor),
		}).Error
}

// Liberar transfere valor do saldo pendente para o disponível ao fim da retenção.
func (r *repositoryImpl) Liberar(db *gorm.DB, contaID uint, valor int64) error {
	return db.Model(&ContaVirtual{}).Where("id = ?", contaID).
		Updates(map[string]interface{}{
			"saldo_pendente":  gorm.Expr("saldo_pendente - ?", valor),
			"saldo_disponivel": gorm.Expr("saldo_disponivel + ?", valor),
		}).Error
}

// Estornar debita o saldo que ainda segura o valor estornado e recua o total
// recebido. O saldo pode ficar negativo quando o valor já foi sacado; isso é
// dívida recuperável e fica visível, nunca é travado em zero.
func (r *repositoryImpl) Estornar(db *gorm.DB, contaID uint, valor int64, dePendente bool) error {
	coluna := "saldo_disponivel"
	if dePendente {
		coluna = "saldo_pendente"
	}
	return db.Model(&ContaVirtual{}).Where("id = ?", contaID).
		Updates(map[string]interface{}{
			coluna:           gorm.Expr(coluna+" - ?", valor),
			"total_recebido": gorm.Expr("total_recebido - ?", valor),
		}).Error
}
