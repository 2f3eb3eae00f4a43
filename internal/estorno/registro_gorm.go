package estorno

import (
	"context"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"github.com/splitpay/api-financeiro/internal/venda"
	"gorm.io/gorm"
)

// RegistroGorm implementa Registro sobre os repositórios de produção.
type RegistroGorm struct {
	DB         *gorm.DB
	Vendas     venda.Repository
	Contas     contavirtual.Repository
	Transacoes transacaovirtual.Repository
}

func NewRegistroGorm(db *gorm.DB) *RegistroGorm {
	return &RegistroGorm{
		DB:         db,
		Vendas:     venda.NewRepository(),
		Contas:     contavirtual.NewRepository(),
		Transacoes: transacaovirtual.NewRepository(),
	}
}

func (r *RegistroGorm) CreditosAtivosDaVenda(ctx context.Context, vendaID uint) ([]transacaovirtual.TransacaoVirtual, error) {
	return r.Transacoes.CreditosAtivosDaVenda(r.DB.WithContext(ctx), vendaID)
}

func (r *RegistroGorm) EmUnidadeAtomica(ctx context.Context, fn func(u Unidade) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&unidadeGorm{tx: tx, registro: r})
	})
}

type unidadeGorm struct {
	tx       *gorm.DB
	registro *RegistroGorm
}

func (u *unidadeGorm) CriarTransacao(t *transacaovirtual.TransacaoVirtual) error {
	return u.registro.Transacoes.Criar(u.tx, t)
}

func (u *unidadeGorm) MarcarTransacaoEstornada(id uint, deStatus string) (bool, error) {
	return u.registro.Transacoes.MarcarEstornada(u.tx, id, deStatus)
}

func (u *unidadeGorm) DebitarConta(contaID uint, valor int64, dePendente bool) error {
	return u.registro.Contas.Estornar(u.tx, contaID, valor, dePendente)
}

func (u *unidadeGorm) BuscarConta(contaID uint) (*contavirtual.ContaVirtual, error) {
	return u.registro.Contas.BuscarPorID(u.tx, contaID)
}

func (u *unidadeGorm) MarcarVendaEstornada(vendaID uint) error {
	return u.registro.Vendas.MarcarEstornada(u.tx, vendaID)
}
