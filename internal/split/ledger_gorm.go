package split

import (
	"context"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/taxas"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"github.com/splitpay/api-financeiro/internal/venda"
	"gorm.io/gorm"
)

// LedgerGorm liga o serviço de split aos repositórios de produção.
type LedgerGorm struct {
	DB         *gorm.DB
	Vendas     venda.Repository
	Taxas      taxas.Repository
	Contas     contavirtual.Repository
	Transacoes transacaovirtual.Repository
}

func NewLedgerGorm(db *gorm.DB) *LedgerGorm {
	return &LedgerGorm{
		DB:         db,
		Vendas:     venda.NewRepository(),
		Taxas:      taxas.NewRepository(),
		Contas:     contavirtual.NewRepository(),
		Transacoes: transacaovirtual.NewRepository(),
	}
}

func (l *LedgerGorm) BuscarVenda(ctx context.Context, id uint) (*venda.Venda, error) {
	return l.Vendas.BuscarPorID(l.DB.WithContext(ctx), id)
}

func (l *LedgerGorm) BuscarTabelaTaxas(ctx context.Context, organizacaoID uint) (*taxas.TabelaTaxas, error) {
	return l.Taxas.BuscarPorOrganizacao(l.DB.WithContext(ctx), organizacaoID)
}

func (l *LedgerGorm) ExisteCreditoAtivo(ctx context.Context, vendaID uint, papel string) (bool, error) {
	return l.Transacoes.ExisteCreditoAtivo(l.DB.WithContext(ctx), vendaID, papel)
}

func (l *LedgerGorm) CreditosAtivosDaVenda(ctx context.Context, vendaID uint) ([]transacaovirtual.TransacaoVirtual, error) {
	return l.Transacoes.CreditosAtivosDaVenda(l.DB.WithContext(ctx), vendaID)
}

func (l *LedgerGorm) MarcarVendaParaRevisao(ctx context.Context, vendaID uint) error {
	return l.Vendas.MarcarParaRevisao(l.DB.WithContext(ctx), vendaID)
}

func (l *LedgerGorm) EmUnidadeAtomica(ctx context.Context, fn func(u UnidadeAtomica) error) error {
	return l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&unidadeGorm{tx: tx, ledger: l})
	})
}

type unidadeGorm struct {
	tx     *gorm.DB
	ledger *LedgerGorm
}

func (u *unidadeGorm) ConfirmarPagamento(vendaID uint, quando time.Time) (bool, error) {
	return u.ledger.Vendas.ConfirmarPagamento(u.tx, vendaID, quando)
}

func (u *unidadeGorm) ObterOuCriarConta(papel string, donoID, organizacaoID uint) (*contavirtual.ContaVirtual, error) {
	return u.ledger.Contas.ObterOuCriar(u.tx, papel, donoID, organizacaoID)
}

func (u *unidadeGorm) CriarTransacao(t *transacaovirtual.TransacaoVirtual) error {
	return u.ledger.Transacoes.Criar(u.tx, t)
}

func (u *unidadeGorm) CreditarPendente(contaID uint, valor int64) error {
	return u.ledger.Contas.CreditarPendente(u.tx, contaID, valor)
}
