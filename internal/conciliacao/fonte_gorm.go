package conciliacao

import (
	"context"

	"github.com/splitpay/api-financeiro/internal/venda"
	"gorm.io/gorm"
)

// FonteGorm implementa Fonte sobre os repositórios de produção.
type FonteGorm struct {
	DB        *gorm.DB
	Recebidas Repository
	Vendas    venda.Repository
}

func NewFonteGorm(db *gorm.DB) *FonteGorm {
	return &FonteGorm{
		DB:        db,
		Recebidas: NewRepository(),
		Vendas:    venda.NewRepository(),
	}
}

func (f *FonteGorm) CriarTransacao(ctx context.Context, t *TransacaoRecebida) error {
	return f.Recebidas.Criar(f.DB.WithContext(ctx), t)
}

func (f *FonteGorm) BuscarTransacaoPorUUID(ctx context.Context, uuid string) (*TransacaoRecebida, error) {
	return f.Recebidas.BuscarPorUUID(f.DB.WithContext(ctx), uuid)
}

func (f *FonteGorm) PendentesPorValor(ctx context.Context, organizacaoID uint, valor int64) ([]TransacaoRecebida, error) {
	return f.Recebidas.PendentesPorValor(f.DB.WithContext(ctx), organizacaoID, valor)
}

func (f *FonteGorm) PendentesDaOrganizacao(ctx context.Context, organizacaoID uint) ([]TransacaoRecebida, error) {
	return f.Recebidas.ListarPorStatus(f.DB.WithContext(ctx), organizacaoID, StatusPendente)
}

func (f *FonteGorm) VendasAbertasPorValor(ctx context.Context, organizacaoID uint, valor int64) ([]venda.Venda, error) {
	return f.Vendas.AbertasPorValor(f.DB.WithContext(ctx), organizacaoID, valor)
}

func (f *FonteGorm) BuscarVenda(ctx context.Context, id uint) (*venda.Venda, error) {
	return f.Vendas.BuscarPorID(f.DB.WithContext(ctx), id)
}

func (f *FonteGorm) AjustarVendaParaBaseSemJuros(ctx context.Context, vendaID uint, base int64) error {
	return f.Vendas.AjustarParaBaseSemJuros(f.DB.WithContext(ctx), vendaID, base)
}

func (f *FonteGorm) MarcarConciliada(ctx context.Context, id, vendaID uint) (bool, error) {
	return f.Recebidas.MarcarConciliada(f.DB.WithContext(ctx), id, vendaID)
}

func (f *FonteGorm) MarcarIgnorada(ctx context.Context, id uint) (bool, error) {
	return f.Recebidas.MarcarIgnorada(f.DB.WithContext(ctx), id)
}
