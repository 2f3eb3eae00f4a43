package split

import (
	"context"
	"fmt"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/taxas"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"github.com/splitpay/api-financeiro/internal/venda"
)

// razaoMemoria é o dublê de Ledger dos testes: mesmos contratos da
// implementação gorm, estado em mapas e fatias.
type razaoMemoria struct {
	vendas     map[uint]*venda.Venda
	tabelas    map[uint]*taxas.TabelaTaxas
	contas     []*contavirtual.ContaVirtual
	transacoes []*transacaovirtual.TransacaoVirtual
}

func novaRazaoMemoria() *razaoMemoria {
	return &razaoMemoria{
		vendas:  map[uint]*venda.Venda{},
		tabelas: map[uint]*taxas.TabelaTaxas{},
	}
}

func (r *razaoMemoria) BuscarVenda(_ context.Context, id uint) (*venda.Venda, error) {
	v, ok := r.vendas[id]
	if !ok {
		return nil, fmt.Errorf("venda %d não encontrada", id)
	}
	return v, nil
}

func (r *razaoMemoria) BuscarTabelaTaxas(_ context.Context, organizacaoID uint) (*taxas.TabelaTaxas, error) {
	t, ok := r.tabelas[organizacaoID]
	if !ok {
		return nil, fmt.Errorf("tabela da organização %d não encontrada", organizacaoID)
	}
	return t, nil
}

func (r *razaoMemoria) ExisteCreditoAtivo(_ context.Context, vendaID uint, papel string) (bool, error) {
	for _, t := range r.transacoes {
		if t.VendaID == vendaID && t.Papel == papel &&
			t.Tipo == transacaovirtual.TipoCredito && t.Status != transacaovirtual.StatusEstornada {
			return true, nil
		}
	}
	return false, nil
}

func (r *razaoMemoria) CreditosAtivosDaVenda(_ context.Context, vendaID uint) ([]transacaovirtual.TransacaoVirtual, error) {
	var lista []transacaovirtual.TransacaoVirtual
	for _, t := range r.transacoes {
		if t.VendaID == vendaID && t.Tipo == transacaovirtual.TipoCredito &&
			t.Status != transacaovirtual.StatusEstornada {
			lista = append(lista, *t)
		}
	}
	return lista, nil
}

func (r *razaoMemoria) MarcarVendaParaRevisao(_ context.Context, vendaID uint) error {
	v, ok := r.vendas[vendaID]
	if !ok {
		return fmt.Errorf("venda %d não encontrada", vendaID)
	}
	v.Status = venda.StatusEmRevisao
	return nil
}

func (r *razaoMemoria) EmUnidadeAtomica(_ context.Context, fn func(u UnidadeAtomica) error) error {
	return fn(r)
}

func (r *razaoMemoria) ConfirmarPagamento(vendaID uint, quando time.Time) (bool, error) {
	v, ok := r.vendas[vendaID]
	if !ok {
		return false, fmt.Errorf("venda %d não encontrada", vendaID)
	}
	if v.Status != venda.StatusPendente {
		return false, nil
	}
	v.Status = venda.StatusPagamentoConfirmado
	v.PagamentoConfirmadoEm = &quando
	return true, nil
}

func (r *razaoMemoria) ObterOuCriarConta(papel string, donoID, organizacaoID uint) (*contavirtual.ContaVirtual, error) {
	for _, c := range r.contas {
		if c.Papel == papel && c.DonoID == donoID && c.OrganizacaoID == organizacaoID {
			return c, nil
		}
	}
	conta := &contavirtual.ContaVirtual{
		ID:            uint(len(r.contas) + 1),
		Papel:         papel,
		DonoID:        donoID,
		OrganizacaoID: organizacaoID,
	}
	r.contas = append(r.contas, conta)
	return conta, nil
}

func (r *razaoMemoria) CriarTransacao(t *transacaovirtual.TransacaoVirtual) error {
	// espelha o índice único (venda_id, papel, tipo)
	for _, existente := range r.transacoes {
		if existente.VendaID == t.VendaID && existente.Papel == t.Papel && existente.Tipo == t.Tipo {
			return fmt.Errorf("violação de unicidade venda=%d papel=%s tipo=%s", t.VendaID, t.Papel, t.Tipo)
		}
	}
	t.ID = uint(len(r.transacoes) + 1)
	r.transacoes = append(r.transacoes, t)
	return nil
}

func (r *razaoMemoria) CreditarPendente(contaID uint, valor int64) error {
	for _, c := range r.contas {
		if c.ID == contaID {
			c.SaldoPendente += valor
			c.TotalRecebido += valor
			return nil
		}
	}
	return fmt.Errorf("conta %d não encontrada", contaID)
}

func (r *razaoMemoria) conta(papel string) *contavirtual.ContaVirtual {
	for _, c := range r.contas {
		if c.Papel == papel {
			return c
		}
	}
	return nil
}
