package conciliacao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/splitpay/api-financeiro/internal/moeda"
	"github.com/splitpay/api-financeiro/internal/venda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fonteMemoria struct {
	vendas     map[uint]*venda.Venda
	transacoes []*TransacaoRecebida
}

func (f *fonteMemoria) CriarTransacao(_ context.Context, t *TransacaoRecebida) error {
	t.ID = uint(len(f.transacoes) + 1)
	f.transacoes = append(f.transacoes, t)
	return nil
}

func (f *fonteMemoria) BuscarTransacaoPorUUID(_ context.Context, uuid string) (*TransacaoRecebida, error) {
	for _, t := range f.transacoes {
		if t.UUID == uuid {
			return t, nil
		}
	}
	return nil, fmt.Errorf("transação %s não encontrada", uuid)
}

func (f *fonteMemoria) PendentesPorValor(_ context.Context, organizacaoID uint, valor int64) ([]TransacaoRecebida, error) {
	var lista []TransacaoRecebida
	for _, t := range f.transacoes {
		if t.OrganizacaoID == organizacaoID && t.Status == StatusPendente && t.Valor == valor {
			lista = append(lista, *t)
		}
	}
	return lista, nil
}

func (f *fonteMemoria) PendentesDaOrganizacao(_ context.Context, organizacaoID uint) ([]TransacaoRecebida, error) {
	var lista []TransacaoRecebida
	for _, t := range f.transacoes {
		if t.OrganizacaoID == organizacaoID && t.Status == StatusPendente {
			lista = append(lista, *t)
		}
	}
	return lista, nil
}

func (f *fonteMemoria) VendasAbertasPorValor(_ context.Context, organizacaoID uint, valor int64) ([]venda.Venda, error) {
	var lista []venda.Venda
	for _, v := range f.vendas {
		if v.OrganizacaoID == organizacaoID && v.Status == venda.StatusPendente && v.ValorBruto == valor {
			lista = append(lista, *v)
		}
	}
	return lista, nil
}

func (f *fonteMemoria) BuscarVenda(_ context.Context, id uint) (*venda.Venda, error) {
	v, ok := f.vendas[id]
	if !ok {
		return nil, fmt.Errorf("venda %d não encontrada", id)
	}
	return v, nil
}

func (f *fonteMemoria) AjustarVendaParaBaseSemJuros(_ context.Context, vendaID uint, base int64) error {
	v, ok := f.vendas[vendaID]
	if !ok {
		return fmt.Errorf("venda %d não encontrada", vendaID)
	}
	v.ValorBruto = base
	v.ValorJuros = 0
	return nil
}

func (f *fonteMemoria) MarcarConciliada(_ context.Context, id, vendaID uint) (bool, error) {
	for _, t := range f.transacoes {
		if t.ID == id {
			if t.Status != StatusPendente {
				return false, nil
			}
			t.Status = StatusConciliada
			t.VendaID = &vendaID
			return true, nil
		}
	}
	return false, nil
}

func (f *fonteMemoria) MarcarIgnorada(_ context.Context, id uint) (bool, error) {
	for _, t := range f.transacoes {
		if t.ID == id {
			if t.Status != StatusPendente {
				return false, nil
			}
			t.Status = StatusIgnorada
			return true, nil
		}
	}
	return false, nil
}

type splitFake struct {
	processadas []uint
	erro        error
}

func (s *splitFake) ProcessarPagamentoConfirmado(_ context.Context, vendaID uint) error {
	if s.erro != nil {
		return s.erro
	}
	s.processadas = append(s.processadas, vendaID)
	return nil
}

var criadaEm = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fonteComVenda() *fonteMemoria {
	return &fonteMemoria{
		vendas: map[uint]*venda.Venda{
			1: {ID: 1, OrganizacaoID: 1, ValorBruto: 10_000, Status: venda.StatusPendente, CreatedAt: criadaEm},
		},
	}
}

func recebida(uuid string, valor int64, observadaEm time.Time) *TransacaoRecebida {
	return &TransacaoRecebida{
		UUID:          uuid,
		OrganizacaoID: 1,
		Valor:         valor,
		Canal:         CanalPix,
		ObservadaEm:   observadaEm,
		Status:        StatusPendente,
	}
}

func novoServicoTeste(t *testing.T, fonte *fonteMemoria, split *splitFake) *Servico {
	return NewServico(fonte, split, zaptest.NewLogger(t), JanelaPadrao)
}

func TestCandidatasFiltraValorEJanela(t *testing.T) {
	fonte := fonteComVenda()
	fonte.transacoes = []*TransacaoRecebida{
		recebida("a", 10_000, criadaEm.Add(2*time.Hour)),     // casa
		recebida("b", 9_999, criadaEm.Add(2*time.Hour)),      // valor errado
		recebida("c", 10_000, criadaEm.Add(8*24*time.Hour)),  // fora da janela
		recebida("d", 10_000, criadaEm.Add(-6*24*time.Hour)), // antes da venda, dentro da janela
	}
	for i, tr := range fonte.transacoes {
		tr.ID = uint(i + 1)
	}

	s := novoServicoTeste(t, fonte, &splitFake{})
	candidatas, err := s.Candidatas(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, candidatas, 2)
	assert.Equal(t, "a", candidatas[0].UUID)
	assert.Equal(t, "d", candidatas[1].UUID)
}

func TestConciliarAutomaticoComUnicaCandidata(t *testing.T) {
	fonte := fonteComVenda()
	tr := recebida("a", 10_000, criadaEm.Add(time.Hour))
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	split := &splitFake{}
	s := novoServicoTeste(t, fonte, split)

	conciliada, err := s.ConciliarAutomatico(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a", conciliada.UUID)
	assert.Equal(t, StatusConciliada, fonte.transacoes[0].Status)
	require.NotNil(t, fonte.transacoes[0].VendaID)
	assert.Equal(t, uint(1), *fonte.transacoes[0].VendaID)
	assert.Equal(t, []uint{1}, split.processadas)
}

func TestConciliarAutomaticoAmbiguoNaoDecide(t *testing.T) {
	fonte := fonteComVenda()
	a := recebida("a", 10_000, criadaEm.Add(time.Hour))
	b := recebida("b", 10_000, criadaEm.Add(2*time.Hour))
	a.ID, b.ID = 1, 2
	fonte.transacoes = []*TransacaoRecebida{a, b}

	split := &splitFake{}
	s := novoServicoTeste(t, fonte, split)

	_, err := s.ConciliarAutomatico(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConciliacaoAmbigua)
	assert.Equal(t, StatusPendente, fonte.transacoes[0].Status)
	assert.Equal(t, StatusPendente, fonte.transacoes[1].Status)
	assert.Empty(t, split.processadas)
}

func TestConciliarAutomaticoSemCandidata(t *testing.T) {
	s := novoServicoTeste(t, fonteComVenda(), &splitFake{})
	_, err := s.ConciliarAutomatico(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSemCorrespondencia)
}

func TestConciliarManual(t *testing.T) {
	fonte := fonteComVenda()
	tr := recebida("manual", 10_000, criadaEm.Add(time.Hour))
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	split := &splitFake{}
	s := novoServicoTeste(t, fonte, split)

	require.NoError(t, s.ConciliarManual(context.Background(), "manual", 1))
	assert.Equal(t, StatusConciliada, tr.Status)
	assert.Equal(t, []uint{1}, split.processadas)

	// repetir a escolha não reprocessa
	err := s.ConciliarManual(context.Background(), "manual", 1)
	assert.ErrorIs(t, err, ErrTransacaoJaConciliada)
}

func TestConciliarManualValorDivergente(t *testing.T) {
	fonte := fonteComVenda()
	tr := recebida("manual", 9_000, criadaEm.Add(time.Hour))
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	s := novoServicoTeste(t, fonte, &splitFake{})
	err := s.ConciliarManual(context.Background(), "manual", 1)
	assert.ErrorIs(t, err, ErrValorDivergente)
}

func TestConciliarAjustaBaseSemJurosAntesDoSplit(t *testing.T) {
	fonte := fonteComVenda()
	v := fonte.vendas[1]
	v.ValorBruto = 12_000
	v.ValorJuros = 1_200
	v.QtdParcelas = 6
	v.JurosPorConta = moeda.JurosVendedor

	tr := recebida("pix", 12_000, criadaEm.Add(time.Hour))
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	split := &splitFake{}
	s := novoServicoTeste(t, fonte, split)

	require.NoError(t, s.ConciliarManual(context.Background(), "pix", 1))
	// o total gravado passa a refletir só a receita da organização
	assert.Equal(t, int64(10_800), v.ValorBruto)
	assert.Zero(t, v.ValorJuros)
	assert.Equal(t, []uint{1}, split.processadas)
}

// fontePerdeCorrida simula a transação perdendo uma conciliação concorrente:
// a marcação guardada falha porque outro operador casou a mesma transação.
type fontePerdeCorrida struct {
	*fonteMemoria
}

func (f *fontePerdeCorrida) MarcarConciliada(context.Context, uint, uint) (bool, error) {
	return false, nil
}

func TestConciliarQuePerdeCorridaNaoReescreveVenda(t *testing.T) {
	base := fonteComVenda()
	v := base.vendas[1]
	v.ValorBruto = 12_000
	v.ValorJuros = 1_200
	v.QtdParcelas = 6
	v.JurosPorConta = moeda.JurosVendedor

	tr := recebida("pix", 12_000, criadaEm.Add(time.Hour))
	tr.ID = 1
	base.transacoes = []*TransacaoRecebida{tr}

	split := &splitFake{}
	s := NewServico(&fontePerdeCorrida{fonteMemoria: base}, split, zaptest.NewLogger(t), JanelaPadrao)

	err := s.ConciliarManual(context.Background(), "pix", 1)
	assert.ErrorIs(t, err, ErrTransacaoJaConciliada)

	// a venda ainda pendente segue refletindo o pagamento real de 12.000 e
	// continua casável com outra transação
	assert.Equal(t, int64(12_000), v.ValorBruto)
	assert.Equal(t, int64(1_200), v.ValorJuros)
	assert.Empty(t, split.processadas)
}

func TestRegistrarPreencheUUIDEStatus(t *testing.T) {
	fonte := fonteComVenda()
	s := novoServicoTeste(t, fonte, &splitFake{})

	tr := &TransacaoRecebida{OrganizacaoID: 1, Valor: 5_000, Canal: CanalPix}
	require.NoError(t, s.Registrar(context.Background(), tr))
	assert.NotEmpty(t, tr.UUID)
	assert.Equal(t, StatusPendente, tr.Status)
	assert.False(t, tr.ObservadaEm.IsZero())

	assert.Error(t, s.Registrar(context.Background(), &TransacaoRecebida{Valor: 0}))
}

func TestRegistrarRejeitaCanalDesconhecido(t *testing.T) {
	fonte := fonteComVenda()
	s := novoServicoTeste(t, fonte, &splitFake{})

	err := s.Registrar(context.Background(), &TransacaoRecebida{
		OrganizacaoID: 1, Valor: 5_000, Canal: "boleto",
	})
	assert.ErrorIs(t, err, ErrCanalDesconhecido)
	assert.Empty(t, fonte.transacoes)

	for _, canal := range []string{CanalPix, CanalTed, CanalCartao} {
		require.NoError(t, s.Registrar(context.Background(), &TransacaoRecebida{
			OrganizacaoID: 1, Valor: 5_000, Canal: canal,
		}))
	}
}

func TestPendentesListaSoAFilaDaOrganizacao(t *testing.T) {
	fonte := fonteComVenda()
	a := recebida("a", 10_000, criadaEm)
	b := recebida("b", 7_000, criadaEm)
	b.OrganizacaoID = 2
	c := recebida("c", 5_000, criadaEm)
	c.Status = StatusIgnorada
	a.ID, b.ID, c.ID = 1, 2, 3
	fonte.transacoes = []*TransacaoRecebida{a, b, c}

	s := novoServicoTeste(t, fonte, &splitFake{})
	fila, err := s.Pendentes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, fila, 1)
	assert.Equal(t, "a", fila[0].UUID)
}

func TestVendasCandidatasFiltraValorEJanela(t *testing.T) {
	fonte := fonteComVenda()
	fonte.vendas[2] = &venda.Venda{ID: 2, OrganizacaoID: 1, ValorBruto: 10_000,
		Status: venda.StatusPendente, CreatedAt: criadaEm.Add(-10 * 24 * time.Hour)} // fora da janela
	fonte.vendas[3] = &venda.Venda{ID: 3, OrganizacaoID: 1, ValorBruto: 9_000,
		Status: venda.StatusPendente, CreatedAt: criadaEm} // valor errado

	tr := recebida("ted", 10_000, criadaEm.Add(time.Hour))
	tr.Canal = CanalTed
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	s := novoServicoTeste(t, fonte, &splitFake{})
	candidatas, err := s.VendasCandidatas(context.Background(), "ted")
	require.NoError(t, err)
	require.Len(t, candidatas, 1)
	assert.Equal(t, uint(1), candidatas[0].ID)
}

func TestVendasCandidatasDeTransacaoFechada(t *testing.T) {
	fonte := fonteComVenda()
	tr := recebida("fechada", 10_000, criadaEm)
	tr.Status = StatusConciliada
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	s := novoServicoTeste(t, fonte, &splitFake{})
	_, err := s.VendasCandidatas(context.Background(), "fechada")
	assert.ErrorIs(t, err, ErrTransacaoJaConciliada)
}

func TestIgnorar(t *testing.T) {
	fonte := fonteComVenda()
	tr := recebida("ruido", 123, criadaEm)
	tr.ID = 1
	fonte.transacoes = []*TransacaoRecebida{tr}

	s := novoServicoTeste(t, fonte, &splitFake{})
	require.NoError(t, s.Ignorar(context.Background(), "ruido"))
	assert.Equal(t, StatusIgnorada, tr.Status)

	err := s.Ignorar(context.Background(), "ruido")
	assert.ErrorIs(t, err, ErrTransacaoJaConciliada)
}
