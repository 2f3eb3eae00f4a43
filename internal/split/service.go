package split

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/taxas"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"github.com/splitpay/api-financeiro/internal/venda"
	"go.uber.org/zap"
)

// ErrProcessamentoDuplicado sinaliza que a venda já passou pelo split. Não é
// falha: o gateway entrega a mesma confirmação mais de uma vez e a segunda
// chegada é um no-op.
var ErrProcessamentoDuplicado = errors.New("venda já processada pelo split")

// Ledger é a visão de persistência que o serviço de split enxerga. A
// implementação de produção fica em LedgerGorm; os testes usam um razão em
// memória.
type Ledger interface {
	BuscarVenda(ctx context.Context, id uint) (*venda.Venda, error)
	BuscarTabelaTaxas(ctx context.Context, organizacaoID uint) (*taxas.TabelaTaxas, error)
	ExisteCreditoAtivo(ctx context.Context, vendaID uint, papel string) (bool, error)
	CreditosAtivosDaVenda(ctx context.Context, vendaID uint) ([]transacaovirtual.TransacaoVirtual, error)
	MarcarVendaParaRevisao(ctx context.Context, vendaID uint) error
	// EmUnidadeAtomica roda fn dentro de uma transação de banco: ou todas as
	// fatias da venda são gravadas, ou nenhuma.
	EmUnidadeAtomica(ctx context.Context, fn func(u UnidadeAtomica) error) error
}

// UnidadeAtomica agrupa as escritas que precisam sair juntas.
type UnidadeAtomica interface {
	ConfirmarPagamento(vendaID uint, quando time.Time) (bool, error)
	ObterOuCriarConta(papel string, donoID, organizacaoID uint) (*contavirtual.ContaVirtual, error)
	CriarTransacao(t *transacaovirtual.TransacaoVirtual) error
	CreditarPendente(contaID uint, valor int64) error
}

// Alertador avisa a operação sobre condições que exigem decisão humana.
type Alertador interface {
	AlertarRevisaoFinanceira(ctx context.Context, vendaID uint, motivo string)
}

type Servico struct {
	ledger    Ledger
	alertador Alertador
	logger    *zap.Logger
	agora     func() time.Time
}

func NewServico(ledger Ledger, alertador Alertador, logger *zap.Logger) *Servico {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Servico{
		ledger:    ledger,
		alertador: alertador,
		logger:    logger,
		agora:     time.Now,
	}
}

// ProcessarPagamentoConfirmado é o gatilho único do split: chega pelo webhook
// do gateway ou pela conciliação. Pode ser chamado mais de uma vez para a
// mesma venda; chamadas repetidas devolvem ErrProcessamentoDuplicado sem
// gravar nada.
func (s *Servico) ProcessarPagamentoConfirmado(ctx context.Context, vendaID uint) error {
	// Atalho de idempotência; a garantia real é o índice único
	// (venda_id, papel, tipo) dentro da unidade atômica.
	duplicado, err := s.ledger.ExisteCreditoAtivo(ctx, vendaID, contavirtual.PapelOrganizacao)
	if err != nil {
		return fmt.Errorf("verificar duplicidade da venda %d: %w", vendaID, err)
	}
	if duplicado {
		s.logger.Info("confirmação duplicada absorvida", zap.Uint("vendaId", vendaID))
		return ErrProcessamentoDuplicado
	}

	v, err := s.ledger.BuscarVenda(ctx, vendaID)
	if err != nil {
		return fmt.Errorf("buscar venda %d: %w", vendaID, err)
	}
	tabela, err := s.ledger.BuscarTabelaTaxas(ctx, v.OrganizacaoID)
	if err != nil {
		return fmt.Errorf("buscar tabela de taxas da organização %d: %w", v.OrganizacaoID, err)
	}

	creditos, err := s.ledger.CreditosAtivosDaVenda(ctx, vendaID)
	if err != nil {
		return fmt.Errorf("buscar alocações prévias da venda %d: %w", vendaID, err)
	}
	previas := make(map[string]int64, len(creditos))
	for _, c := range creditos {
		previas[c.Papel] = c.ValorLiquido
	}

	alocacoes, err := CalcularAlocacoes(v, tabela, previas)
	if errors.Is(err, ErrLiquidoNegativo) {
		s.logger.Error("venda com líquido negativo enviada para revisão",
			zap.Uint("vendaId", vendaID), zap.Int64("valorBruto", v.ValorBruto))
		if errRev := s.ledger.MarcarVendaParaRevisao(ctx, vendaID); errRev != nil {
			return fmt.Errorf("marcar venda %d para revisão: %w", vendaID, errRev)
		}
		if s.alertador != nil {
			s.alertador.AlertarRevisaoFinanceira(ctx, vendaID, "líquido da organização negativo")
		}
		return err
	}
	if err != nil {
		return err
	}

	confirmadoEm := s.agora()
	if v.PagamentoConfirmadoEm != nil {
		confirmadoEm = *v.PagamentoConfirmadoEm
	}
	liberacaoEm := confirmadoEm.Add(tabela.Retencao())

	err = s.ledger.EmUnidadeAtomica(ctx, func(u UnidadeAtomica) error {
		if v.PagamentoConfirmadoEm == nil {
			if _, err := u.ConfirmarPagamento(vendaID, confirmadoEm); err != nil {
				return err
			}
		}
		for _, a := range alocacoes {
			conta, err := u.ObterOuCriarConta(a.Papel, a.DonoID, contaOrganizacao(a, v))
			if err != nil {
				return err
			}
			t := &transacaovirtual.TransacaoVirtual{
				ContaVirtualID: conta.ID,
				VendaID:        vendaID,
				Papel:          a.Papel,
				Tipo:           transacaovirtual.TipoCredito,
				ValorBruto:     a.ValorBruto,
				ValorTaxa:      a.ValorTaxa,
				ValorLiquido:   a.ValorLiquido,
				Status:         transacaovirtual.StatusPendente,
				LiberacaoEm:    liberacaoEm,
			}
			if err := u.CriarTransacao(t); err != nil {
				return err
			}
			if err := u.CreditarPendente(conta.ID, a.ValorLiquido); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("gravar split da venda %d: %w", vendaID, err)
	}

	s.logger.Info("split gravado",
		zap.Uint("vendaId", vendaID),
		zap.Int("fatias", len(alocacoes)),
		zap.Time("liberacaoEm", liberacaoEm))
	return nil
}

// contaOrganizacao resolve o escopo da conta: a plataforma é global, as
// demais ficam sob a organização da venda.
func contaOrganizacao(a Alocacao, v *venda.Venda) uint {
	if a.Papel == contavirtual.PapelPlataforma {
		return 0
	}
	return v.OrganizacaoID
}
