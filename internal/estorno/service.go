// Package estorno desfaz splits já lançados quando chega um reembolso ou
// chargeback do gateway.
package estorno

import (
	"context"
	"fmt"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"go.uber.org/zap"
)

const (
	MotivoReembolso  = "reembolso"
	MotivoChargeback = "chargeback"
)

// Registro é a persistência vista pelo estorno.
type Registro interface {
	CreditosAtivosDaVenda(ctx context.Context, vendaID uint) ([]transacaovirtual.TransacaoVirtual, error)
	EmUnidadeAtomica(ctx context.Context, fn func(u Unidade) error) error
}

// Unidade agrupa as escritas de um estorno completo.
type Unidade interface {
	CriarTransacao(t *transacaovirtual.TransacaoVirtual) error
	MarcarTransacaoEstornada(id uint, deStatus string) (bool, error)
	DebitarConta(contaID uint, valor int64, dePendente bool) error
	BuscarConta(contaID uint) (*contavirtual.ContaVirtual, error)
	MarcarVendaEstornada(vendaID uint) error
}

// Alertador avisa a operação de saldos que ficaram negativos após o estorno.
type Alertador interface {
	AlertarSaldoNegativo(ctx context.Context, contaID uint, saldo int64)
}

type Servico struct {
	registro  Registro
	alertador Alertador
	logger    *zap.Logger
	agora     func() time.Time
}

func NewServico(registro Registro, alertador Alertador, logger *zap.Logger) *Servico {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Servico{registro: registro, alertador: alertador, logger: logger, agora: time.Now}
}

// Reverter cria, para cada crédito não estornado da venda, um lançamento de
// valor igual e oposto, marca o original como estornado e debita o saldo que
// ainda segura o valor (pendente ou disponível, conforme o status do crédito
// no momento do estorno). Se o valor já foi sacado o saldo fica negativo:
// isso é dívida recuperável e é reportado, nunca travado em zero.
//
// Notificações repetidas são inofensivas: sem créditos ativos não há o que
// desfazer.
func (s *Servico) Reverter(ctx context.Context, vendaID uint, valor int64, motivo string) error {
	creditos, err := s.registro.CreditosAtivosDaVenda(ctx, vendaID)
	if err != nil {
		return fmt.Errorf("buscar créditos da venda %d: %w", vendaID, err)
	}
	if len(creditos) == 0 {
		s.logger.Info("estorno sem créditos ativos, nada a desfazer",
			zap.Uint("vendaId", vendaID), zap.String("motivo", motivo))
		return nil
	}

	agora := s.agora()
	var negativas []contavirtual.ContaVirtual

	err = s.registro.EmUnidadeAtomica(ctx, func(u Unidade) error {
		for _, c := range creditos {
			// o status lido fora da unidade pode estar velho: a varredura de
			// liberação pode ter promovido a linha nesse meio-tempo. A escolha
			// do saldo a debitar sai da guarda que venceu, no mesmo UPDATE que
			// fecha a linha.
			dePendente := true
			ok, err := u.MarcarTransacaoEstornada(c.ID, transacaovirtual.StatusPendente)
			if err != nil {
				return err
			}
			if !ok {
				dePendente = false
				ok, err = u.MarcarTransacaoEstornada(c.ID, transacaovirtual.StatusDisponivel)
				if err != nil {
					return err
				}
			}
			// outra notificação já estornou esta linha
			if !ok {
				continue
			}
			contrapartida := &transacaovirtual.TransacaoVirtual{
				ContaVirtualID: c.ContaVirtualID,
				VendaID:        vendaID,
				Papel:          c.Papel,
				Tipo:           transacaovirtual.TipoEstorno,
				ValorBruto:     -c.ValorBruto,
				ValorTaxa:      -c.ValorTaxa,
				ValorLiquido:   -c.ValorLiquido,
				// lançamento terminal: nunca entra na varredura de liberação
				Status:      transacaovirtual.StatusEstornada,
				LiberacaoEm: agora,
			}
			if err := u.CriarTransacao(contrapartida); err != nil {
				return err
			}
			if err := u.DebitarConta(c.ContaVirtualID, c.ValorLiquido, dePendente); err != nil {
				return err
			}
			conta, err := u.BuscarConta(c.ContaVirtualID)
			if err != nil {
				return err
			}
			if conta.SaldoPendente+conta.SaldoDisponivel < 0 {
				negativas = append(negativas, *conta)
			}
		}
		return u.MarcarVendaEstornada(vendaID)
	})
	if err != nil {
		return fmt.Errorf("gravar estorno da venda %d: %w", vendaID, err)
	}

	for _, conta := range negativas {
		saldo := conta.SaldoPendente + conta.SaldoDisponivel
		s.logger.Warn("conta ficou negativa após estorno",
			zap.Uint("contaId", conta.ID), zap.Int64("saldo", saldo))
		if s.alertador != nil {
			s.alertador.AlertarSaldoNegativo(ctx, conta.ID, saldo)
		}
	}

	s.logger.Info("estorno gravado",
		zap.Uint("vendaId", vendaID),
		zap.String("motivo", motivo),
		zap.Int64("valorNotificado", valor),
		zap.Int("lancamentos", len(creditos)))
	return nil
}
