// Package liberacao é a varredura periódica que promove crédito retido
// (pendente) para saldo disponível quando a data de liberação chega.
package liberacao

import (
	"context"
	"fmt"
	"time"

	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"go.uber.org/zap"
)

// TamanhoLotePadrao limita quantas transações cada passada promove por vez.
const TamanhoLotePadrao = 200

// Cofre é a persistência vista pela varredura. Promover é atômico (status da
// transação + transferência de saldo saem juntos) e devolve false quando
// outra passada já promoveu a linha.
type Cofre interface {
	PendentesVencidas(ctx context.Context, ate time.Time, limite int) ([]transacaovirtual.TransacaoVirtual, error)
	Promover(ctx context.Context, t transacaovirtual.TransacaoVirtual) (bool, error)
}

type Servico struct {
	cofre     Cofre
	logger    *zap.Logger
	intervalo time.Duration
	lote      int
}

func NewServico(cofre Cofre, logger *zap.Logger, intervalo time.Duration) *Servico {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if intervalo <= 0 {
		intervalo = time.Minute
	}
	return &Servico{cofre: cofre, logger: logger, intervalo: intervalo, lote: TamanhoLotePadrao}
}

// Executar roda uma varredura completa no instante informado. Reexecutar é
// sempre seguro: linhas já promovidas saem do filtro de seleção, e uma
// varredura interrompida no meio só deixa trabalho para a próxima.
func (s *Servico) Executar(ctx context.Context, agora time.Time) (int, error) {
	promovidas := 0
	for {
		vencidas, err := s.cofre.PendentesVencidas(ctx, agora, s.lote)
		if err != nil {
			return promovidas, fmt.Errorf("selecionar transações vencidas: %w", err)
		}
		if len(vencidas) == 0 {
			return promovidas, nil
		}
		avancosNoLote := 0
		for _, t := range vencidas {
			ok, err := s.cofre.Promover(ctx, t)
			if err != nil {
				return promovidas, fmt.Errorf("promover transação %d: %w", t.ID, err)
			}
			if ok {
				promovidas++
				avancosNoLote++
			}
		}
		// lote inteiro perdido para varreduras concorrentes: nada mais a fazer
		if avancosNoLote == 0 {
			return promovidas, nil
		}
		if len(vencidas) < s.lote {
			return promovidas, nil
		}
	}
}

// Iniciar roda a varredura em loop até o contexto encerrar. Independe de
// qualquer evento de venda.
func (s *Servico) Iniciar(ctx context.Context) {
	ticker := time.NewTicker(s.intervalo)
	defer ticker.Stop()
	s.logger.Info("varredura de liberação iniciada", zap.Duration("intervalo", s.intervalo))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("varredura de liberação encerrada")
			return
		case <-ticker.C:
			n, err := s.Executar(ctx, time.Now())
			if err != nil {
				s.logger.Error("varredura de liberação falhou", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("créditos liberados", zap.Int("quantidade", n))
			}
		}
	}
}
