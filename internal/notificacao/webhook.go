// Package notificacao avisa a operação sobre condições que pedem decisão
// humana: venda com líquido negativo, conciliação ambígua, conta negativa
// após estorno.
package notificacao

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TimeoutPadrao limita a chamada ao colaborador externo: um webhook lento
// nunca pode segurar o fluxo financeiro.
const TimeoutPadrao = 5 * time.Second

type Notificador struct {
	URL     string
	Cliente *http.Client
	Logger  *zap.Logger
}

func NewNotificador(url string, logger *zap.Logger) *Notificador {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	return &Notificador{
		URL:     url,
		Cliente: &http.Client{Timeout: TimeoutPadrao},
		Logger:  logger,
	}
}

// AlertarRevisaoFinanceira avisa que uma venda foi retirada do processamento
// automático.
func (n *Notificador) AlertarRevisaoFinanceira(ctx context.Context, vendaID uint, motivo string) {
	n.enviar(ctx, map[string]interface{}{
		"tipo":    "revisao_financeira",
		"vendaId": vendaID,
		"motivo":  motivo,
	})
}

// AlertarSaldoNegativo avisa que uma conta virtual ficou devedora após estorno.
func (n *Notificador) AlertarSaldoNegativo(ctx context.Context, contaID uint, saldo int64) {
	n.enviar(ctx, map[string]interface{}{
		"tipo":    "saldo_negativo",
		"contaId": contaID,
		"saldo":   saldo,
	})
}

// enviar é melhor-esforço: falha ou timeout só gera log, nunca erro para o
// chamador. O estado do razão já está gravado quando o alerta sai.
func (n *Notificador) enviar(ctx context.Context, payload map[string]interface{}) {
	if n.URL == "" {
		return
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewBuffer(body))
	if err != nil {
		n.Logger.Error("montar alerta falhou", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.Cliente.Do(req)
	if err != nil {
		n.Logger.Warn("envio de alerta falhou", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.Logger.Warn("alerta rejeitado pelo destino", zap.Int("status", resp.StatusCode))
	}
}
