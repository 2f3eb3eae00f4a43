package conciliacao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/splitpay/api-financeiro/internal/moeda"
	"github.com/splitpay/api-financeiro/internal/split"
	"github.com/splitpay/api-financeiro/internal/venda"
	"go.uber.org/zap"
)

// JanelaPadrao limita a distância entre a criação da venda e a observação do
// pagamento para que uma transação seja candidata.
const JanelaPadrao = 7 * 24 * time.Hour

var (
	ErrVendaNaoPendente      = errors.New("venda não está aguardando pagamento")
	ErrTransacaoJaConciliada = errors.New("transação recebida já foi conciliada ou ignorada")
	ErrValorDivergente       = errors.New("valor da transação não bate com o da venda")
	ErrCanalDesconhecido     = errors.New("canal da transação recebida desconhecido")
	// ErrConciliacaoAmbigua: mais de uma candidata; nunca se resolve no chute,
	// a escolha vai para o operador.
	ErrConciliacaoAmbigua = errors.New("mais de uma transação candidata para a venda")
	// ErrSemCorrespondencia: nenhuma candidata; a transação segue pendente até
	// alguém conciliar ou ignorar.
	ErrSemCorrespondencia = errors.New("nenhuma transação candidata para a venda")
)

// Fonte é a persistência vista pela conciliação.
type Fonte interface {
	CriarTransacao(ctx context.Context, t *TransacaoRecebida) error
	BuscarTransacaoPorUUID(ctx context.Context, uuid string) (*TransacaoRecebida, error)
	PendentesPorValor(ctx context.Context, organizacaoID uint, valor int64) ([]TransacaoRecebida, error)
	PendentesDaOrganizacao(ctx context.Context, organizacaoID uint) ([]TransacaoRecebida, error)
	BuscarVenda(ctx context.Context, id uint) (*venda.Venda, error)
	VendasAbertasPorValor(ctx context.Context, organizacaoID uint, valor int64) ([]venda.Venda, error)
	AjustarVendaParaBaseSemJuros(ctx context.Context, vendaID uint, base int64) error
	MarcarConciliada(ctx context.Context, id, vendaID uint) (bool, error)
	MarcarIgnorada(ctx context.Context, id uint) (bool, error)
}

// ProcessadorDeSplit dispara o cálculo de split após o casamento; é o mesmo
// motor acionado pelo webhook do gateway.
type ProcessadorDeSplit interface {
	ProcessarPagamentoConfirmado(ctx context.Context, vendaID uint) error
}

type Servico struct {
	fonte  Fonte
	split  ProcessadorDeSplit
	logger *zap.Logger
	janela time.Duration
	agora  func() time.Time
}

func NewServico(fonte Fonte, split ProcessadorDeSplit, logger *zap.Logger, janela time.Duration) *Servico {
	if logger == nil {
		logger, _ = zap.NewProduction()
	}
	if janela <= 0 {
		janela = JanelaPadrao
	}
	return &Servico{fonte: fonte, split: split, logger: logger, janela: janela, agora: time.Now}
}

// Registrar é a borda de ingestão dos feeds bancários.
func (s *Servico) Registrar(ctx context.Context, t *TransacaoRecebida) error {
	if t.Valor <= 0 {
		return fmt.Errorf("valor da transação recebida deve ser positivo")
	}
	switch t.Canal {
	case CanalPix, CanalTed, CanalCartao:
	default:
		return fmt.Errorf("%w: %q", ErrCanalDesconhecido, t.Canal)
	}
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}
	if t.ObservadaEm.IsZero() {
		t.ObservadaEm = s.agora()
	}
	t.Status = StatusPendente
	t.VendaID = nil
	if err := s.fonte.CriarTransacao(ctx, t); err != nil {
		return fmt.Errorf("registrar transação recebida: %w", err)
	}
	s.logger.Info("transação recebida registrada",
		zap.String("uuid", t.UUID), zap.String("canal", t.Canal), zap.Int64("valor", t.Valor))
	return nil
}

// Candidatas lista as transações pendentes que podem quitar a venda: mesmo
// valor e observadas dentro da janela em torno da criação da venda.
func (s *Servico) Candidatas(ctx context.Context, vendaID uint) ([]TransacaoRecebida, error) {
	v, err := s.fonte.BuscarVenda(ctx, vendaID)
	if err != nil {
		return nil, fmt.Errorf("buscar venda %d: %w", vendaID, err)
	}
	if v.Status != venda.StatusPendente {
		return nil, ErrVendaNaoPendente
	}
	pendentes, err := s.fonte.PendentesPorValor(ctx, v.OrganizacaoID, v.ValorBruto)
	if err != nil {
		return nil, fmt.Errorf("buscar transações pendentes: %w", err)
	}
	var candidatas []TransacaoRecebida
	for _, t := range pendentes {
		distancia := t.ObservadaEm.Sub(v.CreatedAt)
		if distancia < 0 {
			distancia = -distancia
		}
		if distancia <= s.janela {
			candidatas = append(candidatas, t)
		}
	}
	return candidatas, nil
}

// Pendentes lista a fila de conciliação da organização: tudo que entrou pelos
// feeds e ainda não foi casado nem ignorado.
func (s *Servico) Pendentes(ctx context.Context, organizacaoID uint) ([]TransacaoRecebida, error) {
	pendentes, err := s.fonte.PendentesDaOrganizacao(ctx, organizacaoID)
	if err != nil {
		return nil, fmt.Errorf("buscar fila de conciliação da organização %d: %w", organizacaoID, err)
	}
	return pendentes, nil
}

// VendasCandidatas é o filtro de candidatas no sentido inverso: dado um
// pagamento observado, quais vendas em aberto ele pode quitar. Mesmo valor e
// mesma janela do filtro por venda.
func (s *Servico) VendasCandidatas(ctx context.Context, transacaoUUID string) ([]venda.Venda, error) {
	t, err := s.fonte.BuscarTransacaoPorUUID(ctx, transacaoUUID)
	if err != nil {
		return nil, fmt.Errorf("buscar transação %s: %w", transacaoUUID, err)
	}
	if t.Status != StatusPendente {
		return nil, ErrTransacaoJaConciliada
	}
	abertas, err := s.fonte.VendasAbertasPorValor(ctx, t.OrganizacaoID, t.Valor)
	if err != nil {
		return nil, fmt.Errorf("buscar vendas em aberto: %w", err)
	}
	var candidatas []venda.Venda
	for _, v := range abertas {
		distancia := t.ObservadaEm.Sub(v.CreatedAt)
		if distancia < 0 {
			distancia = -distancia
		}
		if distancia <= s.janela {
			candidatas = append(candidatas, v)
		}
	}
	return candidatas, nil
}

// ConciliarAutomatico fecha o casamento sozinho apenas quando existe uma
// única candidata; com mais de uma, a decisão é do operador.
func (s *Servico) ConciliarAutomatico(ctx context.Context, vendaID uint) (*TransacaoRecebida, error) {
	candidatas, err := s.Candidatas(ctx, vendaID)
	if err != nil {
		return nil, err
	}
	switch len(candidatas) {
	case 0:
		return nil, ErrSemCorrespondencia
	case 1:
		t := candidatas[0]
		if err := s.confirmar(ctx, &t, vendaID); err != nil {
			return nil, err
		}
		return &t, nil
	default:
		s.logger.Warn("conciliação ambígua, aguardando operador",
			zap.Uint("vendaId", vendaID), zap.Int("candidatas", len(candidatas)))
		return nil, ErrConciliacaoAmbigua
	}
}

// ConciliarManual executa a escolha feita pelo operador.
func (s *Servico) ConciliarManual(ctx context.Context, transacaoUUID string, vendaID uint) error {
	t, err := s.fonte.BuscarTransacaoPorUUID(ctx, transacaoUUID)
	if err != nil {
		return fmt.Errorf("buscar transação %s: %w", transacaoUUID, err)
	}
	if t.Status != StatusPendente {
		return ErrTransacaoJaConciliada
	}
	v, err := s.fonte.BuscarVenda(ctx, vendaID)
	if err != nil {
		return fmt.Errorf("buscar venda %d: %w", vendaID, err)
	}
	if v.Status != venda.StatusPendente {
		return ErrVendaNaoPendente
	}
	if t.Valor != v.ValorBruto {
		return ErrValorDivergente
	}
	return s.confirmar(ctx, t, vendaID)
}

// Ignorar descarta explicitamente uma transação que nunca vai casar.
func (s *Servico) Ignorar(ctx context.Context, transacaoUUID string) error {
	t, err := s.fonte.BuscarTransacaoPorUUID(ctx, transacaoUUID)
	if err != nil {
		return fmt.Errorf("buscar transação %s: %w", transacaoUUID, err)
	}
	ok, err := s.fonte.MarcarIgnorada(ctx, t.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTransacaoJaConciliada
	}
	return nil
}

// confirmar comete o casamento: fecha a transação recebida com a referência da
// venda, ajusta a venda para a base sem juros quando os juros são do vendedor
// e dispara o split — o mesmo caminho do webhook, com a mesma idempotência.
func (s *Servico) confirmar(ctx context.Context, t *TransacaoRecebida, vendaID uint) error {
	v, err := s.fonte.BuscarVenda(ctx, vendaID)
	if err != nil {
		return fmt.Errorf("buscar venda %d: %w", vendaID, err)
	}
	ok, err := s.fonte.MarcarConciliada(ctx, t.ID, vendaID)
	if err != nil {
		return fmt.Errorf("marcar transação %s conciliada: %w", t.UUID, err)
	}
	if !ok {
		return ErrTransacaoJaConciliada
	}
	// só depois do casamento cometido a venda pode ser reescrita: quem perde a
	// corrida da conciliação não deixa rastro no total da venda
	if v.JurosPorConta == moeda.JurosVendedor && v.ValorJuros > 0 {
		base := moeda.BaseSemJuros(v.ValorBruto, v.ValorJuros, v.JurosPorConta)
		if err := s.fonte.AjustarVendaParaBaseSemJuros(ctx, vendaID, base); err != nil {
			return fmt.Errorf("ajustar base da venda %d: %w", vendaID, err)
		}
	}
	s.logger.Info("transação conciliada",
		zap.String("uuid", t.UUID), zap.Uint("vendaId", vendaID))
	if err := s.split.ProcessarPagamentoConfirmado(ctx, vendaID); err != nil &&
		!errors.Is(err, split.ErrProcessamentoDuplicado) {
		return err
	}
	return nil
}
