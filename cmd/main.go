package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/splitpay/api-financeiro/internal/auth"
	"github.com/splitpay/api-financeiro/internal/conciliacao"
	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/estorno"
	"github.com/splitpay/api-financeiro/internal/gateway"
	"github.com/splitpay/api-financeiro/internal/liberacao"
	"github.com/splitpay/api-financeiro/internal/notificacao"
	"github.com/splitpay/api-financeiro/internal/split"
	"github.com/splitpay/api-financeiro/internal/taxas"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"github.com/splitpay/api-financeiro/internal/utils/db"
	"github.com/splitpay/api-financeiro/internal/venda"
)

func main() {
	// Em produção as variáveis vêm do ambiente; o .env é só conveniência local.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Erro ao iniciar logger:", err)
	}
	defer logger.Sync()

	database, err := db.GetDB()
	if err != nil {
		logger.Fatal("erro ao conectar no banco", zap.Error(err))
	}

	// AutoMigrate para todos os modelos
	for _, migrar := range []func(*gorm.DB) error{
		venda.Migrate,
		contavirtual.Migrate,
		transacaovirtual.Migrate,
		taxas.Migrate,
		conciliacao.Migrate,
	} {
		if err := migrar(database); err != nil {
			logger.Fatal("erro no AutoMigrate", zap.Error(err))
		}
	}

	// Serviços
	alertador := notificacao.NewNotificador(os.Getenv("ALERTA_WEBHOOK_URL"), logger)
	splitServico := split.NewServico(split.NewLedgerGorm(database), alertador, logger)
	estornoServico := estorno.NewServico(estorno.NewRegistroGorm(database), alertador, logger)
	conciliacaoServico := conciliacao.NewServico(conciliacao.NewFonteGorm(database), splitServico, logger, conciliacao.JanelaPadrao)
	liberacaoServico := liberacao.NewServico(liberacao.NewCofreGorm(database), logger, intervaloLiberacao())

	// Handlers
	vendaHandler := venda.NewHandler(database)
	contaHandler := contavirtual.NewHandler(database)
	transacaoHandler := transacaovirtual.NewHandler(database)
	taxasHandler := taxas.NewHandler(database)
	conciliacaoHandler := conciliacao.NewHandler(conciliacaoServico)
	gatewayHandler := gateway.NewHandler(splitServico, estornoServico, logger)

	// Router
	r := mux.NewRouter()

	// Login do operador
	r.HandleFunc("/login", auth.LoginHandler()).Methods("POST")

	// Webhooks do gateway de pagamento (autenticados na borda, fora da API)
	r.HandleFunc("/webhooks/pagamento-confirmado", gatewayHandler.PagamentoConfirmado).Methods("POST")
	r.HandleFunc("/webhooks/reembolso", gatewayHandler.Reembolso).Methods("POST")
	r.HandleFunc("/webhooks/chargeback", gatewayHandler.Chargeback).Methods("POST")

	// Rotas do painel financeiro
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	api.HandleFunc("/vendas", vendaHandler.Criar).Methods("POST")
	api.HandleFunc("/vendas/{id}", vendaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/vendas/{id}/split", transacaoHandler.SplitDaVenda).Methods("GET")

	api.HandleFunc("/contas/{id}/saldo", contaHandler.BuscarSaldo).Methods("GET")
	api.HandleFunc("/contas/{id}/extrato", transacaoHandler.Extrato).Methods("GET")
	api.HandleFunc("/organizacoes/{id}/contas", contaHandler.ListarPorOrganizacao).Methods("GET")

	api.HandleFunc("/organizacoes/{id}/taxas", taxasHandler.Buscar).Methods("GET")
	api.HandleFunc("/organizacoes/{id}/taxas", taxasHandler.Salvar).Methods("PUT")

	api.HandleFunc("/transacoes-recebidas", conciliacaoHandler.Registrar).Methods("POST")
	api.HandleFunc("/transacoes-recebidas/{uuid}/ignorar", conciliacaoHandler.Ignorar).Methods("POST")
	api.HandleFunc("/transacoes-recebidas/{uuid}/vendas-candidatas", conciliacaoHandler.VendasCandidatas).Methods("GET")
	api.HandleFunc("/organizacoes/{id}/transacoes-recebidas", conciliacaoHandler.Pendentes).Methods("GET")
	api.HandleFunc("/vendas/{id}/transacoes-recebidas/candidatas", conciliacaoHandler.Candidatas).Methods("GET")
	api.HandleFunc("/vendas/{id}/conciliar-automatico", conciliacaoHandler.ConciliarAutomatico).Methods("POST")
	api.HandleFunc("/conciliacoes", conciliacaoHandler.ConciliarManual).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{os.Getenv("CORS_ORIGEM")},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	ctx, parar := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer parar()

	// Varredura de liberação roda em segundo plano até o processo encerrar.
	go liberacaoServico.Iniciar(ctx)

	porta := os.Getenv("PORTA")
	if porta == "" {
		porta = "8080"
	}
	logger.Info("servidor iniciado", zap.String("porta", porta))
	if err := http.ListenAndServe(":"+porta, c.Handler(r)); err != nil {
		logger.Fatal("servidor encerrado", zap.Error(err))
	}
}

func intervaloLiberacao() time.Duration {
	if v := os.Getenv("LIBERACAO_INTERVALO"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return time.Hour
}
