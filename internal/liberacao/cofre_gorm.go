package liberacao

import (
	"context"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/transacaovirtual"
	"gorm.io/gorm"
)

// CofreGorm implementa Cofre sobre os repositórios de produção.
type CofreGorm struct {
	DB         *gorm.DB
	Transacoes transacaovirtual.Repository
	Contas     contavirtual.Repository
}

func NewCofreGorm(db *gorm.DB) *CofreGorm {
	return &CofreGorm{
		DB:         db,
		Transacoes: transacaovirtual.NewRepository(),
		Contas:     contavirtual.NewRepository(),
	}
}

func (c *CofreGorm) PendentesVencidas(ctx context.Context, ate time.Time, limite int) ([]transacaovirtual.TransacaoVirtual, error) {
	return c.Transacoes.PendentesVencidas(c.DB.WithContext(ctx), ate, limite)
}

// Promover muda o status e transfere o saldo na mesma transação de banco. O
// UPDATE guardado garante que cada linha é promovida exatamente uma vez mesmo
// com varreduras concorrentes.
func (c *CofreGorm) Promover(ctx context.Context, t transacaovirtual.TransacaoVirtual) (bool, error) {
	promovida := false
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := c.Transacoes.MarcarDisponivel(tx, t.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		promovida = true
		return c.Contas.Liberar(tx, t.ContaVirtualID, t.ValorLiquido)
	})
	return promovida, err
}
