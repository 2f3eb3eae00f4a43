package taxas

import (
	"testing"
	"time"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrU(v uint) *uint   { return &v }
func ptrI(v int64) *int64 { return &v }

func TestValidar(t *testing.T) {
	casos := []struct {
		nome   string
		tabela TabelaTaxas
		erro   error
	}{
		{"válida mínima", TabelaTaxas{PlataformaPontosBase: 499, PlataformaTaxaFixa: 100, DiasRetencao: 14}, nil},
		{"pontos-base negativos", TabelaTaxas{PlataformaPontosBase: -1}, ErrPontosBaseInvalidos},
		{"pontos-base acima de 100%", TabelaTaxas{PlataformaPontosBase: 10_001}, ErrPontosBaseInvalidos},
		{"taxa fixa negativa", TabelaTaxas{PlataformaTaxaFixa: -1}, ErrTaxaFixaNegativa},
		{"retenção negativa", TabelaTaxas{DiasRetencao: -1}, ErrRetencaoNegativa},
		{"participação sem dono", TabelaTaxas{FabricaPontosBase: ptrI(500)}, ErrParticipacaoIncompleta},
		{"participação sem pontos", TabelaTaxas{FabricaID: ptrU(7)}, ErrParticipacaoIncompleta},
		{"participação inválida", TabelaTaxas{FabricaID: ptrU(7), FabricaPontosBase: ptrI(-5)}, ErrPontosBaseInvalidos},
		{
			"soma acima do total",
			TabelaTaxas{
				PlataformaPontosBase: 6_000,
				FabricaID:            ptrU(7),
				FabricaPontosBase:    ptrI(3_000),
				IndustriaID:          ptrU(8),
				IndustriaPontosBase:  ptrI(2_000),
			},
			ErrSomaAcimaDoTotal,
		},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			err := c.tabela.Validar()
			if c.erro == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.erro)
			}
		})
	}
}

func TestParticipacoes(t *testing.T) {
	tabela := TabelaTaxas{
		FabricaID:            ptrU(7),
		FabricaPontosBase:    ptrI(1_000),
		CoprodutorID:         ptrU(9),
		CoprodutorPontosBase: ptrI(500),
	}
	lista := tabela.Participacoes()
	require.Len(t, lista, 2)
	assert.Equal(t, contavirtual.PapelFabrica, lista[0].Papel)
	assert.Equal(t, uint(7), lista[0].DonoID)
	assert.Equal(t, int64(1_000), lista[0].PontosBase)
	assert.Equal(t, contavirtual.PapelCoprodutor, lista[1].Papel)
}

func TestRetencaoPadrao(t *testing.T) {
	vazia := TabelaTaxas{}
	assert.Equal(t, 14*24*time.Hour, vazia.Retencao())

	custom := TabelaTaxas{DiasRetencao: 30}
	assert.Equal(t, 30*24*time.Hour, custom.Retencao())
}
