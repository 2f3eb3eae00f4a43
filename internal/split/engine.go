// Package split transforma uma venda com pagamento confirmado no conjunto de
// transações virtuais que reparte o valor bruto entre plataforma,
// fornecedores, afiliados e a organização vendedora.
package split

import (
	"errors"

	"github.com/splitpay/api-financeiro/internal/contavirtual"
	"github.com/splitpay/api-financeiro/internal/moeda"
	"github.com/splitpay/api-financeiro/internal/taxas"
	"github.com/splitpay/api-financeiro/internal/venda"
)

// ErrLiquidoNegativo indica que as deduções superaram a base da organização.
// É fatal para o processamento automático: repetir reproduz a mesma conta,
// então a venda vai para revisão financeira manual.
var ErrLiquidoNegativo = errors.New("valor líquido da organização seria negativo")

// Alocacao é uma fatia de split calculada e ainda não persistida.
type Alocacao struct {
	Papel        string
	DonoID       uint
	ValorBruto   int64
	ValorTaxa    int64
	ValorLiquido int64
	PontosBase   int64
}

// CalcularAlocacoes aplica a aritmética de split sobre a venda e devolve as
// alocações novas, na ordem plataforma, fornecedores, organização.
//
// previas traz o líquido das fatias já registradas antes da confirmação
// (tipicamente a atribuição de afiliado fixada no checkout), indexado por
// papel. Essas fatias são lidas, nunca recalculadas: o papel presente em
// previas não gera alocação nova e seu valor é deduzido do líquido da
// organização.
//
// Conservação: a soma dos líquidos de todas as fatias (novas e prévias)
// fecha exatamente na base da venda — bruto integral, ou bruto menos juros
// quando os juros correm por conta do vendedor.
func CalcularAlocacoes(v *venda.Venda, tabela *taxas.TabelaTaxas, previas map[string]int64) ([]Alocacao, error) {
	var novas []Alocacao
	var deduzido int64

	if _, ok := previas[contavirtual.PapelPlataforma]; !ok {
		taxaPlataforma := moeda.Taxa(v.ValorBruto, tabela.PlataformaPontosBase, tabela.PlataformaTaxaFixa)
		if taxaPlataforma > 0 {
			novas = append(novas, Alocacao{
				Papel:        contavirtual.PapelPlataforma,
				ValorBruto:   taxaPlataforma,
				ValorLiquido: taxaPlataforma,
				PontosBase:   tabela.PlataformaPontosBase,
			})
			deduzido += taxaPlataforma
		}
	}

	for _, p := range tabela.Participacoes() {
		if _, ok := previas[p.Papel]; ok {
			continue
		}
		fatia := moeda.ParcelaPontosBase(v.ValorBruto, p.PontosBase)
		if fatia == 0 {
			continue
		}
		novas = append(novas, Alocacao{
			Papel:        p.Papel,
			DonoID:       p.DonoID,
			ValorBruto:   fatia,
			ValorLiquido: fatia,
			PontosBase:   p.PontosBase,
		})
		deduzido += fatia
	}

	for papel, valor := range previas {
		if papel == contavirtual.PapelOrganizacao {
			continue
		}
		deduzido += valor
	}

	base := moeda.BaseSemJuros(v.ValorBruto, v.ValorJuros, v.JurosPorConta)
	liquido := base - deduzido
	if liquido < 0 {
		return nil, ErrLiquidoNegativo
	}
	if liquido > 0 {
		novas = append(novas, Alocacao{
			Papel:        contavirtual.PapelOrganizacao,
			DonoID:       v.OrganizacaoID,
			ValorBruto:   base,
			ValorTaxa:    deduzido,
			ValorLiquido: liquido,
			PontosBase:   moeda.Arredondar(liquido*moeda.PontosBaseTotal, base),
		})
	}
	return novas, nil
}
