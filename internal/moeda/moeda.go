// Package moeda concentra a aritmética monetária do sistema.
// Todo valor circula em centavos (int64); nenhum cálculo de alocação
// pode usar ponto flutuante.
package moeda

// Quem arca com os juros de um parcelamento no cartão.
const (
	JurosComprador = "comprador"
	JurosVendedor  = "vendedor"
)

// PontosBaseTotal é a escala dos percentuais: 4,99% = 499 pontos-base.
const PontosBaseTotal = 10_000

// Arredondar divide numerador por denominador com arredondamento
// meio-para-cima. Definido apenas para numeradores não negativos.
func Arredondar(numerador, denominador int64) int64 {
	if denominador <= 0 {
		return 0
	}
	return (numerador + denominador/2) / denominador
}

// ParcelaPontosBase calcula a fração de um valor expressa em pontos-base.
func ParcelaPontosBase(valor, pontosBase int64) int64 {
	return Arredondar(valor*pontosBase, PontosBaseTotal)
}

// Taxa aplica a fórmula padrão de tarifa: percentual sobre o bruto mais parcela fixa.
func Taxa(bruto, pontosBase, fixo int64) int64 {
	return ParcelaPontosBase(bruto, pontosBase) + fixo
}

// BaseSemJuros devolve a base de receita da organização para uma venda
// parcelada. Quando os juros correm por conta do vendedor eles não são
// receita da organização e saem da base; por conta do comprador, o bruto
// inteiro é receita.
func BaseSemJuros(bruto, juros int64, jurosPorConta string) int64 {
	if jurosPorConta == JurosVendedor {
		return bruto - juros
	}
	return bruto
}
