package venda

// CriarVendaDTO é o payload de seed vindo dos fluxos de comércio.
type CriarVendaDTO struct {
	OrganizacaoID   uint   `json:"organizacaoId"`
	ValorBruto      int64  `json:"valorBruto"`
	ValorJuros      int64  `json:"valorJuros"`
	Moeda           string `json:"moeda"`
	MetodoPagamento string `json:"metodoPagamento"`
	QtdParcelas     int    `json:"qtdParcelas"`
	JurosPorConta   string `json:"jurosPorConta"`
}
