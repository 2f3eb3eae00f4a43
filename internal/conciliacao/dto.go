package conciliacao

import "time"

// RegistrarTransacaoDTO é o payload da ingestão bancária/PIX.
type RegistrarTransacaoDTO struct {
	OrganizacaoID    uint      `json:"organizacaoId"`
	Valor            int64     `json:"valor"`
	Canal            string    `json:"canal"`
	NomePagador      string    `json:"nomePagador"`
	DocumentoPagador string    `json:"documentoPagador"`
	ObservadaEm      time.Time `json:"observadaEm"`
}

// ConciliarManualDTO é a escolha do operador na tela de conciliação.
type ConciliarManualDTO struct {
	TransacaoUUID string `json:"transacaoUuid"`
	VendaID       uint   `json:"vendaId"`
}
