package entity

// Estado de un punto de cuenta que permite cargarle órdenes.
const AccountPointAvailable = "Disponible"

// AccountPoint punto de cuenta (partida presupuestaria) contra el que se carga una orden.
type AccountPoint struct {
	ID                   int64  `json:"id" validate:"required"`
	AccountNumber        string `json:"accountNumber"`
	Date                 string `json:"date"`
	Subject              string `json:"subject"`
	Synthesis            string `json:"synthesis"`
	ProgrammaticCategory string `json:"programmaticCategory"`
	UEL                  string `json:"uel"`
	Status               string `json:"status"`
}

// IsAvailable reporta si admite nuevas órdenes.
func (a AccountPoint) IsAvailable() bool {
	return a.Status == AccountPointAvailable
}
