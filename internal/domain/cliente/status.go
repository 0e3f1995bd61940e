package cliente

import "github.com/imobflow/imob-crm-api/internal/httperr"

// ===============================
// Pipeline Status
// ===============================

type Status string

const (
	StatusNovo           Status = "novo"
	StatusEmAtendimento  Status = "em_atendimento"
	StatusVisitaAgendada Status = "visita_agendada"
	StatusProposta       Status = "proposta"
	StatusVendido        Status = "vendido"
	StatusPerdido        Status = "perdido"
)

// transições permitidas do funil; perdido só sai por reabertura
var transitions = map[Status][]Status{
	StatusNovo:           {StatusEmAtendimento, StatusVisitaAgendada, StatusPerdido},
	StatusEmAtendimento:  {StatusVisitaAgendada, StatusProposta, StatusVendido, StatusPerdido},
	StatusVisitaAgendada: {StatusEmAtendimento, StatusProposta, StatusVendido, StatusPerdido},
	StatusProposta:       {StatusEmAtendimento, StatusVendido, StatusPerdido},
	StatusVendido:        {},
	StatusPerdido:        {StatusEmAtendimento},
}

func IsValid(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// ===============================
// Validations
// ===============================

// CanTransition define se o cliente pode mudar de etapa no funil
func CanTransition(from, to Status) error {
	if !IsValid(to) {
		return httperr.ErrBusiness("invalid_status")
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

func InitialStatus() Status {
	return StatusNovo
}
