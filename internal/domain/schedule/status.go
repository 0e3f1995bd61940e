package schedule

import "github.com/imobflow/imob-crm-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ===============================
// Appointment Tipo
// ===============================

var tipos = map[string]bool{
	"ligacao":    true,
	"reuniao":    true,
	"visita_pre": true,
	"assinatura": true,
}

func ValidTipo(s string) bool {
	return tipos[s]
}

// ===============================
// Validations
// ===============================

// CanCancel define se um compromisso pode ser cancelado
func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanComplete define se um compromisso pode ser concluído
func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule define se um compromisso ainda aceita alteração de horário
func CanReschedule(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
