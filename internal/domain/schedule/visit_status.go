package schedule

import "github.com/imobflow/imob-crm-api/internal/httperr"

// ===============================
// Visit Status
// ===============================

type VisitStatus string

const (
	VisitScheduled VisitStatus = "scheduled"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
	VisitNoShow    VisitStatus = "no_show"
)

// níveis de interesse registrados no retorno da visita
var interesseNiveis = map[string]bool{
	"alto":  true,
	"medio": true,
	"baixo": true,
}

func ValidInteresseNivel(s string) bool {
	return s == "" || interesseNiveis[s]
}

// ===============================
// Validations
// ===============================

func CanCompleteVisit(current VisitStatus) error {
	if current != VisitScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancelVisit(current VisitStatus) error {
	if current != VisitScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current VisitStatus) error {
	if current != VisitScheduled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialVisitStatus() VisitStatus {
	return VisitScheduled
}
