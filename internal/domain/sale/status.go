package sale

import "github.com/imobflow/imob-crm-api/internal/httperr"

// ===============================
// Sale Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanConfirm define se uma venda pode ser confirmada
func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanCancel define se uma venda pode ser cancelada. Venda confirmada ainda
// cancela (distrato), venda cancelada não volta.
func CanCancel(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanEdit define se os valores da venda ainda podem mudar
func CanEdit(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
