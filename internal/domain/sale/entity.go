package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imobflow/imob-crm-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

var hundred = decimal.NewFromInt(100)

// ComputeCommission deriva o valor da comissão a partir do percentual
// informado. Percentual zero zera a comissão.
func ComputeCommission(s *models.Sale) {
	s.ComissaoValor = s.Valor.
		Mul(s.ComissaoPercentual).
		Div(hundred).
		Round(2)
}

func Confirm(s *models.Sale, now time.Time) error {
	if err := CanConfirm(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusConfirmed)
	s.ConfirmedAt = &now
	return nil
}

func Cancel(s *models.Sale, now time.Time) error {
	if err := CanCancel(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusCancelled)
	s.CancelledAt = &now
	return nil
}
