package sale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/domain/sale"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
)

var saleNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// ======================================================
// Comissão
// ======================================================

func TestComputeCommission(t *testing.T) {
	s := &models.Sale{
		Valor:              decimal.RequireFromString("350000.00"),
		ComissaoPercentual: decimal.RequireFromString("6"),
	}

	sale.ComputeCommission(s)

	assert.True(t, s.ComissaoValor.Equal(decimal.RequireFromString("21000")),
		"comissão de 6%% sobre 350000 deveria ser 21000, veio %s", s.ComissaoValor)
}

func TestComputeCommission_ArredondaDuasCasas(t *testing.T) {
	s := &models.Sale{
		Valor:              decimal.RequireFromString("100000"),
		ComissaoPercentual: decimal.RequireFromString("3.333"),
	}

	sale.ComputeCommission(s)

	assert.Equal(t, "3333.00", s.ComissaoValor.StringFixed(2))
}

func TestComputeCommission_PercentualZero(t *testing.T) {
	s := &models.Sale{
		Valor:              decimal.RequireFromString("500000"),
		ComissaoPercentual: decimal.Zero,
	}

	sale.ComputeCommission(s)

	assert.True(t, s.ComissaoValor.IsZero())
}

// ======================================================
// Ciclo de vida
// ======================================================

func TestConfirm(t *testing.T) {
	s := &models.Sale{Status: string(sale.StatusPending)}

	require.NoError(t, sale.Confirm(s, saleNow))
	assert.Equal(t, "confirmed", s.Status)
	require.NotNil(t, s.ConfirmedAt)
	assert.Equal(t, saleNow, *s.ConfirmedAt)
}

func TestConfirm_SoDePendente(t *testing.T) {
	for _, status := range []sale.Status{sale.StatusConfirmed, sale.StatusCancelled} {
		s := &models.Sale{Status: string(status)}
		err := sale.Confirm(s, saleNow)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"),
			"venda %s não deveria confirmar", status)
	}
}

func TestCancel_DePendente(t *testing.T) {
	s := &models.Sale{Status: string(sale.StatusPending)}

	require.NoError(t, sale.Cancel(s, saleNow))
	assert.Equal(t, "cancelled", s.Status)
	require.NotNil(t, s.CancelledAt)
}

// Distrato: venda já confirmada ainda pode ser cancelada.
func TestCancel_DeConfirmada(t *testing.T) {
	s := &models.Sale{Status: string(sale.StatusConfirmed)}
	require.NoError(t, sale.Cancel(s, saleNow))
	assert.Equal(t, "cancelled", s.Status)
}

func TestCancel_CanceladaNaoVolta(t *testing.T) {
	s := &models.Sale{Status: string(sale.StatusCancelled)}
	err := sale.Cancel(s, saleNow)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestCanEdit(t *testing.T) {
	assert.NoError(t, sale.CanEdit(sale.StatusPending))
	assert.Error(t, sale.CanEdit(sale.StatusConfirmed))
	assert.Error(t, sale.CanEdit(sale.StatusCancelled))
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, sale.StatusPending, sale.InitialStatus())
}
