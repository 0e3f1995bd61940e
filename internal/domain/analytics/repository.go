package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imobflow/imob-crm-api/internal/models"
)

// Repository expõe as contagens e somas consumidas pelo dashboard e pelos
// relatórios mensais. userID zero agrega a imobiliária inteira.
type Repository interface {
	// -------- Contagens por período --------
	CountClientes(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountAppointments(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountAppointmentsCompleted(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountVisits(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountVisitsCompleted(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountVisitsNoShow(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	CountSalesConfirmed(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (int64, error)

	// -------- Somas de venda --------
	SumSalesValue(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (decimal.Decimal, error)

	SumSalesCommission(
		ctx context.Context,
		userID uint,
		from, to time.Time,
	) (decimal.Decimal, error)

	// -------- Funil --------
	FunnelCounts(
		ctx context.Context,
		userID uint,
	) (map[string]int64, error)

	// -------- Corretores --------
	ListActiveUsers(ctx context.Context) ([]models.User, error)
}
