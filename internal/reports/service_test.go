package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/domain/analytics"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/reports"
)

// ======================================================
// Fake do repositório de analytics
// ======================================================

// números de um escopo (0 = imobiliária inteira)
type scopeTotals struct {
	clientes               int64
	appointments           int64
	appointmentsRealizados int64
	visitas                int64
	visitasRealizadas      int64
	visitasNoShow          int64
	vendas                 int64
	valorVendido           decimal.Decimal
	comissao               decimal.Decimal
}

type fakeAnalytics struct {
	byScope map[uint]scopeTotals
	users   []models.User

	gotFrom time.Time
	gotTo   time.Time
}

var _ analytics.Repository = (*fakeAnalytics)(nil)

func (f *fakeAnalytics) totals(userID uint) scopeTotals {
	return f.byScope[userID]
}

func (f *fakeAnalytics) CountClientes(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	f.gotFrom, f.gotTo = from, to
	return f.totals(userID).clientes, nil
}

func (f *fakeAnalytics) CountAppointments(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).appointments, nil
}

func (f *fakeAnalytics) CountAppointmentsCompleted(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).appointmentsRealizados, nil
}

func (f *fakeAnalytics) CountVisits(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).visitas, nil
}

func (f *fakeAnalytics) CountVisitsCompleted(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).visitasRealizadas, nil
}

func (f *fakeAnalytics) CountVisitsNoShow(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).visitasNoShow, nil
}

func (f *fakeAnalytics) CountSalesConfirmed(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	return f.totals(userID).vendas, nil
}

func (f *fakeAnalytics) SumSalesValue(ctx context.Context, userID uint, from, to time.Time) (decimal.Decimal, error) {
	return f.totals(userID).valorVendido, nil
}

func (f *fakeAnalytics) SumSalesCommission(ctx context.Context, userID uint, from, to time.Time) (decimal.Decimal, error) {
	return f.totals(userID).comissao, nil
}

func (f *fakeAnalytics) FunnelCounts(ctx context.Context, userID uint) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeAnalytics) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

// ======================================================
// Relatório mensal
// ======================================================

func TestMonthly(t *testing.T) {
	repo := &fakeAnalytics{
		byScope: map[uint]scopeTotals{
			0: {
				clientes:               20,
				appointments:           15,
				appointmentsRealizados: 10,
				visitas:                12,
				visitasRealizadas:      8,
				visitasNoShow:          2,
				vendas:                 4,
				valorVendido:           decimal.RequireFromString("1200000.00"),
				comissao:               decimal.RequireFromString("72000.00"),
			},
			1: {
				clientes:          12,
				appointments:      9,
				visitasRealizadas: 5,
				vendas:            3,
				valorVendido:      decimal.RequireFromString("800000.00"),
				comissao:          decimal.RequireFromString("48000.00"),
			},
			2: {
				clientes:          8,
				appointments:      6,
				visitasRealizadas: 3,
				vendas:            1,
				valorVendido:      decimal.RequireFromString("400000.00"),
				comissao:          decimal.RequireFromString("24000.00"),
			},
		},
		users: []models.User{
			{ID: 1, Name: "Ana Lima"},
			{ID: 2, Name: "Bruno Castro"},
		},
	}

	report, err := reports.NewService(repo).Monthly(context.Background(), 2025, 3)
	require.NoError(t, err)

	assert.Equal(t, 2025, report.Ano)
	assert.Equal(t, 3, report.Mes)
	assert.Equal(t, "2025-03-01", report.From)
	assert.Equal(t, "2025-03-31", report.To)
	assert.False(t, report.GeneratedAt.IsZero())

	// janela [1º do mês, 1º do mês seguinte)
	assert.Equal(t, time.Month(3), repo.gotFrom.Month())
	assert.Equal(t, 1, repo.gotFrom.Day())
	assert.Equal(t, time.Month(4), repo.gotTo.Month())
	assert.Equal(t, 1, repo.gotTo.Day())

	assert.Equal(t, int64(20), report.Totais.NovosClientes)
	assert.Equal(t, int64(15), report.Totais.Appointments)
	assert.Equal(t, int64(10), report.Totais.AppointmentsRealizados)
	assert.Equal(t, int64(12), report.Totais.Visitas)
	assert.Equal(t, int64(8), report.Totais.VisitasRealizadas)
	assert.Equal(t, int64(2), report.Totais.VisitasNoShow)
	assert.Equal(t, int64(4), report.Totais.Vendas)
	assert.Equal(t, "1200000.00", report.Totais.ValorVendido)
	assert.Equal(t, "72000.00", report.Totais.Comissao)
	assert.Equal(t, 20.0, report.Totais.TaxaConversao)

	require.Len(t, report.Corretores, 2)

	ana := report.Corretores[0]
	assert.Equal(t, uint(1), ana.UserID)
	assert.Equal(t, "Ana Lima", ana.Nome)
	assert.Equal(t, int64(12), ana.NovosClientes)
	assert.Equal(t, int64(3), ana.Vendas)
	assert.Equal(t, "800000.00", ana.ValorVendido)
	assert.Equal(t, "48000.00", ana.Comissao)

	bruno := report.Corretores[1]
	assert.Equal(t, uint(2), bruno.UserID)
	assert.Equal(t, "Bruno Castro", bruno.Nome)
	assert.Equal(t, int64(1), bruno.Vendas)
}

func TestMonthly_MesSemMovimento(t *testing.T) {
	repo := &fakeAnalytics{
		byScope: map[uint]scopeTotals{},
		users:   nil,
	}

	report, err := reports.NewService(repo).Monthly(context.Background(), 2025, 1)
	require.NoError(t, err)

	assert.Zero(t, report.Totais.NovosClientes)
	assert.Equal(t, "0.00", report.Totais.ValorVendido)
	assert.Zero(t, report.Totais.TaxaConversao)
	assert.Empty(t, report.Corretores)
}

func TestMonthly_PeriodoInvalido(t *testing.T) {
	repo := &fakeAnalytics{byScope: map[uint]scopeTotals{}}
	svc := reports.NewService(repo)

	cases := []struct {
		name  string
		year  int
		month int
	}{
		{"mês zero", 2025, 0},
		{"mês treze", 2025, 13},
		{"ano fora da faixa", 1999, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Monthly(context.Background(), tc.year, tc.month)
			assert.True(t, httperr.IsBusiness(err, "invalid_period"))
		})
	}
}

// ======================================================
// Taxa de conversão
// ======================================================

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 20.0, reports.ConversionRate(4, 20))
	assert.Equal(t, 33.33, reports.ConversionRate(1, 3))
	assert.Equal(t, 0.0, reports.ConversionRate(0, 5))
	assert.Equal(t, 100.0, reports.ConversionRate(5, 5))
}

// Mês sem cliente novo não divide por zero.
func TestConversionRate_SemClientes(t *testing.T) {
	assert.Equal(t, 0.0, reports.ConversionRate(3, 0))
	assert.Equal(t, 0.0, reports.ConversionRate(0, 0))
}
