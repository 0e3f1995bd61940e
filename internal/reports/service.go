package reports

import (
	"context"
	"math"
	"time"

	"github.com/imobflow/imob-crm-api/internal/domain/analytics"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// Relatório mensal da imobiliária
// ======================================================

type ReportTotals struct {
	NovosClientes          int64 `json:"novos_clientes"`
	Appointments           int64 `json:"appointments"`
	AppointmentsRealizados int64 `json:"appointments_realizados"`
	Visitas                int64 `json:"visitas"`
	VisitasRealizadas      int64 `json:"visitas_realizadas"`
	VisitasNoShow          int64 `json:"visitas_no_show"`
	Vendas                 int64 `json:"vendas"`

	ValorVendido string `json:"valor_vendido"`
	Comissao     string `json:"comissao"`

	// vendas confirmadas sobre clientes novos do mês, em %
	TaxaConversao float64 `json:"taxa_conversao"`
}

type CorretorRow struct {
	UserID uint   `json:"user_id"`
	Nome   string `json:"nome"`

	NovosClientes     int64 `json:"novos_clientes"`
	Appointments      int64 `json:"appointments"`
	VisitasRealizadas int64 `json:"visitas_realizadas"`
	Vendas            int64 `json:"vendas"`

	ValorVendido string `json:"valor_vendido"`
	Comissao     string `json:"comissao"`
}

type MonthlyReport struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"`

	From string `json:"from"`
	To   string `json:"to"`

	Totais     ReportTotals  `json:"totais"`
	Corretores []CorretorRow `json:"corretores"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ======================================================
// SERVICE
// ======================================================

type Service struct {
	repo analytics.Repository
}

func NewService(repo analytics.Repository) *Service {
	return &Service{repo: repo}
}

// Monthly agrega o mês inteiro: totais da imobiliária e uma linha por
// corretor ativo.
func (s *Service) Monthly(
	ctx context.Context,
	year int,
	month int,
) (*MonthlyReport, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness("invalid_period")
	}

	from := timezone.StartOfMonth(year, time.Month(month), timezone.DefaultTimezone)
	to := from.AddDate(0, 1, 0)

	// --------------------------------------------------
	// 1️⃣ Totais da imobiliária (userID zero)
	// --------------------------------------------------
	totals, err := s.totalsFor(ctx, 0, from, to)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Uma linha por corretor ativo
	// --------------------------------------------------
	users, err := s.repo.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	corretores := make([]CorretorRow, 0, len(users))
	for _, u := range users {
		t, err := s.totalsFor(ctx, u.ID, from, to)
		if err != nil {
			return nil, err
		}

		corretores = append(corretores, CorretorRow{
			UserID:            u.ID,
			Nome:              u.Name,
			NovosClientes:     t.NovosClientes,
			Appointments:      t.Appointments,
			VisitasRealizadas: t.VisitasRealizadas,
			Vendas:            t.Vendas,
			ValorVendido:      t.ValorVendido,
			Comissao:          t.Comissao,
		})
	}

	return &MonthlyReport{
		Ano:         year,
		Mes:         month,
		From:        from.Format("2006-01-02"),
		To:          to.AddDate(0, 0, -1).Format("2006-01-02"),
		Totais:      *totals,
		Corretores:  corretores,
		GeneratedAt: timezone.Now(),
	}, nil
}

func (s *Service) totalsFor(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (*ReportTotals, error) {

	clientes, err := s.repo.CountClientes(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	appointments, err := s.repo.CountAppointments(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	appointmentsRealizados, err := s.repo.CountAppointmentsCompleted(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	visitas, err := s.repo.CountVisits(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	visitasRealizadas, err := s.repo.CountVisitsCompleted(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	visitasNoShow, err := s.repo.CountVisitsNoShow(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	vendas, err := s.repo.CountSalesConfirmed(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	valorVendido, err := s.repo.SumSalesValue(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	comissao, err := s.repo.SumSalesCommission(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &ReportTotals{
		NovosClientes:          clientes,
		Appointments:           appointments,
		AppointmentsRealizados: appointmentsRealizados,
		Visitas:                visitas,
		VisitasRealizadas:      visitasRealizadas,
		VisitasNoShow:          visitasNoShow,
		Vendas:                 vendas,
		ValorVendido:           valorVendido.StringFixed(2),
		Comissao:               comissao.StringFixed(2),
		TaxaConversao:          ConversionRate(vendas, clientes),
	}, nil
}

// ConversionRate calcula vendas sobre clientes novos em %, duas casas.
func ConversionRate(vendas, clientes int64) float64 {
	if clientes <= 0 {
		return 0
	}

	rate := float64(vendas) / float64(clientes) * 100
	return math.Round(rate*100) / 100
}
