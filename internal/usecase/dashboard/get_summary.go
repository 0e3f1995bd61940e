package dashboard

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/analytics"
	"github.com/imobflow/imob-crm-api/internal/dto"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type GetSummaryInput struct {
	// zero agrega todos os corretores
	UserID uint

	// today | week | month | custom
	Period string

	// período custom, formato 2006-01-02; To é inclusivo no dia
	From string
	To   string
}

// ======================================================
// USE CASE
// ======================================================

type GetSummary struct {
	repo  analytics.Repository
	cache *cache.Dashboard
}

func NewGetSummary(
	repo analytics.Repository,
	dashCache *cache.Dashboard,
) *GetSummary {
	return &GetSummary{
		repo:  repo,
		cache: dashCache,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *GetSummary) Execute(
	ctx context.Context,
	in GetSummaryInput,
) (*dto.DashboardSummaryDTO, error) {

	// --------------------------------------------------
	// 1️⃣ Janela do período + período anterior
	// --------------------------------------------------
	from, to, prevFrom, prevTo, err := resolvePeriod(in, timezone.Now())
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Cache
	// --------------------------------------------------
	key := cache.SummaryKey(in.UserID, in.Period, in.From, in.To)

	var cached dto.DashboardSummaryDTO
	if uc.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	// --------------------------------------------------
	// 3️⃣ Métricas comparadas com o período anterior
	// --------------------------------------------------
	metric := func(
		count func(context.Context, uint, time.Time, time.Time) (int64, error),
	) (dto.MetricResult, error) {

		cur, err := count(ctx, in.UserID, from, to)
		if err != nil {
			return dto.MetricResult{}, err
		}

		prev, err := count(ctx, in.UserID, prevFrom, prevTo)
		if err != nil {
			return dto.MetricResult{}, err
		}

		return dto.MetricResult{
			Current:      cur,
			Previous:     prev,
			Percentage:   analytics.Percentage(cur, prev),
			IsIncreasing: analytics.IsIncreasing(cur, prev),
		}, nil
	}

	novosClientes, err := metric(uc.repo.CountClientes)
	if err != nil {
		return nil, err
	}

	appointments, err := metric(uc.repo.CountAppointments)
	if err != nil {
		return nil, err
	}

	visitasRealizadas, err := metric(uc.repo.CountVisitsCompleted)
	if err != nil {
		return nil, err
	}

	vendas, err := metric(uc.repo.CountSalesConfirmed)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Valor vendido
	// --------------------------------------------------
	valorVendido, err := uc.repo.SumSalesValue(ctx, in.UserID, from, to)
	if err != nil {
		return nil, err
	}

	valorVendidoPrev, err := uc.repo.SumSalesValue(ctx, in.UserID, prevFrom, prevTo)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Funil (retrato atual, não depende do período)
	// --------------------------------------------------
	funil, err := uc.repo.FunnelCounts(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummaryDTO{
		Period: in.Period,
		From:   from.Format("2006-01-02"),
		To:     to.AddDate(0, 0, -1).Format("2006-01-02"),

		NovosClientes:     novosClientes,
		Appointments:      appointments,
		VisitasRealizadas: visitasRealizadas,
		Vendas:            vendas,

		ValorVendido:     valorVendido.StringFixed(2),
		ValorVendidoPrev: valorVendidoPrev.StringFixed(2),

		Funil: funil,
	}

	// --------------------------------------------------
	// 6️⃣ Grava no cache
	// --------------------------------------------------
	uc.cache.Set(ctx, key, summary)

	return summary, nil
}

// ======================================================
// PERÍODOS
// ======================================================

// resolvePeriod materializa o período pedido e o período anterior de mesma
// duração, sempre no fuso padrão. Intervalos são [from, to).
func resolvePeriod(
	in GetSummaryInput,
	now time.Time,
) (from, to, prevFrom, prevTo time.Time, err error) {

	tz := timezone.DefaultTimezone

	switch in.Period {

	case "today":
		from = timezone.StartOfDay(now, tz)
		to = from.AddDate(0, 0, 1)
		prevFrom = from.AddDate(0, 0, -1)
		prevTo = from

	case "week":
		// semana começa na segunda-feira
		day := timezone.StartOfDay(now, tz)
		offset := (int(day.Weekday()) + 6) % 7
		from = day.AddDate(0, 0, -offset)
		to = from.AddDate(0, 0, 7)
		prevFrom = from.AddDate(0, 0, -7)
		prevTo = from

	case "month":
		from = timezone.StartOfMonth(now.Year(), now.Month(), tz)
		to = from.AddDate(0, 1, 0)
		prevFrom = from.AddDate(0, -1, 0)
		prevTo = from

	case "custom":
		loc := timezone.Location(tz)

		fromDay, perr := time.ParseInLocation("2006-01-02", in.From, loc)
		if perr != nil {
			err = httperr.ErrBusiness("invalid_period")
			return
		}

		toDay, perr := time.ParseInLocation("2006-01-02", in.To, loc)
		if perr != nil || toDay.Before(fromDay) {
			err = httperr.ErrBusiness("invalid_period")
			return
		}

		from = fromDay
		to = toDay.AddDate(0, 0, 1)

		length := to.Sub(from)
		prevFrom = from.Add(-length)
		prevTo = from

	default:
		err = httperr.ErrBusiness("invalid_period")
	}

	return
}
