package visit

import (
	"context"
	"strings"
	"time"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// Campos nil mantêm o valor atual da visita.
type UpdateVisitInput struct {
	UserID  uint
	VisitID uint

	ImovelEndereco *string
	ImovelRef      *string

	Date        *string
	Time        *string
	DurationMin *int
}

func (in UpdateVisitInput) wantsReschedule() bool {
	return in.Date != nil || in.Time != nil || in.DurationMin != nil
}

// ======================================================
// USE CASE
// ======================================================

type UpdateVisit struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewUpdateVisit(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *UpdateVisit {
	return &UpdateVisit{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateVisit) Execute(
	ctx context.Context,
	in UpdateVisitInput,
) (*models.Visit, error) {

	// --------------------------------------------------
	// 1️⃣ Visita do corretor
	// --------------------------------------------------
	v, err := uc.repo.GetVisitForUser(ctx, in.VisitID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("visit_not_found")
	}

	if schedule.VisitStatus(v.Status) != schedule.VisitScheduled {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	// --------------------------------------------------
	// 2️⃣ Imóvel
	// --------------------------------------------------
	if in.ImovelEndereco != nil {
		if strings.TrimSpace(*in.ImovelEndereco) == "" {
			return nil, httperr.ErrBusiness("imovel_endereco_required")
		}
		v.ImovelEndereco = *in.ImovelEndereco
	}

	if in.ImovelRef != nil {
		v.ImovelRef = *in.ImovelRef
	}

	// --------------------------------------------------
	// 3️⃣ Remarcação (data / hora / duração)
	// --------------------------------------------------
	if in.wantsReschedule() {
		if in.Date == nil || in.Time == nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}

		start, err := time.ParseInLocation(
			"2006-01-02 15:04",
			*in.Date+" "+*in.Time,
			timezone.Location(timezone.DefaultTimezone),
		)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date_or_time")
		}

		durationMin := v.DurationMin
		if in.DurationMin != nil && *in.DurationMin > 0 {
			durationMin = *in.DurationMin
		}
		end := start.Add(time.Duration(durationMin) * time.Minute)

		if start.Before(timezone.Now()) {
			return nil, httperr.ErrBusiness("in_the_past")
		}

		ok, err := uc.repo.IsWithinWorkingHours(ctx, in.UserID, start, end)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("outside_working_hours")
		}

		// a própria visita não conta como conflito
		if err := uc.repo.AssertNoTimeConflict(ctx, in.UserID, start, end, 0, v.ID); err != nil {
			return nil, err
		}

		v.ScheduledAt = start
		v.DurationMin = durationMin
	}

	// --------------------------------------------------
	// 4️⃣ Persistência + auditoria
	// --------------------------------------------------
	if err := uc.repo.UpdateVisit(ctx, v); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, in.UserID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "visit_updated",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	return v, nil
}
