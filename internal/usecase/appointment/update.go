package appointment

import (
	"context"
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

// Campos nil mantêm o valor atual do compromisso.
type UpdateAppointmentInput struct {
	UserID        uint
	AppointmentID uint

	Tipo  *string
	Notes *string

	Date        *string
	Time        *string
	DurationMin *int
}

func (in UpdateAppointmentInput) wantsReschedule() bool {
	return in.Date != nil || in.Time != nil || in.DurationMin != nil
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewUpdateAppointment(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Compromisso do corretor
	// --------------------------------------------------
	ap, err := uc.repo.GetAppointmentForUser(ctx, in.AppointmentID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := schedule.CanReschedule(schedule.Status(ap.Status)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Campos simples
	// --------------------------------------------------
	if in.Tipo != nil {
		if !schedule.ValidTipo(*in.Tipo) {
			return nil, httperr.ErrBusiness("invalid_tipo")
		}
		ap.Tipo = *in.Tipo
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
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

		durationMin := int(ap.EndTime.Sub(ap.StartTime).Minutes())
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

		// o próprio compromisso não conta como conflito
		if err := uc.repo.AssertNoTimeConflict(ctx, in.UserID, start, end, ap.ID, 0); err != nil {
			return nil, err
		}

		ap.StartTime = start
		ap.EndTime = end
	}

	// --------------------------------------------------
	// 4️⃣ Persistência + auditoria
	// --------------------------------------------------
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, in.UserID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
