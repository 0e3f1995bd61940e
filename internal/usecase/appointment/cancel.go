package appointment

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

type CancelAppointment struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewCancelAppointment(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *CancelAppointment {
	return &CancelAppointment{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := schedule.CancelAppointment(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, userID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
