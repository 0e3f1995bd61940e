package appointment

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
)

type DeleteAppointment struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewDeleteAppointment(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) error {

	ap, err := uc.repo.GetAppointmentForUser(ctx, appointmentID, userID)
	if err != nil {
		return httperr.ErrBusiness("appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, ap.ID, userID); err != nil {
		return err
	}

	uc.dashboard.Invalidate(ctx, userID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}
