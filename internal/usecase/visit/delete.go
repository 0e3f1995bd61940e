package visit

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
)

type DeleteVisit struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewDeleteVisit(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *DeleteVisit {
	return &DeleteVisit{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

func (uc *DeleteVisit) Execute(
	ctx context.Context,
	userID uint,
	visitID uint,
) error {

	v, err := uc.repo.GetVisitForUser(ctx, visitID, userID)
	if err != nil {
		return httperr.ErrBusiness("visit_not_found")
	}

	if err := uc.repo.DeleteVisit(ctx, v.ID, userID); err != nil {
		return err
	}

	uc.dashboard.Invalidate(ctx, userID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "visit_deleted",
		Entity:   "visit",
		EntityID: &visitID,
	})

	return nil
}
