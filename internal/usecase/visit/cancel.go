package visit

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

type CancelVisit struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewCancelVisit(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *CancelVisit {
	return &CancelVisit{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

func (uc *CancelVisit) Execute(
	ctx context.Context,
	userID uint,
	visitID uint,
) (*models.Visit, error) {

	v, err := uc.repo.GetVisitForUser(ctx, visitID, userID)
	if err != nil {
		return nil, httperr.ErrBusiness("visit_not_found")
	}

	if err := schedule.CancelVisit(v, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateVisit(ctx, v); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, userID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "visit_cancelled",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	return v, nil
}
