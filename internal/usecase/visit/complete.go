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

type CompleteVisitInput struct {
	UserID  uint
	VisitID uint

	Feedback       string
	InteresseNivel string
}

type CompleteVisit struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewCompleteVisit(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *CompleteVisit {
	return &CompleteVisit{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

func (uc *CompleteVisit) Execute(
	ctx context.Context,
	in CompleteVisitInput,
) (*models.Visit, error) {

	v, err := uc.repo.GetVisitForUser(ctx, in.VisitID, in.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness("visit_not_found")
	}

	if !schedule.ValidInteresseNivel(in.InteresseNivel) {
		return nil, httperr.ErrBusiness("invalid_interesse_nivel")
	}

	if err := schedule.CompleteVisit(v, timezone.Now(), in.Feedback, in.InteresseNivel); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateVisit(ctx, v); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, in.UserID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "visit_completed",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	return v, nil
}
