package visit

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/dto"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

type ListVisitsByDate struct {
	repo schedule.Repository
}

func NewListVisitsByDate(
	repo schedule.Repository,
) *ListVisitsByDate {
	return &ListVisitsByDate{
		repo: repo,
	}
}

func (uc *ListVisitsByDate) Execute(
	ctx context.Context,
	userID uint,
	date time.Time,
) ([]dto.VisitListDTO, error) {

	loc := timezone.Location(timezone.DefaultTimezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

	visits, err := uc.repo.ListVisitsForDay(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.VisitListDTO, 0, len(visits))
	for _, v := range visits {
		out = append(out, dto.VisitListDTO{
			ID:             v.ID,
			ScheduledAt:    v.ScheduledAt,
			DurationMin:    v.DurationMin,
			Status:         v.Status,
			ClienteID:      v.ClienteID,
			ClienteNome:    v.Cliente.Nome,
			ImovelEndereco: v.ImovelEndereco,
			ImovelRef:      v.ImovelRef,
		})
	}

	return out, nil
}
