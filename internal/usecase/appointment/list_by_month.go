package appointment

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/dto"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo schedule.Repository
}

func NewListAppointmentsByMonth(
	repo schedule.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	userID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(timezone.DefaultTimezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		userID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			Tipo:        ap.Tipo,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClienteID:   ap.ClienteID,
			ClienteNome: ap.Cliente.Nome,
			Notes:       ap.Notes,
		})
	}

	return out, nil
}
