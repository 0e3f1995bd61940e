package appointment

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/dto"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo schedule.Repository
}

func NewListAppointmentsByDate(
	repo schedule.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	userID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	loc := timezone.Location(timezone.DefaultTimezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

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
