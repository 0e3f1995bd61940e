package visit

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
)

// ======================================================
// Usecase: horários livres do corretor para marcar visita
// ======================================================

type GetAvailability struct {
	repo schedule.Repository
}

func NewGetAvailability(repo schedule.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in schedule.AvailabilityInput,
) ([]schedule.TimeSlot, error) {

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.UserID, weekday)
	if err != nil || wh == nil || !wh.Active {
		return []schedule.TimeSlot{}, nil
	}

	loc := in.Date.Location()

	dayStart := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		loc,
	)
	dayEnd := dayStart.Add(24 * time.Hour)

	busy, err := uc.repo.ListBusyWindows(ctx, in.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return schedule.BuildSlots(wh, in.Date, in.DurationMin, busy), nil
}
