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

type CreateAppointmentInput struct {
	UserID    uint
	ClienteID uint

	Tipo string

	Date        string
	Time        string
	DurationMin int

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewCreateAppointment(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Cliente
	// --------------------------------------------------
	cliente, err := uc.repo.GetCliente(ctx, in.ClienteID)
	if err != nil {
		return nil, httperr.ErrBusiness("cliente_not_found")
	}

	// --------------------------------------------------
	// 2️⃣ Tipo de compromisso
	// --------------------------------------------------
	if !schedule.ValidTipo(in.Tipo) {
		return nil, httperr.ErrBusiness("invalid_tipo")
	}

	// --------------------------------------------------
	// 3️⃣ Data / hora no fuso padrão
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if in.DurationMin <= 0 {
		in.DurationMin = 60
	}
	end := start.Add(time.Duration(in.DurationMin) * time.Minute)

	if start.Before(timezone.Now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	// --------------------------------------------------
	// 4️⃣ Expediente do corretor
	// --------------------------------------------------
	ok, err := uc.repo.IsWithinWorkingHours(ctx, in.UserID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 5️⃣ Conflito de agenda
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(ctx, in.UserID, start, end, 0, 0); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Criação (status centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		UserID:    in.UserID,
		ClienteID: cliente.ID,
		Tipo:      in.Tipo,
		StartTime: start,
		EndTime:   end,
		Status:    string(schedule.InitialStatus()),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.dashboard.Invalidate(ctx, in.UserID)

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
