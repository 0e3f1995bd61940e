package appointment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/usecase/appointment"
)

// ======================================================
// Fake do repositório de agenda
// ======================================================

type fakeRepo struct {
	cliente     *models.Cliente
	appointment *models.Appointment

	withinHours bool
	conflictErr error

	created []*models.Appointment
	updated []*models.Appointment

	conflictCalls   int
	lastIgnoredApID uint
}

var _ schedule.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetCliente(ctx context.Context, id uint) (*models.Cliente, error) {
	if f.cliente == nil || f.cliente.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cliente, nil
}

func (f *fakeRepo) UpdateCliente(ctx context.Context, cl *models.Cliente) error {
	return nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	ap.ID = uint(len(f.created) + 1)
	f.created = append(f.created, ap)
	return nil
}

func (f *fakeRepo) AssertNoTimeConflict(
	ctx context.Context,
	userID uint,
	start, end time.Time,
	ignoreAppointmentID, ignoreVisitID uint,
) error {
	f.conflictCalls++
	f.lastIgnoredApID = ignoreAppointmentID
	return f.conflictErr
}

func (f *fakeRepo) GetAppointmentForUser(ctx context.Context, appointmentID, userID uint) (*models.Appointment, error) {
	if f.appointment == nil || f.appointment.ID != appointmentID || f.appointment.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.appointment, nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.updated = append(f.updated, ap)
	return nil
}

func (f *fakeRepo) DeleteAppointment(ctx context.Context, appointmentID, userID uint) error {
	return nil
}

func (f *fakeRepo) ListAppointmentsForDay(ctx context.Context, userID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, userID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeRepo) CreateVisit(ctx context.Context, v *models.Visit) error { return nil }

func (f *fakeRepo) GetVisitForUser(ctx context.Context, visitID, userID uint) (*models.Visit, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateVisit(ctx context.Context, v *models.Visit) error { return nil }

func (f *fakeRepo) DeleteVisit(ctx context.Context, visitID, userID uint) error { return nil }

func (f *fakeRepo) ListVisitsForDay(ctx context.Context, userID uint, start, end time.Time) ([]models.Visit, error) {
	return nil, nil
}

func (f *fakeRepo) ListVisitsByCliente(ctx context.Context, clienteID uint) ([]models.Visit, error) {
	return nil, nil
}

func (f *fakeRepo) GetWorkingHours(ctx context.Context, userID uint, weekday int) (*models.WorkingHours, error) {
	return nil, nil
}

func (f *fakeRepo) IsWithinWorkingHours(ctx context.Context, userID uint, start, end time.Time) (bool, error) {
	return f.withinHours, nil
}

func (f *fakeRepo) ListBusyWindows(ctx context.Context, userID uint, start, end time.Time) ([]schedule.Window, error) {
	return nil, nil
}

func repoComCliente() *fakeRepo {
	return &fakeRepo{
		cliente:     &models.Cliente{ID: 3, UserID: 7, Nome: "Marcos Paulo", Status: "em_atendimento"},
		withinHours: true,
	}
}

// ======================================================
// Criação
// ======================================================

func TestCreateAppointment(t *testing.T) {
	repo := repoComCliente()
	uc := appointment.NewCreateAppointment(repo, nil, nil)

	ap, err := uc.Execute(context.Background(), appointment.CreateAppointmentInput{
		UserID:      7,
		ClienteID:   3,
		Tipo:        "reuniao",
		Date:        "2031-03-10",
		Time:        "10:00",
		DurationMin: 90,
		Notes:       "levar proposta impressa",
	})
	require.NoError(t, err)

	loc := timezone.Location(timezone.DefaultTimezone)
	want := time.Date(2031, time.March, 10, 10, 0, 0, 0, loc)

	assert.Equal(t, uint(7), ap.UserID)
	assert.Equal(t, uint(3), ap.ClienteID)
	assert.Equal(t, "reuniao", ap.Tipo)
	assert.Equal(t, "scheduled", ap.Status)
	assert.True(t, ap.StartTime.Equal(want))
	assert.True(t, ap.EndTime.Equal(want.Add(90*time.Minute)))
	assert.Equal(t, "levar proposta impressa", ap.Notes)

	require.Len(t, repo.created, 1)
	assert.Equal(t, 1, repo.conflictCalls)
	assert.Zero(t, repo.lastIgnoredApID, "criação não ignora registro nenhum no conflito")
}

func TestCreateAppointment_DuracaoPadrao(t *testing.T) {
	repo := repoComCliente()
	uc := appointment.NewCreateAppointment(repo, nil, nil)

	ap, err := uc.Execute(context.Background(), appointment.CreateAppointmentInput{
		UserID:    7,
		ClienteID: 3,
		Tipo:      "ligacao",
		Date:      "2031-03-10",
		Time:      "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Hour, ap.EndTime.Sub(ap.StartTime))
}

func TestCreateAppointment_Recusas(t *testing.T) {
	valid := func() appointment.CreateAppointmentInput {
		return appointment.CreateAppointmentInput{
			UserID:    7,
			ClienteID: 3,
			Tipo:      "reuniao",
			Date:      "2031-03-10",
			Time:      "10:00",
		}
	}

	cases := []struct {
		name     string
		repo     *fakeRepo
		mutate   func(*appointment.CreateAppointmentInput)
		wantCode string
	}{
		{
			"cliente inexistente",
			repoComCliente(),
			func(in *appointment.CreateAppointmentInput) { in.ClienteID = 999 },
			"cliente_not_found",
		},
		{
			"tipo inválido",
			repoComCliente(),
			func(in *appointment.CreateAppointmentInput) { in.Tipo = "piquenique" },
			"invalid_tipo",
		},
		{
			"data fora do formato",
			repoComCliente(),
			func(in *appointment.CreateAppointmentInput) { in.Date = "10/03/2031" },
			"invalid_date_or_time",
		},
		{
			"horário no passado",
			repoComCliente(),
			func(in *appointment.CreateAppointmentInput) { in.Date = "2020-05-10" },
			"in_the_past",
		},
		{
			"fora do expediente",
			func() *fakeRepo {
				r := repoComCliente()
				r.withinHours = false
				return r
			}(),
			func(in *appointment.CreateAppointmentInput) {},
			"outside_working_hours",
		},
		{
			"conflito de agenda",
			func() *fakeRepo {
				r := repoComCliente()
				r.conflictErr = httperr.ErrBusiness("time_conflict")
				return r
			}(),
			func(in *appointment.CreateAppointmentInput) {},
			"time_conflict",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := appointment.NewCreateAppointment(tc.repo, nil, nil)

			in := valid()
			tc.mutate(&in)

			_, err := uc.Execute(context.Background(), in)
			assert.True(t, httperr.IsBusiness(err, tc.wantCode), "esperava %s, veio %v", tc.wantCode, err)
			assert.Empty(t, tc.repo.created, "recusa não grava nada")
		})
	}
}
