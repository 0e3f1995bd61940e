package schedule

import (
	"context"
	"time"

	"github.com/imobflow/imob-crm-api/internal/models"
)

type Repository interface {
	// -------- Cliente --------
	GetCliente(
		ctx context.Context,
		id uint,
	) (*models.Cliente, error)

	UpdateCliente(
		ctx context.Context,
		cl *models.Cliente,
	) error

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ignoreAppointmentID/ignoreVisitID tiram da checagem o registro que
	// está sendo remarcado; zero não ignora nada
	AssertNoTimeConflict(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
		ignoreAppointmentID uint,
		ignoreVisitID uint,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForUser(
		ctx context.Context,
		appointmentID uint,
		userID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		appointmentID uint,
		userID uint,
	) error

	ListAppointmentsForDay(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Visit --------
	CreateVisit(
		ctx context.Context,
		v *models.Visit,
	) error

	GetVisitForUser(
		ctx context.Context,
		visitID uint,
		userID uint,
	) (*models.Visit, error)

	UpdateVisit(
		ctx context.Context,
		v *models.Visit,
	) error

	DeleteVisit(
		ctx context.Context,
		visitID uint,
		userID uint,
	) error

	ListVisitsForDay(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]models.Visit, error)

	ListVisitsByCliente(
		ctx context.Context,
		clienteID uint,
	) ([]models.Visit, error)

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		userID uint,
		weekday int,
	) (*models.WorkingHours, error)

	IsWithinWorkingHours(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) (bool, error)

	ListBusyWindows(
		ctx context.Context,
		userID uint,
		start time.Time,
		end time.Time,
	) ([]Window, error)
}
