package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Cliente
// --------------------------------------------------

func (r *ScheduleGormRepository) GetCliente(
	ctx context.Context,
	id uint,
) (*models.Cliente, error) {

	var cl models.Cliente
	if err := r.db.WithContext(ctx).First(&cl, id).Error; err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *ScheduleGormRepository) UpdateCliente(
	ctx context.Context,
	cl *models.Cliente,
) error {
	return r.db.WithContext(ctx).Save(cl).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

// AssertNoTimeConflict confere compromissos e visitas do corretor: a agenda
// é uma só.
func (r *ScheduleGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
	ignoreAppointmentID uint,
	ignoreVisitID uint,
) error {

	var count int64

	apQuery := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"user_id = ? AND status = 'scheduled' AND start_time < ? AND end_time > ?",
			userID,
			end,
			start,
		)
	if ignoreAppointmentID != 0 {
		apQuery = apQuery.Where("id <> ?", ignoreAppointmentID)
	}

	if err := apQuery.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	visitQuery := r.db.WithContext(ctx).
		Model(&models.Visit{}).
		Where(
			"user_id = ? AND status = 'scheduled' AND scheduled_at < ? AND scheduled_at + make_interval(mins => duration_min) > ?",
			userID,
			end,
			start,
		)
	if ignoreVisitID != 0 {
		visitQuery = visitQuery.Where("id <> ?", ignoreVisitID)
	}

	if err := visitQuery.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

func (r *ScheduleGormRepository) GetAppointmentForUser(
	ctx context.Context,
	appointmentID uint,
	userID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", appointmentID, userID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) DeleteAppointment(
	ctx context.Context,
	appointmentID uint,
	userID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", appointmentID, userID).
		Delete(&models.Appointment{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"user_id = ? AND status = 'scheduled' AND start_time >= ? AND start_time < ?",
			userID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where(
			"user_id = ? AND start_time >= ? AND start_time < ?",
			userID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Visit
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateVisit(
	ctx context.Context,
	v *models.Visit,
) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ScheduleGormRepository) GetVisitForUser(
	ctx context.Context,
	visitID uint,
	userID uint,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", visitID, userID).
		First(&v).Error; err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *ScheduleGormRepository) UpdateVisit(
	ctx context.Context,
	v *models.Visit,
) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *ScheduleGormRepository) DeleteVisit(
	ctx context.Context,
	visitID uint,
	userID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", visitID, userID).
		Delete(&models.Visit{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) ListVisitsForDay(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]models.Visit, error) {

	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where(
			"user_id = ? AND scheduled_at >= ? AND scheduled_at < ?",
			userID, start, end,
		).
		Order("scheduled_at ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}

	return visits, nil
}

func (r *ScheduleGormRepository) ListVisitsByCliente(
	ctx context.Context,
	clienteID uint,
) ([]models.Visit, error) {

	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("scheduled_at DESC").
		Find(&visits).Error; err != nil {
		return nil, err
	}

	return visits, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ScheduleGormRepository) GetWorkingHours(
	ctx context.Context,
	userID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekday = ?", userID, weekday).
		First(&wh).Error; err != nil {
		return nil, err
	}

	return &wh, nil
}

func (r *ScheduleGormRepository) IsWithinWorkingHours(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	weekday := int(start.Weekday())

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND weekday = ?", userID, weekday).
		First(&wh).Error; err != nil {
		// corretor sem expediente cadastrado agenda livre
		return true, nil
	}

	return schedule.WithinWorkingHours(&wh, start, end), nil
}

func (r *ScheduleGormRepository) ListBusyWindows(
	ctx context.Context,
	userID uint,
	start time.Time,
	end time.Time,
) ([]schedule.Window, error) {

	apps, err := r.ListAppointmentsForDay(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Select("scheduled_at", "duration_min").
		Where(
			"user_id = ? AND status = 'scheduled' AND scheduled_at >= ? AND scheduled_at < ?",
			userID, start, end,
		).
		Order("scheduled_at ASC").
		Find(&visits).Error; err != nil {
		return nil, err
	}

	windows := make([]schedule.Window, 0, len(apps)+len(visits))
	for _, ap := range apps {
		windows = append(windows, schedule.Window{Start: ap.StartTime, End: ap.EndTime})
	}
	for _, v := range visits {
		windows = append(windows, schedule.Window{
			Start: v.ScheduledAt,
			End:   v.ScheduledAt.Add(time.Duration(v.DurationMin) * time.Minute),
		})
	}

	return windows, nil
}

// Compile-time check
var _ schedule.Repository = (*ScheduleGormRepository)(nil)
