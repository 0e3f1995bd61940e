package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/domain/analytics"
	"github.com/imobflow/imob-crm-api/internal/models"
)

var _ analytics.Repository = (*AnalyticsGormRepository)(nil)

// AnalyticsGormRepository concentra as contagens e somas usadas pelo
// dashboard e pelos relatórios mensais. userID zero agrega a imobiliária
// inteira.
type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

func (r *AnalyticsGormRepository) scoped(ctx context.Context, model any, userID uint) *gorm.DB {
	q := r.db.WithContext(ctx).Model(model)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	return q
}

// --------------------------------------------------
// Contagens por período
// --------------------------------------------------

func (r *AnalyticsGormRepository) CountClientes(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Cliente{}, userID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountAppointments(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Appointment{}, userID).
		Where("start_time >= ? AND start_time < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountAppointmentsCompleted(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Appointment{}, userID).
		Where("status = 'completed' AND start_time >= ? AND start_time < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountVisits(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Visit{}, userID).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountVisitsCompleted(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Visit{}, userID).
		Where("status = 'completed' AND scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountVisitsNoShow(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Visit{}, userID).
		Where("status = 'no_show' AND scheduled_at >= ? AND scheduled_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsGormRepository) CountSalesConfirmed(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (int64, error) {

	var count int64
	err := r.scoped(ctx, &models.Sale{}, userID).
		Where("status = 'confirmed' AND data_venda >= ? AND data_venda < ?", from, to).
		Count(&count).Error
	return count, err
}

// --------------------------------------------------
// Somas de venda
// --------------------------------------------------

func (r *AnalyticsGormRepository) SumSalesValue(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (decimal.Decimal, error) {

	var total decimal.Decimal
	row := r.scoped(ctx, &models.Sale{}, userID).
		Where("status = 'confirmed' AND data_venda >= ? AND data_venda < ?", from, to).
		Select("COALESCE(SUM(valor), 0)").
		Row()

	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *AnalyticsGormRepository) SumSalesCommission(
	ctx context.Context,
	userID uint,
	from, to time.Time,
) (decimal.Decimal, error) {

	var total decimal.Decimal
	row := r.scoped(ctx, &models.Sale{}, userID).
		Where("status = 'confirmed' AND data_venda >= ? AND data_venda < ?", from, to).
		Select("COALESCE(SUM(comissao_valor), 0)").
		Row()

	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// --------------------------------------------------
// Funil
// --------------------------------------------------

func (r *AnalyticsGormRepository) FunnelCounts(
	ctx context.Context,
	userID uint,
) (map[string]int64, error) {

	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.scoped(ctx, &models.Cliente{}, userID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// --------------------------------------------------
// Corretores
// --------------------------------------------------

func (r *AnalyticsGormRepository) ListActiveUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("active = TRUE").
		Order("name ASC").
		Find(&users).Error
	return users, err
}
