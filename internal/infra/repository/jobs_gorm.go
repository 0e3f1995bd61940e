package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/jobs"
	"github.com/imobflow/imob-crm-api/internal/models"
)

type JobsGormStore struct {
	db *gorm.DB
}

func NewJobsGormStore(db *gorm.DB) *JobsGormStore {
	return &JobsGormStore{db: db}
}

// ListValidationTargets pega os clientes com telefone e nunca verificados
func (s *JobsGormStore) ListValidationTargets(ctx context.Context) ([]jobs.Item, error) {
	var rows []models.Cliente
	if err := s.db.WithContext(ctx).
		Select("id", "nome", "telefone").
		Where("telefone <> '' AND tem_whatsapp IS NULL").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toItems(rows), nil
}

// ListPictureTargets pega os clientes validados e ainda sem foto
func (s *JobsGormStore) ListPictureTargets(ctx context.Context) ([]jobs.Item, error) {
	var rows []models.Cliente
	if err := s.db.WithContext(ctx).
		Select("id", "nome", "telefone").
		Where("tem_whatsapp = TRUE AND (foto_perfil_url = '' OR foto_perfil_url IS NULL)").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	return toItems(rows), nil
}

func (s *JobsGormStore) SetWhatsappStatus(
	ctx context.Context,
	clienteID uint,
	has bool,
	checkedAt time.Time,
) error {
	return s.db.WithContext(ctx).
		Model(&models.Cliente{}).
		Where("id = ?", clienteID).
		Updates(map[string]any{
			"tem_whatsapp":           has,
			"whatsapp_verificado_em": checkedAt,
		}).Error
}

func (s *JobsGormStore) SetProfilePicture(
	ctx context.Context,
	clienteID uint,
	url string,
	key string,
) error {
	return s.db.WithContext(ctx).
		Model(&models.Cliente{}).
		Where("id = ?", clienteID).
		Updates(map[string]any{
			"foto_perfil_url": url,
			"foto_perfil_key": key,
		}).Error
}

func toItems(rows []models.Cliente) []jobs.Item {
	items := make([]jobs.Item, 0, len(rows))
	for _, c := range rows {
		items = append(items, jobs.Item{
			ClienteID: c.ID,
			Nome:      c.Nome,
			Telefone:  c.Telefone,
		})
	}
	return items
}

// Compile-time check
var _ jobs.Store = (*JobsGormStore)(nil)
