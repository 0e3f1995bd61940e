package visit

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/dto"
)

// Histórico de visitas de um cliente, mais recente primeiro.
type ListVisitsByCliente struct {
	repo schedule.Repository
}

func NewListVisitsByCliente(
	repo schedule.Repository,
) *ListVisitsByCliente {
	return &ListVisitsByCliente{
		repo: repo,
	}
}

func (uc *ListVisitsByCliente) Execute(
	ctx context.Context,
	clienteID uint,
) ([]dto.VisitListDTO, error) {

	visits, err := uc.repo.ListVisitsByCliente(ctx, clienteID)
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
