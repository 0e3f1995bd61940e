package jobs

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/validators"
)

// ValidationProcessor confere, cliente a cliente, se o telefone tem conta de
// WhatsApp e grava o resultado no cadastro.
type ValidationProcessor struct {
	store   Store
	gateway Gateway
}

func NewValidationProcessor(store Store, gateway Gateway) *ValidationProcessor {
	return &ValidationProcessor{
		store:   store,
		gateway: gateway,
	}
}

func (p *ValidationProcessor) Kind() job.Kind {
	return job.KindSequentialValidation
}

func (p *ValidationProcessor) Items(ctx context.Context) ([]Item, error) {
	return p.store.ListValidationTargets(ctx)
}

func (p *ValidationProcessor) Process(ctx context.Context, item Item) (bool, error) {
	number := validators.NormalizePhoneBR(item.Telefone)
	if number == "" {
		// telefone que não normaliza não tem como validar
		return true, nil
	}

	has, err := p.gateway.CheckNumber(ctx, number)
	if err != nil {
		return false, err
	}

	if err := p.store.SetWhatsappStatus(ctx, item.ClienteID, has, timezone.Now()); err != nil {
		return false, err
	}

	return false, nil
}
