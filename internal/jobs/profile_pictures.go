package jobs

import (
	"context"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/storage"
	"github.com/imobflow/imob-crm-api/internal/validators"
)

// ProfilePicturesProcessor busca a foto de perfil de WhatsApp de cada
// cliente validado, gera o thumbnail webp e sobe para o bucket. Sem uploader
// configurado, guarda a URL devolvida pelo gateway.
type ProfilePicturesProcessor struct {
	store    Store
	gateway  Gateway
	uploader *storage.Uploader
}

func NewProfilePicturesProcessor(store Store, gateway Gateway, uploader *storage.Uploader) *ProfilePicturesProcessor {
	return &ProfilePicturesProcessor{
		store:    store,
		gateway:  gateway,
		uploader: uploader,
	}
}

func (p *ProfilePicturesProcessor) Kind() job.Kind {
	return job.KindSequentialProfilePictures
}

func (p *ProfilePicturesProcessor) Items(ctx context.Context) ([]Item, error) {
	return p.store.ListPictureTargets(ctx)
}

func (p *ProfilePicturesProcessor) Process(ctx context.Context, item Item) (bool, error) {
	number := validators.NormalizePhoneBR(item.Telefone)
	if number == "" {
		return true, nil
	}

	url, err := p.gateway.ProfilePictureURL(ctx, number)
	if err != nil {
		return false, err
	}
	if url == "" {
		// número sem foto ou com privacidade fechada
		return true, nil
	}

	finalURL, key := url, ""

	if p.uploader.Enabled() {
		raw, err := p.gateway.FetchImage(ctx, url)
		if err != nil {
			return false, err
		}

		thumb, err := storage.ToWebpThumbnail(raw)
		if err != nil {
			return false, err
		}

		finalURL, key, err = p.uploader.UploadProfilePicture(ctx, item.ClienteID, thumb)
		if err != nil {
			return false, err
		}
	}

	if err := p.store.SetProfilePicture(ctx, item.ClienteID, finalURL, key); err != nil {
		return false, err
	}

	return false, nil
}
