package jobs

import (
	"context"
	"time"
)

// Store carrega e persiste os clientes alvo dos jobs sequenciais.
type Store interface {
	// clientes com telefone e ainda sem verificação de WhatsApp
	ListValidationTargets(ctx context.Context) ([]Item, error)

	// clientes com WhatsApp confirmado e sem foto de perfil
	ListPictureTargets(ctx context.Context) ([]Item, error)

	SetWhatsappStatus(ctx context.Context, clienteID uint, has bool, checkedAt time.Time) error

	SetProfilePicture(ctx context.Context, clienteID uint, url, key string) error
}

// Gateway é o recorte do cliente de WhatsApp usado pelos processors.
type Gateway interface {
	ConnectionChecker
	CheckNumber(ctx context.Context, number string) (bool, error)
	ProfilePictureURL(ctx context.Context, number string) (string, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
