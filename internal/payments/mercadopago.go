package payments

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

// Link é o resultado da criação de uma preferência de pagamento.
type Link struct {
	Ref string
	URL string
}

// MercadoPago cria links de pagamento para o sinal de reserva das vendas.
// Sem MP_ACCESS_TOKEN o recurso fica desligado.
type MercadoPago struct {
	prefs preference.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("payments: configurar mercado pago: %w", err)
	}

	return &MercadoPago{prefs: preference.NewClient(cfg)}, nil
}

func (mp *MercadoPago) Enabled() bool {
	return mp != nil && mp.prefs != nil
}

// CreateReservationLink cria a preferência do sinal e devolve a referência
// (ID da preferência) e a URL de checkout.
func (mp *MercadoPago) CreateReservationLink(
	ctx context.Context,
	saleID uint,
	title string,
	amount decimal.Decimal,
) (*Link, error) {

	value, _ := amount.Float64()

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:      title,
				Quantity:   1,
				UnitPrice:  value,
				CurrencyID: "BRL",
			},
		},
		ExternalReference: fmt.Sprintf("sale-%d", saleID),
	}

	resp, err := mp.prefs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("payments: criar preferência: %w", err)
	}

	return &Link{Ref: resp.ID, URL: resp.InitPoint}, nil
}
