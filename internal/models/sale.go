package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	ClienteID uint    `json:"cliente_id"`
	Cliente   Cliente `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"cliente"`

	ImovelEndereco string `gorm:"size:255;not null" json:"imovel_endereco"`
	ImovelRef      string `gorm:"size:50" json:"imovel_ref"`

	Valor              decimal.Decimal `gorm:"type:numeric(14,2)" json:"valor"`
	ComissaoPercentual decimal.Decimal `gorm:"type:numeric(5,2)" json:"comissao_percentual"`
	ComissaoValor      decimal.Decimal `gorm:"type:numeric(14,2)" json:"comissao_valor"`

	DataVenda time.Time `json:"data_venda"`
	Status    string    `gorm:"size:20;default:'pending'" json:"status"`

	// Link de pagamento do sinal de reserva (Mercado Pago)
	PaymentRef  string `gorm:"size:100" json:"payment_ref"`
	PaymentLink string `gorm:"size:500" json:"payment_link"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
