package models

import "time"

// Visita a imóvel. Diferente do Appointment genérico, guarda o imóvel
// visitado e o retorno do cliente após a visita.
type Visit struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	ClienteID uint    `json:"cliente_id"`
	Cliente   Cliente `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"cliente"`

	ImovelEndereco string `gorm:"size:255;not null" json:"imovel_endereco"`
	ImovelRef      string `gorm:"size:50" json:"imovel_ref"`

	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `gorm:"default:60" json:"duration_min"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	Feedback       string `gorm:"type:text" json:"feedback"`
	InteresseNivel string `gorm:"size:20" json:"interesse_nivel"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
