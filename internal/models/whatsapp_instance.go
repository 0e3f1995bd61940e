package models

import "time"

// Instância do gateway de WhatsApp. O estado espelha a última consulta
// feita ao gateway externo.
type WhatsappInstance struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	State string `gorm:"size:20;default:'disconnected'" json:"state"`
	Phone string `gorm:"size:20" json:"phone"`

	LastCheckedAt *time.Time `json:"last_checked_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
