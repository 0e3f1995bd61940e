package models

import "time"

type ClienteNote struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ClienteID uint    `gorm:"index" json:"cliente_id"`
	Cliente   Cliente `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	Texto string `gorm:"type:text;not null" json:"texto"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
