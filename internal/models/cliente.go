package models

import "time"

// Lead do funil de vendas, vinculado ao corretor responsável. As colunas de
// WhatsApp são preenchidas pelos jobs sequenciais de validação e de foto de perfil.
type Cliente struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	Nome     string `gorm:"size:100;not null" json:"nome"`
	Telefone string `gorm:"size:20" json:"telefone"`
	Email    string `gorm:"size:100" json:"email"`

	Origem          string `gorm:"size:20;default:'outro'" json:"origem"`
	Interesse       string `gorm:"size:20" json:"interesse"`
	ImovelInteresse string `gorm:"size:255" json:"imovel_interesse"`
	FaixaValor      string `gorm:"size:50" json:"faixa_valor"`

	Status string `gorm:"size:20;default:'novo'" json:"status"`

	TemWhatsapp          *bool      `json:"tem_whatsapp"`
	WhatsappVerificadoEm *time.Time `json:"whatsapp_verificado_em"`
	FotoPerfilURL        string     `gorm:"size:500" json:"foto_perfil_url"`
	FotoPerfilKey        string     `gorm:"size:255" json:"foto_perfil_key"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
