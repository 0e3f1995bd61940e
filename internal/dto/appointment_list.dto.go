package dto

import "time"

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	Tipo        string    `json:"tipo"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	ClienteID   uint      `json:"cliente_id"`
	ClienteNome string    `json:"cliente_nome"`
	Notes       string    `json:"notes"`
}

type VisitListDTO struct {
	ID             uint      `json:"id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	DurationMin    int       `json:"duration_min"`
	Status         string    `json:"status"`
	ClienteID      uint      `json:"cliente_id"`
	ClienteNome    string    `json:"cliente_nome"`
	ImovelEndereco string    `json:"imovel_endereco"`
	ImovelRef      string    `json:"imovel_ref"`
}
