package dto

// MetricResult compara um número do período atual com o período anterior
// de mesma duração.
type MetricResult struct {
	Current      int64   `json:"current"`
	Previous     int64   `json:"previous"`
	Percentage   float64 `json:"percentage"`
	IsIncreasing bool    `json:"is_increasing"`
}

type DashboardSummaryDTO struct {
	Period string `json:"period"`
	From   string `json:"from"`
	To     string `json:"to"`

	NovosClientes     MetricResult `json:"novos_clientes"`
	Appointments      MetricResult `json:"appointments"`
	VisitasRealizadas MetricResult `json:"visitas_realizadas"`
	Vendas            MetricResult `json:"vendas"`

	// soma de valores de vendas confirmadas do período, em string decimal
	ValorVendido     string `json:"valor_vendido"`
	ValorVendidoPrev string `json:"valor_vendido_prev"`

	// funil por etapa no momento da consulta
	Funil map[string]int64 `json:"funil"`
}
