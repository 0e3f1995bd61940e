package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/middleware"
)

const roleAdmin = "admin"

func requesterID(c *gin.Context) uint {
	return c.MustGet(middleware.ContextUserID).(uint)
}

func requesterRole(c *gin.Context) string {
	role, _ := c.Get(middleware.ContextUserRole)
	s, _ := role.(string)
	return s
}

func isAdmin(c *gin.Context) bool {
	return requesterRole(c) == roleAdmin
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// --------------------------------------------------
// Mapeamento de erros de negócio → HTTP
// --------------------------------------------------

// códigos que não são 400; o resto cai em BadRequest
var businessStatus = map[string]func(*gin.Context, string, string){
	"cliente_not_found":     httperr.NotFound,
	"appointment_not_found": httperr.NotFound,
	"visit_not_found":       httperr.NotFound,
	"sale_not_found":        httperr.NotFound,
	"time_conflict":         httperr.Conflict,
	"job_already_running":   httperr.Conflict,
	"whatsapp_unavailable":  httperr.BadGateway,
}

var businessMessages = map[string]string{
	"cliente_not_found":        "Cliente não encontrado.",
	"appointment_not_found":    "Compromisso não encontrado.",
	"visit_not_found":          "Visita não encontrada.",
	"sale_not_found":           "Venda não encontrada.",
	"invalid_tipo":             "Tipo de compromisso inválido.",
	"invalid_date_or_time":     "Data ou hora inválida.",
	"invalid_period":           "Período inválido.",
	"in_the_past":              "Horário no passado.",
	"outside_working_hours":    "Fora do horário de atendimento.",
	"time_conflict":            "Conflito de horário.",
	"invalid_status":           "Etapa inválida.",
	"invalid_transition":       "Mudança de etapa não permitida.",
	"invalid_state":            "Operação não permitida no estado atual.",
	"invalid_interesse_nivel":  "Nível de interesse inválido.",
	"imovel_endereco_required": "Endereço do imóvel é obrigatório.",
	"job_already_running":      "Já existe um processamento em andamento.",
	"job_not_running":          "Nenhum processamento em andamento.",
	"whatsapp_disconnected":    "WhatsApp desconectado.",
	"whatsapp_unavailable":     "Gateway WhatsApp indisponível.",
}

// mapBusinessError traduz um BusinessError vindo dos usecases. Erros que não
// são de negócio caem no fallback 500 informado pelo chamador.
func mapBusinessError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, fallbackCode, fallbackMsg)
		return
	}

	msg := businessMessages[be.Code]
	if msg == "" {
		msg = "Operação inválida."
	}

	if write, ok := businessStatus[be.Code]; ok {
		write(c, be.Code, msg)
		return
	}

	httperr.BadRequest(c, be.Code, msg)
}
