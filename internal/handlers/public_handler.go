package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	domain "github.com/imobflow/imob-crm-api/internal/domain/cliente"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler atende o formulário do site, sem autenticação.
type PublicHandler struct {
	db        *gorm.DB
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewPublicHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *PublicHandler {
	return &PublicHandler{
		db:        db,
		audit:     dispatcher,
		dashboard: dashboard,
	}
}

// ======================================================
// DTOs
// ======================================================

type PublicLeadRequest struct {
	Nome     string `json:"nome" binding:"required"`
	Telefone string `json:"telefone" binding:"required"`
	Email    string `json:"email"`

	Interesse       string `json:"interesse"`
	ImovelInteresse string `json:"imovel_interesse"`
	FaixaValor      string `json:"faixa_valor"`

	// vira a primeira anotação do lead
	Mensagem string `json:"mensagem"`
}

// ======================================================
// LEAD CAPTURE
// ======================================================

// CreateLead responde POST /public/leads. O lead entra com origem site e é
// distribuído para o corretor ativo com menos clientes na carteira.
func (h *PublicHandler) CreateLead(c *gin.Context) {
	var req PublicLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	telefone := validators.NormalizePhoneBR(req.Telefone)
	if telefone == "" {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	if !domain.ValidInteresse(req.Interesse) {
		httperr.BadRequest(c, "invalid_interesse", "Interesse inválido.")
		return
	}

	// --------------------------------------------------
	// Distribuição: corretor ativo com menos leads
	// --------------------------------------------------

	var owner models.User
	err := h.db.
		Model(&models.User{}).
		Joins("LEFT JOIN clientes ON clientes.user_id = users.id").
		Where("users.active = ?", true).
		Group("users.id").
		Order("COUNT(clientes.id) ASC, users.id ASC").
		First(&owner).Error
	if err != nil {
		httperr.Internal(c, "no_available_user", "Nenhum corretor disponível.")
		return
	}

	cliente := models.Cliente{
		UserID:          owner.ID,
		Nome:            req.Nome,
		Telefone:        telefone,
		Email:           validators.NormalizeEmail(req.Email),
		Origem:          "site",
		Interesse:       req.Interesse,
		ImovelInteresse: req.ImovelInteresse,
		FaixaValor:      req.FaixaValor,
		Status:          string(domain.InitialStatus()),
	}

	if err := h.db.Create(&cliente).Error; err != nil {
		httperr.Internal(c, "failed_to_create_lead", "Erro ao registrar contato.")
		return
	}

	// mensagem do formulário fica registrada como anotação do corretor dono
	if msg := strings.TrimSpace(req.Mensagem); msg != "" {
		note := models.ClienteNote{
			ClienteID: cliente.ID,
			UserID:    owner.ID,
			Texto:     msg,
		}
		_ = h.db.Create(&note).Error
	}

	h.dashboard.Invalidate(c.Request.Context(), owner.ID)

	h.audit.Dispatch(audit.Event{
		Action:   "lead_captured",
		Entity:   "cliente",
		EntityID: &cliente.ID,
		Metadata: map[string]any{"origem": cliente.Origem, "user_id": owner.ID},
	})

	c.JSON(http.StatusCreated, gin.H{
		"id":     cliente.ID,
		"status": cliente.Status,
	})
}
