package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	domain "github.com/imobflow/imob-crm-api/internal/domain/cliente"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/httpresp"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type ClienteHandler struct {
	db        *gorm.DB
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewClienteHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *ClienteHandler {
	return &ClienteHandler{
		db:        db,
		audit:     dispatcher,
		dashboard: dashboard,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateClienteRequest struct {
	Nome     string `json:"nome" binding:"required"`
	Telefone string `json:"telefone"`
	Email    string `json:"email"`

	Origem          string `json:"origem"`
	Interesse       string `json:"interesse"`
	ImovelInteresse string `json:"imovel_interesse"`
	FaixaValor      string `json:"faixa_valor"`

	// admin pode atribuir o lead a outro corretor
	UserID uint `json:"user_id"`
}

type UpdateClienteRequest struct {
	Nome     *string `json:"nome"`
	Telefone *string `json:"telefone"`
	Email    *string `json:"email"`

	Origem          *string `json:"origem"`
	Interesse       *string `json:"interesse"`
	ImovelInteresse *string `json:"imovel_interesse"`
	FaixaValor      *string `json:"faixa_valor"`

	UserID *uint `json:"user_id"`
}

type UpdateClienteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

// corretor só enxerga os próprios leads; admin enxerga todos
func (h *ClienteHandler) scoped(c *gin.Context, q *gorm.DB) *gorm.DB {
	if isAdmin(c) {
		return q
	}
	return q.Where("user_id = ?", requesterID(c))
}

func (h *ClienteHandler) findScoped(c *gin.Context, id uint) (*models.Cliente, bool) {
	var cl models.Cliente
	if err := h.scoped(c, h.db.Where("id = ?", id)).First(&cl).Error; err != nil {
		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return nil, false
	}
	return &cl, true
}

// ======================================================
// LIST
// ======================================================

func (h *ClienteHandler) List(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	origem := strings.TrimSpace(c.Query("origem"))
	interesse := strings.TrimSpace(c.Query("interesse"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	pg := httpresp.PaginationFrom(c)

	q := h.scoped(c, h.db.Model(&models.Cliente{}))

	if isAdmin(c) {
		if userIDStr := c.Query("user_id"); userIDStr != "" {
			if userID, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
				q = q.Where("user_id = ?", userID)
			}
		}
	}

	if status != "" {
		q = q.Where("status = ?", status)
	}

	if origem != "" {
		q = q.Where("origem = ?", origem)
	}

	if interesse != "" {
		q = q.Where("interesse = ?", interesse)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(nome) LIKE ? OR telefone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_count_clientes", "Erro ao contar clientes.")
		return
	}

	var clientes []models.Cliente
	if err := q.
		Order("created_at DESC").
		Limit(pg.Limit).
		Offset(pg.Offset()).
		Find(&clientes).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clientes", "Erro ao listar clientes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":     pg.Page,
		"limit":    pg.Limit,
		"total":    total,
		"clientes": clientes,
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *ClienteHandler) Create(c *gin.Context) {
	var req CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	origem := req.Origem
	if origem == "" {
		origem = domain.DefaultOrigem()
	}
	if !domain.ValidOrigem(origem) {
		httperr.BadRequest(c, "invalid_origem", "Origem inválida.")
		return
	}

	if !domain.ValidInteresse(req.Interesse) {
		httperr.BadRequest(c, "invalid_interesse", "Interesse inválido.")
		return
	}

	telefone := validators.NormalizePhoneBR(req.Telefone)
	if req.Telefone != "" && telefone == "" {
		httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
		return
	}

	ownerID := requesterID(c)
	if isAdmin(c) && req.UserID != 0 {
		ownerID = req.UserID
	}

	cl := models.Cliente{
		UserID:          ownerID,
		Nome:            strings.TrimSpace(req.Nome),
		Telefone:        telefone,
		Email:           validators.NormalizeEmail(req.Email),
		Origem:          origem,
		Interesse:       req.Interesse,
		ImovelInteresse: req.ImovelInteresse,
		FaixaValor:      req.FaixaValor,
		Status:          string(domain.InitialStatus()),
	}

	if err := h.db.Create(&cl).Error; err != nil {
		if httperr.IsFKViolation(err) {
			httperr.BadRequest(c, "user_not_found", "Corretor não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_create_cliente", "Erro ao criar cliente.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), cl.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "cliente_created",
		Entity:   "cliente",
		EntityID: &cl.ID,
	})

	c.JSON(http.StatusCreated, cl)
}

// ======================================================
// GET
// ======================================================

func (h *ClienteHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var cl models.Cliente
	if err := h.scoped(c, h.db.Preload("User").Where("id = ?", id)).
		First(&cl).Error; err != nil {

		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return
	}

	c.JSON(http.StatusOK, cl)
}

// ======================================================
// UPDATE (PATCH)
// ======================================================

func (h *ClienteHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cl, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	var req UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Nome != nil {
		nome := strings.TrimSpace(*req.Nome)
		if nome == "" {
			httperr.BadRequest(c, "invalid_nome", "Nome não pode ficar vazio.")
			return
		}
		cl.Nome = nome
	}

	if req.Telefone != nil {
		telefone := validators.NormalizePhoneBR(*req.Telefone)
		if *req.Telefone != "" && telefone == "" {
			httperr.BadRequest(c, "invalid_phone", "Telefone inválido.")
			return
		}

		// trocou de número: a verificação de WhatsApp anterior não vale mais
		if telefone != cl.Telefone {
			cl.TemWhatsapp = nil
			cl.WhatsappVerificadoEm = nil
			cl.FotoPerfilURL = ""
			cl.FotoPerfilKey = ""
		}
		cl.Telefone = telefone
	}

	if req.Email != nil {
		cl.Email = validators.NormalizeEmail(*req.Email)
	}

	if req.Origem != nil {
		if !domain.ValidOrigem(*req.Origem) {
			httperr.BadRequest(c, "invalid_origem", "Origem inválida.")
			return
		}
		cl.Origem = *req.Origem
	}

	if req.Interesse != nil {
		if !domain.ValidInteresse(*req.Interesse) {
			httperr.BadRequest(c, "invalid_interesse", "Interesse inválido.")
			return
		}
		cl.Interesse = *req.Interesse
	}

	if req.ImovelInteresse != nil {
		cl.ImovelInteresse = *req.ImovelInteresse
	}

	if req.FaixaValor != nil {
		cl.FaixaValor = *req.FaixaValor
	}

	if req.UserID != nil && isAdmin(c) {
		cl.UserID = *req.UserID
	}

	if err := h.db.Save(cl).Error; err != nil {
		if httperr.IsFKViolation(err) {
			httperr.BadRequest(c, "user_not_found", "Corretor não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_update_cliente", "Erro ao atualizar cliente.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), cl.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "cliente_updated",
		Entity:   "cliente",
		EntityID: &cl.ID,
	})

	c.JSON(http.StatusOK, cl)
}

// ======================================================
// UPDATE STATUS (funil)
// ======================================================

func (h *ClienteHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cl, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	var req UpdateClienteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	from := cl.Status

	if err := domain.ChangeStatus(cl, domain.Status(req.Status)); err != nil {
		mapBusinessError(c, err, "failed_to_change_status", "Erro ao mudar etapa.")
		return
	}

	if err := h.db.Save(cl).Error; err != nil {
		httperr.Internal(c, "failed_to_change_status", "Erro ao mudar etapa.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), cl.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "cliente_status_changed",
		Entity:   "cliente",
		EntityID: &cl.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   cl.Status,
		},
	})

	c.JSON(http.StatusOK, cl)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClienteHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cl, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if err := h.db.Delete(cl).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_cliente", "Erro ao excluir cliente.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), cl.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "cliente_deleted",
		Entity:   "cliente",
		EntityID: &id,
		Metadata: map[string]any{"nome": cl.Nome},
	})

	c.Status(http.StatusNoContent)
}
