package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	domaincliente "github.com/imobflow/imob-crm-api/internal/domain/cliente"
	domain "github.com/imobflow/imob-crm-api/internal/domain/sale"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/httpresp"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/payments"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type SaleHandler struct {
	db        *gorm.DB
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
	payments  *payments.MercadoPago
}

func NewSaleHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	dashboard *cache.Dashboard,
	mp *payments.MercadoPago,
) *SaleHandler {
	return &SaleHandler{
		db:        db,
		audit:     dispatcher,
		dashboard: dashboard,
		payments:  mp,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateSaleRequest struct {
	ClienteID      uint   `json:"cliente_id" binding:"required"`
	ImovelEndereco string `json:"imovel_endereco" binding:"required"`
	ImovelRef      string `json:"imovel_ref"`

	// valores em string decimal ("350000.00")
	Valor              string `json:"valor" binding:"required"`
	ComissaoPercentual string `json:"comissao_percentual"`

	DataVenda string `json:"data_venda"` // YYYY-MM-DD, default hoje
}

type UpdateSaleRequest struct {
	ImovelEndereco     *string `json:"imovel_endereco"`
	ImovelRef          *string `json:"imovel_ref"`
	Valor              *string `json:"valor"`
	ComissaoPercentual *string `json:"comissao_percentual"`
	DataVenda          *string `json:"data_venda"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *SaleHandler) scoped(c *gin.Context, q *gorm.DB) *gorm.DB {
	if isAdmin(c) {
		return q
	}
	return q.Where("user_id = ?", requesterID(c))
}

func (h *SaleHandler) findScoped(c *gin.Context, id uint) (*models.Sale, bool) {
	var s models.Sale
	if err := h.scoped(c, h.db.Where("id = ?", id)).First(&s).Error; err != nil {
		httperr.NotFound(c, "sale_not_found", "Venda não encontrada.")
		return nil, false
	}
	return &s, true
}

func parseValor(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// ======================================================
// CREATE
// ======================================================

func (h *SaleHandler) Create(c *gin.Context) {
	userID := requesterID(c)

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var cliente models.Cliente
	clienteQuery := h.db.Where("id = ?", req.ClienteID)
	if !isAdmin(c) {
		clienteQuery = clienteQuery.Where("user_id = ?", userID)
	}
	if err := clienteQuery.First(&cliente).Error; err != nil {
		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return
	}

	valor, ok := parseValor(req.Valor)
	if !ok || valor.IsZero() {
		httperr.BadRequest(c, "invalid_valor", "Valor da venda inválido.")
		return
	}

	comissaoPct := decimal.Zero
	if req.ComissaoPercentual != "" {
		pct, ok := parseValor(req.ComissaoPercentual)
		if !ok || pct.GreaterThan(decimal.NewFromInt(100)) {
			httperr.BadRequest(c, "invalid_comissao", "Percentual de comissão inválido.")
			return
		}
		comissaoPct = pct
	}

	dataVenda := timezone.Now()
	if req.DataVenda != "" {
		d, err := time.ParseInLocation(
			"2006-01-02",
			req.DataVenda,
			timezone.Location(timezone.DefaultTimezone),
		)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data da venda inválida.")
			return
		}
		dataVenda = d
	}

	s := models.Sale{
		UserID:             cliente.UserID,
		ClienteID:          cliente.ID,
		ImovelEndereco:     req.ImovelEndereco,
		ImovelRef:          req.ImovelRef,
		Valor:              valor,
		ComissaoPercentual: comissaoPct,
		DataVenda:          dataVenda,
		Status:             string(domain.InitialStatus()),
	}
	domain.ComputeCommission(&s)

	if err := h.db.Create(&s).Error; err != nil {
		httperr.Internal(c, "failed_to_create_sale", "Erro ao registrar venda.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), s.UserID)

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "sale_created",
		Entity:   "sale",
		EntityID: &s.ID,
		Metadata: map[string]any{"valor": s.Valor.String()},
	})

	c.JSON(http.StatusCreated, s)
}

// ======================================================
// LIST
// ======================================================

func (h *SaleHandler) List(c *gin.Context) {
	status := c.Query("status")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pg := httpresp.PaginationFrom(c)

	q := h.scoped(c, h.db.Model(&models.Sale{}))

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

	loc := timezone.Location(timezone.DefaultTimezone)

	if fromStr != "" {
		if from, err := time.ParseInLocation("2006-01-02", fromStr, loc); err == nil {
			q = q.Where("data_venda >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.ParseInLocation("2006-01-02", toStr, loc); err == nil {
			q = q.Where("data_venda < ?", to.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_count_sales", "Erro ao contar vendas.")
		return
	}

	var sales []models.Sale
	if err := q.
		Preload("Cliente").
		Order("data_venda DESC").
		Limit(pg.Limit).
		Offset(pg.Offset()).
		Find(&sales).Error; err != nil {

		httperr.Internal(c, "failed_to_list_sales", "Erro ao listar vendas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  pg.Page,
		"limit": pg.Limit,
		"total": total,
		"sales": sales,
	})
}

// ======================================================
// GET
// ======================================================

func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var s models.Sale
	if err := h.scoped(c, h.db.Preload("Cliente").Where("id = ?", id)).
		First(&s).Error; err != nil {

		httperr.NotFound(c, "sale_not_found", "Venda não encontrada.")
		return
	}

	c.JSON(http.StatusOK, s)
}

// ======================================================
// UPDATE (somente pendente)
// ======================================================

func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if err := domain.CanEdit(domain.Status(s.Status)); err != nil {
		mapBusinessError(c, err, "failed_to_update_sale", "Erro ao atualizar venda.")
		return
	}

	var req UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.ImovelEndereco != nil {
		if *req.ImovelEndereco == "" {
			httperr.BadRequest(c, "imovel_endereco_required", "Endereço do imóvel é obrigatório.")
			return
		}
		s.ImovelEndereco = *req.ImovelEndereco
	}

	if req.ImovelRef != nil {
		s.ImovelRef = *req.ImovelRef
	}

	if req.Valor != nil {
		valor, ok := parseValor(*req.Valor)
		if !ok || valor.IsZero() {
			httperr.BadRequest(c, "invalid_valor", "Valor da venda inválido.")
			return
		}
		s.Valor = valor
	}

	if req.ComissaoPercentual != nil {
		pct, ok := parseValor(*req.ComissaoPercentual)
		if !ok || pct.GreaterThan(decimal.NewFromInt(100)) {
			httperr.BadRequest(c, "invalid_comissao", "Percentual de comissão inválido.")
			return
		}
		s.ComissaoPercentual = pct
	}

	if req.DataVenda != nil {
		d, err := time.ParseInLocation(
			"2006-01-02",
			*req.DataVenda,
			timezone.Location(timezone.DefaultTimezone),
		)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data da venda inválida.")
			return
		}
		s.DataVenda = d
	}

	domain.ComputeCommission(s)

	if err := h.db.Save(s).Error; err != nil {
		httperr.Internal(c, "failed_to_update_sale", "Erro ao atualizar venda.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), s.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "sale_updated",
		Entity:   "sale",
		EntityID: &s.ID,
	})

	c.JSON(http.StatusOK, s)
}

// ======================================================
// CONFIRM
// ======================================================

func (h *SaleHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if err := domain.Confirm(s, timezone.Now()); err != nil {
		mapBusinessError(c, err, "failed_to_confirm_sale", "Erro ao confirmar venda.")
		return
	}

	// venda confirmada arrasta o cliente para a etapa vendido
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(s).Error; err != nil {
			return err
		}

		var cliente models.Cliente
		if err := tx.First(&cliente, s.ClienteID).Error; err != nil {
			// venda sem cliente (removido): confirma mesmo assim
			return nil
		}

		domaincliente.MarkVendido(&cliente)
		return tx.Save(&cliente).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_confirm_sale", "Erro ao confirmar venda.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), s.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "sale_confirmed",
		Entity:   "sale",
		EntityID: &s.ID,
		Metadata: map[string]any{"valor": s.Valor.String()},
	})

	c.JSON(http.StatusOK, s)
}

// ======================================================
// CANCEL
// ======================================================

func (h *SaleHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if err := domain.Cancel(s, timezone.Now()); err != nil {
		mapBusinessError(c, err, "failed_to_cancel_sale", "Erro ao cancelar venda.")
		return
	}

	if err := h.db.Save(s).Error; err != nil {
		httperr.Internal(c, "failed_to_cancel_sale", "Erro ao cancelar venda.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), s.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "sale_cancelled",
		Entity:   "sale",
		EntityID: &s.ID,
	})

	c.JSON(http.StatusOK, s)
}

// ======================================================
// DELETE
// ======================================================

func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if err := h.db.Delete(s).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_sale", "Erro ao excluir venda.")
		return
	}

	h.dashboard.Invalidate(c.Request.Context(), s.UserID)

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "sale_deleted",
		Entity:   "sale",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// ======================================================
// PAYMENT LINK (sinal de reserva)
// ======================================================

type PaymentLinkRequest struct {
	// valor do sinal; default 5% do valor da venda
	Amount string `json:"amount"`
}

func (h *SaleHandler) CreatePaymentLink(c *gin.Context) {
	if !h.payments.Enabled() {
		httperr.BadRequest(c, "payments_disabled", "Integração de pagamento não configurada.")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, ok := h.findScoped(c, id)
	if !ok {
		return
	}

	if domain.Status(s.Status) == domain.StatusCancelled {
		httperr.BadRequest(c, "invalid_state", "Venda cancelada não recebe sinal.")
		return
	}

	var req PaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	amount := s.Valor.Mul(decimal.NewFromFloat(0.05)).Round(2)
	if req.Amount != "" {
		v, ok := parseValor(req.Amount)
		if !ok || v.IsZero() {
			httperr.BadRequest(c, "invalid_amount", "Valor do sinal inválido.")
			return
		}
		amount = v
	}

	title := fmt.Sprintf("Sinal de reserva - %s", s.ImovelEndereco)

	link, err := h.payments.CreateReservationLink(c.Request.Context(), s.ID, title, amount)
	if err != nil {
		httperr.BadGateway(c, "payment_gateway_error", "Erro ao criar link de pagamento.")
		return
	}

	s.PaymentRef = link.Ref
	s.PaymentLink = link.URL

	if err := h.db.Save(s).Error; err != nil {
		httperr.Internal(c, "failed_to_save_payment_link", "Erro ao salvar link de pagamento.")
		return
	}

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "sale_payment_link_created",
		Entity:   "sale",
		EntityID: &s.ID,
		Metadata: map[string]any{"amount": amount.String()},
	})

	c.JSON(http.StatusCreated, gin.H{
		"payment_ref":  s.PaymentRef,
		"payment_link": s.PaymentLink,
		"amount":       amount.String(),
	})
}
