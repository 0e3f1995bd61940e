package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	infraRepo "github.com/imobflow/imob-crm-api/internal/infra/repository"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/usecase/visit"
)

// ======================================================
// HANDLER
// ======================================================

type VisitHandler struct {
	db        *gorm.DB
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewVisitHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *VisitHandler {
	return &VisitHandler{
		db:        db,
		audit:     dispatcher,
		dashboard: dashboard,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateVisitRequest struct {
	ClienteID      uint   `json:"cliente_id" binding:"required"`
	ImovelEndereco string `json:"imovel_endereco" binding:"required"`
	ImovelRef      string `json:"imovel_ref"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	DurationMin    int    `json:"duration_min"`
}

type UpdateVisitRequest struct {
	ImovelEndereco *string `json:"imovel_endereco"`
	ImovelRef      *string `json:"imovel_ref"`
	Date           *string `json:"date"`
	Time           *string `json:"time"`
	DurationMin    *int    `json:"duration_min"`
}

type CompleteVisitRequest struct {
	Feedback       string `json:"feedback"`
	InteresseNivel string `json:"interesse_nivel"`
}

// ======================================================
// CREATE
// ======================================================

func (h *VisitHandler) Create(c *gin.Context) {
	userID := requesterID(c)

	var req CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewCreateVisit(repo, h.audit, h.dashboard)

	v, err := uc.Execute(
		c.Request.Context(),
		visit.CreateVisitInput{
			UserID:         userID,
			ClienteID:      req.ClienteID,
			ImovelEndereco: req.ImovelEndereco,
			ImovelRef:      req.ImovelRef,
			Date:           req.Date,
			Time:           req.Time,
			DurationMin:    req.DurationMin,
		},
	)
	if err != nil {
		mapBusinessError(c, err, "failed_to_create_visit", "Erro ao agendar visita.")
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *VisitHandler) Availability(c *gin.Context) {
	userID := requesterID(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	durationMin, _ := strconv.Atoi(c.DefaultQuery("duration_min", "60"))

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewGetAvailability(repo)

	slots, err := uc.Execute(
		c.Request.Context(),
		schedule.AvailabilityInput{
			UserID:      userID,
			Date:        date,
			DurationMin: durationMin,
		},
	)
	if err != nil {
		httperr.Internal(c, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *VisitHandler) ListByDate(c *gin.Context) {
	userID := requesterID(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewListVisitsByDate(repo)

	items, err := uc.Execute(c.Request.Context(), userID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_visits", "Erro ao listar visitas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":   dateStr,
		"visits": items,
	})
}

func (h *VisitHandler) ListByCliente(c *gin.Context) {
	clienteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// reaproveita o escopo do lead: corretor não enxerga cliente alheio
	q := h.db.Model(&models.Cliente{}).Where("id = ?", clienteID)
	if !isAdmin(c) {
		q = q.Where("user_id = ?", requesterID(c))
	}

	var count int64
	if err := q.Count(&count).Error; err != nil || count == 0 {
		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewListVisitsByCliente(repo)

	items, err := uc.Execute(c.Request.Context(), clienteID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_visits", "Erro ao listar visitas.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cliente_id": clienteID,
		"visits":     items,
	})
}

// ======================================================
// UPDATE (remarcação / campos)
// ======================================================

func (h *VisitHandler) Update(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewUpdateVisit(repo, h.audit, h.dashboard)

	v, err := uc.Execute(
		c.Request.Context(),
		visit.UpdateVisitInput{
			UserID:         userID,
			VisitID:        id,
			ImovelEndereco: req.ImovelEndereco,
			ImovelRef:      req.ImovelRef,
			Date:           req.Date,
			Time:           req.Time,
			DurationMin:    req.DurationMin,
		},
	)
	if err != nil {
		mapBusinessError(c, err, "failed_to_update_visit", "Erro ao atualizar visita.")
		return
	}

	c.JSON(http.StatusOK, v)
}

// ======================================================
// COMPLETE / CANCEL / NO-SHOW
// ======================================================

func (h *VisitHandler) Complete(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CompleteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewCompleteVisit(repo, h.audit, h.dashboard)

	v, err := uc.Execute(
		c.Request.Context(),
		visit.CompleteVisitInput{
			UserID:         userID,
			VisitID:        id,
			Feedback:       req.Feedback,
			InteresseNivel: req.InteresseNivel,
		},
	)
	if err != nil {
		mapBusinessError(c, err, "failed_to_complete_visit", "Erro ao concluir visita.")
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *VisitHandler) Cancel(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewCancelVisit(repo, h.audit, h.dashboard)

	v, err := uc.Execute(c.Request.Context(), userID, id)
	if err != nil {
		mapBusinessError(c, err, "failed_to_cancel_visit", "Erro ao cancelar visita.")
		return
	}

	c.JSON(http.StatusOK, v)
}

func (h *VisitHandler) NoShow(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewMarkVisitNoShow(repo, h.audit, h.dashboard)

	v, err := uc.Execute(c.Request.Context(), userID, id)
	if err != nil {
		mapBusinessError(c, err, "failed_to_mark_no_show", "Erro ao registrar falta.")
		return
	}

	c.JSON(http.StatusOK, v)
}

// ======================================================
// DELETE
// ======================================================

func (h *VisitHandler) Delete(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := visit.NewDeleteVisit(repo, h.audit, h.dashboard)

	if err := uc.Execute(c.Request.Context(), userID, id); err != nil {
		mapBusinessError(c, err, "failed_to_delete_visit", "Erro ao excluir visita.")
		return
	}

	c.Status(http.StatusNoContent)
}
