package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	infraRepo "github.com/imobflow/imob-crm-api/internal/infra/repository"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db        *gorm.DB
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewAppointmentHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:        db,
		audit:     dispatcher,
		dashboard: dashboard,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClienteID   uint   `json:"cliente_id" binding:"required"`
	Tipo        string `json:"tipo" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	DurationMin int    `json:"duration_min"`
	Notes       string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Tipo        *string `json:"tipo"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	DurationMin *int    `json:"duration_min"`
	Notes       *string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	userID := requesterID(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewCreateAppointment(repo, h.audit, h.dashboard)

	ap, err := uc.Execute(
		c.Request.Context(),
		appointment.CreateAppointmentInput{
			UserID:      userID,
			ClienteID:   req.ClienteID,
			Tipo:        req.Tipo,
			Date:        req.Date,
			Time:        req.Time,
			DurationMin: req.DurationMin,
			Notes:       req.Notes,
		},
	)
	if err != nil {
		mapBusinessError(c, err, "failed_to_create_appointment", "Erro ao criar compromisso.")
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
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
	uc := appointment.NewListAppointmentsByDate(repo)

	items, err := uc.Execute(c.Request.Context(), userID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar compromissos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"appointments": items,
	})
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	userID := requesterID(c)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewListAppointmentsByMonth(repo)

	items, err := uc.Execute(c.Request.Context(), userID, year, month)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Erro ao listar compromissos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": items,
	})
}

// ======================================================
// UPDATE (remarcação / campos)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewUpdateAppointment(repo, h.audit, h.dashboard)

	ap, err := uc.Execute(
		c.Request.Context(),
		appointment.UpdateAppointmentInput{
			UserID:        userID,
			AppointmentID: id,
			Tipo:          req.Tipo,
			Notes:         req.Notes,
			Date:          req.Date,
			Time:          req.Time,
			DurationMin:   req.DurationMin,
		},
	)
	if err != nil {
		mapBusinessError(c, err, "failed_to_update_appointment", "Erro ao atualizar compromisso.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewCancelAppointment(repo, h.audit, h.dashboard)

	ap, err := uc.Execute(c.Request.Context(), userID, id)
	if err != nil {
		mapBusinessError(c, err, "failed_to_cancel_appointment", "Erro ao cancelar compromisso.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewCompleteAppointment(repo, h.audit, h.dashboard)

	ap, err := uc.Execute(c.Request.Context(), userID, id)
	if err != nil {
		mapBusinessError(c, err, "failed_to_complete_appointment", "Erro ao concluir compromisso.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := requesterID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	repo := infraRepo.NewScheduleGormRepository(h.db)
	uc := appointment.NewDeleteAppointment(repo, h.audit, h.dashboard)

	if err := uc.Execute(c.Request.Context(), userID, id); err != nil {
		mapBusinessError(c, err, "failed_to_delete_appointment", "Erro ao excluir compromisso.")
		return
	}

	c.Status(http.StatusNoContent)
}
