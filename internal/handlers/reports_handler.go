package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/httperr"
	infraRepo "github.com/imobflow/imob-crm-api/internal/infra/repository"
	"github.com/imobflow/imob-crm-api/internal/reports"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type ReportsHandler struct {
	db *gorm.DB
}

func NewReportsHandler(db *gorm.DB) *ReportsHandler {
	return &ReportsHandler{db: db}
}

func (h *ReportsHandler) monthlyParams(c *gin.Context) (int, int, bool) {
	now := timezone.Now()

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		httperr.BadRequest(c, "invalid_period", "Ano inválido.")
		return 0, 0, false
	}

	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		httperr.BadRequest(c, "invalid_period", "Mês inválido.")
		return 0, 0, false
	}

	return year, month, true
}

// ======================================================
// MONTHLY (JSON)
// ======================================================

// Monthly responde GET /api/reports/monthly. Somente admin.
func (h *ReportsHandler) Monthly(c *gin.Context) {
	year, month, ok := h.monthlyParams(c)
	if !ok {
		return
	}

	svc := reports.NewService(infraRepo.NewAnalyticsGormRepository(h.db))

	report, err := svc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		mapBusinessError(c, err, "failed_to_build_report", "Erro ao gerar relatório.")
		return
	}

	c.JSON(http.StatusOK, report)
}

// ======================================================
// MONTHLY (PDF)
// ======================================================

// MonthlyPDF responde GET /api/reports/monthly/pdf com o mesmo relatório
// renderizado para download.
func (h *ReportsHandler) MonthlyPDF(c *gin.Context) {
	year, month, ok := h.monthlyParams(c)
	if !ok {
		return
	}

	svc := reports.NewService(infraRepo.NewAnalyticsGormRepository(h.db))

	report, err := svc.Monthly(c.Request.Context(), year, month)
	if err != nil {
		mapBusinessError(c, err, "failed_to_build_report", "Erro ao gerar relatório.")
		return
	}

	pdf, err := reports.RenderMonthlyPDF(report)
	if err != nil {
		httperr.Internal(c, "failed_to_render_pdf", "Erro ao renderizar PDF.")
		return
	}

	filename := fmt.Sprintf("relatorio-%04d-%02d.pdf", year, month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
