package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/cache"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	infraRepo "github.com/imobflow/imob-crm-api/internal/infra/repository"
	"github.com/imobflow/imob-crm-api/internal/usecase/dashboard"
)

// ======================================================
// HANDLER
// ======================================================

type DashboardHandler struct {
	db        *gorm.DB
	dashCache *cache.Dashboard
}

func NewDashboardHandler(db *gorm.DB, dashCache *cache.Dashboard) *DashboardHandler {
	return &DashboardHandler{db: db, dashCache: dashCache}
}

// ======================================================
// SUMMARY
// ======================================================

// Summary responde GET /api/dashboard/summary.
//
// Corretor enxerga só os próprios números. Admin enxerga a imobiliária
// inteira por padrão e pode filtrar por corretor via user_id.
func (h *DashboardHandler) Summary(c *gin.Context) {
	userID := requesterID(c)

	if isAdmin(c) {
		userID = 0
		if raw := c.Query("user_id"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				httperr.BadRequest(c, "invalid_user_id", "Corretor inválido.")
				return
			}
			userID = uint(parsed)
		}
	}

	in := dashboard.GetSummaryInput{
		UserID: userID,
		Period: c.DefaultQuery("period", "today"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	repo := infraRepo.NewAnalyticsGormRepository(h.db)
	uc := dashboard.NewGetSummary(repo, h.dashCache)

	out, err := uc.Execute(c.Request.Context(), in)
	if err != nil {
		mapBusinessError(c, err, "failed_to_load_dashboard", "Erro ao carregar dashboard.")
		return
	}

	c.JSON(http.StatusOK, out)
}
