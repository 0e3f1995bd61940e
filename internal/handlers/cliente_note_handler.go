package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/httpresp"
	"github.com/imobflow/imob-crm-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type ClienteNoteHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClienteNoteHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ClienteNoteHandler {
	return &ClienteNoteHandler{
		db:    db,
		audit: dispatcher,
	}
}

type CreateNoteRequest struct {
	Texto string `json:"texto" binding:"required"`
}

// corretor só mexe nas notas dos próprios leads
func (h *ClienteNoteHandler) loadCliente(c *gin.Context, clienteID uint) (*models.Cliente, bool) {
	q := h.db.Where("id = ?", clienteID)
	if !isAdmin(c) {
		q = q.Where("user_id = ?", requesterID(c))
	}

	var cl models.Cliente
	if err := q.First(&cl).Error; err != nil {
		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return nil, false
	}
	return &cl, true
}

// ======================================================
// LIST
// ======================================================

func (h *ClienteNoteHandler) List(c *gin.Context) {
	clienteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, ok := h.loadCliente(c, clienteID); !ok {
		return
	}

	var notes []models.ClienteNote
	if err := h.db.
		Preload("User").
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {

		httperr.Internal(c, "failed_to_list_notes", "Erro ao listar anotações.")
		return
	}

	httpresp.List(c, notes)
}

// ======================================================
// CREATE
// ======================================================

func (h *ClienteNoteHandler) Create(c *gin.Context) {
	clienteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cl, ok := h.loadCliente(c, clienteID)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	texto := strings.TrimSpace(req.Texto)
	if texto == "" {
		httperr.BadRequest(c, "empty_note", "Anotação não pode ficar vazia.")
		return
	}

	note := models.ClienteNote{
		ClienteID: cl.ID,
		UserID:    requesterID(c),
		Texto:     texto,
	}

	if err := h.db.Create(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_create_note", "Erro ao criar anotação.")
		return
	}

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "note_created",
		Entity:   "cliente_note",
		EntityID: &note.ID,
	})

	c.JSON(http.StatusCreated, note)
}

// ======================================================
// DELETE
// ======================================================

func (h *ClienteNoteHandler) Delete(c *gin.Context) {
	clienteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	noteID, ok := parseIDParam(c, "noteId")
	if !ok {
		return
	}

	if _, ok := h.loadCliente(c, clienteID); !ok {
		return
	}

	var note models.ClienteNote
	if err := h.db.
		Where("id = ? AND cliente_id = ?", noteID, clienteID).
		First(&note).Error; err != nil {

		httperr.NotFound(c, "note_not_found", "Anotação não encontrada.")
		return
	}

	// só o autor da anotação ou um admin pode removê-la
	if note.UserID != requesterID(c) && !isAdmin(c) {
		httperr.Forbidden(c, "not_note_owner", "Sem permissão para excluir esta anotação.")
		return
	}

	if err := h.db.Delete(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_note", "Erro ao excluir anotação.")
		return
	}

	requester := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &requester,
		Action:   "note_deleted",
		Entity:   "cliente_note",
		EntityID: &noteID,
	})

	c.Status(http.StatusNoContent)
}
