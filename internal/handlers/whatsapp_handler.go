package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	infraRepo "github.com/imobflow/imob-crm-api/internal/infra/repository"
	"github.com/imobflow/imob-crm-api/internal/jobs"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/storage"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/validators"
	"github.com/imobflow/imob-crm-api/internal/whatsapp"
)

// ======================================================
// HANDLER
// ======================================================

type WhatsappHandler struct {
	db       *gorm.DB
	client   *whatsapp.Client
	runner   *jobs.Runner
	uploader *storage.Uploader
	audit    *audit.Dispatcher
}

func NewWhatsappHandler(
	db *gorm.DB,
	client *whatsapp.Client,
	runner *jobs.Runner,
	uploader *storage.Uploader,
	dispatcher *audit.Dispatcher,
) *WhatsappHandler {
	return &WhatsappHandler{
		db:       db,
		client:   client,
		runner:   runner,
		uploader: uploader,
		audit:    dispatcher,
	}
}

// ======================================================
// CONEXÃO
// ======================================================

// Connection responde GET /api/whatsapp/connection com o último estado
// persistido da instância. Não fala com o gateway.
func (h *WhatsappHandler) Connection(c *gin.Context) {
	name := h.client.Instance()

	var inst models.WhatsappInstance
	if err := h.db.Where("name = ?", name).First(&inst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// nunca checada: responde o default sem criar linha
			c.JSON(http.StatusOK, models.WhatsappInstance{
				Name:  name,
				State: whatsapp.StateDisconnected,
			})
			return
		}
		httperr.Internal(c, "failed_to_load_instance", "Erro ao consultar instância.")
		return
	}

	c.JSON(http.StatusOK, inst)
}

// CheckConnection responde POST /api/whatsapp/connection/check: consulta o
// gateway e grava o estado novo na instância.
func (h *WhatsappHandler) CheckConnection(c *gin.Context) {
	state, err := h.client.ConnectionState(c.Request.Context())
	if err != nil {
		httperr.BadGateway(c, "whatsapp_unavailable", "Gateway de WhatsApp indisponível.")
		return
	}

	name := h.client.Instance()
	now := timezone.Now()

	var inst models.WhatsappInstance
	if err := h.db.Where("name = ?", name).First(&inst).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Internal(c, "failed_to_load_instance", "Erro ao consultar instância.")
			return
		}
		inst = models.WhatsappInstance{Name: name}
	}

	inst.State = state
	inst.LastCheckedAt = &now

	if err := h.db.Save(&inst).Error; err != nil {
		httperr.Internal(c, "failed_to_save_instance", "Erro ao salvar instância.")
		return
	}

	c.JSON(http.StatusOK, inst)
}

// ======================================================
// ENVIO DE MENSAGEM
// ======================================================

type SendMessageRequest struct {
	ClienteID uint   `json:"cliente_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *WhatsappHandler) SendMessage(c *gin.Context) {
	userID := requesterID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		httperr.BadRequest(c, "empty_message", "Mensagem não pode ser vazia.")
		return
	}

	var cliente models.Cliente
	q := h.db.Where("id = ?", req.ClienteID)
	if !isAdmin(c) {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&cliente).Error; err != nil {
		httperr.NotFound(c, "cliente_not_found", "Cliente não encontrado.")
		return
	}

	number := validators.NormalizePhoneBR(cliente.Telefone)
	if number == "" {
		httperr.BadRequest(c, "invalid_phone", "Cliente sem telefone válido.")
		return
	}

	// validação explícita de que o número não tem WhatsApp bloqueia o envio
	if cliente.TemWhatsapp != nil && !*cliente.TemWhatsapp {
		httperr.BadRequest(c, "cliente_sem_whatsapp", "Cliente não tem WhatsApp.")
		return
	}

	if _, err := h.client.EnsureConnected(c.Request.Context()); err != nil {
		if errors.Is(err, whatsapp.ErrDisconnected) {
			httperr.BadRequest(c, "whatsapp_disconnected", "Instância de WhatsApp desconectada.")
			return
		}
		httperr.BadGateway(c, "whatsapp_unavailable", "Gateway de WhatsApp indisponível.")
		return
	}

	if err := h.client.SendText(c.Request.Context(), number, req.Message); err != nil {
		httperr.BadGateway(c, "whatsapp_send_failed", "Erro ao enviar mensagem.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "whatsapp_message_sent",
		Entity:   "cliente",
		EntityID: &cliente.ID,
	})

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// ======================================================
// JOBS SEQUENCIAIS
// ======================================================

func parseJobKind(raw string) (job.Kind, bool) {
	switch raw {
	case "validation":
		return job.KindSequentialValidation, true
	case "profile-pictures":
		return job.KindSequentialProfilePictures, true
	}
	return "", false
}

func (h *WhatsappHandler) processorFor(kind job.Kind) jobs.Processor {
	store := infraRepo.NewJobsGormStore(h.db)

	if kind == job.KindSequentialValidation {
		return jobs.NewValidationProcessor(store, h.client)
	}
	return jobs.NewProfilePicturesProcessor(store, h.client, h.uploader)
}

// StartJob responde POST /api/whatsapp/jobs/:kind/start
func (h *WhatsappHandler) StartJob(c *gin.Context) {
	kind, ok := parseJobKind(c.Param("kind"))
	if !ok {
		httperr.BadRequest(c, "invalid_job_kind", "Tipo de job inválido.")
		return
	}

	snap, err := h.runner.Start(c.Request.Context(), h.processorFor(kind))
	if err != nil {
		mapBusinessError(c, err, "failed_to_start_job", "Erro ao iniciar job.")
		return
	}

	userID := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "whatsapp_job_started",
		Entity:   "job",
		Metadata: map[string]any{"kind": string(kind), "job_id": snap.JobID},
	})

	c.JSON(http.StatusAccepted, snap)
}

// StopJob responde POST /api/whatsapp/jobs/:kind/stop
func (h *WhatsappHandler) StopJob(c *gin.Context) {
	kind, ok := parseJobKind(c.Param("kind"))
	if !ok {
		httperr.BadRequest(c, "invalid_job_kind", "Tipo de job inválido.")
		return
	}

	snap, err := h.runner.Stop(kind)
	if err != nil {
		mapBusinessError(c, err, "failed_to_stop_job", "Erro ao parar job.")
		return
	}

	userID := requesterID(c)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "whatsapp_job_stopped",
		Entity:   "job",
		Metadata: map[string]any{"kind": string(kind), "job_id": snap.JobID},
	})

	c.JSON(http.StatusOK, snap)
}

// JobStatus responde GET /api/whatsapp/jobs/:kind/status
func (h *WhatsappHandler) JobStatus(c *gin.Context) {
	kind, ok := parseJobKind(c.Param("kind"))
	if !ok {
		httperr.BadRequest(c, "invalid_job_kind", "Tipo de job inválido.")
		return
	}

	c.JSON(http.StatusOK, h.runner.Status(kind))
}
