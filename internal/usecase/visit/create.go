package visit

import (
	"context"
	"strings"
	"time"

	"github.com/imobflow/imob-crm-api/internal/audit"
	"github.com/imobflow/imob-crm-api/internal/cache"
	domaincliente "github.com/imobflow/imob-crm-api/internal/domain/cliente"
	"github.com/imobflow/imob-crm-api/internal/domain/schedule"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/models"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateVisitInput struct {
	UserID    uint
	ClienteID uint

	ImovelEndereco string
	ImovelRef      string

	Date        string
	Time        string
	DurationMin int
}

// ======================================================
// USE CASE
// ======================================================

type CreateVisit struct {
	repo      schedule.Repository
	audit     *audit.Dispatcher
	dashboard *cache.Dashboard
}

func NewCreateVisit(
	repo schedule.Repository,
	audit *audit.Dispatcher,
	dashboard *cache.Dashboard,
) *CreateVisit {
	return &CreateVisit{
		repo:      repo,
		audit:     audit,
		dashboard: dashboard,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateVisit) Execute(
	ctx context.Context,
	in CreateVisitInput,
) (*models.Visit, error) {

	// --------------------------------------------------
	// 1️⃣ Cliente
	// --------------------------------------------------
	cliente, err := uc.repo.GetCliente(ctx, in.ClienteID)
	if err != nil {
		return nil, httperr.ErrBusiness("cliente_not_found")
	}

	// --------------------------------------------------
	// 2️⃣ Imóvel
	// --------------------------------------------------
	if strings.TrimSpace(in.ImovelEndereco) == "" {
		return nil, httperr.ErrBusiness("imovel_endereco_required")
	}

	// --------------------------------------------------
	// 3️⃣ Data / hora no fuso padrão
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if in.DurationMin <= 0 {
		in.DurationMin = 60
	}
	end := start.Add(time.Duration(in.DurationMin) * time.Minute)

	if start.Before(timezone.Now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	// --------------------------------------------------
	// 4️⃣ Expediente do corretor
	// --------------------------------------------------
	ok, err := uc.repo.IsWithinWorkingHours(ctx, in.UserID, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 5️⃣ Conflito de agenda
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(ctx, in.UserID, start, end, 0, 0); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Criação
	// --------------------------------------------------
	v := &models.Visit{
		UserID:         in.UserID,
		ClienteID:      cliente.ID,
		ImovelEndereco: in.ImovelEndereco,
		ImovelRef:      in.ImovelRef,
		ScheduledAt:    start,
		DurationMin:    in.DurationMin,
		Status:         string(schedule.InitialVisitStatus()),
	}

	if err := uc.repo.CreateVisit(ctx, v); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Funil: cliente com visita marcada avança de etapa
	// --------------------------------------------------
	// melhor esforço: a visita já foi criada, erro aqui não desfaz nada
	if err := domaincliente.ChangeStatus(cliente, domaincliente.StatusVisitaAgendada); err == nil {
		_ = uc.repo.UpdateCliente(ctx, cliente)
	}

	uc.dashboard.Invalidate(ctx, in.UserID)

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "visit_created",
		Entity:   "visit",
		EntityID: &v.ID,
	})

	return v, nil
}
