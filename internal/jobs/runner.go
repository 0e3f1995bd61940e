package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/metrics"
	"github.com/imobflow/imob-crm-api/internal/timezone"
	"github.com/imobflow/imob-crm-api/internal/whatsapp"
)

// Item é uma unidade de trabalho de um job sequencial (um cliente).
type Item struct {
	ClienteID uint
	Nome      string
	Telefone  string
}

// Processor define um job sequencial: carrega a fila e trata um item por vez.
type Processor interface {
	Kind() job.Kind
	Items(ctx context.Context) ([]Item, error)
	// Process trata um item; skipped marca item pulado sem contar como falha
	Process(ctx context.Context, item Item) (skipped bool, err error)
}

// ConnectionChecker é o recorte do gateway usado pelo runner.
type ConnectionChecker interface {
	EnsureConnected(ctx context.Context) (string, error)
}

// ======================================================
// RUNNER
// ======================================================

// Runner mantém no máximo um job ativo por tipo. Os itens são processados
// estritamente um a um, com pausa fixa entre eles, e a transição para um
// estado terminal acontece uma única vez, liberando worker e timer em
// qualquer caminho de término.
type Runner struct {
	mu   sync.Mutex
	runs map[job.Kind]*run

	gateway       ConnectionChecker
	pause         time.Duration
	maxConsecFail int
	logger        zerolog.Logger
}

type run struct {
	mu       sync.Mutex
	snapshot job.Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRunner(
	gateway ConnectionChecker,
	pause time.Duration,
	maxConsecutiveFailures int,
	logger zerolog.Logger,
) *Runner {
	if pause <= 0 {
		pause = 2500 * time.Millisecond
	}
	if maxConsecutiveFailures <= 0 {
		maxConsecutiveFailures = 5
	}

	return &Runner{
		runs:          make(map[job.Kind]*run),
		gateway:       gateway,
		pause:         pause,
		maxConsecFail: maxConsecutiveFailures,
		logger:        logger,
	}
}

// Start dispara um job do tipo do processor. Enquanto houver um job ativo do
// mesmo tipo, devolve job_already_running; a instância precisa estar
// conectada para o job começar.
func (r *Runner) Start(ctx context.Context, p Processor) (job.Snapshot, error) {
	kind := p.Kind()

	state, err := r.gateway.EnsureConnected(ctx)
	if err != nil {
		if errors.Is(err, whatsapp.ErrDisconnected) {
			snap := job.IdleSnapshot(kind)
			snap.ConnectionState = state
			return snap, httperr.ErrBusiness("whatsapp_disconnected")
		}
		snap := job.IdleSnapshot(kind)
		snap.ConnectionState = state
		return snap, httperr.ErrBusinessCause("whatsapp_unavailable", err)
	}

	r.mu.Lock()
	if existing := r.runs[kind]; existing != nil {
		existing.mu.Lock()
		terminal := existing.snapshot.State.IsTerminal()
		existing.mu.Unlock()

		if !terminal {
			r.mu.Unlock()
			return r.Status(kind), httperr.ErrBusiness("job_already_running")
		}
	}

	now := timezone.Now()
	runCtx, cancel := context.WithCancel(context.Background())

	rn := &run{
		cancel: cancel,
		done:   make(chan struct{}),
		snapshot: job.Snapshot{
			JobID:           uuid.NewString(),
			Kind:            kind,
			State:           job.StateStarting,
			IsRunning:       true,
			StartedAt:       &now,
			ConnectionState: state,
		},
	}
	r.runs[kind] = rn
	r.mu.Unlock()

	metrics.JobsRunning.WithLabelValues(string(kind)).Set(1)
	r.logger.Info().
		Str("kind", string(kind)).
		Str("job_id", rn.snapshot.JobID).
		Msg("job iniciado")

	go r.worker(runCtx, rn, p)

	return r.Status(kind), nil
}

// Stop cancela o job ativo do tipo; o item em andamento termina antes de o
// estado virar stopped.
func (r *Runner) Stop(kind job.Kind) (job.Snapshot, error) {
	r.mu.Lock()
	rn := r.runs[kind]
	r.mu.Unlock()

	if rn == nil {
		return job.IdleSnapshot(kind), httperr.ErrBusiness("job_not_running")
	}

	rn.mu.Lock()
	active := rn.snapshot.State.IsActive()
	cancel := rn.cancel
	rn.mu.Unlock()

	if !active {
		return r.Status(kind), httperr.ErrBusiness("job_not_running")
	}

	cancel()
	return r.Status(kind), nil
}

// Status devolve o snapshot atual do job; idle quando nenhum rodou ainda.
func (r *Runner) Status(kind job.Kind) job.Snapshot {
	r.mu.Lock()
	rn := r.runs[kind]
	r.mu.Unlock()

	if rn == nil {
		return job.IdleSnapshot(kind)
	}

	rn.mu.Lock()
	defer rn.mu.Unlock()

	snap := rn.snapshot
	if !snap.State.IsTerminal() && snap.StartedAt != nil {
		snap.ElapsedSeconds = time.Since(*snap.StartedAt).Seconds()
	}
	return snap
}

// ======================================================
// WORKER
// ======================================================

func (r *Runner) worker(ctx context.Context, rn *run, p Processor) {
	defer close(rn.done)

	kind := string(p.Kind())

	items, err := p.Items(ctx)
	if err != nil {
		r.finish(rn, job.StateFailed, "falha ao carregar itens: "+err.Error())
		return
	}

	rn.update(func(s *job.Snapshot) {
		s.Total = len(items)
		s.State = job.StateRunning
	})

	consecFail := 0

	for i, item := range items {
		if ctx.Err() != nil {
			r.finish(rn, job.StateStopped, "")
			return
		}

		rn.update(func(s *job.Snapshot) { s.Current = item.Nome })

		skipped, perr := p.Process(ctx, item)

		// cancelamento no meio do item não conta como falha
		if ctx.Err() != nil {
			r.finish(rn, job.StateStopped, "")
			return
		}

		switch {
		case perr != nil:
			rn.update(func(s *job.Snapshot) {
				s.Processed++
				s.Failed++
				s.LastError = perr.Error()
			})
			metrics.RecordJobItem(kind, "failed")
			r.logger.Warn().
				Err(perr).
				Str("kind", kind).
				Str("cliente", item.Nome).
				Msg("item do job falhou")

			if errors.Is(perr, whatsapp.ErrDisconnected) {
				rn.update(func(s *job.Snapshot) { s.ConnectionState = whatsapp.StateDisconnected })
				r.finish(rn, job.StateFailed, "instância desconectada")
				return
			}

			consecFail++
			if consecFail >= r.maxConsecFail {
				r.finish(rn, job.StateFailed,
					fmt.Sprintf("abortado após %d falhas consecutivas", consecFail))
				return
			}

			// falha genérica pode ser queda da instância: confere antes de seguir
			if state, cerr := r.gateway.EnsureConnected(ctx); cerr != nil {
				if errors.Is(cerr, whatsapp.ErrDisconnected) {
					rn.update(func(s *job.Snapshot) { s.ConnectionState = state })
					r.finish(rn, job.StateFailed, "instância desconectada")
					return
				}
			}

		case skipped:
			consecFail = 0
			rn.update(func(s *job.Snapshot) {
				s.Processed++
				s.Skipped++
			})
			metrics.RecordJobItem(kind, "skipped")

		default:
			consecFail = 0
			rn.update(func(s *job.Snapshot) {
				s.Processed++
				s.Succeeded++
			})
			metrics.RecordJobItem(kind, "succeeded")
		}

		// cadência sequencial: pausa fixa entre itens
		if i < len(items)-1 {
			select {
			case <-ctx.Done():
				r.finish(rn, job.StateStopped, "")
				return
			case <-time.After(r.pause):
			}
		}
	}

	r.finish(rn, job.StateFinished, "")
}

// finish aplica a transição terminal uma única vez: quem chegar depois da
// primeira não altera nada.
func (r *Runner) finish(rn *run, final job.State, lastErr string) {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	if rn.snapshot.State.IsTerminal() {
		return
	}

	now := timezone.Now()
	rn.snapshot.State = final
	rn.snapshot.IsRunning = false
	rn.snapshot.IsFinished = true
	rn.snapshot.FinishedAt = &now
	rn.snapshot.Current = ""
	if rn.snapshot.StartedAt != nil {
		rn.snapshot.ElapsedSeconds = now.Sub(*rn.snapshot.StartedAt).Seconds()
	}
	if lastErr != "" {
		rn.snapshot.LastError = lastErr
	}

	// libera o context em qualquer caminho terminal
	if rn.cancel != nil {
		rn.cancel()
	}

	metrics.JobsRunning.WithLabelValues(string(rn.snapshot.Kind)).Set(0)
	metrics.JobsFinishedTotal.WithLabelValues(string(rn.snapshot.Kind), string(final)).Inc()

	r.logger.Info().
		Str("kind", string(rn.snapshot.Kind)).
		Str("job_id", rn.snapshot.JobID).
		Str("state", string(final)).
		Int("processed", rn.snapshot.Processed).
		Int("succeeded", rn.snapshot.Succeeded).
		Int("failed", rn.snapshot.Failed).
		Int("skipped", rn.snapshot.Skipped).
		Msg("job finalizado")
}

func (rn *run) update(fn func(*job.Snapshot)) {
	rn.mu.Lock()
	defer rn.mu.Unlock()

	if rn.snapshot.State.IsTerminal() {
		return
	}
	fn(&rn.snapshot)
}
