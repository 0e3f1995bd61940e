package jobs_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/jobs"
	"github.com/imobflow/imob-crm-api/internal/whatsapp"
)

// ======================================================
// Fakes
// ======================================================

type fakeGateway struct {
	mu    sync.Mutex
	state string
	err   error
}

func (g *fakeGateway) EnsureConnected(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, g.err
}

func (g *fakeGateway) set(state string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.err = err
}

func connectedGateway() *fakeGateway {
	return &fakeGateway{state: whatsapp.StateConnected}
}

type fakeProcessor struct {
	kind     job.Kind
	items    []jobs.Item
	itemsErr error
	process  func(ctx context.Context, item jobs.Item) (bool, error)
}

func (p *fakeProcessor) Kind() job.Kind { return p.kind }

func (p *fakeProcessor) Items(ctx context.Context) ([]jobs.Item, error) {
	return p.items, p.itemsErr
}

func (p *fakeProcessor) Process(ctx context.Context, item jobs.Item) (bool, error) {
	return p.process(ctx, item)
}

func nItems(n int) []jobs.Item {
	items := make([]jobs.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, jobs.Item{ClienteID: uint(i + 1), Nome: "Cliente", Telefone: "11999990000"})
	}
	return items
}

func newTestRunner(gw *fakeGateway, maxFail int) *jobs.Runner {
	return jobs.NewRunner(gw, time.Millisecond, maxFail, zerolog.Nop())
}

// espera o job chegar num estado terminal
func waitTerminal(t *testing.T, r *jobs.Runner, kind job.Kind) job.Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.Status(kind).State.IsTerminal()
	}, 5*time.Second, 2*time.Millisecond, "job não terminou")
	return r.Status(kind)
}

// ======================================================
// Execução
// ======================================================

func TestRunner_ProcessaTodosOsItens(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(3),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}

	snap, err := r.Start(context.Background(), p)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.JobID)
	assert.Equal(t, job.KindSequentialValidation, snap.Kind)

	final := waitTerminal(t, r, p.kind)

	assert.Equal(t, job.StateFinished, final.State)
	assert.Equal(t, 3, final.Total)
	assert.Equal(t, 3, final.Processed)
	assert.Equal(t, 3, final.Succeeded)
	assert.Zero(t, final.Failed)
	assert.Zero(t, final.Skipped)
	assert.True(t, final.IsFinished)
	assert.False(t, final.IsRunning)
	require.NotNil(t, final.FinishedAt)
	assert.Empty(t, final.Current)
}

func TestRunner_ContaPulados(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	i := 0
	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(4),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			i++
			return i%2 == 0, nil // metade pulada
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)

	assert.Equal(t, job.StateFinished, final.State)
	assert.Equal(t, 4, final.Processed)
	assert.Equal(t, 2, final.Succeeded)
	assert.Equal(t, 2, final.Skipped)
	assert.Zero(t, final.Failed)
}

func TestRunner_FilaVazia(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	var processed atomic.Int32
	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nil,
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			processed.Add(1)
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)
	assert.Equal(t, job.StateFinished, final.State)
	assert.Zero(t, final.Total)
	assert.Zero(t, processed.Load(), "fila vazia não processa nada")
}

func TestRunner_ErroAoCarregarItens(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	p := &fakeProcessor{
		kind:     job.KindSequentialValidation,
		itemsErr: errors.New("banco fora do ar"),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)
	assert.Equal(t, job.StateFailed, final.State)
	assert.Contains(t, final.LastError, "falha ao carregar itens")
}

// ======================================================
// Exclusão mútua por tipo
// ======================================================

func TestRunner_NaoDuplicaJobDoMesmoTipo(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	gate := make(chan struct{})
	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			select {
			case <-gate:
				return false, nil
			case <-ctx.Done():
				return false, ctx.Err()
			}
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	// segundo start do mesmo tipo enquanto o primeiro roda
	_, err = r.Start(context.Background(), p)
	assert.True(t, httperr.IsBusiness(err, "job_already_running"))

	close(gate)
	final := waitTerminal(t, r, p.kind)
	assert.Equal(t, job.StateFinished, final.State)

	// terminou: pode rodar de novo
	p2 := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}
	_, err = r.Start(context.Background(), p2)
	require.NoError(t, err)
	waitTerminal(t, r, p2.kind)
}

func TestRunner_TiposDiferentesRodamJuntos(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	gate := make(chan struct{})
	blocked := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			select {
			case <-gate:
				return false, nil
			case <-ctx.Done():
				return false, ctx.Err()
			}
		},
	}

	quick := &fakeProcessor{
		kind:  job.KindSequentialProfilePictures,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), blocked)
	require.NoError(t, err)

	_, err = r.Start(context.Background(), quick)
	require.NoError(t, err, "tipos diferentes não competem")

	waitTerminal(t, r, quick.kind)
	close(gate)
	waitTerminal(t, r, blocked.kind)
}

// ======================================================
// Stop
// ======================================================

func TestRunner_Stop(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	started := make(chan struct{})
	var once sync.Once

	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(50),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			once.Do(func() { close(started) })
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	<-started
	_, err = r.Stop(p.kind)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)
	assert.Equal(t, job.StateStopped, final.State)
	assert.Less(t, final.Processed, 50, "o stop deveria interromper antes do fim")

	// job parado não para de novo
	_, err = r.Stop(p.kind)
	assert.True(t, httperr.IsBusiness(err, "job_not_running"))
}

func TestRunner_StopSemJob(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	_, err := r.Stop(job.KindSequentialValidation)
	assert.True(t, httperr.IsBusiness(err, "job_not_running"))
}

// ======================================================
// Conexão
// ======================================================

func TestRunner_NaoComecaDesconectado(t *testing.T) {
	gw := &fakeGateway{state: whatsapp.StateDisconnected, err: whatsapp.ErrDisconnected}
	r := newTestRunner(gw, 5)

	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}

	snap, err := r.Start(context.Background(), p)
	assert.True(t, httperr.IsBusiness(err, "whatsapp_disconnected"))
	assert.Equal(t, job.StateIdle, snap.State)
	assert.Equal(t, whatsapp.StateDisconnected, snap.ConnectionState)
}

func TestRunner_GatewayForaDoAr(t *testing.T) {
	gw := &fakeGateway{state: whatsapp.StateDisconnected, err: errors.New("timeout")}
	r := newTestRunner(gw, 5)

	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(1),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	assert.True(t, httperr.IsBusiness(err, "whatsapp_unavailable"))
}

func TestRunner_AbortaQuandoCaiAConexao(t *testing.T) {
	gw := connectedGateway()
	r := newTestRunner(gw, 5)

	calls := 0
	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(5),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			calls++
			if calls >= 2 {
				return false, whatsapp.ErrDisconnected
			}
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)

	assert.Equal(t, job.StateFailed, final.State)
	assert.Equal(t, whatsapp.StateDisconnected, final.ConnectionState)
	assert.Contains(t, final.LastError, "desconectada")
	assert.Equal(t, 2, final.Processed, "aborta no item que caiu")
}

// ======================================================
// Falhas consecutivas
// ======================================================

func TestRunner_AbortaAposFalhasConsecutivas(t *testing.T) {
	r := newTestRunner(connectedGateway(), 2)

	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(10),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			return false, errors.New("numero recusado")
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)

	assert.Equal(t, job.StateFailed, final.State)
	assert.Equal(t, 2, final.Processed)
	assert.Equal(t, 2, final.Failed)
	assert.Contains(t, final.LastError, "falhas consecutivas")
}

func TestRunner_SucessoZeraContadorDeFalhas(t *testing.T) {
	r := newTestRunner(connectedGateway(), 2)

	calls := 0
	p := &fakeProcessor{
		kind:  job.KindSequentialValidation,
		items: nItems(6),
		process: func(ctx context.Context, item jobs.Item) (bool, error) {
			calls++
			// alterna falha e sucesso: nunca fecha duas falhas seguidas
			if calls%2 == 1 {
				return false, errors.New("instabilidade")
			}
			return false, nil
		},
	}

	_, err := r.Start(context.Background(), p)
	require.NoError(t, err)

	final := waitTerminal(t, r, p.kind)

	assert.Equal(t, job.StateFinished, final.State)
	assert.Equal(t, 6, final.Processed)
	assert.Equal(t, 3, final.Failed)
	assert.Equal(t, 3, final.Succeeded)
}

// ======================================================
// Status
// ======================================================

func TestRunner_StatusSemJobEhIdle(t *testing.T) {
	r := newTestRunner(connectedGateway(), 5)

	snap := r.Status(job.KindSequentialProfilePictures)
	assert.Equal(t, job.StateIdle, snap.State)
	assert.False(t, snap.IsRunning)
}
