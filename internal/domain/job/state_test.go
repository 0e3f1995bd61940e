package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobflow/imob-crm-api/internal/domain/job"
)

func TestStatePredicates(t *testing.T) {
	terminais := []job.State{job.StateFinished, job.StateStopped, job.StateFailed}
	ativos := []job.State{job.StateStarting, job.StateRunning}

	for _, s := range terminais {
		assert.True(t, s.IsTerminal(), "%s é terminal", s)
		assert.False(t, s.IsActive())
	}

	for _, s := range ativos {
		assert.True(t, s.IsActive(), "%s é ativo", s)
		assert.False(t, s.IsTerminal())
	}

	assert.False(t, job.StateIdle.IsTerminal())
	assert.False(t, job.StateIdle.IsActive())
}

func TestIdleSnapshot(t *testing.T) {
	snap := job.IdleSnapshot(job.KindSequentialValidation)

	assert.Equal(t, job.KindSequentialValidation, snap.Kind)
	assert.Equal(t, job.StateIdle, snap.State)
	assert.False(t, snap.IsRunning)
	assert.Zero(t, snap.Processed)
}
