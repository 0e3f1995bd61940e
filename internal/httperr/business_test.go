package httperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobflow/imob-crm-api/internal/httperr"
)

func TestErrBusiness(t *testing.T) {
	err := httperr.ErrBusiness("invalid_state")

	assert.EqualError(t, err, "invalid_state")
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.False(t, httperr.IsBusiness(err, "outro_codigo"))
}

func TestErrBusinessCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := httperr.ErrBusinessCause("whatsapp_unavailable", cause)

	assert.EqualError(t, err, "whatsapp_unavailable: connection refused")
	assert.True(t, httperr.IsBusiness(err, "whatsapp_unavailable"))
	assert.ErrorIs(t, err, cause)
}

func TestIsBusiness_ErroEmbrulhado(t *testing.T) {
	err := fmt.Errorf("ao iniciar job: %w", httperr.ErrBusiness("job_already_running"))

	assert.True(t, httperr.IsBusiness(err, "job_already_running"))
}

func TestIsBusiness_ErroComum(t *testing.T) {
	assert.False(t, httperr.IsBusiness(errors.New("banco fora do ar"), "invalid_state"))
	assert.False(t, httperr.IsBusiness(nil, "invalid_state"))
}
