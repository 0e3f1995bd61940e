package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobflow/imob-crm-api/internal/domain/analytics"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100.0, analytics.Percentage(10, 5))
	assert.Equal(t, -50.0, analytics.Percentage(5, 10))
	assert.Equal(t, 0.0, analytics.Percentage(7, 7))

	// uma casa decimal que precisa de arredondamento: 1/3 = 33.33%
	assert.Equal(t, 33.33, analytics.Percentage(4, 3))
}

// Sem base de comparação a variação é zero, não infinito.
func TestPercentage_SemPeriodoAnterior(t *testing.T) {
	assert.Equal(t, 0.0, analytics.Percentage(12, 0))
	assert.Equal(t, 0.0, analytics.Percentage(0, 0))
}

func TestIsIncreasing(t *testing.T) {
	assert.True(t, analytics.IsIncreasing(2, 1))
	assert.False(t, analytics.IsIncreasing(1, 1))
	assert.False(t, analytics.IsIncreasing(0, 3))
}
