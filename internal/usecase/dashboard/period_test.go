package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobflow/imob-crm-api/internal/httperr"
	"github.com/imobflow/imob-crm-api/internal/timezone"
)

// d devolve a meia-noite do dia no fuso padrão da aplicação.
func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, timezone.Location(timezone.DefaultTimezone))
}

func TestResolvePeriod_Today(t *testing.T) {
	// quarta-feira, meio da tarde
	now := d(2025, time.March, 12).Add(15*time.Hour + 30*time.Minute)

	from, to, prevFrom, prevTo, err := resolvePeriod(GetSummaryInput{Period: "today"}, now)
	require.NoError(t, err)

	assert.True(t, from.Equal(d(2025, time.March, 12)))
	assert.True(t, to.Equal(d(2025, time.March, 13)))
	assert.True(t, prevFrom.Equal(d(2025, time.March, 11)))
	assert.True(t, prevTo.Equal(from), "período anterior encosta no atual")
}

func TestResolvePeriod_SemanaComecaNaSegunda(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"quarta volta para a segunda", d(2025, time.March, 12), d(2025, time.March, 10)},
		{"segunda fica na própria segunda", d(2025, time.March, 10), d(2025, time.March, 10)},
		{"domingo fecha a semana anterior", d(2025, time.March, 16), d(2025, time.March, 10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to, prevFrom, prevTo, err := resolvePeriod(GetSummaryInput{Period: "week"}, tc.now)
			require.NoError(t, err)

			assert.Equal(t, time.Monday, from.Weekday())
			assert.True(t, from.Equal(tc.want))
			assert.True(t, to.Equal(tc.want.AddDate(0, 0, 7)))
			assert.True(t, prevFrom.Equal(tc.want.AddDate(0, 0, -7)))
			assert.True(t, prevTo.Equal(from))
		})
	}
}

func TestResolvePeriod_Month(t *testing.T) {
	now := d(2025, time.March, 12).Add(9 * time.Hour)

	from, to, prevFrom, prevTo, err := resolvePeriod(GetSummaryInput{Period: "month"}, now)
	require.NoError(t, err)

	assert.True(t, from.Equal(d(2025, time.March, 1)))
	assert.True(t, to.Equal(d(2025, time.April, 1)))
	assert.True(t, prevFrom.Equal(d(2025, time.February, 1)))
	assert.True(t, prevTo.Equal(from))
}

func TestResolvePeriod_CustomComToInclusivo(t *testing.T) {
	in := GetSummaryInput{Period: "custom", From: "2025-03-01", To: "2025-03-10"}

	from, to, prevFrom, prevTo, err := resolvePeriod(in, d(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, from.Equal(d(2025, time.March, 1)))
	// o dia 10 inteiro entra no período
	assert.True(t, to.Equal(d(2025, time.March, 11)))

	// período anterior com a mesma duração, imediatamente antes
	assert.True(t, prevFrom.Equal(d(2025, time.February, 19)))
	assert.True(t, prevTo.Equal(from))
	assert.Equal(t, to.Sub(from), prevTo.Sub(prevFrom))
}

func TestResolvePeriod_CustomDeUmDia(t *testing.T) {
	in := GetSummaryInput{Period: "custom", From: "2025-03-10", To: "2025-03-10"}

	from, to, prevFrom, prevTo, err := resolvePeriod(in, d(2025, time.June, 1))
	require.NoError(t, err)

	assert.True(t, from.Equal(d(2025, time.March, 10)))
	assert.True(t, to.Equal(d(2025, time.March, 11)))
	assert.True(t, prevFrom.Equal(d(2025, time.March, 9)))
	assert.True(t, prevTo.Equal(from))
}

func TestResolvePeriod_Invalido(t *testing.T) {
	cases := []struct {
		name string
		in   GetSummaryInput
	}{
		{"período desconhecido", GetSummaryInput{Period: "year"}},
		{"período vazio", GetSummaryInput{Period: ""}},
		{"custom sem datas", GetSummaryInput{Period: "custom"}},
		{"custom com formato errado", GetSummaryInput{Period: "custom", From: "12/03/2025", To: "2025-03-15"}},
		{"custom com to antes do from", GetSummaryInput{Period: "custom", From: "2025-03-15", To: "2025-03-10"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, _, err := resolvePeriod(tc.in, d(2025, time.March, 12))
			assert.True(t, httperr.IsBusiness(err, "invalid_period"))
		})
	}
}
