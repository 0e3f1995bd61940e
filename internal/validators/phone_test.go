package validators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imobflow/imob-crm-api/internal/validators"
)

func TestNormalizePhoneBR(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"celular formatado", "(11) 98765-4321", "5511987654321"},
		{"celular só dígitos", "11987654321", "5511987654321"},
		{"fixo com DDD", "1134567890", "551134567890"},
		{"já com código do país", "5511987654321", "5511987654321"},
		{"fixo já com código do país", "551134567890", "551134567890"},
		{"com prefixo de discagem", "011987654321", "5511987654321"},
		{"DDD 55 não confunde com código do país", "5534567890", "555534567890"},
		{"com espaços e traços", "11 9 8765-4321", "5511987654321"},
		{"com +55", "+55 11 98765-4321", "5511987654321"},
		{"curto demais", "98765", ""},
		{"longo demais", "55119876543210987", ""},
		{"só letras", "telefone", ""},
		{"vazio", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validators.NormalizePhoneBR(tc.raw))
		})
	}
}

func TestIsPhoneBRValid(t *testing.T) {
	assert.True(t, validators.IsPhoneBRValid("(11) 98765-4321"))
	assert.False(t, validators.IsPhoneBRValid("123"))
	assert.False(t, validators.IsPhoneBRValid(""))
}

// Só os caminhos que não dependem de DNS: formato sem domínio.
func TestIsEmailDomainValid_FormatoInvalido(t *testing.T) {
	assert.False(t, validators.IsEmailDomainValid("sem-arroba"))
	assert.False(t, validators.IsEmailDomainValid("termina-em-arroba@"))
	assert.False(t, validators.IsEmailDomainValid(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@imob.com.br", validators.NormalizeEmail("  Ana@Imob.COM.br "))
	assert.Equal(t, "", validators.NormalizeEmail("   "))
}
