package validators

import "strings"

// NormalizePhoneBR converte um telefone brasileiro para o formato aceito pelo
// gateway de WhatsApp: 55 + DDD + número, só dígitos.
// Retorna vazio quando o valor não forma um telefone válido.
func NormalizePhoneBR(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()

	// remove prefixo de discagem (0 + operadora)
	digits = strings.TrimPrefix(digits, "0")

	switch {
	case strings.HasPrefix(digits, "55") && (len(digits) == 12 || len(digits) == 13):
		return digits
	case len(digits) == 10 || len(digits) == 11:
		return "55" + digits
	default:
		return ""
	}
}

func IsPhoneBRValid(raw string) bool {
	return NormalizePhoneBR(raw) != ""
}
