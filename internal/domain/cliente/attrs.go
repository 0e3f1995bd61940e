package cliente

// ===============================
// Atributos do lead
// ===============================

var origens = map[string]bool{
	"site":      true,
	"portal":    true,
	"indicacao": true,
	"whatsapp":  true,
	"outro":     true,
}

var interesses = map[string]bool{
	"compra":  true,
	"aluguel": true,
}

func ValidOrigem(s string) bool {
	return origens[s]
}

// ValidInteresse aceita vazio: o interesse é informado só quando conhecido
func ValidInteresse(s string) bool {
	return s == "" || interesses[s]
}

func DefaultOrigem() string {
	return "outro"
}
