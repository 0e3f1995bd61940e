package timezone

import "time"

// DefaultTimezone é o fuso padrão da aplicação, trocável no boot via
// variável TIMEZONE.
var DefaultTimezone = "America/Sao_Paulo"

// SetDefault troca o fuso padrão. Valor inválido mantém o atual.
func SetDefault(tz string) {
	if IsValid(tz) {
		DefaultTimezone = tz
	}
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// StartOfDay retorna o início do dia no fuso informado.
func StartOfDay(t time.Time, tz string) time.Time {
	loc := Location(tz)
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth retorna o primeiro instante do mês no fuso informado.
func StartOfMonth(year int, month time.Month, tz string) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, Location(tz))
}
