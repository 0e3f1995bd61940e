package analytics

import "math"

// Percentage calcula a variação percentual entre dois períodos, arredondada
// em duas casas. Sem base de comparação (anterior zero) a variação é zero.
func Percentage(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}

	pct := (float64(current) - float64(previous)) / float64(previous) * 100
	return math.Round(pct*100) / 100
}

func IsIncreasing(current, previous int64) bool {
	return current > previous
}
