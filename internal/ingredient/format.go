package ingredient

import (
	"fmt"
	"math"
	"strconv"
)

const maxDenominator = 64

// FormatCount renders a count for display, using mixed fractions where a
// small denominator fits ("2 1/2", "1/3"). Zero and invalid counts render
// as "?".
func FormatCount(count float64) string {
	if count <= 0 || math.IsNaN(count) || math.IsInf(count, 0) {
		return "?"
	}
	if count >= 1e15 {
		return strconv.FormatFloat(count, 'g', -1, 64)
	}
	rounded := math.Round(count*10000) / 10000
	whole, frac := math.Modf(rounded)
	if frac == 0 {
		return strconv.FormatFloat(whole, 'f', -1, 64)
	}

	for d := 1; d <= maxDenominator; d++ {
		n := math.Round(frac * float64(d))
		if n == 0 || n == float64(d) {
			continue
		}
		if math.Abs(frac-n/float64(d)) < 1e-3 {
			if whole == 0 {
				return fmt.Sprintf("%d/%d", int(n), d)
			}
			return fmt.Sprintf("%d %d/%d", int(whole), int(n), d)
		}
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
