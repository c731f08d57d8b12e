package ingredient

import (
	"fmt"
	"math"
)

// Rescale multiplies every count by newServings/oldServings in place and
// returns the same slice. No rounding is applied. If any scaled count would
// not be finite, the slice is left unchanged and ErrCountOverflow is returned.
func Rescale(ings []Ingredient, oldServings, newServings int) ([]Ingredient, error) {
	if oldServings < 1 || newServings < 1 {
		return ings, fmt.Errorf("rescale %d -> %d: %w", oldServings, newServings, ErrInvalidServings)
	}
	ratio := float64(newServings) / float64(oldServings)

	scaled := make([]float64, len(ings))
	for i, ing := range ings {
		c := ing.Count * ratio
		if math.IsInf(c, 0) || math.IsNaN(c) {
			return ings, fmt.Errorf("rescale %q %d -> %d: %w", ing.Ingredient, oldServings, newServings, ErrCountOverflow)
		}
		scaled[i] = c
	}
	for i := range ings {
		ings[i].Count = scaled[i]
	}
	return ings, nil
}
