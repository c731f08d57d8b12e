// Package ingredient turns free-text recipe ingredient lines into structured
// quantity/unit/name records and rescales them when the serving count changes.
package ingredient

import "errors"

var (
	// ErrMalformedQuantity is returned when a quantity expression does not
	// match the int, decimal or int/int grammar.
	ErrMalformedQuantity = errors.New("malformed quantity")
	// ErrDivisionByZero is returned for fractions with a zero denominator.
	ErrDivisionByZero = errors.New("division by zero in quantity")
	// ErrInvalidServings is returned when a serving count is below one.
	ErrInvalidServings = errors.New("servings must be at least 1")
	// ErrCountOverflow is returned when scaling would make a count non-finite.
	ErrCountOverflow = errors.New("scaled count is not finite")
)

// Ingredient is a parsed ingredient line.
type Ingredient struct {
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}
