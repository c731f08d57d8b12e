// Package recipe holds the recipe entity: fetched data plus the parsed
// ingredient list, derived cooking time and the serving count.
package recipe

import (
	"errors"
	"fmt"
	"math"

	"forkify/internal/ingredient"
)

// DefaultServings is the serving count every freshly loaded recipe starts with.
const DefaultServings = 4

// minutesPerPeriod is the time allotted to each group of three ingredients.
const minutesPerPeriod = 15

// Direction is a servings change requested by the user.
type Direction string

const (
	Increase Direction = "inc"
	Decrease Direction = "dec"
)

// ErrUnknownDirection is returned by ParseDirection for anything but inc/dec.
var ErrUnknownDirection = errors.New("unknown servings direction")

// ParseDirection validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Increase, Decrease:
		return d, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownDirection)
}

// Recipe is a loaded recipe with structured ingredients.
type Recipe struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Author      string                  `json:"author"`
	ImageURL    string                  `json:"image_url"`
	SourceURL   string                  `json:"source_url"`
	Ingredients []ingredient.Ingredient `json:"ingredients"`
	Servings    int                     `json:"servings"`
	Time        int                     `json:"time"`
}

// Warning records an ingredient line whose quantity could not be evaluated
// and was replaced by the default count.
type Warning struct {
	Line string
	Err  error
}

// New builds a Recipe from fetched data: it parses the ingredient lines and
// computes the cooking time and default servings.
func New(id string, raw *RawRecipe) (*Recipe, []Warning) {
	r := &Recipe{
		ID:        id,
		Title:     raw.Title,
		Author:    raw.Publisher,
		ImageURL:  raw.ImageURL,
		SourceURL: raw.SourceURL,
	}
	warnings := r.parseIngredients(raw.Ingredients)
	r.CalcTime()
	r.CalcServings()
	return r, warnings
}

func (r *Recipe) parseIngredients(lines []string) []Warning {
	var warnings []Warning
	r.Ingredients = make([]ingredient.Ingredient, 0, len(lines))
	for _, line := range lines {
		ing, err := ingredient.ParseLine(line)
		if err != nil {
			warnings = append(warnings, Warning{Line: line, Err: err})
		}
		r.Ingredients = append(r.Ingredients, ing)
	}
	return warnings
}

// CalcTime assumes 15 minutes for each group of three ingredients.
func (r *Recipe) CalcTime() {
	periods := math.Ceil(float64(len(r.Ingredients)) / 3)
	r.Time = int(periods) * minutesPerPeriod
}

// CalcServings resets the serving count to DefaultServings.
func (r *Recipe) CalcServings() {
	r.Servings = DefaultServings
}

// CanDecrease reports whether the serving count may go down.
func (r *Recipe) CanDecrease() bool {
	return r.Servings > 1
}

// UpdateServings moves the serving count one step and rescales every
// ingredient. Decreasing at one serving is a no-op and returns false.
func (r *Recipe) UpdateServings(dir Direction) bool {
	newServings := r.Servings
	switch dir {
	case Increase:
		newServings++
	case Decrease:
		if !r.CanDecrease() {
			return false
		}
		newServings--
	default:
		return false
	}

	if _, err := ingredient.Rescale(r.Ingredients, r.Servings, newServings); err != nil {
		return false
	}
	r.Servings = newServings
	return true
}
