package ingredient

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// longUnits maps long-form unit words to their short form. Plurals come first
// so the alternation in longUnitPattern never stops at the singular stem.
var longUnits = []struct{ long, short string }{
	{"tablespoons", "tbsp"},
	{"tablespoon", "tbsp"},
	{"ounces", "oz"},
	{"ounce", "oz"},
	{"teaspoons", "tsp"},
	{"teaspoon", "tsp"},
	{"cups", "cup"},
	{"pounds", "pound"},
}

// Units is the closed set of recognized short-form units.
var Units = []string{"tbsp", "oz", "tsp", "cup", "pound", "kg", "g"}

var (
	longUnitPattern = buildLongUnitPattern()
	bracketPattern  = regexp.MustCompile(` *\([^)]*\) *`)
)

func buildLongUnitPattern() *regexp.Regexp {
	words := make([]string, len(longUnits))
	for i, u := range longUnits {
		words[i] = u.long
	}
	return regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\b`)
}

func shortUnit(long string) string {
	for _, u := range longUnits {
		if u.long == long {
			return u.short
		}
	}
	return long
}

// Normalize lowercases a raw line, rewrites long unit words to their short
// form, drops parenthesised asides and collapses whitespace.
func Normalize(line string) string {
	s := strings.ToLower(line)
	s = longUnitPattern.ReplaceAllStringFunc(s, shortUnit)
	s = bracketPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// IsUnit reports whether tok is a recognized short-form unit.
func IsUnit(tok string) bool {
	return slices.Contains(Units, tok)
}

// Parse converts a raw ingredient line into an Ingredient. It never fails:
// lines whose quantity cannot be evaluated fall back to a count of 1 with no
// unit and the whole normalized line as the name.
func Parse(line string) Ingredient {
	ing, _ := ParseLine(line)
	return ing
}

// ParseLine is Parse, but it also reports why a line with a unit fell back
// to the default record. The returned Ingredient is always usable.
// Without a unit, only a whole positive integer token counts as a quantity:
// "1/2 onion" keeps "1/2 onion" as the name rather than reading a count of 1.
func ParseLine(line string) (Ingredient, error) {
	normalized := Normalize(line)
	tokens := strings.Fields(normalized)

	if unitIdx := slices.IndexFunc(tokens, IsUnit); unitIdx > -1 {
		count := 1.0
		if unitIdx > 0 {
			// "4 1/2" -> "4+1/2"
			expr := strings.Join(tokens[:unitIdx], "+")
			c, err := ParseQuantity(expr)
			if err != nil {
				return fallback(normalized), fmt.Errorf("parse %q: %w", line, err)
			}
			count = c
		}
		return Ingredient{
			Count:      count,
			Unit:       tokens[unitIdx],
			Ingredient: strings.Join(tokens[unitIdx+1:], " "),
		}, nil
	}

	if len(tokens) > 0 {
		if n, err := strconv.Atoi(tokens[0]); err == nil && n > 0 {
			return Ingredient{
				Count:      float64(n),
				Ingredient: strings.Join(tokens[1:], " "),
			}, nil
		}
	}

	return fallback(normalized), nil
}

func fallback(normalized string) Ingredient {
	return Ingredient{Count: 1, Ingredient: normalized}
}
