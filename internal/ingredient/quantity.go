package ingredient

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern  = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)
	integerPattern = regexp.MustCompile(`^\d+$`)
)

// ParseQuantity evaluates a quantity expression made of integer, decimal and
// int/int terms joined by '+'. A '-' joins a whole number and a fraction,
// so "1-1/2" is 1.5. Nothing else is accepted.
func ParseQuantity(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, ErrMalformedQuantity
	}

	var total float64
	for _, term := range strings.Split(strings.ReplaceAll(expr, "-", "+"), "+") {
		v, err := parseTerm(term)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", expr, err)
		}
		total += v
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, fmt.Errorf("%q: %w", expr, ErrMalformedQuantity)
	}
	return total, nil
}

func parseTerm(term string) (float64, error) {
	if num, den, ok := strings.Cut(term, "/"); ok {
		if !integerPattern.MatchString(num) || !integerPattern.MatchString(den) {
			return 0, ErrMalformedQuantity
		}
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, ErrMalformedQuantity
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, ErrMalformedQuantity
		}
		if d == 0 {
			return 0, ErrDivisionByZero
		}
		return n / d, nil
	}

	if !numberPattern.MatchString(term) {
		return 0, ErrMalformedQuantity
	}
	v, err := strconv.ParseFloat(term, 64)
	if err != nil {
		return 0, ErrMalformedQuantity
	}
	return v, nil
}
