package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseID converts a command-line id argument to a todo id.
// Surrounding whitespace is ignored and whole numbers written in decimal or
// exponent form ("3.0", "3e0") are accepted. The second result is false when
// the argument is not a positive whole number, in which case it can never
// match a todo.
func ParseID(arg string) (int, bool) {
	s := strings.TrimSpace(arg)
	if id, err := strconv.Atoi(s); err == nil {
		if id < 1 {
			return 0, false
		}
		return id, true
	}

	// Hex floats have no decimal spelling a user would type
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f != math.Trunc(f) || f < 1 || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// JoinTitle builds a todo title from positional words.
// Words are joined by single spaces; an all-blank result is rejected.
func JoinTitle(words []string) (string, error) {
	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return "", ErrEmptyTitle()
	}
	return title, nil
}
