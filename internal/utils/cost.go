package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var costRegex = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

var errInvalidCost = errors.New("invalid cost")

// ParseCost converts a non-negative decimal string with at most two fraction digits into cents.
// An empty string is free.
func ParseCost(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if !costRegex.MatchString(value) {
		return 0, errInvalidCost
	}

	whole, fraction, _ := strings.Cut(value, ".")
	for len(fraction) < 2 {
		fraction += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	cents, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return 0, err
	}

	return units*100 + cents, nil
}

// FormatCost renders cents as a decimal string with two fraction digits.
func FormatCost(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
