package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var errInvalidAmount = errors.New("invalid amount")

// ParseAmount turns free-text tip input into kopecks. Comma and period
// are both accepted as the decimal separator; the amount must be a
// non-negative number with at most two decimal places.
func ParseAmount(raw string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0, errInvalidAmount
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
		if strings.IndexByte(fracPart, '.') >= 0 {
			return 0, errInvalidAmount
		}
	}
	if intPart == "" && fracPart == "" {
		return 0, errInvalidAmount
	}
	if len(fracPart) > 2 {
		return 0, errInvalidAmount
	}
	// 15 integer digits keep rubles*100 far below the int64 ceiling.
	if len(intPart) > 15 {
		return 0, errInvalidAmount
	}

	var rubles int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, errInvalidAmount
		}
		rubles = rubles*10 + int64(r-'0')
	}

	frac := int64(0)
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, errInvalidAmount
		}
		frac = frac*10 + int64(r-'0')
	}
	if len(fracPart) == 1 {
		frac *= 10
	}

	return rubles*100 + frac, nil
}

// FormatAmount renders kopecks with exactly two decimal places.
func FormatAmount(kopecks int64) string {
	return fmt.Sprintf("%d.%02d", kopecks/100, kopecks%100)
}
