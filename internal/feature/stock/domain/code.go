package domain

import (
	"fmt"
	"strings"
)

// ParseCode splits a security code into exchange prefix and ticker number.
// Accepted forms are "sh600000", "sz000001" or a bare 6-digit ticker, whose
// exchange is inferred from the leading digit (6 and 9 list in Shanghai).
func ParseCode(code string) (market, num string, err error) {
	c := strings.ToLower(strings.TrimSpace(code))
	switch {
	case strings.HasPrefix(c, "sh"), strings.HasPrefix(c, "sz"):
		market, num = c[:2], c[2:]
	case len(c) == 6:
		num = c
		if c[0] == '6' || c[0] == '9' {
			market = "sh"
		} else {
			market = "sz"
		}
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if len(num) != 6 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return market, num, nil
}
