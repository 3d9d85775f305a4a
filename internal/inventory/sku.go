package inventory

import (
	"math/big"
	"strings"
)

// NormalizeSKU trims whitespace and repairs SKUs that spreadsheets mangled
// into scientific notation ("1.23E+12" becomes "1230000000000"). The repair
// is best effort: the original digits past the mantissa are gone, so this
// only reconstitutes a flat numeric string of the right magnitude. Anything
// that does not look like scientific notation passes through unchanged.
func NormalizeSKU(sku string) string {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return ""
	}
	if !looksScientific(trimmed) {
		return trimmed
	}
	f, ok := new(big.Float).SetString(trimmed)
	if !ok {
		return trimmed
	}
	i, _ := f.Int(nil)
	if i == nil || i.Sign() < 0 {
		return trimmed
	}
	return i.String()
}

func looksScientific(s string) bool {
	idx := strings.IndexAny(s, "eE")
	if idx <= 0 || idx == len(s)-1 {
		return false
	}
	mantissa, exponent := s[:idx], s[idx+1:]
	if !isDecimal(mantissa) {
		return false
	}
	if exponent[0] == '+' || exponent[0] == '-' {
		exponent = exponent[1:]
	}
	return isDigits(exponent)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			if dots > 1 {
				return false
			}
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
