package convert

import "strings"

// Signatures of the built-in convertible types, in go/types notation.
const (
	DateSignature             = "time.Time"
	BigIntegerSignature       = "math/big.Int"
	BigDecimalSignature       = "github.com/shopspring/decimal.Decimal"
	ByteArraySignature        = "[]byte"
	ByteArrayWrapperSignature = "[]*byte"
)

// Mentions reports whether signature refers to target as a whole type name.
// *time.Time and []time.Time mention time.Time; mytime.Time does not, and
// neither does example.com/x.StatusCode mention example.com/x.Status.
func Mentions(signature, target string) bool {
	if target == "" {
		return false
	}
	for from := 0; from < len(signature); {
		i := strings.Index(signature[from:], target)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(target)
		if boundaryBefore(signature, start) && boundaryAfter(signature, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	return !isIdent(c) && c != '/' && c != '.'
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	return !isIdent(s[i])
}

func isIdent(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
