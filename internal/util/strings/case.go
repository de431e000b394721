package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				// Add underscore before uppercase letter if:
				// 1. Previous char is lowercase
				// 2. Next char is lowercase (for acronyms like HTTPRequest -> http_request)
				if unicode.IsLower(prev) || unicode.IsDigit(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) && prev != '_' {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToUpperSnakeCase converts CamelCase to UPPER_SNAKE_CASE (frontWheel -> FRONT_WHEEL)
func ToUpperSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

// LowerFirst lower-cases the leading word of an identifier.
// Leading acronyms are lowered as a unit (ID -> id, URLPath -> urlPath).
func LowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n == 1 || n == len(runes):
		// Single capital or all caps
	default:
		// Keep the capital that starts the next word (URLPath -> url|Path)
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// Singularize turns a plural English word into its singular form using a
// few suffix rules. It is deliberately naive: wheels -> wheel,
// categories -> category, boxes -> box, addresses -> address.
func Singularize(word string) string {
	lower := strings.ToLower(word)
	switch {
	case len(word) > 3 && strings.HasSuffix(lower, "ies"):
		return word[:len(word)-3] + matchCase(word[len(word)-3:], "y")
	case strings.HasSuffix(lower, "sses"),
		strings.HasSuffix(lower, "shes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "xes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return word
	case len(word) > 1 && strings.HasSuffix(lower, "s"):
		return word[:len(word)-1]
	default:
		return word
	}
}

func matchCase(like, s string) string {
	if strings.ToUpper(like) == like {
		return strings.ToUpper(s)
	}
	return s
}
