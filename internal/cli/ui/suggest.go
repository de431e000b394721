package ui

import (
	"sort"
	"strings"
)

// MaxDistance is the largest edit distance offered as a suggestion.
const MaxDistance = 3

// MaxSuggestions caps the number of suggestions returned.
const MaxSuggestions = 3

// Suggest returns up to MaxSuggestions candidates within MaxDistance edits of
// target, closest first. Matching ignores case.
//
//	Suggest("Bkie", []string{"Bike", "Wheel"}) // [Bike]
func Suggest(target string, candidates []string) []string {
	type scored struct {
		value    string
		distance int
	}

	var found []scored
	for _, c := range candidates {
		if d := Distance(strings.ToLower(target), strings.ToLower(c)); d <= MaxDistance {
			found = append(found, scored{c, d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].distance < found[j].distance })

	out := make([]string, 0, MaxSuggestions)
	for i := 0; i < len(found) && i < MaxSuggestions; i++ {
		out = append(out, found[i].value)
	}
	return out
}

// Distance returns the Levenshtein distance between a and b.
func Distance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
