// Package matching scores how closely two users' hobbies overlap.
package matching

import (
	"math"
	"strings"
)

// Percentage returns round(|A∩B| / max(1, max(|A|,|B|)) * 100) over the
// de-duplicated name sets. The result is symmetric and lies in [0, 100].
func Percentage(a, b []string) int {
	setA, setB := toSet(a), toSet(b)
	shared := intersect(setA, setB)
	denominator := max(1, max(len(setA), len(setB)))
	return int(math.Round(float64(shared) / float64(denominator) * 100))
}

// Shared counts the names present in both sets.
func Shared(a, b []string) int {
	return intersect(toSet(a), toSet(b))
}

func intersect(a, b map[string]struct{}) int {
	n := 0
	for name := range a {
		if _, ok := b[name]; ok {
			n++
		}
	}
	return n
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}
