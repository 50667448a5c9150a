package profiles

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
)

// NormalizeHobbies trims names, drops blanks and collapses duplicates while
// keeping first-seen order.
func NormalizeHobbies(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > config.MaxHobbyNameLength {
			return nil, fmt.Errorf("hobby names must be at most %d characters", config.MaxHobbyNameLength)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
