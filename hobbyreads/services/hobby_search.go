package services

import (
	"strings"

	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/sahilm/fuzzy"
)

// hobbySource implements fuzzy.Source over hobby names
type hobbySource []*models.Hobby

func (s hobbySource) Len() int {
	return len(s)
}

func (s hobbySource) String(i int) string {
	return strings.ToLower(s[i].Name)
}

// HobbySearch ranks hobbies by fuzzy similarity to a query.
type HobbySearch struct{}

func NewHobbySearch() *HobbySearch {
	return &HobbySearch{}
}

// Search returns the hobbies matching query, best match first. A blank query
// returns hobbies unchanged.
func (HobbySearch) Search(hobbies []*models.Hobby, query string) []*models.Hobby {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return hobbies
	}

	matches := fuzzy.FindFrom(query, hobbySource(hobbies))
	result := make([]*models.Hobby, 0, len(matches))
	for _, m := range matches {
		result = append(result, hobbies[m.Index])
	}
	return result
}
