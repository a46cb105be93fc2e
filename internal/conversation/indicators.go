package conversation

import "strings"

// Indicators are the heuristic flags estimating whether a query depends
// on prior conversation turns. Ephemeral; attached to result metadata.
type Indicators struct {
	HasPronouns   bool `json:"has_pronouns"`
	HasReferences bool `json:"has_references"`
	HasFollowUps  bool `json:"has_follow_ups"`
	NeedsContext  bool `json:"needs_context"`
}

var (
	pronounWords   = []string{"it", "that", "this", "they", "them", "those", "these"}
	referenceWords = []string{"above", "before", "earlier", "previous", "last", "again"}
	followUpWords  = []string{"also", "additionally", "furthermore", "moreover"}
)

// AnalyzeQuery computes the context indicators for a query. Pure
// function of the text and minTokens: queries shorter than minTokens
// whitespace tokens are assumed to lean on prior context.
func AnalyzeQuery(query string, minTokens int) Indicators {
	tokens := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	contains := func(words []string) bool {
		for _, w := range words {
			if _, ok := set[w]; ok {
				return true
			}
		}
		return false
	}

	ind := Indicators{
		HasPronouns:   contains(pronounWords),
		HasReferences: contains(referenceWords),
		HasFollowUps:  contains(followUpWords),
	}
	ind.NeedsContext = ind.HasPronouns || ind.HasReferences || ind.HasFollowUps || len(tokens) < minTokens
	return ind
}

// Indicators computes the context indicators using the store's
// configured short-query threshold.
func (s *Store) Indicators(query string) Indicators {
	return AnalyzeQuery(query, s.minQueryTokens)
}
