// Package classify implements the per-tenant category classifier and the
// text normalization it trains on.
package classify

import (
	"strings"
)

// stopWords is a fixed English stop-word set. Tokens in this set never reach
// the classifier vocabulary.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "aren", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "can",
		"cannot", "could", "couldn", "did", "didn", "do", "does", "doesn",
		"doing", "don", "down", "during", "each", "few", "for", "from",
		"further", "had", "hadn", "has", "hasn", "have", "haven", "having",
		"he", "her", "here", "hers", "herself", "him", "himself", "his",
		"how", "i", "if", "in", "into", "is", "isn", "it", "its", "itself",
		"just", "me", "more", "most", "mustn", "my", "myself", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other",
		"ought", "our", "ours", "ourselves", "out", "over", "own", "same",
		"she", "should", "shouldn", "so", "some", "such", "than", "that",
		"the", "their", "theirs", "them", "themselves", "then", "there",
		"these", "they", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "wasn", "we", "were", "weren", "what",
		"when", "where", "which", "while", "who", "whom", "why", "will",
		"with", "won", "would", "wouldn", "you", "your", "yours", "yourself",
		"yourselves",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// Normalize cleans a free-text transaction title into a token sequence
// usable as a classification feature. It lower-cases the input, strips
// everything outside ASCII letters and whitespace, drops stop words and
// tokens of length <= 2, and rejoins the remainder with single spaces.
// Titles that filter down to nothing return the empty string; such
// transactions are excluded from training.
func Normalize(title string) string {
	if title == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, token := range tokens {
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}
