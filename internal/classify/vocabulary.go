package classify

import (
	"sort"
	"strings"
)

// maxFeatures caps the vocabulary size, mirroring a bag-of-words vectorizer
// limited to its most frequent terms.
const maxFeatures = 100

// featurize expands a normalized title into unigram and bigram features.
// Bigrams are joined with a single space so they act as one vocabulary term.
func featurize(normalized string) []string {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return nil
	}

	features := make([]string, 0, len(tokens)*2-1)
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}
	return features
}

// buildVocabulary selects the maxFeatures most frequent unigram/bigram terms
// across the corpus. Ties break lexicographically so training is
// deterministic for identical input.
func buildVocabulary(documents [][]string) map[string]struct{} {
	counts := make(map[string]int)
	for _, doc := range documents {
		for _, term := range doc {
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		vocab[term] = struct{}{}
	}
	return vocab
}

// filterToVocabulary keeps only terms present in the fitted vocabulary.
// Out-of-vocabulary terms contribute nothing at predict time; the
// vocabulary is never refit on predict.
func filterToVocabulary(features []string, vocab map[string]struct{}) []string {
	kept := make([]string, 0, len(features))
	for _, term := range features {
		if _, ok := vocab[term]; ok {
			kept = append(kept, term)
		}
	}
	return kept
}
