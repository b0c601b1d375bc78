package classify

import (
	"sort"
	"sync"

	"github.com/jbrukh/bayesian"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// MinCorpusSize is the smallest usable training corpus after normalization.
// Below this, training is refused outright rather than producing a
// low-confidence model.
const MinCorpusSize = 5

// TrainingPair is one labeled example: a raw transaction title and its
// category.
type TrainingPair struct {
	Title    string
	Category string
}

// Classifier maps normalized transaction titles to category labels. It is a
// two-state machine: Untrained until a Train call succeeds, Trained after.
// Train and Predict are serialized per instance; independent instances
// (different tenants) run fully in parallel.
type Classifier struct {
	mu          sync.Mutex
	cl          *bayesian.Classifier
	vocab       map[string]struct{}
	classes     []bayesian.Class
	trained     bool
	sourceCount int
}

// NewClassifier returns an untrained classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Train fits the classifier on the given corpus. Pairs whose title
// normalizes to the empty string or that lack a category are excluded; if
// fewer than MinCorpusSize usable pairs remain, Train returns false and the
// classifier stays in its previous state. A successful Train replaces any
// earlier model entirely.
func (c *Classifier) Train(corpus []TrainingPair) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	type document struct {
		category string
		features []string
	}

	docs := make([]document, 0, len(corpus))
	for _, pair := range corpus {
		if pair.Category == "" {
			continue
		}
		normalized := Normalize(pair.Title)
		if normalized == "" {
			continue
		}
		docs = append(docs, document{category: pair.Category, features: featurize(normalized)})
	}

	if len(docs) < MinCorpusSize {
		return false
	}

	allFeatures := make([][]string, len(docs))
	seen := make(map[string]struct{})
	for i, doc := range docs {
		allFeatures[i] = doc.features
		seen[doc.category] = struct{}{}
	}
	vocab := buildVocabulary(allFeatures)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	classes := make([]bayesian.Class, len(names))
	for i, name := range names {
		classes[i] = bayesian.Class(name)
	}

	// The bayesian package requires at least two classes. A single-label
	// corpus still trains: every prediction is that label with full
	// confidence.
	var cl *bayesian.Classifier
	if len(classes) > 1 {
		cl = bayesian.NewClassifierTfIdf(classes...)
		for _, doc := range docs {
			cl.Learn(filterToVocabulary(doc.features, vocab), bayesian.Class(doc.category))
		}
		cl.ConvertTermsFreqToTfIdf()
	}

	c.cl = cl
	c.vocab = vocab
	c.classes = classes
	c.trained = true
	c.sourceCount = len(corpus)
	return true
}

// Predict returns the most likely category for a title with its posterior
// probability. It returns nil when the classifier is untrained or the title
// normalizes to the empty string. Out-of-vocabulary tokens are dropped
// before scoring; the fitted model is never updated here.
func (c *Classifier) Predict(title string) *model.Prediction {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trained {
		return nil
	}

	normalized := Normalize(title)
	if normalized == "" {
		return nil
	}

	if len(c.classes) == 1 {
		return &model.Prediction{Category: string(c.classes[0]), Confidence: 1.0}
	}

	features := filterToVocabulary(featurize(normalized), c.vocab)
	scores, best, _ := c.cl.ProbScores(features)
	return &model.Prediction{
		Category:   string(c.classes[best]),
		Confidence: scores[best],
	}
}

// Trained reports whether a Train call has succeeded.
func (c *Classifier) Trained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trained
}

// SourceCount returns the size of the training corpus before normalization.
// The orchestrating service uses it to gate auto-applied predictions.
func (c *Classifier) SourceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourceCount
}

// Categories returns the labels the classifier currently knows, sorted.
func (c *Classifier) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.classes))
	for i, class := range c.classes {
		names[i] = string(class)
	}
	return names
}
