package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and strips punctuation",
			input: "Starbucks COFFEE #1234!",
			want:  "starbucks coffee",
		},
		{
			name:  "drops stop words",
			input: "payment for the groceries",
			want:  "payment groceries",
		},
		{
			name:  "drops short tokens",
			input: "go to gym membership",
			want:  "gym membership",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "digits only",
			input: "1234567890",
			want:  "",
		},
		{
			name:  "no alphabetic characters",
			input: "$$$ 42.50 ***",
			want:  "",
		},
		{
			name:  "reduces to nothing after filtering",
			input: "to a of",
			want:  "",
		},
		{
			name:  "collapses whitespace",
			input: "uber\t\nride   downtown",
			want:  "uber ride downtown",
		},
		{
			name:  "unicode stripped to ascii letters",
			input: "café münchen",
			want:  "caf mnchen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestFeaturize(t *testing.T) {
	t.Run("unigrams and bigrams", func(t *testing.T) {
		got := featurize("monthly gym membership")
		assert.Equal(t, []string{
			"monthly", "gym", "membership",
			"monthly gym", "gym membership",
		}, got)
	})

	t.Run("single token has no bigrams", func(t *testing.T) {
		assert.Equal(t, []string{"coffee"}, featurize("coffee"))
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Nil(t, featurize(""))
	})
}
