package rake

import (
	"fmt"
	"regexp"
	"strings"
)

var wordSeparator = regexp.MustCompile(`[^a-zA-Z0-9_+\-/]+`)

// WordScores maps a word to (degree + frequency) / frequency.
type WordScores map[string]float64

// separateWords splits a phrase into scoring tokens. Single digits and lone
// dots carry no keyword weight and are skipped.
func separateWords(phrase string) []string {
	var words []string
	for _, w := range wordSeparator.Split(phrase, -1) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || isNumber(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

func isNumber(w string) bool {
	return len(w) == 1 && (w[0] == '.' || (w[0] >= '0' && w[0] <= '9'))
}

// ScoreWords builds the word score table over every phrase occurrence.
// A word in a phrase of L tokens gains 1 frequency and L-1 degree; each
// word's final frequency is then added to its degree.
func ScoreWords(phrases []string) WordScores {
	frequency := make(map[string]int)
	degree := make(map[string]int)

	for _, phrase := range phrases {
		words := separateWords(phrase)
		phraseDegree := len(words) - 1
		for _, w := range words {
			frequency[w]++
			degree[w] += phraseDegree
		}
	}

	scores := make(WordScores, len(frequency))
	for w, f := range frequency {
		scores[w] = float64(degree[w]+f) / float64(f)
	}
	return scores
}

// ScorePhrases sums the word scores of every phrase. Identical phrases
// overwrite each other since they share the same sum.
func ScorePhrases(phrases []string, wordScores WordScores) (Candidates, error) {
	candidates := make(Candidates, len(phrases))

	for _, phrase := range phrases {
		var score float64
		for _, w := range separateWords(phrase) {
			ws, ok := wordScores[w]
			if !ok {
				return nil, fmt.Errorf("%w: %q in phrase %q", ErrMissingScore, w, phrase)
			}
			score += ws
		}
		candidates[phrase] = score
	}

	return candidates, nil
}
