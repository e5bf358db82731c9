package rake

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// shortTermThreshold is the largest share of short tokens a phrase may carry.
const shortTermThreshold = 0.5

// GenerateCandidates splits every sentence at stopwords and keeps the
// fragments that pass the length, ngram and short-token filters.
// Phrases are returned trimmed and lowercased, in input order, with repeats.
func GenerateCandidates(sentences []string, pattern *StopwordPattern, opts Options) []string {
	var phrases []string

	for _, sentence := range sentences {
		for _, fragment := range pattern.Split(sentence) {
			if utf8.RuneCountInString(fragment) > opts.TermLenHigh {
				continue
			}

			phrase := strings.ToLower(strings.TrimSpace(fragment))
			if phrase == "" {
				continue
			}

			terms := strings.Fields(phrase)
			if len(terms) > opts.NGram {
				continue
			}

			short := 0
			for _, t := range terms {
				if utf8.RuneCountInString(t) < opts.TermLenLow {
					short++
				}
			}
			if float64(short)/float64(len(terms)) > shortTermThreshold {
				continue
			}

			phrases = append(phrases, phrase)
		}
	}

	return phrases
}

// Candidates maps a normalized phrase to its RAKE score.
type Candidates map[string]float64

// ScoredPhrase is a phrase paired with its RAKE score.
type ScoredPhrase struct {
	Phrase string
	Score  float64
}

// Phrases returns the candidate phrases in alphabetical order.
func (c Candidates) Phrases() []string {
	phrases := make([]string, 0, len(c))
	for p := range c {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	return phrases
}

// Sorted returns the candidates by score descending, phrase ascending on ties.
func (c Candidates) Sorted() []ScoredPhrase {
	out := make([]ScoredPhrase, 0, len(c))
	for p, s := range c {
		out = append(out, ScoredPhrase{Phrase: p, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Phrase < out[j].Phrase
	})
	return out
}

// TopThird keeps the strongest third of the candidates by score.
// With fewer than three candidates nothing is dropped.
func (c Candidates) TopThird() Candidates {
	keep := len(c) / 3
	if keep == 0 {
		keep = len(c)
	}

	out := make(Candidates, keep)
	for _, sp := range c.Sorted()[:keep] {
		out[sp.Phrase] = sp.Score
	}
	return out
}

// Merge combines candidate maps in order; a later map overwrites the score of
// a phrase already present.
func Merge(maps ...Candidates) Candidates {
	size := 0
	for _, m := range maps {
		size += len(m)
	}

	out := make(Candidates, size)
	for _, m := range maps {
		for p, s := range m {
			out[p] = s
		}
	}
	return out
}
