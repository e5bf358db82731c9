package rake

import (
	"regexp"
	"sort"
	"strings"
)

// phraseDelimiter replaces every stopword occurrence before fragments are split.
const phraseDelimiter = "|"

// Stopwords is a set of lowercase stopwords.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words, trimming and lowercasing each entry.
// Blank entries are ignored.
func NewStopwords(words ...string) Stopwords {
	set := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Contains reports whether word is a stopword, ignoring case.
func (s Stopwords) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// Words returns the stopwords sorted longest first, then alphabetically.
func (s Stopwords) Words() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	return words
}

// StopwordPattern matches whole-word stopword occurrences, ignoring case.
// The zero value matches nothing.
type StopwordPattern struct {
	re *regexp.Regexp
}

// CompileStopwords builds the word-boundary pattern for stops.
// An empty set yields a pattern that matches nothing.
func CompileStopwords(stops Stopwords) *StopwordPattern {
	words := stops.Words()
	if len(words) == 0 {
		return &StopwordPattern{}
	}

	alternatives := make([]string, len(words))
	for i, w := range words {
		alternatives[i] = `\b` + regexp.QuoteMeta(w) + `\b`
	}

	// Quoted alternatives always compile.
	return &StopwordPattern{re: regexp.MustCompile(`(?i)` + strings.Join(alternatives, "|"))}
}

// Split replaces stopwords in sentence with a delimiter and returns the
// fragments between them. A sentence without stopwords is one fragment.
func (p *StopwordPattern) Split(sentence string) []string {
	if p == nil || p.re == nil {
		return []string{sentence}
	}
	return strings.Split(p.re.ReplaceAllLiteralString(sentence, phraseDelimiter), phraseDelimiter)
}
