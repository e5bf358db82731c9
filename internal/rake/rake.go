// Package rake implements Rapid Automatic Keyword Extraction.
//
// Text is split into sentences, sentences are split into candidate phrases at
// stopword boundaries, and every candidate is scored by summing the
// degree/frequency ratio of its words. Every call builds its own tables, so
// the package holds no mutable state and is safe for concurrent use.
package rake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when an extraction or ranking parameter is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingScore is returned when a phrase token has no word score.
	// It signals a defect in candidate generation, never bad input.
	ErrMissingScore = errors.New("missing word score")
)

// Options controls which sentence fragments survive as candidate phrases.
type Options struct {
	NGram       int // maximum tokens per phrase
	TermLenLow  int // tokens shorter than this count as short
	TermLenHigh int // maximum phrase length in characters
}

// DefaultOptions returns ngram 5, term length bounds 3 and 50.
func DefaultOptions() Options {
	return Options{
		NGram:       5,
		TermLenLow:  3,
		TermLenHigh: 50,
	}
}

// Validate rejects non-positive parameters.
func (o Options) Validate() error {
	if o.NGram <= 0 {
		return fmt.Errorf("%w: ngram must be positive, got %d", ErrInvalidConfig, o.NGram)
	}
	if o.TermLenLow <= 0 {
		return fmt.Errorf("%w: term_len_low must be positive, got %d", ErrInvalidConfig, o.TermLenLow)
	}
	if o.TermLenHigh <= 0 {
		return fmt.Errorf("%w: term_len_high must be positive, got %d", ErrInvalidConfig, o.TermLenHigh)
	}
	return nil
}

// Extract returns the candidate score map for text.
func Extract(text string, stops Stopwords, opts Options) (Candidates, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pattern := CompileStopwords(stops)
	phrases := GenerateCandidates(SplitSentences(text), pattern, opts)
	wordScores := ScoreWords(phrases)

	return ScorePhrases(phrases, wordScores)
}
