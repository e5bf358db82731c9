// Package rank re-ranks RAKE candidates against a query.
//
// Each candidate is scored for similarity to the query, the strongest N are
// selected with a bounded heap, and runs of near-tied similarity are
// reordered by RAKE score.
package rank

import (
	"fmt"

	"github.com/ppiankov/keyphrase/internal/rake"
)

// Default ranking parameters.
const (
	// DefaultScale is the weight of an identical token or an exact phrase match.
	DefaultScale = 10
	// DefaultPowerBase is the base of the positional decay.
	DefaultPowerBase = 0.5
	// DefaultEpsilon is the widest similarity gap between tie-band neighbours.
	DefaultEpsilon = 1e-2
)

// Entry is one ranked phrase.
type Entry struct {
	Phrase     string
	Similarity float64
	Score      float64 // RAKE score of the phrase
}

// Ranker holds the similarity and tie-band parameters.
type Ranker struct {
	Scale     float64 // weight of an identical token or phrase
	PowerBase float64 // positional decay base
	Epsilon   float64 // tie-band width between neighbours
}

// NewRanker returns a Ranker with the default parameters.
func NewRanker() *Ranker {
	return &Ranker{
		Scale:     DefaultScale,
		PowerBase: DefaultPowerBase,
		Epsilon:   DefaultEpsilon,
	}
}

// Validate rejects parameters that would break the ordering guarantees.
func (r *Ranker) Validate() error {
	if r.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %v", rake.ErrInvalidConfig, r.Scale)
	}
	if r.PowerBase <= 0 {
		return fmt.Errorf("%w: power_base must be positive, got %v", rake.ErrInvalidConfig, r.PowerBase)
	}
	if r.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must not be negative, got %v", rake.ErrInvalidConfig, r.Epsilon)
	}
	return nil
}

// Rank returns min(topN, len(candidates)) entries ordered by similarity to
// query, with near-tied runs ordered by RAKE score.
func (r *Ranker) Rank(candidates rake.Candidates, query string, topN int) ([]Entry, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", rake.ErrInvalidConfig, topN)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(candidates))
	for phrase, score := range candidates {
		entries = append(entries, Entry{
			Phrase:     phrase,
			Similarity: r.Similarity(phrase, query),
			Score:      score,
		})
	}

	return regroup(selectTop(entries, topN), candidates, r.Epsilon), nil
}

// ByQuery ranks candidates against query with the default parameters.
func ByQuery(candidates rake.Candidates, query string, topN int) ([]Entry, error) {
	return NewRanker().Rank(candidates, query, topN)
}
