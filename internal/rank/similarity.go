package rank

import (
	"math"
	"strings"

	"github.com/xrash/smetrics"
)

// Jaro-Winkler parameters: the prefix bonus applies above 0.7 and counts
// at most 4 leading characters.
const (
	jaroBoostThreshold = 0.7
	jaroPrefixSize     = 4
)

// tokenSimilarity returns the Jaro-Winkler proximity of two tokens in [0,1].
func tokenSimilarity(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, jaroBoostThreshold, jaroPrefixSize)
}

// Similarity scores phrase against query.
//
// An exact match scores len(query tokens) * Scale. Otherwise every
// (query token i, phrase token j) pair contributes its Jaro-Winkler proximity,
// with identical tokens counted as Scale, weighted by PowerBase^|2i-j|.
// The doubled query index makes early query tokens dominate alignment.
func (r *Ranker) Similarity(phrase, query string) float64 {
	queryTerms := strings.Fields(query)
	phraseTerms := strings.Fields(phrase)

	if phrase == query {
		return float64(len(queryTerms)) * r.Scale
	}

	var similarity float64
	for i, qt := range queryTerms {
		for j, pt := range phraseTerms {
			sim := tokenSimilarity(qt, pt)
			if sim == 1.0 {
				sim = r.Scale
			}
			similarity += sim * math.Pow(r.PowerBase, math.Abs(float64(i+i-j)))
		}
	}
	return similarity
}
