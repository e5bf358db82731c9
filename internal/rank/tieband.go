package rank

import (
	"math"
	"sort"

	"github.com/ppiankov/keyphrase/internal/rake"
)

// regroup reorders runs of near-equal similarity by RAKE score.
//
// An entry joins the current band when its similarity is within epsilon of
// the previous entry, so a slowly decreasing run forms one band even if its
// ends differ by more than epsilon. Bands keep their relative order; members
// of a band are stably sorted by their score in candidates, descending.
func regroup(entries []Entry, candidates rake.Candidates, epsilon float64) []Entry {
	out := make([]Entry, 0, len(entries))

	for start := 0; start < len(entries); {
		end := start + 1
		for end < len(entries) && math.Abs(entries[end].Similarity-entries[end-1].Similarity) <= epsilon {
			end++
		}

		out = append(out, entries[start:end]...)
		if end-start > 1 {
			band := out[start:end]
			sort.SliceStable(band, func(i, j int) bool {
				return candidates[band[i].Phrase] > candidates[band[j].Phrase]
			})
		}

		start = end
	}

	return out
}
