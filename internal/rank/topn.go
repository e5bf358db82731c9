package rank

import "container/heap"

// entryHeap is a min-heap: the weakest entry sits at the root so it can be
// evicted once the heap grows past capacity. Among equal similarities the
// alphabetically later phrase is weaker, which keeps selection deterministic.
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Similarity != h[j].Similarity {
		return h[i].Similarity < h[j].Similarity
	}
	return h[i].Phrase > h[j].Phrase
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(Entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// selectTop returns the n strongest entries ordered by similarity descending.
// The heap never holds more than min(n, len(entries))+1 entries.
func selectTop(entries []Entry, n int) []Entry {
	n = min(n, len(entries))
	h := make(entryHeap, 0, n+1)
	for _, e := range entries {
		heap.Push(&h, e)
		if h.Len() > n {
			heap.Pop(&h)
		}
	}

	out := make([]Entry, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(Entry)
	}
	return out
}
