package scan

import (
	"container/heap"
	"sort"
)

// topHeap is a fixed-capacity min-heap of file records keyed by size. The
// smallest retained record sits at the root, so once the heap is full a
// candidate only displaces it when strictly larger. Memory stays O(limit)
// no matter how many records are offered.
type topHeap struct {
	limit int
	items []FileRecord
}

func newTopHeap(limit int) *topHeap {
	return &topHeap{limit: limit}
}

func (h *topHeap) Len() int { return len(h.items) }

func (h *topHeap) Less(i, j int) bool { return h.items[i].Size < h.items[j].Size }

func (h *topHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *topHeap) Push(x any) {
	h.items = append(h.items, x.(FileRecord))
}

func (h *topHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]

	return item
}

// offer considers a record for the running top set.
func (h *topHeap) offer(rec FileRecord) {
	if h.limit <= 0 {
		return
	}

	if len(h.items) < h.limit {
		heap.Push(h, rec)

		return
	}

	if rec.Size > h.items[0].Size {
		h.items[0] = rec
		heap.Fix(h, 0)
	}
}

// drain returns the retained records sorted largest first. Records of equal
// size carry no guaranteed relative order.
func (h *topHeap) drain() []FileRecord {
	out := make([]FileRecord, len(h.items))
	copy(out, h.items)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})

	h.items = nil

	return out
}
