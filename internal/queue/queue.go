// Package queue provides a bounded max-heap used to maintain the live
// top-k result set during a query.
package queue

// Item pairs a candidate key with its distance to the query point.
type Item[K comparable] struct {
	Key      K
	Distance float32
}

// Bounded is a max-heap over Item distances capped at a fixed size. Pushing
// into a full heap evicts the current worst candidate, so the heap always
// holds the best k items seen so far. Value-based storage, no pointer
// indirection.
type Bounded[K comparable] struct {
	limit int
	items []Item[K]
}

// NewBounded creates a heap holding at most limit items. limit must be > 0.
func NewBounded[K comparable](limit int) *Bounded[K] {
	return &Bounded[K]{
		limit: limit,
		items: make([]Item[K], 0, limit),
	}
}

// Len returns the number of items currently held.
func (b *Bounded[K]) Len() int {
	return len(b.items)
}

// Push offers an item. If the heap is full and the item is no better than
// the current worst, it is dropped.
func (b *Bounded[K]) Push(item Item[K]) {
	if len(b.items) < b.limit {
		b.items = append(b.items, item)
		b.siftUp(len(b.items) - 1)
		return
	}

	if item.Distance >= b.items[0].Distance {
		return
	}
	b.items[0] = item
	b.siftDown(0)
}

// Ascending drains the heap and returns its contents ordered by ascending
// distance. The heap is empty afterwards.
func (b *Bounded[K]) Ascending() []Item[K] {
	out := make([]Item[K], len(b.items))
	for i := len(b.items) - 1; i >= 0; i-- {
		out[i] = b.pop()
	}
	return out
}

func (b *Bounded[K]) pop() Item[K] {
	n := len(b.items)
	root := b.items[0]
	last := b.items[n-1]
	b.items[n-1] = Item[K]{}
	b.items = b.items[:n-1]
	if n-1 > 0 {
		b.items[0] = last
		b.siftDown(0)
	}
	return root
}

func (b *Bounded[K]) less(i, j int) bool {
	return b.items[i].Distance > b.items[j].Distance
}

func (b *Bounded[K]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !b.less(i, p) {
			return
		}
		b.items[i], b.items[p] = b.items[p], b.items[i]
		i = p
	}
}

func (b *Bounded[K]) siftDown(i int) {
	n := len(b.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && b.less(r, l) {
			best = r
		}
		if !b.less(best, i) {
			return
		}
		b.items[i], b.items[best] = b.items[best], b.items[i]
		i = best
	}
}
