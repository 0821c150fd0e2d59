package hyperindex

import (
	"fmt"
	"math/rand"

	"github.com/hupe1980/hyperlsh/vecmath"
)

// MaxPlaneCount bounds the hyperplane count of a single index. Bucket count
// grows as 2^planes, so anything beyond this is degenerate anyway.
const MaxPlaneCount = 255

// ErrDimensionMismatch indicates a vector whose length does not match the
// dimension the index was constructed with.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrInvalidPlaneCount indicates a hyperplane count outside [0, MaxPlaneCount].
type ErrInvalidPlaneCount struct {
	PlaneCount int
}

func (e *ErrInvalidPlaneCount) Error() string {
	return fmt.Sprintf("invalid hyperplane count: %d (must be in [0, %d])", e.PlaneCount, MaxPlaneCount)
}

// HyperIndex is a single-table LSH index over vectors of a fixed dimension.
// Item keys are opaque to the index; it stores them in buckets keyed by
// hyperplane sign pattern and never inspects them beyond equality.
type HyperIndex[K comparable] struct {
	dimension int
	planes    [][]float32
	groups    map[BucketKey][]K
	items     int
}

// New creates an index with planeCount random unit hyperplanes of the given
// dimension, drawn from rng. The hyperplanes are fixed for the lifetime of
// the index; seeding rng makes them reproducible.
//
// planeCount zero is allowed and degenerates to a single global bucket.
func New[K comparable](dimension, planeCount int, rng *rand.Rand) (*HyperIndex[K], error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}
	if planeCount < 0 || planeCount > MaxPlaneCount {
		return nil, &ErrInvalidPlaneCount{PlaneCount: planeCount}
	}

	planes := make([][]float32, planeCount)
	for i := range planes {
		planes[i] = vecmath.RandomUnitVector(dimension, rng)
	}

	return &HyperIndex[K]{
		dimension: dimension,
		planes:    planes,
		groups:    make(map[BucketKey][]K),
	}, nil
}

// Dimension returns the vector dimension the index was constructed with.
func (h *HyperIndex[K]) Dimension() int {
	return h.dimension
}

// PlaneCount returns the number of hyperplanes.
func (h *HyperIndex[K]) PlaneCount() int {
	return len(h.planes)
}

// BucketCount returns the number of non-empty buckets.
func (h *HyperIndex[K]) BucketCount() int {
	return len(h.groups)
}

// Len returns the number of items added to the index.
func (h *HyperIndex[K]) Len() int {
	return h.items
}

// Key projects v against every hyperplane and returns its sign pattern:
// bit i is set iff the dot product with hyperplane i is positive. The result
// is deterministic for fixed planes and input.
func (h *HyperIndex[K]) Key(v []float32) (BucketKey, error) {
	if len(v) != h.dimension {
		return BucketKey{}, &ErrDimensionMismatch{Expected: h.dimension, Actual: len(v)}
	}

	kb := newKeyBuilder(len(h.planes))
	for _, plane := range h.planes {
		kb.append(vecmath.Dot(plane, v) > 0)
	}

	return kb.key(), nil
}

// Add appends key to the bucket for v's sign pattern, creating the bucket if
// this is the first item to hash there. Insertion order within a bucket is
// preserved. There is no delete: once added, a key stays discoverable for
// the lifetime of the index.
func (h *HyperIndex[K]) Add(key K, v []float32) error {
	bk, err := h.Key(v)
	if err != nil {
		return err
	}

	h.groups[bk] = append(h.groups[bk], key)
	h.items++
	return nil
}

// Group returns the contents of the bucket for bk. The second return value
// is false if no item ever hashed to exactly that sign pattern; that is a
// normal outcome, not an error.
//
// The returned slice aliases index memory and must be treated as read-only.
func (h *HyperIndex[K]) Group(bk BucketKey) ([]K, bool) {
	g, ok := h.groups[bk]
	return g, ok
}
