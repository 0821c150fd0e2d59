package hyperlsh

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hyperlsh/hyperindex"
	"github.com/hupe1980/hyperlsh/internal/queue"
	"github.com/hupe1980/hyperlsh/internal/resource"
)

// DistanceFunc scores a candidate key against the query point. It is only
// used for final ranking; bucketing depends solely on hyperplane-sign
// projections. The caller owns vector storage, so resolving a key back to
// its vector is the caller's job.
type DistanceFunc[K comparable] func(point []float32, key K) float32

// ScoredKey is a query result: a candidate key and its distance to the
// query point.
type ScoredKey[K comparable] struct {
	Key      K
	Distance float32
}

// MultiIndex is an ensemble of independently randomized single-table LSH
// indexes sharing one dimension and hyperplane count. Querying probes every
// table's exact and Hamming-1-neighboring buckets and merges the scored
// candidates, which recovers most of the recall a single table loses at
// hyperplane boundaries.
//
// Queries are read-only and safe to run concurrently with each other.
// Add mutates bucket maps and requires external synchronization against
// other Add calls and against queries.
type MultiIndex[K comparable] struct {
	dimension int
	indices   []*hyperindex.HyperIndex[K]
	opts      options
	pool      *workerPool
	limiter   *resource.Limiter
	closed    atomic.Bool
}

// New creates a MultiIndex of tableCount sub-indices, each with planeCount
// random hyperplanes of the given dimension drawn from rng. Seeding rng
// makes construction reproducible.
func New[K comparable](dimension, tableCount, planeCount int, rng *rand.Rand, optFns ...Option) (*MultiIndex[K], error) {
	if tableCount <= 0 {
		return nil, &ErrInvalidTableCount{TableCount: tableCount}
	}

	indices := make([]*hyperindex.HyperIndex[K], tableCount)
	for i := range indices {
		idx, err := hyperindex.New[K](dimension, planeCount, rng)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	o := applyOptions(optFns)

	m := &MultiIndex[K]{
		dimension: dimension,
		indices:   indices,
		opts:      o,
		pool:      newWorkerPool(o.numWorkers),
		limiter:   resource.NewLimiter(o.resourceConfig),
	}

	o.logger.WithDimension(dimension).WithTables(tableCount).WithPlanes(planeCount).
		Debug("multi index created")

	return m, nil
}

// Dimension returns the vector dimension shared by all sub-indices.
func (m *MultiIndex[K]) Dimension() int {
	return m.dimension
}

// TableCount returns the number of sub-indices in the ensemble.
func (m *MultiIndex[K]) TableCount() int {
	return len(m.indices)
}

// PlaneCount returns the hyperplane count shared by all sub-indices.
func (m *MultiIndex[K]) PlaneCount() int {
	return m.indices[0].PlaneCount()
}

// Len returns the number of items added to the index.
func (m *MultiIndex[K]) Len() int {
	return m.indices[0].Len()
}

// Close releases the worker pool. The index must not be used afterwards.
func (m *MultiIndex[K]) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	m.pool.close()
}

// Add inserts key into every sub-index. Sub-index updates are independent
// and run in parallel; Add returns once all of them complete. There is no
// delete: once inserted, a key stays discoverable for the lifetime of the
// index.
func (m *MultiIndex[K]) Add(ctx context.Context, key K, vector []float32) error {
	start := time.Now()
	err := m.add(ctx, key, vector)

	m.opts.metricsCollector.RecordAdd(time.Since(start), err)
	m.opts.logger.LogAdd(ctx, len(vector), err)
	return err
}

func (m *MultiIndex[K]) add(ctx context.Context, key K, vector []float32) error {
	if m.closed.Load() {
		return ErrIndexClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(vector) != m.dimension {
		return &hyperindex.ErrDimensionMismatch{Expected: m.dimension, Actual: len(vector)}
	}

	// Sub-indices own disjoint bucket maps, so the writes never overlap.
	var g errgroup.Group
	for _, idx := range m.indices {
		idx := idx
		g.Go(func() error {
			return idx.Add(key, vector)
		})
	}
	return g.Wait()
}

// Nearest returns up to count keys ordered by ascending distance to point.
// Candidates are drawn from the exact and Hamming-1 buckets of every
// sub-index, deduplicated by key, and each distinct key is scored by
// distFn exactly once. The result contains no duplicate keys.
func (m *MultiIndex[K]) Nearest(ctx context.Context, point []float32, count int, distFn DistanceFunc[K]) ([]ScoredKey[K], error) {
	start := time.Now()
	results, candidates, err := m.nearest(ctx, point, count, distFn)

	m.opts.metricsCollector.RecordNearest(count, candidates, time.Since(start), err)
	m.opts.logger.LogNearest(ctx, count, candidates, len(results), err)
	return results, err
}

func (m *MultiIndex[K]) nearest(ctx context.Context, point []float32, count int, distFn DistanceFunc[K]) ([]ScoredKey[K], int, error) {
	if count <= 0 {
		return nil, 0, ErrInvalidCount
	}
	if distFn == nil {
		return nil, 0, ErrNilDistanceFunc
	}

	candidates, err := m.candidateSet(ctx, point)
	if err != nil {
		return nil, 0, err
	}

	top := queue.NewBounded[K](count)
	for key := range candidates {
		top.Push(queue.Item[K]{Key: key, Distance: distFn(point, key)})
	}

	items := top.Ascending()
	results := make([]ScoredKey[K], len(items))
	for i, item := range items {
		results[i] = ScoredKey[K]{Key: item.Key, Distance: item.Distance}
	}
	return results, len(candidates), nil
}

// NearestPointKeys returns the deduplicated, unscored candidate key set for
// point as a slice in unspecified order. Use this when ranking happens
// downstream.
func (m *MultiIndex[K]) NearestPointKeys(ctx context.Context, point []float32) ([]K, error) {
	set, err := m.NearestPointKeySet(ctx, point)
	if err != nil {
		return nil, err
	}

	keys := make([]K, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys, nil
}

// NearestPointKeySet returns the deduplicated, unscored candidate key set
// for point.
func (m *MultiIndex[K]) NearestPointKeySet(ctx context.Context, point []float32) (map[K]struct{}, error) {
	return m.candidateSet(ctx, point)
}

// candidateSet fans probing out across the sub-indices on the worker pool
// and merges the per-table candidate sets sequentially. Each table writes
// only its own slot, so the merge is the only place results meet and no
// locking is needed. The call returns only after every spawned probe has
// completed.
func (m *MultiIndex[K]) candidateSet(ctx context.Context, point []float32) (map[K]struct{}, error) {
	if m.closed.Load() {
		return nil, ErrIndexClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(point) != m.dimension {
		return nil, &hyperindex.ErrDimensionMismatch{Expected: m.dimension, Actual: len(point)}
	}

	if err := m.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer m.limiter.Release()

	partial := make([]map[K]struct{}, len(m.indices))

	var wg sync.WaitGroup
	for i := range m.indices {
		i := i
		wg.Add(1)
		err := m.pool.submit(ctx, func() {
			defer wg.Done()
			partial[i] = probeTable(m.indices[i], point)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	merged := make(map[K]struct{})
	for _, set := range partial {
		for key := range set {
			merged[key] = struct{}{}
		}
	}
	return merged, nil
}

// probeTable collects the candidate keys of one sub-index for point: the
// exact bucket plus every bucket at Hamming distance 1. With zero
// hyperplanes the exact (empty) key is the only probe.
func probeTable[K comparable](idx *hyperindex.HyperIndex[K], point []float32) map[K]struct{} {
	// Dimension was validated by the caller; Key cannot fail here.
	exact, err := idx.Key(point)
	if err != nil {
		panic(err)
	}

	seen := make(map[K]struct{})
	gather := func(bk hyperindex.BucketKey) {
		if group, ok := idx.Group(bk); ok {
			for _, key := range group {
				seen[key] = struct{}{}
			}
		}
	}

	gather(exact)
	for i := 0; i < exact.Len(); i++ {
		gather(exact.Flip(i))
	}
	return seen
}
