package hyperlsh

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hyperlsh/hyperindex"
	"github.com/hupe1980/hyperlsh/vecmath"
)

func TestNewMultiIndex(t *testing.T) {
	t.Run("CreatesIndex", func(t *testing.T) {
		m, err := New[int](300, 15, 10, rand.New(rand.NewSource(1)))
		require.NoError(t, err)
		defer m.Close()

		assert.Equal(t, 300, m.Dimension())
		assert.Equal(t, 15, m.TableCount())
		assert.Equal(t, 10, m.PlaneCount())
		assert.Equal(t, 0, m.Len())
	})

	t.Run("InvalidTableCount", func(t *testing.T) {
		_, err := New[int](300, 0, 10, rand.New(rand.NewSource(1)))
		var et *ErrInvalidTableCount
		require.ErrorAs(t, err, &et)
	})

	t.Run("InvalidDimension", func(t *testing.T) {
		_, err := New[int](0, 5, 10, rand.New(rand.NewSource(1)))
		var ed *hyperindex.ErrInvalidDimension
		require.ErrorAs(t, err, &ed)
	})

	t.Run("IndependentlySeededTables", func(t *testing.T) {
		m, err := New[int](32, 2, 8, rand.New(rand.NewSource(2)))
		require.NoError(t, err)
		defer m.Close()

		// Two tables drawn from one rng stream disagree on at least one
		// probe vector's sign pattern.
		probe := rand.New(rand.NewSource(3))
		differs := false
		for i := 0; i < 20 && !differs; i++ {
			v := vecmath.RandomUnitVector(32, probe)
			k0, err := m.indices[0].Key(v)
			require.NoError(t, err)
			k1, err := m.indices[1].Key(v)
			require.NoError(t, err)
			differs = k0 != k1
		}
		assert.True(t, differs)
	})
}

func TestMultiIndexAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertsIntoEveryTable", func(t *testing.T) {
		rng := rand.New(rand.NewSource(4))
		m, err := New[int](50, 5, 6, rng)
		require.NoError(t, err)
		defer m.Close()

		const n = 100
		for i := 0; i < n; i++ {
			require.NoError(t, m.Add(ctx, i, vecmath.RandomUnitVector(50, rng)))
		}

		for _, idx := range m.indices {
			assert.Equal(t, n, idx.Len())
		}
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		m, err := New[int](50, 3, 6, rand.New(rand.NewSource(5)))
		require.NoError(t, err)
		defer m.Close()

		var dm *hyperindex.ErrDimensionMismatch
		require.ErrorAs(t, m.Add(ctx, 0, make([]float32, 49)), &dm)
		assert.Equal(t, 50, dm.Expected)
		assert.Equal(t, 49, dm.Actual)
	})

	t.Run("Closed", func(t *testing.T) {
		m, err := New[int](8, 2, 4, rand.New(rand.NewSource(6)))
		require.NoError(t, err)
		m.Close()

		assert.ErrorIs(t, m.Add(ctx, 0, make([]float32, 8)), ErrIndexClosed)
	})
}

func TestNearest(t *testing.T) {
	ctx := context.Background()

	newPopulated := func(t *testing.T, seed int64, dim, tables, planes, n int) (*MultiIndex[int], [][]float32) {
		t.Helper()
		rng := rand.New(rand.NewSource(seed))
		m, err := New[int](dim, tables, planes, rng)
		require.NoError(t, err)
		t.Cleanup(m.Close)

		vectors := make([][]float32, n)
		for i := range vectors {
			vectors[i] = vecmath.RandomUnitVector(dim, rng)
			require.NoError(t, m.Add(ctx, i, vectors[i]))
		}
		return m, vectors
	}

	euclideanOver := func(vectors [][]float32) DistanceFunc[int] {
		return func(p []float32, key int) float32 {
			return vecmath.EuclideanDistance(p, vectors[key])
		}
	}

	t.Run("ResultInvariants", func(t *testing.T) {
		m, vectors := newPopulated(t, 7, 100, 8, 8, 2000)
		query := vectors[0]

		results, err := m.Nearest(ctx, query, 50, euclideanOver(vectors))
		require.NoError(t, err)

		assert.LessOrEqual(t, len(results), 50)
		require.NotEmpty(t, results)

		seen := make(map[int]struct{}, len(results))
		for i, r := range results {
			_, dup := seen[r.Key]
			assert.False(t, dup, "duplicate key %d", r.Key)
			seen[r.Key] = struct{}{}

			if i > 0 {
				assert.GreaterOrEqual(t, r.Distance, results[i-1].Distance)
			}
		}

		// The query point itself was inserted; nothing beats distance zero.
		assert.Equal(t, 0, results[0].Key)
		assert.InDelta(t, 0, results[0].Distance, 1e-5)
	})

	t.Run("EveryResultIsACandidate", func(t *testing.T) {
		m, vectors := newPopulated(t, 8, 100, 8, 8, 2000)
		query := vectors[1]

		results, err := m.Nearest(ctx, query, 100, euclideanOver(vectors))
		require.NoError(t, err)

		set, err := m.NearestPointKeySet(ctx, query)
		require.NoError(t, err)

		for _, r := range results {
			assert.Contains(t, set, r.Key)
		}
	})

	t.Run("KeysMatchKeySet", func(t *testing.T) {
		m, vectors := newPopulated(t, 9, 64, 6, 7, 1000)
		query := vectors[2]

		keys, err := m.NearestPointKeys(ctx, query)
		require.NoError(t, err)
		set, err := m.NearestPointKeySet(ctx, query)
		require.NoError(t, err)

		assert.Len(t, keys, len(set))
		for _, k := range keys {
			assert.Contains(t, set, k)
		}
	})

	t.Run("CountLargerThanCandidates", func(t *testing.T) {
		m, vectors := newPopulated(t, 10, 32, 4, 6, 50)

		results, err := m.Nearest(ctx, vectors[0], 1000, euclideanOver(vectors))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), 50)
	})

	t.Run("ZeroPlanesDegeneratesToLinearScan", func(t *testing.T) {
		m, vectors := newPopulated(t, 11, 16, 3, 0, 200)

		// One global bucket per table: every key is a candidate.
		set, err := m.NearestPointKeySet(ctx, vectors[0])
		require.NoError(t, err)
		assert.Len(t, set, 200)

		results, err := m.Nearest(ctx, vectors[0], 10, euclideanOver(vectors))
		require.NoError(t, err)
		assert.Len(t, results, 10)
		assert.Equal(t, 0, results[0].Key)
	})

	t.Run("InvalidArguments", func(t *testing.T) {
		m, vectors := newPopulated(t, 12, 16, 2, 4, 10)

		_, err := m.Nearest(ctx, vectors[0], 0, euclideanOver(vectors))
		assert.ErrorIs(t, err, ErrInvalidCount)

		_, err = m.Nearest(ctx, vectors[0], 10, nil)
		assert.ErrorIs(t, err, ErrNilDistanceFunc)

		var dm *hyperindex.ErrDimensionMismatch
		_, err = m.Nearest(ctx, make([]float32, 17), 10, euclideanOver(vectors))
		require.ErrorAs(t, err, &dm)
	})

	t.Run("Closed", func(t *testing.T) {
		m, vectors := newPopulated(t, 13, 16, 2, 4, 10)
		m.Close()

		_, err := m.Nearest(ctx, vectors[0], 10, euclideanOver(vectors))
		assert.ErrorIs(t, err, ErrIndexClosed)

		_, err = m.NearestPointKeys(ctx, vectors[0])
		assert.ErrorIs(t, err, ErrIndexClosed)
	})

	t.Run("ConcurrentQueries", func(t *testing.T) {
		m, vectors := newPopulated(t, 14, 64, 6, 7, 1000)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results, err := m.Nearest(ctx, vectors[i], 20, euclideanOver(vectors))
				assert.NoError(t, err)
				assert.NotEmpty(t, results)
			}()
		}
		wg.Wait()
	})
}

// Recall scenario: the ensemble query must overlap the true linear-scan
// top-20 by at least 17/20.
func TestNearestRecall(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping recall scenario in short mode")
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(15))

	const (
		dim    = 300
		tables = 15
		planes = 10
		n      = 10000
	)

	m, err := New[int](dim, tables, planes, rng)
	require.NoError(t, err)
	defer m.Close()

	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = vecmath.RandomUnitVector(dim, rng)
		require.NoError(t, m.Add(ctx, i, vectors[i]))
	}

	query := vectors[0]

	// True top-20 by exhaustive scan.
	type scored struct {
		key  int
		dist float32
	}
	linear := make([]scored, n)
	for i, v := range vectors {
		linear[i] = scored{key: i, dist: vecmath.EuclideanDistance(query, v)}
	}
	sort.Slice(linear, func(i, j int) bool { return linear[i].dist < linear[j].dist })

	truth := make(map[int]struct{}, 20)
	for _, s := range linear[:20] {
		truth[s.key] = struct{}{}
	}

	results, err := m.Nearest(ctx, query, 100, func(p []float32, key int) float32 {
		return vecmath.EuclideanDistance(p, vectors[key])
	})
	require.NoError(t, err)

	overlap := 0
	for _, r := range results {
		if _, ok := truth[r.Key]; ok {
			overlap++
		}
	}
	assert.GreaterOrEqual(t, overlap, 17, "recall %d/20 below bound", overlap)
}

func TestMultiIndexObservability(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(16))

	mc := &BasicMetricsCollector{}
	m, err := New[int](32, 4, 6, rng, WithMetricsCollector(mc), WithMaxConcurrentQueries(2))
	require.NoError(t, err)
	defer m.Close()

	vectors := make([][]float32, 50)
	for i := range vectors {
		vectors[i] = vecmath.RandomUnitVector(32, rng)
		require.NoError(t, m.Add(ctx, i, vectors[i]))
	}

	_, err = m.Nearest(ctx, vectors[0], 5, func(p []float32, key int) float32 {
		return vecmath.EuclideanDistance(p, vectors[key])
	})
	require.NoError(t, err)

	_, err = m.Nearest(ctx, vectors[0], 0, nil)
	require.Error(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(50), stats.AddCount)
	assert.Equal(t, int64(0), stats.AddErrors)
	assert.Equal(t, int64(2), stats.NearestCount)
	assert.Equal(t, int64(1), stats.NearestErrors)
	assert.Greater(t, stats.CandidatesScored, int64(0))
}
