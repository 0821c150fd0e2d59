package hyperlsh

import (
	"context"
	"math"
	"math/bits"
	"math/rand"
	"time"

	"github.com/hupe1980/hyperlsh/hyperindex"
)

// AutotunePlanes searches for a hyperplane count whose average bucket
// occupancy over samples drops to the target. Expected occupancy for N
// roughly uniform points is N/2^H, so the search starts near
// log2(N)-log2(target), biased down a little to avoid overshooting, and
// walks upward building a disposable single-table index per candidate.
//
// The first candidate whose average occupancy is at or below target wins.
// Occupancy is only approximately monotone in the plane count, so the
// search doesn't assume strictness; if it exhausts the ceiling without
// reaching the target it returns the above-target candidate that came
// closest.
func AutotunePlanes(ctx context.Context, dimension int, targetOccupancy float64, samples [][]float32, rng *rand.Rand, optFns ...Option) (int, error) {
	o := applyOptions(optFns)

	start := time.Now()
	planes, occupancy, err := autotunePlanes(ctx, dimension, targetOccupancy, samples, rng, o)

	o.metricsCollector.RecordAutotune(planes, time.Since(start), err)
	o.logger.LogAutotune(ctx, planes, occupancy, time.Since(start), err)
	return planes, err
}

func autotunePlanes(ctx context.Context, dimension int, targetOccupancy float64, samples [][]float32, rng *rand.Rand, o options) (int, float64, error) {
	if targetOccupancy <= 0 {
		return 0, 0, &ErrInvalidTargetOccupancy{Target: targetOccupancy}
	}
	if len(samples) == 0 {
		return 0, 0, ErrNoSamples
	}

	initial := initialPlaneGuess(len(samples), targetOccupancy)

	bestPlanes := 0
	bestMean := math.MaxFloat64

	for planes := initial; planes <= hyperindex.MaxPlaneCount; planes++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		idx, err := hyperindex.New[int](dimension, planes, rng)
		if err != nil {
			return 0, 0, err
		}
		for i, v := range samples {
			if err := idx.Add(i, v); err != nil {
				return 0, 0, err
			}
		}

		mean := idx.Stats().Mean
		o.logger.Debug("autotune candidate", "planes", planes, "occupancy", mean)

		if mean <= targetOccupancy {
			return planes, mean, nil
		}

		// Still above target: remember the closest candidate in case the
		// search exhausts the ceiling.
		if mean < bestMean {
			bestMean = mean
			bestPlanes = planes
		}
	}

	return bestPlanes, bestMean, nil
}

// initialPlaneGuess derives the starting plane count from
// log2(N) - log2(target), clamped to a valid range and biased down by two
// so a grouped-up sample doesn't make the search start past the answer.
func initialPlaneGuess(n int, targetOccupancy float64) int {
	ilog2 := bits.Len(uint(n)) - 1
	if ilog2 < 1 {
		ilog2 = 1
	}

	guess := ilog2 - int(math.Floor(math.Log2(targetOccupancy)))
	if guess < 2 {
		guess = 2
	}
	if guess > hyperindex.MaxPlaneCount {
		guess = hyperindex.MaxPlaneCount
	}

	guess -= 2
	if guess < 0 {
		guess = 0
	}
	return guess
}
