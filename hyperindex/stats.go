package hyperindex

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes bucket occupancy over the non-empty buckets of an index.
// The autotuner steers on Mean; Min and Max are diagnostics.
type Stats struct {
	Buckets int
	Min     int
	Mean    float64
	Max     int
}

// Stats computes occupancy statistics over all non-empty buckets.
// An empty index reports zeros.
func (h *HyperIndex[K]) Stats() Stats {
	if len(h.groups) == 0 {
		return Stats{}
	}

	sizes := make([]float64, 0, len(h.groups))
	for _, g := range h.groups {
		sizes = append(sizes, float64(len(g)))
	}

	return Stats{
		Buckets: len(h.groups),
		Min:     int(floats.Min(sizes)),
		Mean:    stat.Mean(sizes, nil),
		Max:     int(floats.Max(sizes)),
	}
}
