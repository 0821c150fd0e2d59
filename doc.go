// Package hyperlsh provides approximate nearest-neighbor search over
// high-dimensional vectors using random-hyperplane locality-sensitive
// hashing.
//
// A MultiIndex is an ensemble of independently randomized hash tables
// (see package hyperindex). Queries probe each table's exact bucket plus
// every bucket at Hamming distance 1, deduplicate the candidates, score
// them with a caller-supplied distance function and merge them into a
// bounded top-k result. AutotunePlanes picks a hyperplane count that hits
// a target bucket occupancy for a sample of the data.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	mi, err := hyperlsh.New[int](300, 15, 10, rng)
//	if err != nil { ... }
//	defer mi.Close()
//
//	for i, v := range vectors {
//	    if err := mi.Add(ctx, i, v); err != nil { ... }
//	}
//
//	results, err := mi.Nearest(ctx, query, 100, func(p []float32, key int) float32 {
//	    return vecmath.EuclideanDistance(p, vectors[key])
//	})
//
// The index is append-only: no delete, no update, no persistence. Queries
// are read-only and may run concurrently with each other; concurrent calls
// to Add require external synchronization.
package hyperlsh
