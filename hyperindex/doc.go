// Package hyperindex implements a single-table random-hyperplane LSH index.
//
// An index owns a fixed set of random unit hyperplanes. Every vector maps to
// a BucketKey whose bit i records which side of hyperplane i the vector lies
// on; vectors sharing a sign pattern land in the same bucket. Angularly close
// vectors collide with high probability, which is what makes bucket lookups
// useful for approximate nearest-neighbor search.
//
// The index is append-only. It is safe for concurrent reads, but concurrent
// mutation requires external synchronization.
package hyperindex
