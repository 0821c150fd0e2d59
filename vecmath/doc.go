// Package vecmath provides the vector arithmetic used by the hyperplane
// indexes: dot products, distance metrics and uniform random unit-vector
// sampling. Accumulation happens in float64 to bound rounding error on
// high-dimensional float32 vectors.
package vecmath
