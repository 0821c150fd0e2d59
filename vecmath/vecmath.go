package vecmath

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/viterin/vek/vek32"
)

// Dot calculates the dot product of two vectors.
// It accumulates in float64 and narrows on return so that long
// float32 vectors don't drift. Panics if the lengths differ; passing
// vectors of different lengths is a caller bug.
func Dot(a, b []float32) float32 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vecmath: dot length mismatch: %d != %d", len(a), len(b)))
	}

	var acc float64
	for i := range a {
		acc += float64(a[i]) * float64(b[i])
	}

	return float32(acc)
}

// EuclideanDistance calculates the L2 distance between two vectors.
// Uses SIMD acceleration when available.
// Assumes vectors are the same length (caller's responsibility).
func EuclideanDistance(a, b []float32) float32 {
	return vek32.Distance(a, b)
}

// ModifiedCosineDistance rescales cosine similarity from [-1,1] into a
// distance in [0,2]: zero for identical direction, 2 for opposite.
// Both inputs are expected to be unit vectors.
func ModifiedCosineDistance(a, b []float32) float32 {
	d := 2 - (Dot(a, b) + 1)
	if d < 0 {
		return 0
	}
	return d
}

// Norm calculates the Euclidean norm of v using a float64 accumulator.
func Norm(v []float32) float32 {
	var acc float64
	for _, x := range v {
		acc += float64(x) * float64(x)
	}
	return float32(math.Sqrt(acc))
}

// Normalize returns a unit-length copy of v.
// Returns false if v has zero norm; zero vectors have no direction and
// are never divided.
func Normalize(v []float32) ([]float32, bool) {
	n := Norm(v)
	if n == 0 {
		return nil, false
	}

	dst := make([]float32, len(v))
	copy(dst, v)
	vek32.MulNumber_Inplace(dst, 1/n)
	return dst, true
}

// RandomUnitVector samples a point uniformly distributed on the
// dimension-sphere: dimension independent standard-normal draws,
// normalized by their Euclidean norm. The caller supplies the random
// source; seeding it makes the result reproducible.
func RandomUnitVector(dimension int, rng *rand.Rand) []float32 {
	v := make([]float32, dimension)
	for {
		var acc float64
		for i := range v {
			x := rng.NormFloat64()
			v[i] = float32(x)
			acc += float64(v[i]) * float64(v[i])
		}

		// A zero norm is only reachable through float32 underflow of
		// every component; redraw instead of dividing by zero.
		norm := math.Sqrt(acc)
		if norm == 0 && dimension > 0 {
			continue
		}

		if norm != 0 {
			vek32.MulNumber_Inplace(v, float32(1/norm))
		}
		return v
	}
}
