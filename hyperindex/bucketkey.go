package hyperindex

import "strings"

// BucketKey is the sign pattern of a vector against the hyperplanes of one
// index: an immutable sequence of bits packed into bytes. It is comparable
// and hashes by content, so it can be used directly as a map key. The zero
// value is the empty key of a zero-plane index.
type BucketKey struct {
	bits string // packed little-endian within each byte; trailing bits zero
	n    int
}

// keyBuilder accumulates bits for a BucketKey under construction.
type keyBuilder struct {
	bits []byte
	n    int
}

func newKeyBuilder(n int) *keyBuilder {
	return &keyBuilder{bits: make([]byte, (n+7)/8)}
}

func (b *keyBuilder) append(bit bool) {
	if bit {
		b.bits[b.n/8] |= 1 << (b.n % 8)
	}
	b.n++
}

func (b *keyBuilder) key() BucketKey {
	return BucketKey{bits: string(b.bits), n: b.n}
}

// Len returns the number of bits in the key, which always equals the
// hyperplane count of the owning index.
func (k BucketKey) Len() int {
	return k.n
}

// Bit reports whether bit i is set. Panics if i is out of range.
func (k BucketKey) Bit(i int) bool {
	if i < 0 || i >= k.n {
		panic("hyperindex: bucket key bit out of range")
	}
	return k.bits[i/8]&(1<<(i%8)) != 0
}

// Flip returns a copy of the key with bit i inverted. The keys at Hamming
// distance 1 from k are exactly {k.Flip(i) : 0 <= i < k.Len()}.
func (k BucketKey) Flip(i int) BucketKey {
	if i < 0 || i >= k.n {
		panic("hyperindex: bucket key bit out of range")
	}

	bits := []byte(k.bits)
	bits[i/8] ^= 1 << (i % 8)
	return BucketKey{bits: string(bits), n: k.n}
}

// String renders the key as a bit string, bit 0 first.
func (k BucketKey) String() string {
	var sb strings.Builder
	sb.Grow(k.n)
	for i := 0; i < k.n; i++ {
		if k.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
