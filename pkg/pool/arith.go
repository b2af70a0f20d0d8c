package pool

import "math/bits"

// CanMultiply reports whether m*n can be computed without exceeding max.
// It is called before every size and byte-count computation in this package
// so that growth rejects oversized requests instead of wrapping around.
//
// m == 0 reports false. Sizes in this package are validated nonzero before
// any multiplication, so the zero case never carries a meaningful product;
// treating it as "not safely multipliable" keeps the check a single
// conservative gate.
func CanMultiply(max, m, n uint64) bool {
	if m == 0 {
		return false
	}
	hi, lo := bits.Mul64(m, n)
	return hi == 0 && lo <= max
}
