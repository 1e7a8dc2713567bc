// Package wrap has integer helpers for circular index spaces.
package wrap

// Mod returns a modulo n, always in [0, n) for positive n.
func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Forward returns how many steps it takes to go from a to b moving only
// forwards in an index space of the given length. Equal indices are a full
// revolution away, not zero.
func Forward(a, b, length int) int {
	if a == b {
		return length
	}
	return Mod(b-a, length)
}

// Backward is Forward moving only backwards.
func Backward(a, b, length int) int {
	if a == b {
		return length
	}
	return Mod(a-b, length)
}
