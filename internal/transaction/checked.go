package transaction

import "math"

// Balances are stored in a 32-bit INT column, so arithmetic is checked
// against that range rather than Go's native int.

func inRange(v int) bool { return v >= math.MinInt32 && v <= math.MaxInt32 }

func checkedAdd(a, b int) (int, bool) {
	if !inRange(a) || !inRange(b) {
		return 0, false
	}

	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 || sum < math.MinInt32 {
		return 0, false
	}

	return int(sum), true
}

func checkedSub(a, b int) (int, bool) {
	if !inRange(a) || !inRange(b) {
		return 0, false
	}

	diff := int64(a) - int64(b)
	if diff > math.MaxInt32 || diff < math.MinInt32 {
		return 0, false
	}

	return int(diff), true
}
