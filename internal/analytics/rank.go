package analytics

// ClampN clamps a requested selection size into [1, total]. Out-of-range
// input is adjusted silently rather than rejected; a non-positive total
// yields zero.
func ClampN(n, total int) int {
	if total <= 0 {
		return 0
	}
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}

// TopN takes the first n rows of a collection pre-sorted descending by the
// chosen metric.
func TopN[T any](sortedDesc []T, n int) []T {
	n = ClampN(n, len(sortedDesc))
	out := make([]T, n)
	copy(out, sortedDesc[:n])
	return out
}

// BottomN takes the last n rows of the same descending order, so that for
// n = total the union of TopN and BottomN is exactly the full set. Because
// every builder breaks metric ties with the same ascending-name rule, the
// two selections never overlap-or-omit differently run to run.
func BottomN[T any](sortedDesc []T, n int) []T {
	n = ClampN(n, len(sortedDesc))
	out := make([]T, n)
	copy(out, sortedDesc[len(sortedDesc)-n:])
	return out
}
