package venue

// Rand is the source of randomness. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// between returns a value in [lo, hi].
func between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

func pick(r Rand, items []string) string {
	return items[r.Intn(len(items))]
}
