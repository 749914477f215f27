package random

// Shuffle resets buf to the identity order and shuffles it in place with
// Fisher-Yates: for i from len-1 down to 1, swap i with a uniform j in [0, i].
func Shuffle(src Source, buf []int) {
	for i := range buf {
		buf[i] = i
	}
	for i := len(buf) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		buf[i], buf[j] = buf[j], buf[i]
	}
}

// Permutation returns a fresh uniformly shuffled ordering of [0, size)
func Permutation(src Source, size int) []int {
	perm := make([]int, size)
	Shuffle(src, perm)
	return perm
}
