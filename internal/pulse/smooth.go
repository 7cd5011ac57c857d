package pulse

// kernel is the symmetric 7-tap weighting applied to interior samples.
var kernel = [7]int{1, 2, 3, 3, 3, 2, 1}

const (
	kernelHalf = len(kernel) / 2
	kernelNorm = 15
)

// Smooth returns a filtered copy of raw. The first and last three samples
// are copied through unchanged because the kernel lacks support there.
// Interior samples use truncating integer division. Inputs shorter than
// the kernel come back as a plain copy.
func Smooth(raw []int) []int {
	n := len(raw)
	out := make([]int, n)
	copy(out, raw)

	for i := kernelHalf; i < n-kernelHalf; i++ {
		sum := 0
		for k, w := range kernel {
			sum += w * raw[i-kernelHalf+k]
		}
		out[i] = sum / kernelNorm
	}
	return out
}
