package pulse

// Detect scans smoothed samples for rising edges and returns onset indices
// in strictly increasing order.
//
// An onset is recorded at i when smoothed[i+2]-smoothed[i] exceeds vt. The
// scan then rides through the rest of the rise (while the next sample is
// strictly greater) so one edge is never reported twice, and resumes after
// the last rising sample. Fewer than three samples yields no onsets.
func Detect(smoothed []int, vt int) []int {
	n := len(smoothed)
	var onsets []int

	for i := 0; i < n-2; {
		if smoothed[i+2]-smoothed[i] <= vt {
			i++
			continue
		}
		onsets = append(onsets, i)

		pos := i + 2
		for pos+1 < n && smoothed[pos] < smoothed[pos+1] {
			pos++
		}
		i = pos + 1
	}
	return onsets
}
