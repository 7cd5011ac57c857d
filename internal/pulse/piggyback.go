package pulse

// ResolvePiggybacks removes onsets that are judged to be the leading edge of
// a pulse whose tail carries a secondary detection.
//
// Every adjacent pair (onsets[i], onsets[i+1]) no more than p.PulseDelta
// apart is examined once against the original list. The peak of the
// smoothed trace over [onsets[i], onsets[i+1]) is located (earliest index
// on ties) and the samples from the peak up to the next onset that fall
// strictly below p.DropRatio*peak, compared in float32, are counted. More
// than p.BelowDropRatio such samples marks onsets[i] for removal.
//
// removed holds the original values of the marked onsets in detection
// order. resolved is a new slice; onsets is never modified.
func ResolvePiggybacks(smoothed, onsets []int, p Params) (resolved, removed []int) {
	marked := make([]bool, len(onsets))

	for i := 0; i+1 < len(onsets); i++ {
		from, to := onsets[i], onsets[i+1]
		if to-from > p.PulseDelta {
			continue
		}
		if isPiggyback(smoothed, from, to, p) {
			marked[i] = true
			removed = append(removed, from)
		}
	}

	resolved = make([]int, 0, len(onsets)-len(removed))
	for i, onset := range onsets {
		if !marked[i] {
			resolved = append(resolved, onset)
		}
	}
	return resolved, removed
}

// isPiggyback applies the drop-count rule to smoothed[from:to].
func isPiggyback(smoothed []int, from, to int, p Params) bool {
	if from < 0 || to > len(smoothed) || from >= to {
		return false
	}

	start := peakIndex(smoothed, from, to)
	// float32, so a sample equal to ratio*peak (14 for 0.14*100) is not
	// counted as below it; in float64 that product rounds up past 14.
	threshold := float32(p.DropRatio) * float32(smoothed[start])

	dropCount := 0
	for _, v := range smoothed[start:to] {
		if float32(v) < threshold {
			dropCount++
		}
	}
	return dropCount > p.BelowDropRatio
}

// peakIndex returns the index of the first maximum in samples[from:to].
// The window must be non-empty.
func peakIndex(samples []int, from, to int) int {
	best := from
	for i := from + 1; i < to; i++ {
		if samples[i] > samples[best] {
			best = i
		}
	}
	return best
}
