package pulse

// Integrate sums raw samples over each onset's window and returns one Area
// per onset, in order.
//
// A window starts at the onset and ends at the next onset or after width
// samples, whichever comes first; the last onset's window is cut at the
// end of the data instead. Empty windows integrate to zero.
func Integrate(raw, onsets []int, width int) []Area {
	if len(onsets) == 0 {
		return nil
	}

	areas := make([]Area, 0, len(onsets))
	for i, onset := range onsets {
		end := onset + width
		if i+1 < len(onsets) {
			end = min(end, onsets[i+1])
		}
		end = min(end, len(raw))

		areas = append(areas, Area{Onset: onset, Area: sum(raw, onset, end)})
	}
	return areas
}

// sum returns the total of samples[from:to], or 0 for an empty window.
func sum(samples []int, from, to int) int {
	if from < 0 {
		from = 0
	}
	total := 0
	for i := from; i < to; i++ {
		total += samples[i]
	}
	return total
}
