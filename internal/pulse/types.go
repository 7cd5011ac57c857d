package pulse

// Params holds the detection parameters for a run. The integer fields are
// already narrowed at the configuration boundary; see config.ToParams.
type Params struct {
	// VT is the minimum rise across two samples that qualifies as a pulse edge.
	VT int
	// Width is the maximum number of samples integrated after an onset.
	Width int
	// PulseDelta is the maximum onset gap considered for piggyback merging.
	PulseDelta int
	// DropRatio is the fraction of a peak that defines "dropped below".
	DropRatio float64
	// BelowDropRatio is the dropped-sample count a pair must exceed to merge.
	BelowDropRatio int
}

// Area is the integrated raw signal following a single onset.
type Area struct {
	Onset int `json:"onset"`
	Area  int `json:"area"`
}

// Result is the full outcome of analysing one recording.
type Result struct {
	Smoothed []int
	// Onsets are the candidate onsets found by Detect.
	Onsets []int
	// Piggybacks are the onset values removed by ResolvePiggybacks, in
	// detection order.
	Piggybacks []int
	// Resolved are the onsets surviving piggyback removal.
	Resolved []int
	Areas    []Area
}

// Valid reports whether any pulse was detected. An invalid result is a
// normal outcome for a flat or too-short recording, not an error.
func (r Result) Valid() bool {
	return len(r.Onsets) > 0
}
