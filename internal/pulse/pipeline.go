package pulse

// Analyse runs the full pipeline over one recording's raw (sign-inverted)
// samples. When no onset is detected the later stages are skipped and the
// returned Result is not Valid.
func Analyse(raw []int, p Params) Result {
	res := Result{Smoothed: Smooth(raw)}

	res.Onsets = Detect(res.Smoothed, p.VT)
	if len(res.Onsets) == 0 {
		return res
	}

	res.Resolved, res.Piggybacks = ResolvePiggybacks(res.Smoothed, res.Onsets, p)
	res.Areas = Integrate(raw, res.Resolved, p.Width)
	return res
}
