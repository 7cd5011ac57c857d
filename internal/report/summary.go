package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/pulse.report/internal/batch"
)

// Summary aggregates a batch run.
type Summary struct {
	Recordings int
	Valid      int
	Invalid    int
	Pulses     int
	Piggybacks int

	// Area statistics over every reported pulse. Zero when Pulses is zero.
	MeanArea   float64
	StdDevArea float64
	MinArea    float64
	MaxArea    float64
	TotalArea  float64
}

// Summarise computes run-level statistics from outcomes.
func Summarise(outcomes []batch.Outcome) Summary {
	s := Summary{Recordings: len(outcomes)}

	var areas []float64
	for _, o := range outcomes {
		if !o.Result.Valid() {
			s.Invalid++
			continue
		}
		s.Valid++
		s.Piggybacks += len(o.Result.Piggybacks)
		for _, a := range o.Result.Areas {
			areas = append(areas, float64(a.Area))
		}
	}

	s.Pulses = len(areas)
	if s.Pulses == 0 {
		return s
	}

	s.TotalArea = floats.Sum(areas)
	s.MinArea = floats.Min(areas)
	s.MaxArea = floats.Max(areas)
	if s.Pulses == 1 {
		s.MeanArea = areas[0]
		return s
	}
	s.MeanArea, s.StdDevArea = stat.MeanStdDev(areas, nil)
	return s
}

// WriteSummary prints s as an aligned block.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w,
		"Summary:\n"+
			"  recordings  %d (%d valid, %d invalid)\n"+
			"  pulses      %d\n"+
			"  piggybacks  %d\n"+
			"  area        mean %.2f  stddev %.2f  min %.0f  max %.0f  total %.0f\n",
		s.Recordings, s.Valid, s.Invalid,
		s.Pulses,
		s.Piggybacks,
		s.MeanArea, s.StdDevArea, s.MinArea, s.MaxArea, s.TotalArea,
	)
	return err
}
