package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pulse.report/internal/batch"
	"github.com/banshee-data/pulse.report/internal/pulse"
	"github.com/banshee-data/pulse.report/internal/recording"
)

func sampleOutcomes() []batch.Outcome {
	return []batch.Outcome{
		{
			Recording: recording.Recording{Path: "/d/a.dat", Name: "a.dat", Samples: make([]int, 30)},
			Result: pulse.Result{
				Onsets:     []int{2, 5, 20},
				Piggybacks: []int{2},
				Resolved:   []int{5, 20},
				Areas:      []pulse.Area{{Onset: 5, Area: 100}, {Onset: 20, Area: -40}},
			},
		},
		{
			Recording: recording.Recording{Path: "/d/flat.dat", Name: "flat.dat", Samples: make([]int, 7)},
		},
		{
			Recording: recording.Recording{Path: "/d/sub/b.dat", Name: "b.dat", Samples: make([]int, 12)},
			Result: pulse.Result{
				Onsets:   []int{3},
				Resolved: []int{3},
				Areas:    []pulse.Area{{Onset: 3, Area: 60}},
			},
		},
	}
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextReporter{}.Report(&buf, sampleOutcomes()))

	want := strings.Join([]string{
		"a.dat:",
		"Found piggyback at 2",
		"5 (100)",
		"20 (-40)",
		"",
		"Invalid file: flat.dat",
		"",
		"b.dat:",
		"3 (60)",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextReporter{}.Report(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONReporter{}.Report(&buf, sampleOutcomes()))

	var doc jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Recordings, 3)

	a := doc.Recordings[0]
	assert.Equal(t, "a.dat", a.File)
	assert.Equal(t, "/d/a.dat", a.Path)
	assert.Equal(t, 30, a.Samples)
	assert.True(t, a.Valid)
	assert.Equal(t, []int{2}, a.Piggybacks)
	assert.Equal(t, []pulse.Area{{Onset: 5, Area: 100}, {Onset: 20, Area: -40}}, a.Pulses)

	flat := doc.Recordings[1]
	assert.False(t, flat.Valid)
	assert.Contains(t, buf.String(), `"piggybacks":[]`)
	assert.Contains(t, buf.String(), `"pulses":[]`)
}

func TestNew(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	assert.IsType(t, TextReporter{}, r)

	r, err = New(FormatJSON)
	require.NoError(t, err)
	assert.IsType(t, JSONReporter{}, r)

	_, err = New("xml")
	assert.Error(t, err)
}

func TestSummarise(t *testing.T) {
	s := Summarise(sampleOutcomes())

	assert.Equal(t, 3, s.Recordings)
	assert.Equal(t, 2, s.Valid)
	assert.Equal(t, 1, s.Invalid)
	assert.Equal(t, 3, s.Pulses)
	assert.Equal(t, 1, s.Piggybacks)
	assert.Equal(t, 120.0, s.TotalArea)
	assert.Equal(t, -40.0, s.MinArea)
	assert.Equal(t, 100.0, s.MaxArea)
	assert.InDelta(t, 40.0, s.MeanArea, 1e-9)
	// sample stddev of {100, -40, 60}
	assert.InDelta(t, math.Sqrt((60*60+80*80+20*20)/2.0), s.StdDevArea, 1e-9)
}

func TestSummarise_Degenerate(t *testing.T) {
	s := Summarise(nil)
	assert.Equal(t, Summary{}, s)

	one := sampleOutcomes()[2:]
	s = Summarise(one)
	assert.Equal(t, 1, s.Pulses)
	assert.Equal(t, 60.0, s.MeanArea)
	assert.Equal(t, 0.0, s.StdDevArea)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, Summarise(sampleOutcomes())))

	out := buf.String()
	assert.Contains(t, out, "recordings  3 (2 valid, 1 invalid)")
	assert.Contains(t, out, "pulses      3")
	assert.Contains(t, out, "piggybacks  1")
	assert.Contains(t, out, "mean 40.00")
	assert.Contains(t, out, "total 120")
}
