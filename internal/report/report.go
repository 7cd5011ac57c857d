// Package report formats batch outcomes for the console.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/pulse.report/internal/batch"
	"github.com/banshee-data/pulse.report/internal/pulse"
)

// Format names accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Reporter writes a set of outcomes to w.
type Reporter interface {
	Report(w io.Writer, outcomes []batch.Outcome) error
}

// New returns the Reporter for format.
func New(format string) (Reporter, error) {
	switch format {
	case FormatText, "":
		return TextReporter{}, nil
	case FormatJSON:
		return JSONReporter{Indent: "  "}, nil
	}
	return nil, fmt.Errorf("unknown report format %q (want %s or %s)", format, FormatText, FormatJSON)
}

// TextReporter writes the line-oriented console report:
//
//	pulse1.dat:
//	Found piggyback at 120
//	98 (4411)
//	240 (1290)
//
// A recording with no pulses is reported as "Invalid file: <name>".
// Every recording is followed by a blank line.
type TextReporter struct{}

// Report implements Reporter.
func (TextReporter) Report(w io.Writer, outcomes []batch.Outcome) error {
	bw := bufio.NewWriter(w)
	for _, o := range outcomes {
		if !o.Result.Valid() {
			fmt.Fprintf(bw, "Invalid file: %s\n\n", o.Recording.Name)
			continue
		}
		fmt.Fprintf(bw, "%s:\n", o.Recording.Name)
		for _, onset := range o.Result.Piggybacks {
			fmt.Fprintf(bw, "Found piggyback at %d\n", onset)
		}
		for _, a := range o.Result.Areas {
			fmt.Fprintf(bw, "%d (%d)\n", a.Onset, a.Area)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// JSONReporter writes all outcomes as a single JSON document.
type JSONReporter struct {
	Indent string
}

type jsonReport struct {
	Recordings []jsonRecording `json:"recordings"`
}

type jsonRecording struct {
	File       string       `json:"file"`
	Path       string       `json:"path"`
	Samples    int          `json:"samples"`
	Valid      bool         `json:"valid"`
	Piggybacks []int        `json:"piggybacks"`
	Pulses     []pulse.Area `json:"pulses"`
}

// Report implements Reporter.
func (r JSONReporter) Report(w io.Writer, outcomes []batch.Outcome) error {
	doc := jsonReport{Recordings: make([]jsonRecording, 0, len(outcomes))}
	for _, o := range outcomes {
		rec := jsonRecording{
			File:       o.Recording.Name,
			Path:       o.Recording.Path,
			Samples:    len(o.Recording.Samples),
			Valid:      o.Result.Valid(),
			Piggybacks: o.Result.Piggybacks,
			Pulses:     o.Result.Areas,
		}
		// emit [] rather than null
		if rec.Piggybacks == nil {
			rec.Piggybacks = []int{}
		}
		if rec.Pulses == nil {
			rec.Pulses = []pulse.Area{}
		}
		doc.Recordings = append(doc.Recordings, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", r.Indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
