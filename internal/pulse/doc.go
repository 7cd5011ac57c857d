// Package pulse owns the detection pipeline for integer sample recordings.
//
// Responsibilities: 7-tap smoothing, rising-edge onset detection,
// piggyback merging of secondary onsets, and window-bounded area
// integration over the raw samples.
// Key types: Params, Area, Result.
//
// Every stage reads its inputs and returns a freshly allocated output, so
// recordings may be analysed concurrently without coordination.
// No file or database code is allowed in this package.
package pulse
