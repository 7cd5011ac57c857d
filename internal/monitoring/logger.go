// Package monitoring holds the diagnostic logger shared by the batch driver,
// the results store and the chart writers. Report output never goes through
// it; diagnostics go to stderr so stdout stays a clean report stream.
package monitoring

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// Logf is the package-level diagnostic logger. It defaults to a stderr
// logger but may be replaced by SetLogger. Tests mute it.
var Logf func(format string, v ...interface{}) = std.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Quiet mutes diagnostics and returns a func that restores the previous logger.
func Quiet() (restore func()) {
	prev := Logf
	SetLogger(nil)
	return func() { Logf = prev }
}
