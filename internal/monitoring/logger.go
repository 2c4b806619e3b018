// Package monitoring holds the controller's diagnostic logger.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf, which
// in the browser build ends up on the developer console. Tests may replace or
// mute it with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// For returns a logger that prefixes every line with the component name, e.g.
// "[calibrate] poll angle 0: 50%". The returned function always forwards to the
// current Logf, so a later SetLogger still takes effect.
func For(component string) func(format string, v ...interface{}) {
	prefix := "[" + component + "] "
	return func(format string, v ...interface{}) {
		Logf(prefix+format, v...)
	}
}
