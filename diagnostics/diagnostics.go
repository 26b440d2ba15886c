// Package diagnostics provides the library's conditional tracing
// facility: no logging framework, just a Debug-gated single-line trace
// to an io.Writer, following the reference library's types.Globals.Debug
// convention (an int flag checked before any Fprintf call, rather than
// a structured logger with level filtering).
package diagnostics

import (
	"fmt"
	"io"
	"os"
)

// Options carries the debug verbosity and trace destination shared by
// every mutating FileService/Formatter/ClusterAllocator entry point.
type Options struct {
	// Debug selects tracing verbosity. 0 disables tracing entirely.
	Debug int
	// Writer receives trace lines. Defaults to os.Stderr when nil.
	Writer io.Writer
}

func (o *Options) writer() io.Writer {
	if o == nil || o.Writer == nil {
		return os.Stderr
	}
	return o.Writer
}

// Trace writes a single-line, printf-style trace message if opts is
// non-nil and opts.Debug > 0. A nil Options disables tracing, so
// callers that don't care about diagnostics can pass nil.
func Trace(opts *Options, format string, a ...interface{}) {
	if opts == nil || opts.Debug <= 0 {
		return
	}
	fmt.Fprintf(opts.writer(), format+"\n", a...)
}
