package blackbox

/* trace.go : leveled diagnostic trace, ported from the receiver console's
 * Trace()/Tracet()/TraceOpen() family. The decoder runs synchronously on a
 * single goroutine and has no business owning a structured logger; it
 * writes to whatever sink the embedding application opened, gated by a
 * package-level level so a production decode of a multi-megabyte log does
 * not pay for formatting debug lines nobody reads.
 */

import (
	"fmt"
	"io"
)

var (
	traceOut   io.Writer = io.Discard
	traceLevel           = 0
)

// TraceOpen directs trace output at w. Passing nil restores the default
// (discard). Mirrors TraceOpen/TraceClose from the receiver console, minus
// the file-swap-on-size behavior that doesn't apply to a library.
func TraceOpen(w io.Writer) {
	if w == nil {
		traceOut = io.Discard
		return
	}
	traceOut = w
}

// TraceLevel sets the minimum level that reaches the sink. 0 disables
// tracing entirely.
func TraceLevel(level int) { traceLevel = level }

// trace writes a leveled diagnostic line. Levels follow the convention
// used throughout: 1 = user-visible warning, 2 = debug, 3 = per-frame
// detail.
func trace(level int, format string, args ...interface{}) {
	if traceLevel <= 0 || level > traceLevel {
		return
	}
	fmt.Fprintf(traceOut, "%d "+format+"\n", append([]interface{}{level}, args...)...)
}

func traceDebug(format string, args ...interface{}) { trace(2, format, args...) }
func traceWarn(format string, args ...interface{})  { trace(1, format, args...) }
func traceField(format string, args ...interface{}) { trace(3, format, args...) }

// Trace exposes the same leveled sink to embedding applications, so a CLI
// front-end can log alongside the decoder using one convention instead of
// wiring a second logger. Mirrors the receiver console's exported Trace.
func Trace(level int, format string, args ...interface{}) { trace(level, format, args...) }
