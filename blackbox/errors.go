package blackbox

import (
	"fmt"

	"github.com/pkg/errors"
)

// internalError is the three-way result used throughout the decode path.
// It never crosses the package boundary: headers.go and data.go translate
// it into either a done flag (Eof), a resync (Retry) or a *ParseError
// (Fatal).
type internalError struct {
	kind internalErrorKind
	err  error
}

type internalErrorKind int

const (
	errEof internalErrorKind = iota
	errRetry
	errFatal
)

func (e *internalError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.kind.String()
}

func (k internalErrorKind) String() string {
	switch k {
	case errEof:
		return "eof"
	case errRetry:
		return "retry"
	case errFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

var errEofSentinel = &internalError{kind: errEof}
var errRetrySentinel = &internalError{kind: errRetry}

func isEof(err error) bool {
	ie, ok := err.(*internalError)
	return ok && ie.kind == errEof
}

func isRetry(err error) bool {
	ie, ok := err.(*internalError)
	return ok && ie.kind == errRetry
}

func fatalf(format string, args ...interface{}) error {
	return &internalError{kind: errFatal, err: errors.WithStack(fmt.Errorf(format, args...))}
}

// ParseError is the fatal, top-level error surfaced to callers of
// ParseHeaders. It wraps the offending condition; causes created through
// github.com/pkg/errors (the sentinels below) carry a stack trace so a corrupt-log bug report carries more than a
// one-line message, while *HeaderError and *FieldError causes do not.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string { return e.cause.Error() }
func (e *ParseError) Unwrap() error { return e.cause }

// ErrUnsupportedVersion is returned when the "Data version" header is
// present but not "2".
var ErrUnsupportedVersion = errors.New("unsupported data version")

// ErrUnknownFirmware is returned when the firmware revision string does not
// resolve to a recognized firmware kind. An EmuFlight revision is reported
// as a *HeaderError instead.
var ErrUnknownFirmware = errors.New("unknown firmware")

// ErrMissingHeader is returned when a header required to finalize parsing
// never arrived.
var ErrMissingHeader = errors.New("missing required header")

// ErrIncompleteHeaders is returned when the input ends before the data
// section begins.
var ErrIncompleteHeaders = errors.New("incomplete headers")

// FieldError reports that a frame definition is missing a structurally
// required field (e.g. GPS frame's leading "time" field).
type FieldError struct {
	Frame FrameKind
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("missing required field %q in %s frame definition", e.Field, e.Frame)
}

// HeaderError reports an invalid header line: an unparsable value for a
// known key.
type HeaderError struct {
	Header string
	Value  string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid value %q for header %q", e.Value, e.Header)
}
