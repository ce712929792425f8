package director

import (
	"errors"
	"fmt"
)

var (
	// ErrBadCommand is returned when the amplifier answers with its
	// explicit "xx<command>xx" rejection marker.
	ErrBadCommand = errors.New("amplifier rejected command")

	// ErrUnrecognizedFormat is returned when an address string matches
	// none of the known encodings. During status parsing it marks rows
	// that are not input rows and is never surfaced to the caller.
	ErrUnrecognizedFormat = errors.New("unrecognized address format")

	// ErrTruncatedResponse is returned when the stream closes before the
	// expected number of response lines arrived.
	ErrTruncatedResponse = errors.New("truncated response")

	// ErrVolumeOutOfRange is returned for volume values outside 0-100.
	ErrVolumeOutOfRange = errors.New("volume out of range (0-100)")
)

// EchoMismatchError signals a desynchronized session: the response did not
// start with an echo of the command that was sent. The client must be
// discarded, not retried.
type EchoMismatchError struct {
	Sent string
	Got  string
}

func (e *EchoMismatchError) Error() string {
	return fmt.Sprintf("response echo mismatch: sent %q, got %q", e.Sent, e.Got)
}

// MalformedRowError reports a status-table row that looked like data but
// failed field parsing.
type MalformedRowError struct {
	Row string
	Err error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed status row %q: %v", e.Row, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
