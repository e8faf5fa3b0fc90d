// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrorKind identifies a protocol-level error reported by the adapter.
type ErrorKind int

const (
	KindUnableToConnect ErrorKind = iota
	KindBusInitFailure
	KindMisunderstoodCommand
	KindNoData
	KindStopped
	KindUnknownError
	KindUnsupportedCommand
)

// String returns the human-readable name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnableToConnect:
		return "unable to connect"
	case KindBusInitFailure:
		return "bus initialization failure"
	case KindMisunderstoodCommand:
		return "misunderstood command"
	case KindNoData:
		return "no data"
	case KindStopped:
		return "stopped"
	case KindUnknownError:
		return "unknown adapter error"
	case KindUnsupportedCommand:
		return "unsupported command"
	default:
		return "invalid error kind"
	}
}

// ResponseError is a protocol-level failure reported by the adapter itself,
// recognized in the response text before any decoding is attempted. It
// carries the command that triggered it and the raw reply for diagnostics.
type ResponseError struct {
	Kind     ErrorKind
	Command  string
	Response string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("adapter reported %s for %q (response %q)", e.Kind, e.Command, e.Response)
}

// TransportError wraps an I/O failure on the shared stream, or an
// interrupted wait between send and read.
type TransportError struct {
	Op  string // "acquire", "send", "delay" or "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates the normalized response text was not
// valid hex data and could not be decoded.
type MalformedResponseError struct {
	Command  string
	Response string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("non-numeric response to %q: %q", e.Command, e.Response)
}

// CalculationError indicates the command rejected the decoded bytes, e.g.
// a buffer too short for the expected PID layout.
type CalculationError struct {
	Command string
	Reason  string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation failed for %q: %s", e.Command, e.Reason)
}

var unsupportedRe = regexp.MustCompile(unsupportedPattern)

func containsMarker(marker string) func(string) bool {
	return func(text string) bool {
		return strings.Contains(text, marker)
	}
}

// errorMatchers is the fixed-priority matcher table. Earlier entries win on
// ambiguous text: "BUS INIT... ERROR" must classify as a bus init failure
// before the bare "ERROR" marker gets a chance.
var errorMatchers = []struct {
	kind  ErrorKind
	match func(text string) bool
}{
	{KindUnableToConnect, containsMarker(markerUnableToConnect)},
	{KindBusInitFailure, containsMarker(markerBusInitError)},
	{KindMisunderstoodCommand, containsMarker(markerMisunderstood)},
	{KindNoData, containsMarker(markerNoData)},
	{KindStopped, containsMarker(markerStopped)},
	{KindUnknownError, containsMarker(markerUnknownError)},
	{KindUnsupportedCommand, unsupportedRe.MatchString},
}

// Classify tests whitespace-stripped response text against the adapter's
// error vocabulary, in priority order. It returns the matching error with
// the offending command and response attached, or nil when the text does
// not name an error condition.
func Classify(command, text string) *ResponseError {
	for _, m := range errorMatchers {
		if m.match(text) {
			return &ResponseError{Kind: m.kind, Command: command, Response: text}
		}
	}
	return nil
}
