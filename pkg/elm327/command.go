// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"fmt"
	"time"
)

// Command is the contract every concrete adapter command implements. The
// engine drives the shared send/frame/classify/decode pipeline; a command
// only supplies its wire text, an optional settle delay, and the
// interpretation of the decoded bytes.
//
// Two commands are interchangeable iff their Text() values are equal,
// regardless of execution history. Use Text() as the map/set key when
// deduplicating commands.
type Command interface {
	// Text returns the command string sent to the adapter, without the
	// carriage-return terminator.
	Text() string

	// Name returns a human-readable command name for display.
	Name() string

	// ResponseDelay returns the artificial wait inserted between writing
	// the command and reading the reply. Zero means no wait.
	ResponseDelay() time.Duration

	// Calculate interprets the decoded response bytes. It is invoked
	// exactly once per execution, after a successful decode, and must
	// not retain the slice.
	Calculate(data []byte) error

	// FormattedResult renders the calculated value with its unit.
	FormattedResult() string

	// CalculatedResult renders the bare calculated value.
	CalculatedResult() string

	// ResultUnit returns the unit used by FormattedResult, or "".
	ResultUnit() string
}

// RawResponder is implemented by commands whose reply is adapter status
// text rather than hex data (the AT configuration commands). For these the
// engine still classifies the response but skips hex validation and pair
// decoding, passing the raw normalized text to Calculate instead.
type RawResponder interface {
	RawResponse() bool
}

// Base carries the immutable command text and the mutable response-delay
// setting shared by every command implementation. Embed it by pointer-free
// value and override the methods the command needs.
type Base struct {
	text  string
	delay time.Duration
}

// NewBase creates the shared portion of a command from its wire text.
func NewBase(text string) Base {
	return Base{text: text}
}

// Text returns the command string.
func (b *Base) Text() string {
	return b.text
}

// ResponseDelay returns the configured settle delay.
func (b *Base) ResponseDelay() time.Duration {
	return b.delay
}

// SetResponseDelay configures the settle delay inserted between send and
// read. Slow adapter/vehicle combinations need this; most do not.
func (b *Base) SetResponseDelay(d time.Duration) {
	b.delay = d
}

// ResultUnit returns the empty string; commands with units override it.
func (b *Base) ResultUnit() string {
	return ""
}

// Mode returns the service mode portion of the command text: the first two
// characters, or the whole string when it is shorter than two.
func (b *Base) Mode() string {
	if len(b.text) >= 2 {
		return b.text[:2]
	}
	return b.text
}

// PID returns the parameter-identifier portion of the command text, the
// substring from offset 3 under the "01 0C" spacing convention. Commands
// shorter than three characters have no PID and yield an error rather than
// a padded guess.
func (b *Base) PID() (string, error) {
	if len(b.text) < 3 {
		return "", fmt.Errorf("command %q too short for a PID", b.text)
	}
	return b.text[3:], nil
}

// Equal reports whether two commands are the same command, which is decided
// by command text alone.
func Equal(a, b Command) bool {
	return a.Text() == b.Text()
}
