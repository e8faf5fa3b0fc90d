// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"context"
	"io"
	"strings"
)

// ReadRaw reads the next adapter response from r, one byte at a time, until
// the '>' prompt or end of stream. The prompt itself is excluded. End of
// stream is not an error at this layer: framing stops with whatever was
// accumulated. The returned text has the searching banner and all
// whitespace already removed, ready for classification.
//
// The read loop checks ctx between bytes, so cancellation takes effect at
// the next byte boundary.
func ReadRaw(ctx context.Context, r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)

	for {
		if err := ctx.Err(); err != nil {
			return "", &TransportError{Op: "read", Err: err}
		}
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == PromptByte {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &TransportError{Op: "read", Err: err}
		}
	}

	text := stripSearching(sb.String())
	return stripWhitespace(text), nil
}

// stripSearching removes the adapter's protocol-search banner.
func stripSearching(s string) string {
	return strings.ReplaceAll(s, SearchingBanner, "")
}

// stripWhitespace removes space, tab, newline, vertical tab, form feed and
// carriage return. The adapter puts spaces between hex pairs and CR pairs
// between lines; none of it is data.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return -1
		}
		return r
	}, s)
}

// stripBusInit removes the slow-init progress banner. The banner reads
// "BUS INIT: ...OK", so this also drops every '.' in the text.
func stripBusInit(s string) string {
	s = strings.ReplaceAll(s, BusInitBanner, "")
	s = strings.ReplaceAll(s, "BUSINIT", "")
	return strings.ReplaceAll(s, ".", "")
}

// stripColons removes the line-offset separators the adapter inserts in
// multi-frame responses ("0: 41 0C ..."). Colons carry no data.
func stripColons(s string) string {
	return strings.ReplaceAll(s, ":", "")
}

// Normalize applies the full cleanup pipeline in its required order:
// searching banner, whitespace, bus-init banner, colons. Later steps assume
// earlier ones ran; the whole pipeline is idempotent.
func Normalize(s string) string {
	s = stripSearching(s)
	s = stripWhitespace(s)
	s = stripBusInit(s)
	return stripColons(s)
}

// ValidateHex checks that normalized text consists only of hex digits.
// Decoding must never run on text that fails this check. An odd-length
// valid string passes: the pairing loop in DecodePairs drops the trailing
// nibble (longstanding boundary behavior, kept as-is).
func ValidateHex(command, text string) error {
	for i := 0; i < len(text); i++ {
		if !isHexDigit(text[i]) {
			return &MalformedResponseError{Command: command, Response: text}
		}
	}
	return nil
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'F':
		return true
	case c >= 'a' && c <= 'f':
		return true
	}
	return false
}

// DecodePairs partitions validated hex text into consecutive 2-character
// groups from the start and parses each as one byte, preserving order. A
// trailing single character on odd-length input is not parsed and is
// silently dropped.
func DecodePairs(text string) []byte {
	out := make([]byte, 0, len(text)/2)
	for i := 0; i+2 <= len(text); i += 2 {
		out = append(out, hexNibble(text[i])<<4|hexNibble(text[i+1]))
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return c - 'a' + 10
	}
}
