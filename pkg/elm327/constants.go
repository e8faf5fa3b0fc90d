// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package elm327 implements the request/response protocol engine for
// ELM327-class OBD-II adapters.
//
// The adapter speaks an ASCII protocol over a duplex byte stream: a command
// is written followed by a carriage return, and the reply is a run of text
// terminated by a '>' prompt. Replies may interleave status banners, echoed
// input and multi-line segment markers with the hex payload. This package
// provides response framing and normalization, protocol error
// classification, hex decoding, the polymorphic command contract, and
// serialized single-command-at-a-time access to the shared stream.
package elm327

// Wire framing bytes
const (
	// PromptByte is emitted by the adapter when it is ready for the next
	// command. It terminates every response and is never part of the data.
	PromptByte = '>'

	// TerminatorByte ends every command written to the adapter.
	TerminatorByte = '\r'
)

// Adapter status banners stripped during normalization. The vocabulary is
// fixed ELM327 firmware output, reproduced from the adapter documentation
// rather than inferred from traffic.
const (
	// SearchingBanner is printed while the adapter hunts for a bus protocol
	// ("SEARCHING...").
	SearchingBanner = "SEARCHING"

	// BusInitBanner prefixes slow-init progress output ("BUS INIT: ...OK").
	BusInitBanner = "BUS INIT"
)

// Protocol error markers tested by the classifier, stored with whitespace
// already removed because classification runs on whitespace-stripped text.
const (
	markerUnableToConnect = "UNABLETOCONNECT"
	markerBusInitError    = "BUSINIT...ERROR"
	markerMisunderstood   = "?"
	markerNoData          = "NODATA"
	markerStopped         = "STOPPED"
	markerUnknownError    = "ERROR"
)

// unsupportedPattern matches a UDS negative response (service 0x7F with
// NRC 0x11/0x12, serviceNotSupported / subFunctionNotSupported) on
// whitespace-stripped text. The spaced form on the wire is "7F 0x 1y".
const unsupportedPattern = `7F0[0-9A]1[12]`
