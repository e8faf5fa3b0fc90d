// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package obd provides concrete commands for ELM327 adapters (the AT
// configuration set and a small group of mode-01 data PIDs) plus the
// device session layer that drives them over one connection.
//
// Everything here is a thin collaborator of the elm327 engine: a command
// contributes its wire text and the interpretation of the decoded bytes;
// framing, classification and decoding live in pkg/elm327.
package obd

import (
	"fmt"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// ProtocolCommand is an adapter-configuration (AT) command. Its reply is
// status text such as "OK" or a version banner, not hex data, so it opts
// out of hex decoding and keeps the normalized reply verbatim.
type ProtocolCommand struct {
	elm327.Base
	name   string
	result string
}

func newProtocol(name, text string) *ProtocolCommand {
	return &ProtocolCommand{Base: elm327.NewBase(text), name: name}
}

// Name returns the command's display name.
func (c *ProtocolCommand) Name() string {
	return c.name
}

// RawResponse marks the reply as status text, skipping hex validation.
func (c *ProtocolCommand) RawResponse() bool {
	return true
}

// Calculate keeps the normalized reply text as the result.
func (c *ProtocolCommand) Calculate(data []byte) error {
	c.result = string(data)
	return nil
}

// FormattedResult returns the adapter's reply text.
func (c *ProtocolCommand) FormattedResult() string {
	return c.result
}

// CalculatedResult returns the adapter's reply text.
func (c *ProtocolCommand) CalculatedResult() string {
	return c.result
}

// NewReset performs a full adapter reset ("AT Z"). The adapter reboots and
// prints its version banner; give it a response delay when driving real
// hardware.
func NewReset() *ProtocolCommand {
	return newProtocol("Reset OBD", "AT Z")
}

// NewWarmStart warm-starts the adapter ("AT WS") without dropping the
// serial configuration.
func NewWarmStart() *ProtocolCommand {
	return newProtocol("Warm Start OBD", "AT WS")
}

// NewEchoOff disables command echo ("AT E0"). With echo on, the echoed
// command text survives normalization and fails hex validation, so this is
// the first thing every session sends after reset.
func NewEchoOff() *ProtocolCommand {
	return newProtocol("Echo Off", "AT E0")
}

// NewEchoOn re-enables command echo ("AT E1").
func NewEchoOn() *ProtocolCommand {
	return newProtocol("Echo On", "AT E1")
}

// NewLineFeedOff disables linefeeds after each CR ("AT L0").
func NewLineFeedOff() *ProtocolCommand {
	return newProtocol("Line Feed Off", "AT L0")
}

// NewHeadersOff suppresses CAN headers in responses ("AT H0").
func NewHeadersOff() *ProtocolCommand {
	return newProtocol("Headers Off", "AT H0")
}

// NewTimeout sets the adapter's response timeout in units of 4 ms.
func NewTimeout(timeout byte) *ProtocolCommand {
	return newProtocol("Timeout", fmt.Sprintf("AT ST %X", timeout))
}

// NewSelectProtocol selects the bus protocol; ProtocolAuto lets the adapter
// search.
func NewSelectProtocol(p Protocol) *ProtocolCommand {
	return newProtocol("Select Protocol", fmt.Sprintf("AT SP %X", byte(p)))
}

// NewDescribeProtocolNumber asks which protocol the adapter settled on
// ("AT DPN").
func NewDescribeProtocolNumber() *ProtocolCommand {
	return newProtocol("Describe Protocol Number", "AT DPN")
}

// NewAdapterVoltage reads the adapter's supply voltage pin ("AT RV"),
// answered as text like "12.5V".
func NewAdapterVoltage() *ProtocolCommand {
	return newProtocol("Adapter Voltage", "AT RV")
}

// NewRaw sends arbitrary command text and keeps the reply verbatim. Meant
// for the interactive terminal, where the user types adapter commands
// directly.
func NewRaw(text string) *ProtocolCommand {
	return newProtocol("Raw", text)
}

// Protocol identifies an OBD bus protocol as numbered by the adapter.
type Protocol byte

const (
	ProtocolAuto           Protocol = 0
	ProtocolJ1850PWM       Protocol = 1
	ProtocolJ1850VPW       Protocol = 2
	ProtocolISO9141        Protocol = 3
	ProtocolKWPSlow        Protocol = 4
	ProtocolKWPFast        Protocol = 5
	ProtocolCAN11b500k     Protocol = 6
	ProtocolCAN29b500k     Protocol = 7
	ProtocolCAN11b250k     Protocol = 8
	ProtocolCAN29b250k     Protocol = 9
	ProtocolJ1939CAN29b250 Protocol = 10
)

// String returns the human-readable protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolAuto:
		return "Auto"
	case ProtocolJ1850PWM:
		return "SAE J1850 PWM (41.6 kbaud)"
	case ProtocolJ1850VPW:
		return "SAE J1850 VPW (10.4 kbaud)"
	case ProtocolISO9141:
		return "ISO 9141-2 (5 baud init)"
	case ProtocolKWPSlow:
		return "ISO 14230-4 KWP (5 baud init)"
	case ProtocolKWPFast:
		return "ISO 14230-4 KWP (fast init)"
	case ProtocolCAN11b500k:
		return "ISO 15765-4 CAN (11 bit ID, 500 kbaud)"
	case ProtocolCAN29b500k:
		return "ISO 15765-4 CAN (29 bit ID, 500 kbaud)"
	case ProtocolCAN11b250k:
		return "ISO 15765-4 CAN (11 bit ID, 250 kbaud)"
	case ProtocolCAN29b250k:
		return "ISO 15765-4 CAN (29 bit ID, 250 kbaud)"
	case ProtocolJ1939CAN29b250:
		return "SAE J1939 CAN (29 bit ID, 250 kbaud)"
	default:
		return "Unknown"
	}
}
