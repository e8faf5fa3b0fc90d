// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"testing"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

func TestProtocolCommandTexts(t *testing.T) {
	tests := []struct {
		name string
		cmd  elm327.Command
		want string
	}{
		{name: "reset", cmd: NewReset(), want: "AT Z"},
		{name: "warm start", cmd: NewWarmStart(), want: "AT WS"},
		{name: "echo off", cmd: NewEchoOff(), want: "AT E0"},
		{name: "echo on", cmd: NewEchoOn(), want: "AT E1"},
		{name: "linefeed off", cmd: NewLineFeedOff(), want: "AT L0"},
		{name: "headers off", cmd: NewHeadersOff(), want: "AT H0"},
		{name: "timeout", cmd: NewTimeout(0x32), want: "AT ST 32"},
		{name: "select protocol auto", cmd: NewSelectProtocol(ProtocolAuto), want: "AT SP 0"},
		{name: "select protocol can", cmd: NewSelectProtocol(ProtocolCAN11b500k), want: "AT SP 6"},
		{name: "describe protocol number", cmd: NewDescribeProtocolNumber(), want: "AT DPN"},
		{name: "adapter voltage", cmd: NewAdapterVoltage(), want: "AT RV"},
		{name: "raw passthrough", cmd: NewRaw("01 00"), want: "01 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProtocolCommandRawResponse(t *testing.T) {
	cmd := NewAdapterVoltage()
	if !cmd.RawResponse() {
		t.Error("RawResponse() = false, AT commands must skip hex decoding")
	}

	if err := cmd.Calculate([]byte("12.5V")); err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got := cmd.FormattedResult(); got != "12.5V" {
		t.Errorf("FormattedResult() = %q, want %q", got, "12.5V")
	}
	if got := cmd.CalculatedResult(); got != "12.5V" {
		t.Errorf("CalculatedResult() = %q, want %q", got, "12.5V")
	}
}

func TestProtocolString(t *testing.T) {
	tests := []struct {
		p    Protocol
		want string
	}{
		{p: ProtocolAuto, want: "Auto"},
		{p: ProtocolJ1850PWM, want: "SAE J1850 PWM (41.6 kbaud)"},
		{p: ProtocolISO9141, want: "ISO 9141-2 (5 baud init)"},
		{p: ProtocolCAN11b500k, want: "ISO 15765-4 CAN (11 bit ID, 500 kbaud)"},
		{p: ProtocolJ1939CAN29b250, want: "SAE J1939 CAN (29 bit ID, 250 kbaud)"},
		{p: Protocol(42), want: "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Protocol(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
