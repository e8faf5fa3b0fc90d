// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// resetSettle gives the adapter time to reboot and print its banner before
// the reply is framed.
const resetSettle = 500 * time.Millisecond

// Device is one ELM327 adapter session: a shared duplex stream plus the
// engine that serializes command executions over it. The Device does not
// own the stream's lifecycle; the caller opens and closes the transport.
type Device struct {
	conn   io.ReadWriter
	engine *elm327.Engine
}

// NewDevice wraps an open adapter stream.
func NewDevice(conn io.ReadWriter) *Device {
	return &Device{conn: conn, engine: elm327.NewEngine()}
}

// Run executes one command against the adapter.
func (d *Device) Run(ctx context.Context, cmd elm327.Command) (*elm327.Result, error) {
	return d.engine.Run(ctx, d.conn, cmd)
}

// Resend re-triggers the adapter's pending output without re-issuing the
// command.
func (d *Device) Resend(ctx context.Context, cmd elm327.Command) (*elm327.Result, error) {
	return d.engine.Resend(ctx, d.conn, cmd)
}

// Init brings a freshly connected adapter into a known state: reset, echo
// off, linefeeds off, protocol auto. It returns the adapter's version
// banner from the reset reply.
func (d *Device) Init(ctx context.Context) (string, error) {
	reset := NewReset()
	reset.SetResponseDelay(resetSettle)
	res, err := d.Run(ctx, reset)
	if err != nil {
		return "", fmt.Errorf("reset: %w", err)
	}
	ident := res.Raw()
	if !strings.Contains(ident, "ELM") {
		return ident, fmt.Errorf("no ELM327 banner in reset reply %q", ident)
	}

	for _, cmd := range []elm327.Command{
		NewEchoOff(),
		NewLineFeedOff(),
		NewSelectProtocol(ProtocolAuto),
	} {
		if _, err := d.Run(ctx, cmd); err != nil {
			return ident, fmt.Errorf("%s: %w", cmd.Name(), err)
		}
	}
	return ident, nil
}

// Protocol asks the adapter which bus protocol it settled on. The reply to
// "AT DPN" is the protocol number, prefixed with "A" when it was found by
// automatic search.
func (d *Device) Protocol(ctx context.Context) (Protocol, error) {
	dpn := NewDescribeProtocolNumber()
	res, err := d.Run(ctx, dpn)
	if err != nil {
		return ProtocolAuto, err
	}
	text := strings.TrimPrefix(res.Raw(), "A")
	if text == "" {
		return ProtocolAuto, fmt.Errorf("empty protocol number reply")
	}
	var n byte
	if _, err := fmt.Sscanf(text, "%1X", &n); err != nil {
		return ProtocolAuto, fmt.Errorf("bad protocol number %q: %w", res.Raw(), err)
	}
	return Protocol(n), nil
}
