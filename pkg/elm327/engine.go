// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"context"
	"io"
	"time"
)

// Flusher is implemented by transports that buffer writes. The engine
// flushes after every command write when the stream supports it.
type Flusher interface {
	Flush() error
}

// Result is the outcome of one successful command execution. The decoded
// buffer is rebuilt from scratch for every run and owned by the result; a
// failed execution produces no Result, so partial buffers never escape.
type Result struct {
	raw   string
	data  []byte
	start time.Time
	end   time.Time
}

// Raw returns the normalized, pre-decode response text.
func (r *Result) Raw() string {
	return r.raw
}

// Data returns the decoded response bytes in wire order.
func (r *Result) Data() []byte {
	return r.data
}

// Start returns the timestamp taken when the execution entered the channel.
func (r *Result) Start() time.Time {
	return r.start
}

// End returns the timestamp taken after calculation finished.
func (r *Result) End() time.Time {
	return r.end
}

// Latency returns the wall time the execution held the channel.
func (r *Result) Latency() time.Duration {
	return r.end.Sub(r.start)
}

// Engine serializes command executions over one shared duplex stream.
//
// The adapter cannot multiplex: writing a second command while a first is
// mid-response corrupts both. Engine therefore admits exactly one execution
// into the send/read cycle at a time. The exclusion is owned by the engine
// instance, one engine per stream; it is not process-global state.
//
// The engine spawns no goroutines. Both suspension points (the optional
// response delay and the byte reads) honor ctx, and the channel slot is
// released on every exit path.
type Engine struct {
	slot chan struct{}
}

// NewEngine creates an engine for one shared stream.
func NewEngine() *Engine {
	return &Engine{slot: make(chan struct{}, 1)}
}

// Run executes cmd against the stream: writes the command text with its
// carriage-return terminator, waits out the command's response delay, reads
// and decodes the reply, and invokes the command's calculation step. It
// returns the typed error from whichever stage failed; errors are terminal
// for the execution and no retry happens here.
func (e *Engine) Run(ctx context.Context, conn io.ReadWriter, cmd Command) (*Result, error) {
	return e.execute(ctx, conn, cmd, cmd.Text()+string(TerminatorByte))
}

// Resend re-triggers output for a prompt known to be pending by writing
// only the terminator, then runs the normal read/decode/calculate cycle.
func (e *Engine) Resend(ctx context.Context, conn io.ReadWriter, cmd Command) (*Result, error) {
	return e.execute(ctx, conn, cmd, string(TerminatorByte))
}

func (e *Engine) execute(ctx context.Context, conn io.ReadWriter, cmd Command, payload string) (*Result, error) {
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, &TransportError{Op: "acquire", Err: ctx.Err()}
	}
	defer func() { <-e.slot }()

	res := &Result{start: time.Now()}

	// Sending
	if _, err := io.WriteString(conn, payload); err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	if f, ok := conn.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return nil, &TransportError{Op: "send", Err: err}
		}
	}

	// AwaitingResponse
	if d := cmd.ResponseDelay(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, &TransportError{Op: "delay", Err: ctx.Err()}
		}
	}

	// Decoding
	raw, err := ReadRaw(ctx, conn)
	if err != nil {
		return nil, err
	}
	if rerr := Classify(cmd.Text(), raw); rerr != nil {
		return nil, rerr
	}

	var data []byte
	if rr, ok := cmd.(RawResponder); ok && rr.RawResponse() {
		// Status-text reply: no hex payload to decode. The command gets
		// the normalized text bytes verbatim.
		res.raw = raw
		data = []byte(raw)
	} else {
		norm := stripColons(stripBusInit(raw))
		if err := ValidateHex(cmd.Text(), norm); err != nil {
			return nil, err
		}
		res.raw = norm
		data = DecodePairs(norm)
	}

	// Calculating
	if err := cmd.Calculate(data); err != nil {
		return nil, err
	}

	res.data = data
	res.end = time.Now()
	return res, nil
}
