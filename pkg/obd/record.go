// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// Sample is one recorded observation in a trip log. Samples are written as
// an append-only CBOR stream, one encoded map per sample, with integer keys
// to keep the on-disk size small.
type Sample struct {
	Time      time.Time `cbor:"1,keyasint"`
	Command   string    `cbor:"2,keyasint"`
	Name      string    `cbor:"3,keyasint"`
	Value     string    `cbor:"4,keyasint"`
	Unit      string    `cbor:"5,keyasint"`
	LatencyMs int64     `cbor:"6,keyasint"`
}

// Recorder appends command results to a CBOR trip-log stream.
type Recorder struct {
	enc *cbor.Encoder
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cbor.NewEncoder(w)}
}

// Record appends one successful execution as a sample.
func (r *Recorder) Record(cmd elm327.Command, res *elm327.Result) error {
	s := Sample{
		Time:      res.End(),
		Command:   cmd.Text(),
		Name:      cmd.Name(),
		Value:     cmd.CalculatedResult(),
		Unit:      cmd.ResultUnit(),
		LatencyMs: res.Latency().Milliseconds(),
	}
	if err := r.enc.Encode(s); err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	return nil
}

// ReadSamples decodes a full trip-log stream back into samples.
func ReadSamples(rd io.Reader) ([]Sample, error) {
	dec := cbor.NewDecoder(rd)
	var samples []Sample
	for {
		var s Sample
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return samples, nil
			}
			return samples, fmt.Errorf("decode sample %d: %w", len(samples), err)
		}
		samples = append(samples, s)
	}
}
