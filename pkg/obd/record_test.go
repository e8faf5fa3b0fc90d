// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"bytes"
	"context"
	"testing"
)

func TestRecorderRoundTrip(t *testing.T) {
	conn := &scriptConn{replies: []string{
		"41 0C 1F A0\r\r>",
		"41 0D 64\r>",
	}}
	device := NewDevice(conn)

	rpm := NewEngineRPM()
	speed := NewVehicleSpeed()

	var buf bytes.Buffer
	recorder := NewRecorder(&buf)

	res, err := device.Run(context.Background(), rpm)
	if err != nil {
		t.Fatalf("Run(rpm) error = %v", err)
	}
	if err := recorder.Record(rpm, res); err != nil {
		t.Fatalf("Record(rpm) error = %v", err)
	}

	res, err = device.Run(context.Background(), speed)
	if err != nil {
		t.Fatalf("Run(speed) error = %v", err)
	}
	if err := recorder.Record(speed, res); err != nil {
		t.Fatalf("Record(speed) error = %v", err)
	}

	samples, err := ReadSamples(&buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}

	first := samples[0]
	if first.Command != "01 0C" {
		t.Errorf("Command = %q, want %q", first.Command, "01 0C")
	}
	if first.Name != "Engine RPM" {
		t.Errorf("Name = %q, want %q", first.Name, "Engine RPM")
	}
	if first.Value != "2024" {
		t.Errorf("Value = %q, want %q", first.Value, "2024")
	}
	if first.Unit != "RPM" {
		t.Errorf("Unit = %q, want %q", first.Unit, "RPM")
	}
	if first.Time.IsZero() {
		t.Error("Time is zero")
	}

	second := samples[1]
	if second.Name != "Vehicle Speed" {
		t.Errorf("Name = %q, want %q", second.Name, "Vehicle Speed")
	}
	if second.Value != "100" {
		t.Errorf("Value = %q, want %q", second.Value, "100")
	}
	if second.Unit != "km/h" {
		t.Errorf("Unit = %q, want %q", second.Unit, "km/h")
	}
}

func TestReadSamplesEmpty(t *testing.T) {
	samples, err := ReadSamples(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("len(samples) = %d, want 0", len(samples))
	}
}
