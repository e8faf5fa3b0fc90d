// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"testing"
	"time"
)

func TestBaseMode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "spaced pid command", text: "01 0C", want: "01"},
		{name: "dtc command", text: "03", want: "03"},
		{name: "single char", text: "0", want: "0"},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase(tt.text)
			if got := b.Mode(); got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBasePID(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "engine rpm", text: "01 0C", want: "0C"},
		{name: "coolant temperature", text: "01 05", want: "05"},
		{name: "module voltage", text: "01 42", want: "42"},
		{name: "too short", text: "03", wantErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase(tt.text)
			got, err := b.PID()
			if (err != nil) != tt.wantErr {
				t.Fatalf("PID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("PID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBaseResponseDelay(t *testing.T) {
	b := NewBase("AT Z")
	if b.ResponseDelay() != 0 {
		t.Errorf("ResponseDelay() = %v, want 0", b.ResponseDelay())
	}

	b.SetResponseDelay(500 * time.Millisecond)
	if b.ResponseDelay() != 500*time.Millisecond {
		t.Errorf("ResponseDelay() = %v, want 500ms", b.ResponseDelay())
	}
}

// fakeCommand is a minimal Command for identity tests.
type fakeCommand struct {
	Base
}

func (c *fakeCommand) Name() string             { return "Fake" }
func (c *fakeCommand) Calculate([]byte) error   { return nil }
func (c *fakeCommand) FormattedResult() string  { return "" }
func (c *fakeCommand) CalculatedResult() string { return "" }

func newFake(text string) *fakeCommand {
	return &fakeCommand{Base: NewBase(text)}
}

func TestCommandEqual(t *testing.T) {
	a := newFake("01 0C")
	b := newFake("01 0C")
	c := newFake("01 0D")

	if !Equal(a, b) {
		t.Error("Equal(a, b) = false for identical text")
	}
	if Equal(a, c) {
		t.Error("Equal(a, c) = true for different text")
	}

	// Execution history must not affect identity
	b.SetResponseDelay(time.Second)
	if !Equal(a, b) {
		t.Error("Equal(a, b) = false after delay change")
	}
}

func TestCommandTextAsMapKey(t *testing.T) {
	seen := map[string]int{}
	for _, cmd := range []Command{newFake("01 0C"), newFake("01 0C"), newFake("01 0D")} {
		seen[cmd.Text()]++
	}

	if len(seen) != 2 {
		t.Fatalf("distinct keys = %d, want 2", len(seen))
	}
	if seen["01 0C"] != 2 {
		t.Errorf(`seen["01 0C"] = %d, want 2`, seen["01 0C"])
	}
}
