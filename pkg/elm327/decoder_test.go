// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"context"
	"strings"
	"testing"
)

func TestReadRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple reply with prompt",
			input: "41 0C 1A 2B\r\r>",
			want:  "410C1A2B",
		},
		{
			name:  "prompt excluded from text",
			input: "OK\r>",
			want:  "OK",
		},
		{
			name:  "stops at first prompt",
			input: "41 0D 32\r>41 0D 33\r>",
			want:  "410D32",
		},
		{
			name:  "eof before prompt keeps accumulated text",
			input: "41 0C 1A",
			want:  "410C1A",
		},
		{
			name:  "searching banner removed",
			input: "SEARCHING...\r41 0C 1F 2E\r>",
			want:  "...410C1F2E",
		},
		{
			name:  "all whitespace kinds removed",
			input: "41\t0C \v1A\f2B\n\r>",
			want:  "410C1A2B",
		},
		{
			name:  "empty reply",
			input: ">",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRaw(context.Background(), strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadRaw() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadRaw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadRawCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadRaw(ctx, strings.NewReader("41 0C>"))
	if err == nil {
		t.Fatal("ReadRaw() with cancelled context did not fail")
	}
	transErr, ok := err.(*TransportError)
	if !ok {
		t.Fatalf("ReadRaw() error = %T, want *TransportError", err)
	}
	if transErr.Op != "read" {
		t.Errorf("Op = %q, want %q", transErr.Op, "read")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean hex untouched",
			input: "410C1A2B",
			want:  "410C1A2B",
		},
		{
			name:  "spaces between pairs",
			input: "41 0C 1A 2B",
			want:  "410C1A2B",
		},
		{
			name:  "searching banner with dots",
			input: "SEARCHING...\r\n41 0C 1F 2E",
			want:  "410C1F2E",
		},
		{
			name:  "slow init progress banner",
			input: "BUS INIT: ...OK\r41 05 5A",
			want:  "OK41055A",
		},
		{
			name:  "multi frame line offsets",
			input: "0: 43 01 33 00 00\r1: 00 00",
			want:  "0430133000010000",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// The pipeline must be idempotent
			if again := Normalize(got); again != got {
				t.Errorf("Normalize(Normalize(x)) = %q, want %q", again, got)
			}
		})
	}
}

func TestValidateHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "upper case hex", input: "410C1A2B", wantErr: false},
		{name: "lower case hex", input: "410c1a2b", wantErr: false},
		{name: "odd length passes", input: "410", wantErr: false},
		{name: "empty passes", input: "", wantErr: false},
		{name: "status text fails", input: "OK", wantErr: true},
		{name: "stray punctuation fails", input: "41.0C", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHex("01 0C", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateHex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				malErr, ok := err.(*MalformedResponseError)
				if !ok {
					t.Fatalf("error = %T, want *MalformedResponseError", err)
				}
				if malErr.Command != "01 0C" {
					t.Errorf("Command = %q, want %q", malErr.Command, "01 0C")
				}
				if malErr.Response != tt.input {
					t.Errorf("Response = %q, want %q", malErr.Response, tt.input)
				}
			}
		})
	}
}

func TestDecodePairs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{
			name:  "even length",
			input: "410C1A2B",
			want:  []byte{0x41, 0x0C, 0x1A, 0x2B},
		},
		{
			name:  "odd length drops trailing nibble",
			input: "410",
			want:  []byte{0x41},
		},
		{
			name:  "single pair",
			input: "FF",
			want:  []byte{0xFF},
		},
		{
			name:  "lower case",
			input: "0aff",
			want:  []byte{0x0A, 0xFF},
		},
		{
			name:  "single char yields nothing",
			input: "4",
			want:  []byte{},
		},
		{
			name:  "empty",
			input: "",
			want:  []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodePairs(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("DecodePairs(%q) = % X, want % X", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("byte %d = 0x%02X, want 0x%02X", i, got[i], tt.want[i])
				}
			}
		})
	}
}
