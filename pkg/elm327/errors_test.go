// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantKind ErrorKind
		wantNil  bool
	}{
		{
			name:     "clean hex passes",
			response: "410C1A2B",
			wantNil:  true,
		},
		{
			name:     "status text passes",
			response: "ELM327v1.5",
			wantNil:  true,
		},
		{
			name:     "unable to connect",
			response: "UNABLETOCONNECT",
			wantKind: KindUnableToConnect,
		},
		{
			name:     "bus init failure",
			response: "BUSINIT...ERROR",
			wantKind: KindBusInitFailure,
		},
		{
			name:     "misunderstood command",
			response: "?",
			wantKind: KindMisunderstoodCommand,
		},
		{
			name:     "no data",
			response: "NODATA",
			wantKind: KindNoData,
		},
		{
			name:     "stopped",
			response: "STOPPED",
			wantKind: KindStopped,
		},
		{
			name:     "generic error",
			response: "ERROR",
			wantKind: KindUnknownError,
		},
		{
			name:     "unsupported service negative response",
			response: "7F0111",
			wantKind: KindUnsupportedCommand,
		},
		{
			name:     "unsupported subfunction negative response",
			response: "7F0A12",
			wantKind: KindUnsupportedCommand,
		},
		{
			name:     "marker embedded in surrounding text",
			response: "41NODATA0C",
			wantKind: KindNoData,
		},
		{
			name:     "bus init error outranks bare error",
			response: "BUSINIT...ERROR",
			wantKind: KindBusInitFailure,
		},
		{
			name:     "negative response with other nrc passes",
			response: "7F0131",
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("01 0C", tt.response)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Classify(%q) = %v, want nil", tt.response, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Classify(%q) = nil, want kind %v", tt.response, tt.wantKind)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Command != "01 0C" {
				t.Errorf("Command = %q, want %q", got.Command, "01 0C")
			}
			if got.Response != tt.response {
				t.Errorf("Response = %q, want %q", got.Response, tt.response)
			}
		})
	}
}

func TestResponseErrorMessage(t *testing.T) {
	err := Classify("01 0D", "NODATA")
	if err == nil {
		t.Fatal("Classify() = nil")
	}

	msg := err.Error()
	for _, want := range []string{"no data", "01 0D", "NODATA"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		KindUnableToConnect:      "unable to connect",
		KindBusInitFailure:       "bus initialization failure",
		KindMisunderstoodCommand: "misunderstood command",
		KindNoData:               "no data",
		KindStopped:              "stopped",
		KindUnknownError:         "unknown adapter error",
		KindUnsupportedCommand:   "unsupported command",
	}

	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	inner := errors.New("broken pipe")
	wrapped := &TransportError{Op: "send", Err: inner}

	if !errors.Is(wrapped, inner) {
		t.Errorf("errors.Is(wrapped, inner) = false")
	}
	if !strings.Contains(wrapped.Error(), "send") {
		t.Errorf("Error() = %q, missing op", wrapped.Error())
	}
}
