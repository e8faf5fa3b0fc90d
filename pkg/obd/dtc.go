// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package obd

import (
	"fmt"
	"strings"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// dtcSystemLetters maps the top two bits of a trouble code's first byte to
// its SAE J2012 system letter.
var dtcSystemLetters = [4]byte{'P', 'C', 'B', 'U'}

// decodeDTC turns a two-byte trouble code into its standard text form,
// e.g. 0x01 0x33 -> "P0133".
func decodeDTC(a, b byte) string {
	return fmt.Sprintf("%c%d%X%02X", dtcSystemLetters[a>>6], (a>>4)&0x03, a&0x0F, b)
}

// TroubleCodes reads diagnostic trouble codes: mode 03 for stored codes,
// mode 07 for pending ones.
type TroubleCodes struct {
	elm327.Base
	name  string
	codes []string
}

// NewTroubleCodes creates a stored trouble code (mode 03) command.
func NewTroubleCodes() *TroubleCodes {
	return &TroubleCodes{Base: elm327.NewBase("03"), name: "Trouble Codes"}
}

// NewPendingTroubleCodes creates a pending trouble code (mode 07) command.
func NewPendingTroubleCodes() *TroubleCodes {
	return &TroubleCodes{Base: elm327.NewBase("07"), name: "Pending Trouble Codes"}
}

func (c *TroubleCodes) Name() string { return c.name }

// Calculate parses trouble code pairs from the decoded response. The first
// byte is the mode echo (0x43 or 0x47); on CAN buses it is followed by a
// code count, recognizable because it leaves an odd number of bytes
// otherwise. All-zero pairs are frame padding, not codes.
func (c *TroubleCodes) Calculate(data []byte) error {
	c.codes = c.codes[:0]
	if len(data) == 0 {
		return &elm327.CalculationError{Command: c.Text(), Reason: "empty response"}
	}

	i := 0
	if data[0] == 0x43 || data[0] == 0x47 {
		i = 1
		if (len(data)-1)%2 != 0 {
			i = 2 // CAN count byte
		}
	}

	for ; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			continue
		}
		c.codes = append(c.codes, decodeDTC(data[i], data[i+1]))
	}
	return nil
}

// Codes returns the decoded trouble codes from the last execution.
func (c *TroubleCodes) Codes() []string {
	return c.codes
}

func (c *TroubleCodes) FormattedResult() string {
	if len(c.codes) == 0 {
		return "no codes"
	}
	return strings.Join(c.codes, "\n")
}

func (c *TroubleCodes) CalculatedResult() string {
	return strings.Join(c.codes, ",")
}

// ClearTroubleCodes erases stored codes and the MIL (mode 04). The ECU
// answers 0x44 on success.
type ClearTroubleCodes struct {
	elm327.Base
	cleared bool
}

// NewClearTroubleCodes creates a clear trouble codes command.
func NewClearTroubleCodes() *ClearTroubleCodes {
	return &ClearTroubleCodes{Base: elm327.NewBase("04")}
}

func (c *ClearTroubleCodes) Name() string { return "Clear Trouble Codes" }

func (c *ClearTroubleCodes) Calculate(data []byte) error {
	if len(data) < 1 || data[0] != 0x44 {
		return &elm327.CalculationError{Command: c.Text(), Reason: "ECU did not acknowledge clear"}
	}
	c.cleared = true
	return nil
}

// Cleared reports whether the last execution was acknowledged.
func (c *ClearTroubleCodes) Cleared() bool { return c.cleared }

func (c *ClearTroubleCodes) FormattedResult() string {
	if c.cleared {
		return "codes cleared"
	}
	return "not cleared"
}

func (c *ClearTroubleCodes) CalculatedResult() string {
	if c.cleared {
		return "OK"
	}
	return ""
}
