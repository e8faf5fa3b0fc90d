// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Obdstat - ELM327 OBD-II Diagnostic Tool
//
// A CLI tool for talking to ELM327-class OBD-II adapters: probing,
// live data, trouble codes, trip recording, and a raw terminal.

package main

import (
	"os"

	"github.com/Thermoquad/obdstat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
