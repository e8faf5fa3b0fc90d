// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/obdstat/pkg/obd"
)

var probeTimeout time.Duration

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Initialize the adapter and report its identity",
	Long: `Reset the adapter, run the standard init sequence, and report what
was found: adapter identification string, supply voltage, and the OBD
protocol negotiated with the vehicle.

Exit codes:
  0 - Adapter and vehicle both responding
  1 - Adapter responding, vehicle not answering
  2 - Connection or adapter error

This is the quickest way to check that the adapter is wired up and that
the vehicle is answering. Supports both serial and WebSocket connections.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "Overall probe timeout")
}

func runProbe(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Obdstat - Adapter Probe\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
	defer cancel()

	device := obd.NewDevice(conn)

	ident, err := device.Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Adapter init failed: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Adapter:  %s\n", ident)

	voltage := obd.NewAdapterVoltage()
	if _, err := device.Run(ctx, voltage); err != nil {
		fmt.Fprintf(os.Stderr, "Voltage query failed: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Voltage:  %s\n", voltage.FormattedResult())

	// The protocol is only settled after the first real request, so
	// poll something harmless before asking which protocol was chosen.
	rpm := obd.NewEngineRPM()
	if _, err := device.Run(ctx, rpm); err != nil {
		fmt.Fprintf(os.Stderr, "Vehicle not responding: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("RPM:      %s\n", rpm.FormattedResult())

	protocol, err := device.Protocol(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Protocol query failed: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("Protocol: %s\n", protocol)

	return nil
}
