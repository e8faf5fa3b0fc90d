// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/obdstat/pkg/elm327"
	"github.com/Thermoquad/obdstat/pkg/obd"
)

var dtcTimeout time.Duration

var dtcCmd = &cobra.Command{
	Use:   "dtc",
	Short: "Read or clear diagnostic trouble codes",
}

var dtcReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read stored trouble codes (mode 03)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDTCRead(cmd, obd.NewTroubleCodes(), "stored")
	},
}

var dtcPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Read pending trouble codes (mode 07)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDTCRead(cmd, obd.NewPendingTroubleCodes(), "pending")
	},
}

var dtcClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear trouble codes and reset the MIL (mode 04)",
	Long: `Clear stored trouble codes, freeze frame data, and turn off the
malfunction indicator lamp. This erases the vehicle's diagnostic memory;
codes for unresolved faults will come back once the fault reoccurs.`,
	RunE: runDTCClear,
}

func init() {
	rootCmd.AddCommand(dtcCmd)
	dtcCmd.AddCommand(dtcReadCmd)
	dtcCmd.AddCommand(dtcPendingCmd)
	dtcCmd.AddCommand(dtcClearCmd)
	dtcCmd.PersistentFlags().DurationVar(&dtcTimeout, "timeout", 30*time.Second, "Overall operation timeout")
}

func dtcSession(cmd *cobra.Command) (*obd.Device, Connection, context.Context, context.CancelFunc, error) {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), dtcTimeout)

	device := obd.NewDevice(conn)
	if _, err := device.Init(ctx); err != nil {
		cancel()
		conn.Close()
		return nil, nil, nil, nil, fmt.Errorf("adapter init failed: %v", err)
	}

	fmt.Printf("Connection: %s\n\n", connInfo)
	return device, conn, ctx, cancel, nil
}

func runDTCRead(cmd *cobra.Command, codes *obd.TroubleCodes, label string) error {
	device, conn, ctx, cancel, err := dtcSession(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer conn.Close()

	_, err = device.Run(ctx, codes)
	var respErr *elm327.ResponseError
	if errors.As(err, &respErr) && respErr.Kind == elm327.KindNoData {
		// The ECU answers NO DATA instead of an empty list on some cars.
		fmt.Printf("No %s trouble codes.\n", label)
		return nil
	}
	if err != nil {
		return fmt.Errorf("trouble code read failed: %v", err)
	}

	if len(codes.Codes()) == 0 {
		fmt.Printf("No %s trouble codes.\n", label)
		return nil
	}

	fmt.Printf("%d %s trouble code(s):\n%s\n", len(codes.Codes()), label, codes.FormattedResult())
	return nil
}

func runDTCClear(cmd *cobra.Command, args []string) error {
	device, conn, ctx, cancel, err := dtcSession(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer conn.Close()

	clr := obd.NewClearTroubleCodes()
	if _, err := device.Run(ctx, clr); err != nil {
		return fmt.Errorf("clear failed: %v", err)
	}
	if !clr.Cleared() {
		return fmt.Errorf("ECU did not acknowledge the clear request")
	}

	fmt.Println("Trouble codes cleared.")
	return nil
}
