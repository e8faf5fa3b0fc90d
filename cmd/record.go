// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/obdstat/pkg/obd"
)

var (
	recordOutput   string
	recordInterval time.Duration
	recordPIDs     string
	recordDuration time.Duration
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a trip log to a CBOR file",
	Long: `Poll a set of PIDs and append each reading to a CBOR trip-log file.
Recording runs until the duration elapses or Ctrl+C is pressed. Use
'record dump' to print a recorded file.

Available PIDs: rpm, speed, coolant, throttle, voltage.`,
	RunE: runRecord,
}

var recordDumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print a recorded trip log",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordDump,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.AddCommand(recordDumpCmd)
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "trip.cbor", "Trip log file (appended)")
	recordCmd.Flags().DurationVar(&recordInterval, "interval", time.Second, "Delay between polling sweeps")
	recordCmd.Flags().StringVar(&recordPIDs, "pids", "rpm,speed,coolant", "Comma-separated PIDs to record")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "Stop after this long (0 = until interrupted)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	cmds, err := buildWatchCommands(recordPIDs)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(recordOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", recordOutput, err)
	}
	defer out.Close()

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Obdstat - Trip Recorder\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Recording to %s, press Ctrl+C to stop\n\n", recordOutput)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if recordDuration > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, recordDuration)
		defer cancel()
	}

	device := obd.NewDevice(conn)
	ident, err := device.Init(ctx)
	if err != nil {
		return fmt.Errorf("adapter init failed: %v", err)
	}
	fmt.Printf("Adapter: %s\n\n", ident)

	recorder := obd.NewRecorder(out)
	recorded := 0

	for {
		for _, c := range cmds {
			res, err := pollOnce(ctx, device, c)
			if err != nil {
				if ctx.Err() != nil {
					fmt.Printf("\nRecorded %d samples to %s\n", recorded, recordOutput)
					return nil
				}
				log.Printf("%s: %v", c.Name(), err)
				continue
			}
			if err := recorder.Record(c, res); err != nil {
				return fmt.Errorf("failed to write sample: %v", err)
			}
			recorded++
		}

		select {
		case <-ctx.Done():
			fmt.Printf("\nRecorded %d samples to %s\n", recorded, recordOutput)
			return nil
		case <-time.After(recordInterval):
		}
	}
}

func runRecordDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", args[0], err)
	}
	defer f.Close()

	samples, err := obd.ReadSamples(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %v", args[0], err)
	}

	for _, s := range samples {
		fmt.Printf("%s  %-28s %s %s  (%d ms)\n",
			s.Time.Format("2006-01-02 15:04:05.000"),
			s.Name, s.Value, s.Unit, s.LatencyMs)
	}
	fmt.Printf("%d samples\n", len(samples))
	return nil
}
