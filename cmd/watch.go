// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/obdstat/pkg/elm327"
	"github.com/Thermoquad/obdstat/pkg/obd"
)

var (
	watchInterval      time.Duration
	watchStatsInterval int
	watchPIDs          string
	watchNoInit        bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll live engine data and print it continuously",
	Long: `Continuously poll a set of PIDs and print each reading with a
timestamp. Periodic statistics summaries (request rate, error rate,
latency) are printed at a configurable interval.

Available PIDs: rpm, speed, coolant, throttle, voltage.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "Delay between polling sweeps")
	watchCmd.Flags().IntVar(&watchStatsInterval, "stats-interval", 10, "Statistics summary interval (seconds)")
	watchCmd.Flags().StringVar(&watchPIDs, "pids", "rpm,speed,coolant", "Comma-separated PIDs to poll")
	watchCmd.Flags().BoolVar(&watchNoInit, "no-init", false, "Skip the adapter init sequence")
}

// buildWatchCommands resolves the --pids list into command instances.
func buildWatchCommands(list string) ([]elm327.Command, error) {
	var cmds []elm327.Command
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		switch name {
		case "":
			continue
		case "rpm":
			cmds = append(cmds, obd.NewEngineRPM())
		case "speed":
			speed := obd.NewVehicleSpeed()
			speed.SetImperialUnits(imperialUnits)
			cmds = append(cmds, speed)
		case "coolant":
			coolant := obd.NewCoolantTemperature()
			coolant.SetImperialUnits(imperialUnits)
			cmds = append(cmds, coolant)
		case "throttle":
			cmds = append(cmds, obd.NewThrottlePosition())
		case "voltage":
			cmds = append(cmds, obd.NewModuleVoltage())
		default:
			return nil, fmt.Errorf("unknown PID %q", name)
		}
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("no PIDs selected")
	}
	return cmds, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmds, err := buildWatchCommands(watchPIDs)
	if err != nil {
		return err
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Obdstat - Live Data\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	device := obd.NewDevice(conn)
	if !watchNoInit {
		ident, err := device.Init(ctx)
		if err != nil {
			return fmt.Errorf("adapter init failed: %v", err)
		}
		fmt.Printf("Adapter: %s\n\n", ident)
	}

	stats := elm327.NewStatistics()
	lastSummary := time.Now()

	for {
		for _, c := range cmds {
			res, err := pollOnce(ctx, device, c)
			stats.Update(res, err)

			if err != nil {
				if ctx.Err() != nil {
					fmt.Printf("\n%s", stats)
					return nil
				}
				log.Printf("%s: %v", c.Name(), err)
				continue
			}
			fmt.Printf("%s  %-22s %s\n",
				res.End().Format("15:04:05.000"), c.Name(), c.FormattedResult())
		}

		if int(time.Since(lastSummary).Seconds()) >= watchStatsInterval {
			fmt.Printf("\n%s\n", stats)
			lastSummary = time.Now()
		}

		select {
		case <-ctx.Done():
			fmt.Printf("\n%s", stats)
			return nil
		case <-time.After(watchInterval):
		}
	}
}

// pollOnce runs a command, retrying with a bare resend when the adapter
// interrupted the previous reply with STOPPED.
func pollOnce(ctx context.Context, device *obd.Device, c elm327.Command) (*elm327.Result, error) {
	res, err := device.Run(ctx, c)
	var respErr *elm327.ResponseError
	if errors.As(err, &respErr) && respErr.Kind == elm327.KindStopped {
		return device.Resend(ctx, c)
	}
	return res, err
}
