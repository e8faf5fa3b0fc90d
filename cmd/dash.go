// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Thermoquad/obdstat/pkg/elm327"
	"github.com/Thermoquad/obdstat/pkg/obd"
)

var dashInterval time.Duration

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Live gauge dashboard",
	Long: `Full-screen dashboard showing live engine data: RPM, vehicle speed,
coolant temperature, and throttle position, together with session
statistics and a log of recent adapter errors.

Press 'r' to reset statistics, 'q' to quit.`,
	RunE: runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
	dashCmd.Flags().DurationVar(&dashInterval, "interval", 250*time.Millisecond, "Delay between polling sweeps")
}

func runDash(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	device := obd.NewDevice(conn)
	ident, err := device.Init(ctx)
	if err != nil {
		return fmt.Errorf("adapter init failed: %v", err)
	}

	m := initialDashModel(connInfo, ident)
	p := tea.NewProgram(m)

	speed := obd.NewVehicleSpeed()
	speed.SetImperialUnits(imperialUnits)
	coolant := obd.NewCoolantTemperature()
	coolant.SetImperialUnits(imperialUnits)
	cmds := []elm327.Command{
		obd.NewEngineRPM(),
		speed,
		coolant,
		obd.NewThrottlePosition(),
	}

	// Poller goroutine, feeding readings into the TUI
	go func() {
		for {
			for _, c := range cmds {
				res, err := device.Run(ctx, c)
				if ctx.Err() != nil {
					return
				}
				msg := sampleMsg{name: c.Name(), res: res, err: err}
				if err == nil {
					msg.value = c.FormattedResult()
					msg.latency = res.Latency()
				}
				p.Send(msg)
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(dashInterval):
			}
		}
	}()

	_, err = p.Run()
	cancel()
	return err
}
