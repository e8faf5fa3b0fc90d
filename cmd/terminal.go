// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/obdstat/pkg/elm327"
	"github.com/Thermoquad/obdstat/pkg/obd"
)

const (
	historyFileName = ".obdstat_history"
	historySize     = 500
)

var terminalInit bool

var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Interactive adapter terminal",
	Long: `Open an interactive terminal on the adapter. Each line you type is
sent as-is (with the trailing carriage return added), and the adapter's
reply is printed after normalization. Adapter error replies are reported
with their classification.

Type 'exit' or press Ctrl+D to leave. Line history is kept in
~/` + historyFileName + `.`,
	RunE: runTerminal,
}

func init() {
	rootCmd.AddCommand(terminalCmd)
	terminalCmd.Flags().BoolVar(&terminalInit, "init", false, "Run the adapter init sequence first")
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

func runTerminal(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := cmd.Context()
	device := obd.NewDevice(conn)

	fmt.Printf("Obdstat - Adapter Terminal\n")
	fmt.Printf("Connection: %s\n", connInfo)

	if terminalInit {
		ident, err := device.Init(ctx)
		if err != nil {
			return fmt.Errorf("adapter init failed: %v", err)
		}
		fmt.Printf("Adapter: %s\n", ident)
	}
	fmt.Printf("Type 'exit' or Ctrl+D to quit\n\n")

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 "obd> ",
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return fmt.Errorf("failed to init line editor: %v", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl+D gives io.EOF, Ctrl+C gives ErrInterrupt; both exit.
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		rl.SaveToHistory(line)

		res, err := device.Run(ctx, obd.NewRaw(line))
		if err != nil {
			var respErr *elm327.ResponseError
			if errors.As(err, &respErr) {
				fmt.Printf("[%s] %s\n", respErr.Kind, respErr.Response)
			} else {
				fmt.Printf("error: %v\n", err)
			}
			continue
		}
		fmt.Println(res.Raw())
	}
}
