// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/obdstat/pkg/elm327"
)

// Error log entry
type errorLogEntry struct {
	timestamp time.Time
	message   string
}

// One live reading on the dashboard
type reading struct {
	value     string
	latency   time.Duration
	timestamp time.Time
}

// Gauge display order
var gaugeOrder = []string{
	"Engine RPM",
	"Vehicle Speed",
	"Engine Coolant Temperature",
	"Throttle Position",
}

// TUI model
type dashModel struct {
	connInfo      string
	ident         string
	readings      map[string]reading
	stats         *elm327.Statistics
	errorLog      []errorLogEntry
	maxLogEntries int
	spin          spinner.Model
	gotFirst      bool
	width         int
	height        int
	quitting      bool
}

// Messages
type tickMsg time.Time
type sampleMsg struct {
	name    string
	value   string
	latency time.Duration
	res     *elm327.Result
	err     error
}

func initialDashModel(connInfo, ident string) dashModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return dashModel{
		connInfo:      connInfo,
		ident:         ident,
		readings:      make(map[string]reading),
		stats:         elm327.NewStatistics(),
		errorLog:      make([]errorLogEntry, 0),
		maxLogEntries: 100,
		spin:          sp,
		width:         80,
		height:        24,
	}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.spin.Tick,
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.stats.Reset()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Update statistics rates
		m.stats.CalculateRates()
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case sampleMsg:
		m.recordSample(msg)
	}

	return m, nil
}

func (m *dashModel) recordSample(msg sampleMsg) {
	m.stats.Update(msg.res, msg.err)

	if msg.err != nil {
		m.addLogEntry(fmt.Sprintf("%s: %v", msg.name, msg.err))
		return
	}

	m.gotFirst = true
	m.readings[msg.name] = reading{
		value:     msg.value,
		latency:   msg.latency,
		timestamp: time.Now(),
	}
}

func (m *dashModel) addLogEntry(message string) {
	entry := errorLogEntry{
		timestamp: time.Now(),
		message:   message,
	}
	m.errorLog = append(m.errorLog, entry)

	// Keep only last N entries
	if len(m.errorLog) > m.maxLogEntries {
		m.errorLog = m.errorLog[len(m.errorLog)-m.maxLogEntries:]
	}
}

func (m dashModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("OBDSTAT - LIVE DASHBOARD"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Adapter: %s | Press 'r' to reset stats, 'q' to quit",
		m.connInfo, m.ident)))
	s.WriteString("\n\n")

	// Gauges
	if !m.gotFirst {
		s.WriteString(m.spin.View())
		s.WriteString(headerStyle.Render(" Waiting for first reading..."))
		s.WriteString("\n\n")
	} else {
		gauges := strings.Builder{}
		for _, name := range gaugeOrder {
			r, ok := m.readings[name]
			if !ok {
				continue
			}
			gauges.WriteString(fmt.Sprintf("%s %s  %s\n",
				labelStyle.Render(fmt.Sprintf("%-28s", name+":")),
				valueStyle.Render(fmt.Sprintf("%-14s", r.value)),
				headerStyle.Render(fmt.Sprintf("(%s)", r.latency.Round(time.Millisecond))),
			))
		}
		s.WriteString(boxStyle.Render(strings.TrimRight(gauges.String(), "\n")))
		s.WriteString("\n\n")
	}

	// Statistics
	m.stats.CalculateRates()
	var successPercent float64
	if m.stats.TotalRuns > 0 {
		successPercent = float64(m.stats.Successful) * 100.0 / float64(m.stats.TotalRuns)
	}
	failures := m.stats.TotalRuns - m.stats.Successful

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Runs:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalRuns)),
		labelStyle.Render("OK:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.Successful, successPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", failures)),
	))
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Run Rate:"), valueStyle.Render(fmt.Sprintf("%.1f cmds/s", m.stats.RunRate)),
		labelStyle.Render("Latency:"), valueStyle.Render(fmt.Sprintf("min %s / avg %s / max %s",
			m.stats.LatencyMin.Round(time.Millisecond),
			m.stats.LatencyAvg().Round(time.Millisecond),
			m.stats.LatencyMax.Round(time.Millisecond))),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Error log
	s.WriteString(labelStyle.Render("Recent Errors:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 16 // Reserve space for header, gauges, and stats
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.errorLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.errorLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no errors yet)"))
	} else {
		for i := startIdx; i < len(m.errorLog); i++ {
			entry := m.errorLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			logContent.WriteString(fmt.Sprintf("%s %s\n",
				headerStyle.Render(timestamp),
				errorStyle.Render("✗ "+entry.message),
			))
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(logContent.String(), "\n")))

	return s.String()
}
