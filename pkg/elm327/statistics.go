// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package elm327

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks execution outcomes and latency over a session.
type Statistics struct {
	StartTime time.Time

	// Counters
	TotalRuns      uint64
	Successful     uint64
	TransportErrs  uint64
	ProtocolErrs   uint64
	MalformedErrs  uint64
	CalcErrs       uint64
	NoData         uint64
	Unsupported    uint64
	MisunderstoodQ uint64

	// Latency over successful runs
	LatencyMin   time.Duration
	LatencyMax   time.Duration
	latencyTotal time.Duration

	// Rates (calculated)
	RunRate   float64 // executions/sec
	ErrorRate float64 // failures/sec
}

// NewStatistics creates a statistics tracker starting now.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records one execution outcome.
func (s *Statistics) Update(res *Result, err error) {
	s.TotalRuns++

	if err == nil {
		s.Successful++
		lat := res.Latency()
		s.latencyTotal += lat
		if s.LatencyMin == 0 || lat < s.LatencyMin {
			s.LatencyMin = lat
		}
		if lat > s.LatencyMax {
			s.LatencyMax = lat
		}
		return
	}

	var respErr *ResponseError
	var transErr *TransportError
	var malErr *MalformedResponseError
	var calcErr *CalculationError
	switch {
	case errors.As(err, &respErr):
		s.ProtocolErrs++
		switch respErr.Kind {
		case KindNoData:
			s.NoData++
		case KindUnsupportedCommand:
			s.Unsupported++
		case KindMisunderstoodCommand:
			s.MisunderstoodQ++
		}
	case errors.As(err, &transErr):
		s.TransportErrs++
	case errors.As(err, &malErr):
		s.MalformedErrs++
	case errors.As(err, &calcErr):
		s.CalcErrs++
	}
}

// LatencyAvg returns the mean latency over successful runs.
func (s *Statistics) LatencyAvg() time.Duration {
	if s.Successful == 0 {
		return 0
	}
	return s.latencyTotal / time.Duration(s.Successful)
}

// CalculateRates refreshes the executions/sec and failures/sec rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.RunRate = float64(s.TotalRuns) / elapsed
		s.ErrorRate = float64(s.TotalRuns-s.Successful) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var successPercent float64
	if s.TotalRuns > 0 {
		successPercent = float64(s.Successful) * 100.0 / float64(s.TotalRuns)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Executions:      %8d\n", s.TotalRuns)
	result += fmt.Sprintf("Successful:      %8d (%.1f%%)\n", s.Successful, successPercent)

	if s.TransportErrs > 0 {
		result += fmt.Sprintf("Transport Errors:%8d\n", s.TransportErrs)
	}
	if s.ProtocolErrs > 0 {
		result += fmt.Sprintf("Adapter Errors:  %8d\n", s.ProtocolErrs)
		if s.NoData > 0 {
			result += fmt.Sprintf("  NO DATA:          %5d\n", s.NoData)
		}
		if s.Unsupported > 0 {
			result += fmt.Sprintf("  Unsupported:      %5d\n", s.Unsupported)
		}
		if s.MisunderstoodQ > 0 {
			result += fmt.Sprintf("  Misunderstood:    %5d\n", s.MisunderstoodQ)
		}
	}
	if s.MalformedErrs > 0 {
		result += fmt.Sprintf("Malformed:       %8d\n", s.MalformedErrs)
	}
	if s.CalcErrs > 0 {
		result += fmt.Sprintf("Calc Errors:     %8d\n", s.CalcErrs)
	}
	if s.Successful > 0 {
		result += fmt.Sprintf("Latency:         min %s / avg %s / max %s\n",
			s.LatencyMin.Round(time.Millisecond),
			s.LatencyAvg().Round(time.Millisecond),
			s.LatencyMax.Round(time.Millisecond))
	}

	result += fmt.Sprintf("Run Rate:        %8.1f cmds/sec\n", s.RunRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset zeroes all counters and restarts the clock.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}
