// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"
	"strings"
)

// StatsHistogram represents statistic data in a histogram structure.
type StatsHistogram struct {
	// Count holds the number of measurements
	Count uint64
	// Sum holds the sum of the measurements.
	Sum float64
	// Buckets contains the count of measurements belonging to a bucket where the
	// value of the measurement is less or equal the bucket map key.
	Buckets map[float64]uint64
}

func (h *StatsHistogram) String() string {
	return fmt.Sprintf("count %d sum %f values %v", h.Count, h.Sum, h.Buckets)
}

// Stats contains driver statistics.
type Stats struct {
	// Gauges
	OpenConnections int // The number of connections not closed yet.
	OpenSessions    int // The number of sessions opened by OP and not closed yet.
	InFlight        int // The number of executing commands.
	// Counter
	Commands      uint64 // Total number of executed commands (engine calls).
	EOFs          uint64 // Total number of commands returning EOF.
	EngineErrors  uint64 // Total number of commands returning an error response code or failing in the engine call.
	BytesSent     uint64 // Total bytes passed to the engine (control block and buffers).
	BytesReceived uint64 // Total bytes returned by the engine (control block, record and ISN buffer).
	// Time histograms
	Times []*StatsHistogram // Spent time statistics in milliseconds per command category.
}

func (s *Stats) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "\nopenConnections %d", s.OpenConnections)
	fmt.Fprintf(&sb, "\nopenSessions    %d", s.OpenSessions)
	fmt.Fprintf(&sb, "\ninFlight        %d", s.InFlight)
	fmt.Fprintf(&sb, "\ncommands        %d", s.Commands)
	fmt.Fprintf(&sb, "\neofs            %d", s.EOFs)
	fmt.Fprintf(&sb, "\nengineErrors    %d", s.EngineErrors)
	fmt.Fprintf(&sb, "\nbytesSent       %d", s.BytesSent)
	fmt.Fprintf(&sb, "\nbytesReceived   %d", s.BytesReceived)
	sb.WriteString("\nTimes")
	for i, h := range s.Times {
		fmt.Fprintf(&sb, "\n  %-8s %s", statsCfg.TimeTexts[i], h.String())
	}
	return sb.String()
}
