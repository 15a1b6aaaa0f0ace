// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package collectors implements go-adabas prometheus collectors.
package collectors

import (
	"fmt"
	"strings"

	"github.com/go-adabas/adabas/driver"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "go_adabas"

type stats interface {
	Stats() *driver.Stats
}

var statsTimeTexts = driver.StatsTimeTexts()

type collector struct {
	s stats

	openConnections *prometheus.Desc
	openSessions    *prometheus.Desc
	inFlight        *prometheus.Desc
	commands        *prometheus.Desc
	eofs            *prometheus.Desc
	engineErrors    *prometheus.Desc
	bytesSent       *prometheus.Desc
	bytesReceived   *prometheus.Desc
	times           *prometheus.Desc
}

func newCollector(s stats, subsystem string, labels prometheus.Labels) prometheus.Collector {
	// fqName: namespace, subsystem, name
	fqName := func(name string) string { return strings.Join([]string{namespace, subsystem, name}, "_") }
	desc := func(name, help string, variableLabels []string) *prometheus.Desc {
		return prometheus.NewDesc(fqName(name), fmt.Sprintf(help, subsystem), variableLabels, labels)
	}
	return &collector{
		s:               s,
		openConnections: desc("open_connections", "The number of open %s connections.", nil),
		openSessions:    desc("open_sessions", "The number of open %s database sessions.", nil),
		inFlight:        desc("in_flight", "The number of %s commands executing.", nil),
		commands:        desc("commands", "The total number of %s commands passed to the engine.", nil),
		eofs:            desc("eofs", "The total number of %s commands reaching the end of a result set.", nil),
		engineErrors:    desc("engine_errors", "The total number of %s commands failing in the engine.", nil),
		bytesSent:       desc("bytes_sent", "The total bytes of control blocks and buffers passed to the engine by %s.", nil),
		bytesReceived:   desc("bytes_received", "The total bytes of control blocks and buffers returned by the engine to %s.", nil),
		times:           desc("time_stats", "The spent time measured in milliseconds for the command categories of %s.", []string{"category"}),
	}
}

// Describe implements Collector.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.openConnections
	ch <- c.openSessions
	ch <- c.inFlight
	ch <- c.commands
	ch <- c.eofs
	ch <- c.engineErrors
	ch <- c.bytesSent
	ch <- c.bytesReceived
	ch <- c.times
}

// Collect implements Collector.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.s.Stats()
	ch <- prometheus.MustNewConstMetric(c.openConnections, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.openSessions, prometheus.GaugeValue, float64(stats.OpenSessions))
	ch <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, float64(stats.InFlight))
	ch <- prometheus.MustNewConstMetric(c.commands, prometheus.CounterValue, float64(stats.Commands))
	ch <- prometheus.MustNewConstMetric(c.eofs, prometheus.CounterValue, float64(stats.EOFs))
	ch <- prometheus.MustNewConstMetric(c.engineErrors, prometheus.CounterValue, float64(stats.EngineErrors))
	ch <- prometheus.MustNewConstMetric(c.bytesSent, prometheus.CounterValue, float64(stats.BytesSent))
	ch <- prometheus.MustNewConstMetric(c.bytesReceived, prometheus.CounterValue, float64(stats.BytesReceived))
	for i, h := range stats.Times {
		ch <- prometheus.MustNewConstHistogram(c.times, h.Count, h.Sum, h.Buckets, statsTimeTexts[i])
	}
}

// NewConnectorCollector returns a collector that exports *driver.Connector metrics.
func NewConnectorCollector(c *driver.Connector, dbName string) prometheus.Collector {
	return newCollector(c, "connector", prometheus.Labels{"db_name": dbName})
}

// NewConnCollector returns a collector that exports the metrics of a single *driver.Conn.
// The session id of the connection is added as label.
func NewConnCollector(c *driver.Conn, dbName string) prometheus.Collector {
	return newCollector(c, "conn", prometheus.Labels{"db_name": dbName, "session": c.SessionID()})
}
