// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"sort"
	"sync"
	"sync/atomic"
)

const (
	counterCommands = iota
	counterEOFs
	counterEngineErrors
	counterBytesSent
	counterBytesReceived
	numCounter
)

const (
	gaugeConn = iota
	gaugeSession
	gaugeInFlight
	numGauge
)

type counter struct {
	n atomic.Uint64
}

func (c *counter) add(n uint64)  { c.n.Add(n) }
func (c *counter) value() uint64 { return c.n.Load() }

type gauge struct {
	v atomic.Int64
}

func (g *gauge) add(n int64)  { g.v.Add(n) }
func (g *gauge) value() int64 { return g.v.Load() }

type histogram struct {
	mu          sync.Mutex
	count       uint64
	sum         float64
	upperBounds []float64
	boundCounts []uint64
}

func newHistogram(upperBounds []float64) *histogram {
	return &histogram{upperBounds: upperBounds, boundCounts: make([]uint64, len(upperBounds))}
}

func (h *histogram) stats() *StatsHistogram {
	h.mu.Lock()
	defer h.mu.Unlock()
	rv := &StatsHistogram{
		Count:   h.count,
		Sum:     h.sum,
		Buckets: make(map[float64]uint64, len(h.upperBounds)),
	}
	for i, upperBound := range h.upperBounds {
		rv.Buckets[upperBound] = h.boundCounts[i]
	}
	return rv
}

func (h *histogram) add(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	if v < 0 { // time measurement with negative duration: count, but do not add to sum and buckets.
		return
	}
	h.sum += v
	// determine index
	i := sort.SearchFloat64s(h.upperBounds, v)
	// buckets are cumulative
	for ; i < len(h.upperBounds); i++ {
		h.boundCounts[i]++
	}
}

// metrics are collected per connection and aggregated by the parent (connector) metrics.
type metrics struct {
	parent     *metrics
	counters   [numCounter]counter
	gauges     [numGauge]gauge
	histograms [NumStatsTime]*histogram
}

func newMetrics(parent *metrics) *metrics {
	m := &metrics{parent: parent}
	for i := range m.histograms {
		m.histograms[i] = newHistogram(statsCfg.TimeUpperBounds)
	}
	return m
}

func (m *metrics) addCounterValue(idx int, v uint64) {
	for ; m != nil; m = m.parent {
		m.counters[idx].add(v)
	}
}

func (m *metrics) addGaugeValue(idx int, v int64) {
	for ; m != nil; m = m.parent {
		m.gauges[idx].add(v)
	}
}

func (m *metrics) addTimeValue(idx int, v float64) {
	for ; m != nil; m = m.parent {
		m.histograms[idx].add(v)
	}
}

func (m *metrics) stats() *Stats {
	times := make([]*StatsHistogram, len(m.histograms))
	for i, h := range m.histograms {
		times[i] = h.stats()
	}
	return &Stats{
		OpenConnections: int(m.gauges[gaugeConn].value()),
		OpenSessions:    int(m.gauges[gaugeSession].value()),
		InFlight:        int(m.gauges[gaugeInFlight].value()),
		Commands:        m.counters[counterCommands].value(),
		EOFs:            m.counters[counterEOFs].value(),
		EngineErrors:    m.counters[counterEngineErrors].value(),
		BytesSent:       m.counters[counterBytesSent].value(),
		BytesReceived:   m.counters[counterBytesReceived].value(),
		Times:           times,
	}
}
