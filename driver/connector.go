// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-adabas/adabas/driver/internal/dsn"
	p "github.com/go-adabas/adabas/driver/internal/protocol"
	"github.com/panjf2000/ants/v2"
)

// Connector default values.
const (
	DefaultCharset     = defaultCharset     // Default charset of alphanumeric control block fields.
	DefaultCommandTime = defaultCommandTime // Default command time.
	DefaultMaxPending  = defaultMaxPending  // Default maximum number of pending asynchronous commands.
)

/*
A Connector represents an engine in a fixed configuration.
Connections created by a Connector share its configuration, its asynchronous worker pool and its metrics.
*/
type Connector struct {
	*connAttrs
	engine  Engine
	dbID    uint16
	metrics *metrics

	poolMu sync.Mutex
	pool   *ants.Pool
	closed bool
}

// NewConnector returns a new Connector instance with default values.
func NewConnector(engine Engine) *Connector {
	return &Connector{
		connAttrs: newConnAttrs(),
		engine:    engine,
		metrics:   newMetrics(nil),
	}
}

// NewDSNConnector creates a connector from a data source name.
func NewDSNConnector(dsnStr string, engine Engine) (*Connector, error) {
	dsn, err := dsn.Parse(dsnStr)
	if err != nil {
		return nil, err
	}
	c := NewConnector(engine)
	c.dbID = dsn.DBID
	if dsn.Charset != "" {
		charset, err := p.ParseCharset(dsn.Charset)
		if err != nil {
			return nil, fmt.Errorf("invalid dsn: %w", err)
		}
		c._charset = charset
	}
	if dsn.ByteOrder == "little" {
		c._byteOrder = binary.LittleEndian
	}
	c._commandTime = dsn.CommandTime
	if dsn.MaxPending != 0 {
		c._setMaxPending(dsn.MaxPending)
	}
	return c, nil
}

// Engine returns the engine of the connector.
func (c *Connector) Engine() Engine { return c.engine }

// DBID returns the database id of the connector (the database id of a data source name).
func (c *Connector) DBID() uint16 { c.mu.RLock(); defer c.mu.RUnlock(); return c.dbID }

// SetDBID sets the database id of the connector.
func (c *Connector) SetDBID(dbID uint16) { c.mu.Lock(); defer c.mu.Unlock(); c.dbID = dbID }

// Logger returns the logger of the connector.
func (c *Connector) Logger() *slog.Logger { return c.logger() }

// SetLogger sets the logger of the connector. A nil logger resets to the default logger.
func (c *Connector) SetLogger(logger *slog.Logger) { c.setLogger(logger) }

// ByteOrder returns the byte order control blocks are encoded with.
func (c *Connector) ByteOrder() binary.ByteOrder { return c.byteOrder() }

// SetByteOrder sets the byte order control blocks are encoded with.
// Any byte order other than binary.LittleEndian selects binary.BigEndian.
func (c *Connector) SetByteOrder(byteOrder binary.ByteOrder) { c.setByteOrder(byteOrder) }

// Charset returns the charset of the alphanumeric control block fields.
func (c *Connector) Charset() Charset { return c.charset() }

// SetCharset sets the charset of the alphanumeric control block fields.
func (c *Connector) SetCharset(charset Charset) { c.setCharset(charset) }

// CommandTime returns the command time passed to the engine for commands without an own command time.
func (c *Connector) CommandTime() uint32 { return c.commandTime() }

// SetCommandTime sets the command time passed to the engine for commands without an own command time.
func (c *Connector) SetCommandTime(t uint32) { c.setCommandTime(t) }

// MaxPending returns the maximum number of asynchronous commands pending at a time.
func (c *Connector) MaxPending() int { return c.maxPending() }

// SetMaxPending sets the maximum number of asynchronous commands pending at a time.
// Further asynchronous commands are rejected with ErrBusy.
func (c *Connector) SetMaxPending(n int) {
	c.setMaxPending(n)
	c.poolMu.Lock()
	defer c.poolMu.Unlock()
	if c.pool != nil {
		c.pool.Tune(c.maxPending())
	}
}

// Stats returns aggregated statistics of all connections of the connector.
func (c *Connector) Stats() *Stats { return c.metrics.stats() }

// NewConn returns a new connection in unopened state.
func (c *Connector) NewConn() *Conn { return newConn(c) }

// Close releases the asynchronous worker pool. Pending asynchronous commands run to completion,
// further asynchronous commands are rejected.
func (c *Connector) Close() error {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.pool != nil {
		c.pool.Release()
	}
	return nil
}

// antsLogger redirects the worker pool log output.
type antsLogger struct {
	logger *slog.Logger
}

func (l antsLogger) Printf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...), slog.String("component", "worker"))
}

func (c *Connector) workerPool() (*ants.Pool, error) {
	c.poolMu.Lock()
	defer c.poolMu.Unlock()
	if c.closed {
		return nil, ants.ErrPoolClosed
	}
	if c.pool != nil {
		return c.pool, nil
	}
	logger := c.logger()
	pool, err := ants.NewPool(
		c.maxPending(),
		ants.WithNonblocking(true),
		ants.WithLogger(antsLogger{logger: logger}),
		ants.WithPanicHandler(func(v any) {
			logger.Error("asynchronous command panicked", slog.Any("panic", v))
		}),
	)
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}
