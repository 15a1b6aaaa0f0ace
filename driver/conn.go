// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// SessionState is the state of the session of a connection.
type SessionState int

// Session states.
const (
	SessionUnopened SessionState = iota // no OP executed yet.
	SessionOpen                         // OP completed.
	SessionClosed                       // CL completed or connection closed, terminal.
)

var sessionStateNames = [...]string{"unopened", "open", "closed"}

func (s SessionState) String() string {
	if s < 0 || int(s) >= len(sessionStateNames) {
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
	return sessionStateNames[s]
}

// ExecEvent describes a completed command execution.
type ExecEvent struct {
	CommandCode  string
	CommandID    string
	ResponseCode ResponseCode
	Err          error
	Duration     time.Duration
}

// unique connection number.
var connNo atomic.Uint64

/*
A Conn represents a session to a database.

The session is opened by executing an OP command and closed by a CL command or by calling Close.
Only one command can be executed at a time per connection. A second Exec or ExecAsync while a command
is in flight fails with ErrConcurrentExec. The asynchronous form releases the connection before the callback
is invoked, so the next command can be issued from within the callback.
*/
type Conn struct {
	connector *Connector
	attrs     *connAttrs
	metrics   *metrics
	logger    *slog.Logger
	engine    Engine
	sessionID string

	mu        sync.Mutex
	cond      *sync.Cond // signals the end of an in-flight exec.
	state     SessionState
	dbID      uint16 // database id of the open session.
	busy      bool
	closed    bool
	observers []func(ExecEvent)
}

func newConn(connector *Connector) *Conn {
	sessionID := uuid.NewString()
	c := &Conn{
		connector: connector,
		attrs:     connector.connAttrs,
		metrics:   newMetrics(connector.metrics),
		logger:    connector.logger().With(slog.Uint64("conn", connNo.Add(1)), slog.String("session", sessionID)),
		engine:    connector.engine,
		sessionID: sessionID,
	}
	c.cond = sync.NewCond(&c.mu)
	c.metrics.addGaugeValue(gaugeConn, 1) // increment open connections.
	return c
}

// SessionID returns the unique id of the connection used in log records.
func (c *Conn) SessionID() string { return c.sessionID }

// State returns the session state of the connection.
func (c *Conn) State() SessionState { c.mu.Lock(); defer c.mu.Unlock(); return c.state }

// Stats returns the statistics of the connection.
func (c *Conn) Stats() *Stats { return c.metrics.stats() }

// OnExec registers fn to be called after each command execution of the connection.
// fn is called after the connection is released and must not block.
func (c *Conn) OnExec(fn func(ExecEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *Conn) notify(ev ExecEvent) {
	c.mu.Lock()
	observers := c.observers
	c.mu.Unlock()
	for _, fn := range observers {
		fn(ev)
	}
}

func preconditionError(code string, err error) error {
	return &PreconditionError{code: code, err: err}
}

// acquire checks the preconditions of cmd and marks the connection and cmd in flight.
func (c *Conn) acquire(cmd *Command) (*p.CommandInfo, error) {
	code := cmd.cb.CommandCode
	if code == "" {
		return nil, preconditionError(code, ErrMissingCommandCode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == SessionClosed {
		return nil, preconditionError(code, ErrConnClosed)
	}
	if c.busy {
		return nil, ErrConcurrentExec
	}
	if c.state == SessionUnopened && code != p.CmdOpen {
		return nil, preconditionError(code, ErrNotOpen)
	}
	if cmd.cb.DBID == 0 {
		return nil, preconditionError(code, ErrMissingDBID)
	}
	info, _ := p.LookupCommand(code)
	if info.FileScoped && cmd.cb.FileNo == 0 {
		return nil, preconditionError(code, ErrMissingFileNo)
	}
	if err := cmd.checkBuffers(info); err != nil {
		return nil, preconditionError(code, err)
	}
	if !cmd.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInUse
	}
	c.busy = true
	c.metrics.addGaugeValue(gaugeInFlight, 1)
	return info, nil
}

func (c *Conn) release(cmd *Command) {
	cmd.inFlight.Store(false)
	c.mu.Lock()
	c.busy = false
	c.cond.Broadcast()
	c.mu.Unlock()
	c.metrics.addGaugeValue(gaugeInFlight, -1)
}

func bufferBytes(bufs *p.Buffers, idxs ...int) (n uint64) {
	for _, i := range idxs {
		n += uint64(len(bufs[i]))
	}
	return n
}

// call executes cmd by the engine and updates the session state. The connection needs to be acquired.
// The response fields of cmd are reset, so a failed call does not leave the response of a previous exec.
func (c *Conn) call(ctx context.Context, cmd *Command, info *p.CommandInfo) (ResponseCode, error) {
	cmd.cb.ResponseCode, cmd.cb.Subcode = 0, 0
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	cb, bufs := cmd.wireBuffers()
	if cb.CommandTime == 0 {
		cb.CommandTime = c.attrs.commandTime()
	}
	var acb p.ACB
	if err := cb.Encode(&acb, c.attrs.arch()); err != nil {
		return 0, err
	}

	p.TraceCall(true, &acb, &bufs)
	start := time.Now()
	err := c.engine.Call(ctx, &acb, &bufs)
	d := time.Since(start)
	p.TraceCall(false, &acb, &bufs)

	c.metrics.addCounterValue(counterCommands, 1)
	c.metrics.addCounterValue(counterBytesSent, p.ACBSize+bufferBytes(&bufs, p.FormatBuffer, p.RecordBuffer, p.SearchBuffer, p.ValueBuffer, p.ISNBuffer))
	c.metrics.addTimeValue(info.Category, float64(d.Nanoseconds())/1e6)

	if err != nil {
		c.metrics.addCounterValue(counterEngineErrors, 1)
		c.logger.Error("engine call failed", slog.String("cmd", cb.CommandCode), slog.Any("error", err))
		return 0, fmt.Errorf("adabas engine call %s: %w", cb.CommandCode, err)
	}
	c.metrics.addCounterValue(counterBytesReceived, p.ACBSize+bufferBytes(&bufs, p.RecordBuffer, p.ISNBuffer))

	var out p.ControlBlock
	if err := out.Decode(&acb); err != nil {
		c.metrics.addCounterValue(counterEngineErrors, 1)
		return 0, fmt.Errorf("adabas engine call %s: %w", cb.CommandCode, err)
	}
	cmd.cb.UpdateResponse(&out)
	rsp := out.ResponseCode

	if rsp == p.RspNormal {
		c.updateState(cb.CommandCode, cb.DBID)
	}

	c.logger.Debug("exec", slog.String("cmd", cb.CommandCode), slog.String("rsp", rsp.String()), slog.Duration("t", d))

	switch {
	case rsp.IsEOF():
		c.metrics.addCounterValue(counterEOFs, 1)
		return rsp, nil
	case rsp.IsError():
		c.metrics.addCounterValue(counterEngineErrors, 1)
		err := newEngineError(cmd)
		c.logger.Warn("engine error", slog.String("cmd", cb.CommandCode), slog.String("rsp", rsp.String()), slog.Uint64("subcode", uint64(out.Subcode)))
		return rsp, err
	default:
		return rsp, nil
	}
}

func (c *Conn) updateState(code string, dbID uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case code == p.CmdOpen && c.state == SessionUnopened:
		c.state = SessionOpen
		c.dbID = dbID
		c.metrics.addGaugeValue(gaugeSession, 1)
	case code == p.CmdOpen:
		c.dbID = dbID
	case code == p.CmdClose && c.state == SessionOpen:
		c.state = SessionClosed
		c.metrics.addGaugeValue(gaugeSession, -1)
	}
}

func (c *Conn) exec(ctx context.Context, cmd *Command, info *p.CommandInfo) (ResponseCode, error) {
	start := time.Now()
	rsp, err := c.call(ctx, cmd, info)
	c.release(cmd)
	c.notify(ExecEvent{
		CommandCode:  cmd.cb.CommandCode,
		CommandID:    cmd.cb.CommandID,
		ResponseCode: rsp,
		Err:          err,
		Duration:     time.Since(start),
	})
	return rsp, err
}

/*
Exec executes cmd synchronously and returns the response code.

The error is nil for the response codes Normal, FunctionCompleted and EOF. Other response codes are
returned together with an *EngineError. Precondition failures return a *PreconditionError, ErrConcurrentExec
or ErrInUse without calling the engine. The response code is zero whenever the error is not an *EngineError.
*/
func (c *Conn) Exec(ctx context.Context, cmd *Command) (ResponseCode, error) {
	info, err := c.acquire(cmd)
	if err != nil {
		return 0, err
	}
	return c.exec(ctx, cmd, info)
}

/*
ExecAsync executes cmd on a worker of the connector and calls fn with the result once the command completed.

Precondition failures are returned immediately and fn is not called. If the worker pool of the connector
is exhausted ErrBusy is returned.
*/
func (c *Conn) ExecAsync(ctx context.Context, cmd *Command, fn func(ResponseCode, error)) error {
	info, err := c.acquire(cmd)
	if err != nil {
		return err
	}
	pool, err := c.connector.workerPool()
	if err == nil {
		err = pool.Submit(func() {
			rsp, err := c.exec(ctx, cmd, info)
			if fn != nil {
				fn(rsp, err)
			}
		})
	}
	if err != nil {
		c.release(cmd)
		switch {
		case errors.Is(err, ants.ErrPoolOverload):
			return ErrBusy
		case errors.Is(err, ants.ErrPoolClosed):
			return preconditionError(cmd.cb.CommandCode, ErrConnClosed)
		default:
			return err
		}
	}
	return nil
}

/*
ReadLoop executes cmd repeatedly until the engine returns EOF and calls fn after each delivered record.
It returns the number of delivered records. The loop is aborted on the first error returned by Exec or fn.
Only the response code Normal delivers a record; a FunctionCompleted warning continues the loop without
calling fn.
*/
func (c *Conn) ReadLoop(ctx context.Context, cmd *Command, fn func(*Command) error) (int, error) {
	n := 0
	for {
		rsp, err := c.Exec(ctx, cmd)
		if err != nil {
			return n, err
		}
		if rsp.IsEOF() {
			return n, nil
		}
		if rsp != Normal {
			continue
		}
		n++
		if fn != nil {
			if err := fn(cmd); err != nil {
				return n, err
			}
		}
	}
}

/*
Close closes the connection. It waits for an in-flight command to complete and executes a CL command
if the session is still open. Close is idempotent.
*/
func (c *Conn) Close() error {
	c.mu.Lock()
	for c.busy {
		c.cond.Wait()
	}
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	open := c.state == SessionOpen
	dbID := c.dbID
	c.busy = true
	c.mu.Unlock()

	var err error
	if open {
		cmd := NewCommand()
		cmd.cb.CommandCode = p.CmdClose
		cmd.cb.DBID = dbID
		info, _ := p.LookupCommand(p.CmdClose)
		start := time.Now()
		var rsp ResponseCode
		rsp, err = c.call(context.Background(), cmd, info)
		if err != nil {
			c.logger.Error("close session", slog.Any("error", err))
		}
		c.notify(ExecEvent{CommandCode: p.CmdClose, ResponseCode: rsp, Err: err, Duration: time.Since(start)})
	}

	c.mu.Lock()
	if c.state == SessionOpen {
		c.metrics.addGaugeValue(gaugeSession, -1)
	}
	c.state = SessionClosed
	c.busy = false
	c.cond.Broadcast()
	c.mu.Unlock()
	c.metrics.addGaugeValue(gaugeConn, -1) // decrement open connections.
	return err
}
