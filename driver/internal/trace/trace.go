// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package trace implements a very simple tracing package.
package trace

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

// A Trace represents a tracing object.
type Trace struct {
	on     atomic.Bool
	logger atomic.Pointer[slog.Logger]
}

// NewTrace returns a new trace object writing to stdout once enabled.
func NewTrace(prefix ...string) *Trace {
	t := &Trace{}
	t.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)).With(slog.String("trace", strings.Join(prefix, "."))))
	return t
}

// On returns true if the tracing output is enabled, else otherwise.
func (t *Trace) On() bool { return t.on.Load() }

// SetOn enables or disabled the tracing output.
func (t *Trace) SetOn(on bool) { t.on.Store(on) }

// SetLogger replaces the logger the trace output is written to.
func (t *Trace) SetLogger(logger *slog.Logger) { t.logger.Store(logger) }

// Output writes msg and attrs if tracing is enabled.
func (t *Trace) Output(msg string, attrs ...slog.Attr) {
	if !t.On() {
		return
	}
	t.logger.Load().LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

// A Flag represents a boolean value to be used as flag to enable or disable tracing output.
type Flag struct {
	trace *Trace
}

// NewFlag returns a new Flag instance.
func NewFlag(trace *Trace) *Flag { return &Flag{trace: trace} }

func (f *Flag) String() string {
	/*
		The flag package does create flags via reflection to determine default values.
		As this is not using the constructor the flag attributes are not set.
	*/
	if f.trace == nil {
		return strconv.FormatBool(false) // default value
	}
	return strconv.FormatBool(f.trace.On())
}

// IsBoolFlag implements the flag.Value interface.
func (f *Flag) IsBoolFlag() bool { return true }

// Set implements the flag.Value interface.
func (f *Flag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.trace.SetOn(b)
	return nil
}
