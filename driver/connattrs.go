// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"encoding/binary"
	"log/slog"
	"sync"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
)

// conn attributes default values.
const (
	defaultCharset     = p.CharsetASCII // default value charset.
	defaultCommandTime = 0              // default value command time (no time limit).
	defaultMaxPending  = 20             // default value maximum number of pending asynchronous commands.
)

// minimal values.
const (
	minMaxPending = 1 // minimal maxPending value.
)

var defaultByteOrder binary.ByteOrder = binary.BigEndian // default value byte order.

// connAttrs is holding connection relevant attributes.
type connAttrs struct {
	mu           sync.RWMutex
	_logger      *slog.Logger
	_byteOrder   binary.ByteOrder
	_charset     p.Charset
	_commandTime uint32
	_maxPending  int
}

func newConnAttrs() *connAttrs {
	return &connAttrs{
		_logger:      slog.Default(),
		_byteOrder:   defaultByteOrder,
		_charset:     defaultCharset,
		_commandTime: defaultCommandTime,
		_maxPending:  defaultMaxPending,
	}
}

func (a *connAttrs) logger() *slog.Logger { a.mu.RLock(); defer a.mu.RUnlock(); return a._logger }
func (a *connAttrs) setLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a._logger = logger
}
func (a *connAttrs) byteOrder() binary.ByteOrder {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a._byteOrder
}
func (a *connAttrs) setByteOrder(byteOrder binary.ByteOrder) {
	if byteOrder != binary.LittleEndian {
		byteOrder = binary.BigEndian
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a._byteOrder = byteOrder
}
func (a *connAttrs) charset() p.Charset { a.mu.RLock(); defer a.mu.RUnlock(); return a._charset }
func (a *connAttrs) setCharset(charset p.Charset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a._charset = charset
}
func (a *connAttrs) commandTime() uint32 { a.mu.RLock(); defer a.mu.RUnlock(); return a._commandTime }
func (a *connAttrs) setCommandTime(t uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a._commandTime = t
}
func (a *connAttrs) maxPending() int { a.mu.RLock(); defer a.mu.RUnlock(); return a._maxPending }
func (a *connAttrs) _setMaxPending(n int) {
	if n < minMaxPending {
		n = minMaxPending
	}
	a._maxPending = n
}
func (a *connAttrs) setMaxPending(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a._setMaxPending(n)
}

// arch returns the architecture flags control blocks are encoded with.
func (a *connAttrs) arch() byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return p.Arch(a._byteOrder, a._charset)
}
