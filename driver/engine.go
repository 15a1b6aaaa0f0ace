// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

//go:generate mockgen -source=engine.go -destination=mock_engine_test.go -package=driver

import (
	"context"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
)

// ACBSize is the size of an encoded control block.
const ACBSize = p.ACBSize

// ACB is an encoded control block.
// The first byte carries the architecture flags (byte order and charset) the block was encoded with.
type ACB = p.ACB

// Buffers holds the format, record, search, value and ISN buffer (in this order) of an engine call,
// each cut to its declared length. Buffers not attached to the command are nil.
type Buffers = p.Buffers

// ControlBlock is the decoded form of an ACB.
// Engines use ControlBlock.Decode to read a request and ControlBlock.Encode to write the response.
type ControlBlock = p.ControlBlock

// Charset is the character set of the alphanumeric control block fields.
type Charset = p.Charset

// Charset constants.
const (
	CharsetASCII  = p.CharsetASCII
	CharsetEBCDIC = p.CharsetEBCDIC
)

/*
Engine is the database engine commands are executed by.

Call performs the command encoded in acb. The engine writes the response fields into acb and output data into
the buffers in place. The buffers must not be retained after Call returns.
A non-nil error reports that the call itself failed, response codes are reported via acb.
*/
type Engine interface {
	Call(ctx context.Context, acb *ACB, bufs *Buffers) error
}

// EngineFunc is an adapter to allow the use of ordinary functions as Engine.
type EngineFunc func(ctx context.Context, acb *ACB, bufs *Buffers) error

// Call calls f(ctx, acb, bufs).
func (f EngineFunc) Call(ctx context.Context, acb *ACB, bufs *Buffers) error { return f(ctx, acb, bufs) }
