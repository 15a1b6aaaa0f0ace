// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/text/transform"
)

const writeScratchSize = 64

// Encoder encodes control block fields on basis of an io.Writer.
type Encoder struct {
	wr    io.Writer
	err   error
	b     []byte // scratch buffer (min 8 Bytes)
	order binary.ByteOrder
	tr    transform.Transformer
	cnt   int
}

// NewEncoder creates a new Encoder instance writing integers in byte order and alpha fields
// through the transformer returned by encoder.
func NewEncoder(wr io.Writer, order binary.ByteOrder, encoder func() transform.Transformer) *Encoder {
	return &Encoder{
		wr:    wr,
		b:     make([]byte, writeScratchSize),
		order: order,
		tr:    encoder(),
	}
}

// Error returns the writer error.
func (e *Encoder) Error() error { return e.err }

// Cnt returns the number of bytes written.
func (e *Encoder) Cnt() int { return e.cnt }

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	var n int
	n, e.err = e.wr.Write(p)
	e.cnt += n
}

// Zeroes writes cnt zero byte values.
func (e *Encoder) Zeroes(cnt int) {
	if e.err != nil {
		return
	}

	// zero out scratch area
	l := min(cnt, len(e.b))
	clear(e.b[:l])

	for i := 0; i < cnt; {
		j := min(cnt-i, len(e.b))
		e.write(e.b[:j])
		if e.err != nil {
			return
		}
		i += j
	}
}

// Bytes writes a bytes slice.
func (e *Encoder) Bytes(p []byte) { e.write(p) }

// Byte writes a byte.
func (e *Encoder) Byte(b byte) { // WriteB as sig differs from WriteByte (vet issues)
	if e.err != nil {
		return
	}
	e.b[0] = b
	e.write(e.b[:1])
}

// Uint16 writes an uint16.
func (e *Encoder) Uint16(i uint16) {
	if e.err != nil {
		return
	}
	e.order.PutUint16(e.b[:2], i)
	e.write(e.b[:2])
}

// Uint32 writes an uint32.
func (e *Encoder) Uint32(i uint32) {
	if e.err != nil {
		return
	}
	e.order.PutUint32(e.b[:4], i)
	e.write(e.b[:4])
}

// Fixed writes p into a field of size bytes. Missing bytes are written as zeroes, exceeding bytes are dropped.
func (e *Encoder) Fixed(p []byte, size int) {
	if len(p) >= size {
		e.Bytes(p[:size])
		return
	}
	e.Bytes(p)
	e.Zeroes(size - len(p))
}

// Alpha writes s as alphanumeric field of size bytes. The field is blank padded in the
// target character set. An empty string is written as binary zeroes.
func (e *Encoder) Alpha(s string, size int) {
	if e.err != nil {
		return
	}
	if s == "" {
		e.Zeroes(size)
		return
	}
	if len(s) < size {
		s += string(bytes.Repeat([]byte{' '}, size-len(s)))
	}
	e.tr.Reset()
	b, _, err := transform.Bytes(e.tr, []byte(s))
	if err != nil {
		e.err = err
		return
	}
	e.Fixed(b, size)
}
