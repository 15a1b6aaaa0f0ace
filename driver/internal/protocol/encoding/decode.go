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

const readScratchSize = 64

// Decoder decodes control block fields on basis of an io.Reader.
type Decoder struct {
	rd io.Reader
	/* err: fatal read error
	- not set by conversion errors
	- conversion errors are returned by the reader function itself
	*/
	err   error
	b     []byte // scratch buffer
	order binary.ByteOrder
	tr    transform.Transformer
	cnt   int
}

// NewDecoder creates a new Decoder instance based on an io.Reader.
func NewDecoder(rd io.Reader, order binary.ByteOrder, decoder func() transform.Transformer) *Decoder {
	return &Decoder{
		rd:    rd,
		b:     make([]byte, readScratchSize),
		order: order,
		tr:    decoder(),
	}
}

// ResetCnt resets the byte read counter.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the value of the byte read counter.
func (d *Decoder) Cnt() int { return d.cnt }

// Error returns the reader error.
func (d *Decoder) Error() error { return d.err }

// readFull reads data from reader + read counter and error handling
func (d *Decoder) readFull(buf []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	var n int
	n, d.err = io.ReadFull(d.rd, buf)
	d.cnt += n
	if d.err != nil {
		return n, d.err
	}
	return n, nil
}

// Skip skips cnt bytes from reading.
func (d *Decoder) Skip(cnt int) {
	var n int
	for n < cnt {
		to := min(cnt-n, readScratchSize)
		m, err := d.readFull(d.b[:to])
		n += m
		if err != nil {
			return
		}
	}
}

// Byte reads and returns a byte.
func (d *Decoder) Byte() byte {
	if _, err := d.readFull(d.b[:1]); err != nil {
		return 0
	}
	return d.b[0]
}

// Bytes reads into a byte slice.
func (d *Decoder) Bytes(p []byte) {
	d.readFull(p) //nolint:errcheck
}

// Uint16 reads and returns an uint16.
func (d *Decoder) Uint16() uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return d.order.Uint16(d.b[:2])
}

// Uint32 reads and returns an uint32.
func (d *Decoder) Uint32() uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return d.order.Uint32(d.b[:4])
}

// Alpha reads an alphanumeric field of size bytes and returns it converted to UTF-8.
// Trailing binary zeroes of a cleared field are removed, blanks are kept.
func (d *Decoder) Alpha(size int) (string, error) {
	p := make([]byte, size)
	if _, err := d.readFull(p); err != nil {
		return "", err
	}
	p = bytes.TrimRight(p, "\x00")
	if len(p) == 0 {
		return "", nil
	}
	d.tr.Reset()
	b, _, err := transform.Bytes(d.tr, p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
