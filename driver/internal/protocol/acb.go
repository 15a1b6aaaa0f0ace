// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-adabas/adabas/driver/internal/protocol/encoding"
)

/*
ACB layout (offsets in bytes)

	  0 arch      1  architecture flags (byte order, charset)
	  1 version   1
	  2 length    2  ACBSize
	  4 cmd code  2
	  6 reserved  2
	  8 cmd id    4
	 12 dbid      2
	 14 file nr   2
	 16 rsp       2
	 18 subcode   2
	 20 isn       4
	 24 isn ll    4
	 28 isn qty   4
	 32 fb len    4  (rb, sb, vb, ib lengths follow)
	 52 cop1      1
	 53 cop2      1
	 54 reserved  2
	 56 add1      8
	 64 add2      4
	 68 add3      8
	 76 add4      8
	 84 add5      8
	 92 cmd time  4
	 96 user area 4
*/

// ACBSize is the size of an encoded control block.
const ACBSize = 100

// ACBVersion is the layout version written into every control block.
const ACBVersion = 0x02

// Field sizes.
const (
	CommandCodeSize = 2
	CommandIDSize   = 4
	Addition1Size   = 8
	Addition2Size   = 4
	Addition3Size   = 8
	Addition4Size   = 8
	Addition5Size   = 8
	UserAreaSize    = 4
)

// Architecture flags.
const (
	ArchLittleEndian byte = 0x01
	ArchEBCDIC       byte = 0x02
)

// Buffer indexes.
const (
	FormatBuffer = iota
	RecordBuffer
	SearchBuffer
	ValueBuffer
	ISNBuffer
	NumBuffers
)

var bufferNames = [NumBuffers]string{"format", "record", "search", "value", "isn"}

// BufferName returns the name of the buffer with index idx.
func BufferName(idx int) string { return bufferNames[idx] }

// ACB is an encoded control block as exchanged with the engine.
type ACB [ACBSize]byte

// ByteOrder returns the byte order of the control block integers.
func (a *ACB) ByteOrder() binary.ByteOrder {
	if a[0]&ArchLittleEndian != 0 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Charset returns the charset of the alphanumeric fields.
func (a *ACB) Charset() Charset {
	if a[0]&ArchEBCDIC != 0 {
		return CharsetEBCDIC
	}
	return CharsetASCII
}

func (a *ACB) String() string { return fmt.Sprintf("% X", a[:]) }

// Buffers are the buffers attached to a control block, each cut to its declared length.
type Buffers [NumBuffers][]byte

// ControlBlock holds the decoded fields of a control block.
type ControlBlock struct {
	CommandCode    string
	CommandID      string
	DBID           uint16
	FileNo         uint16
	ResponseCode   ResponseCode
	Subcode        uint16
	ISN            uint32
	ISNLowerLimit  uint32
	ISNQuantity    uint32
	BufferLengths  [NumBuffers]uint32
	CommandOption1 byte
	CommandOption2 byte
	Addition1      [Addition1Size]byte
	Addition2      [Addition2Size]byte
	Addition3      [Addition3Size]byte
	Addition4      [Addition4Size]byte
	Addition5      [Addition5Size]byte
	CommandTime    uint32
	UserArea       [UserAreaSize]byte
}

// Arch returns the architecture flags for a byte order and charset.
func Arch(order binary.ByteOrder, charset Charset) byte {
	var arch byte
	if order == binary.LittleEndian {
		arch |= ArchLittleEndian
	}
	if charset == CharsetEBCDIC {
		arch |= ArchEBCDIC
	}
	return arch
}

// Encode writes the control block into acb using the architecture flags arch.
func (cb *ControlBlock) Encode(acb *ACB, arch byte) error {
	acb[0] = arch

	buf := bytes.NewBuffer(make([]byte, 0, ACBSize))
	enc := encoding.NewEncoder(buf, acb.ByteOrder(), acb.Charset().Encoder)

	enc.Byte(arch)
	enc.Byte(ACBVersion)
	enc.Uint16(ACBSize)
	enc.Alpha(cb.CommandCode, CommandCodeSize)
	enc.Zeroes(2)
	enc.Alpha(cb.CommandID, CommandIDSize)
	enc.Uint16(cb.DBID)
	enc.Uint16(cb.FileNo)
	enc.Uint16(uint16(cb.ResponseCode))
	enc.Uint16(cb.Subcode)
	enc.Uint32(cb.ISN)
	enc.Uint32(cb.ISNLowerLimit)
	enc.Uint32(cb.ISNQuantity)
	for _, l := range cb.BufferLengths {
		enc.Uint32(l)
	}
	enc.Byte(cb.CommandOption1)
	enc.Byte(cb.CommandOption2)
	enc.Zeroes(2)
	enc.Bytes(cb.Addition1[:])
	enc.Bytes(cb.Addition2[:])
	enc.Bytes(cb.Addition3[:])
	enc.Bytes(cb.Addition4[:])
	enc.Bytes(cb.Addition5[:])
	enc.Uint32(cb.CommandTime)
	enc.Bytes(cb.UserArea[:])

	if err := enc.Error(); err != nil {
		return err
	}
	if enc.Cnt() != ACBSize {
		return fmt.Errorf("invalid control block size %d - expected %d", enc.Cnt(), ACBSize)
	}
	copy(acb[:], buf.Bytes())
	return nil
}

// Decode reads the control block from acb.
func (cb *ControlBlock) Decode(acb *ACB) error {
	dec := encoding.NewDecoder(bytes.NewReader(acb[:]), acb.ByteOrder(), acb.Charset().Decoder)

	dec.Skip(1) // arch
	if version := dec.Byte(); version != ACBVersion {
		return fmt.Errorf("invalid control block version %d - expected %d", version, ACBVersion)
	}
	if size := dec.Uint16(); size != ACBSize {
		return fmt.Errorf("invalid control block size %d - expected %d", size, ACBSize)
	}
	var err error
	if cb.CommandCode, err = dec.Alpha(CommandCodeSize); err != nil {
		return err
	}
	dec.Skip(2)
	if cb.CommandID, err = dec.Alpha(CommandIDSize); err != nil {
		return err
	}
	cb.DBID = dec.Uint16()
	cb.FileNo = dec.Uint16()
	cb.ResponseCode = ResponseCode(dec.Uint16())
	cb.Subcode = dec.Uint16()
	cb.ISN = dec.Uint32()
	cb.ISNLowerLimit = dec.Uint32()
	cb.ISNQuantity = dec.Uint32()
	for i := range cb.BufferLengths {
		cb.BufferLengths[i] = dec.Uint32()
	}
	cb.CommandOption1 = dec.Byte()
	cb.CommandOption2 = dec.Byte()
	dec.Skip(2)
	dec.Bytes(cb.Addition1[:])
	dec.Bytes(cb.Addition2[:])
	dec.Bytes(cb.Addition3[:])
	dec.Bytes(cb.Addition4[:])
	dec.Bytes(cb.Addition5[:])
	cb.CommandTime = dec.Uint32()
	dec.Bytes(cb.UserArea[:])
	return dec.Error()
}

// UpdateResponse copies the fields owned by the engine from src.
// Input-only fields (database id, file number, options, buffer lengths, user area) stay unchanged.
func (cb *ControlBlock) UpdateResponse(src *ControlBlock) {
	cb.CommandID = src.CommandID
	cb.ResponseCode = src.ResponseCode
	cb.Subcode = src.Subcode
	cb.ISN = src.ISN
	cb.ISNLowerLimit = src.ISNLowerLimit
	cb.ISNQuantity = src.ISNQuantity
	cb.Addition1 = src.Addition1
	cb.Addition2 = src.Addition2
	cb.Addition3 = src.Addition3
	cb.Addition4 = src.Addition4
	cb.Addition5 = src.Addition5
	cb.CommandTime = src.CommandTime
}
