// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
)

// Fixed field widths.
const (
	Addition1Size = p.Addition1Size
	Addition2Size = p.Addition2Size
	Addition3Size = p.Addition3Size
	Addition4Size = p.Addition4Size
	Addition5Size = p.Addition5Size
	UserAreaSize  = p.UserAreaSize
)

/*
A Command holds the fields of a control block and the five buffers attached to it.

A Command is reusable: it can be executed any number of times, cleared and reconfigured.
Setting a field never touches a buffer and no method performs I/O.
The buffers are owned by the caller; the engine writes output data (e.g. the record buffer of read
commands) into them in place, so buffer contents need to be copied before the next exec if they are
to be retained.

A Command must not be modified while it is executed.
*/
type Command struct {
	cb      p.ControlBlock
	buffers [p.NumBuffers][]byte
	// set while the command is executed by a connection.
	inFlight atomic.Bool
}

// NewCommand returns a new cleared Command.
func NewCommand() *Command { return &Command{} }

// Clear resets all fields to their zero value and detaches all buffers.
// The storage of detached buffers is not touched.
func (c *Command) Clear() *Command {
	c.cb = p.ControlBlock{}
	c.buffers = [p.NumBuffers][]byte{}
	return c
}

func checkAlpha(field Field, s string, size int) error {
	if len(s) != size {
		return newValidationError(field, "length %d - expected %d", len(s), size)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return newValidationError(field, "invalid character %q at position %d", s[i], i)
		}
	}
	return nil
}

func setArray(field Field, dst []byte, src []byte) error {
	if len(src) != len(dst) {
		return newValidationError(field, "invalid size %d - expected %d", len(src), len(dst))
	}
	copy(dst, src)
	return nil
}

// SetCommandCode sets the two character command code.
func (c *Command) SetCommandCode(code string) error {
	if err := checkAlpha(CommandCode, code, p.CommandCodeSize); err != nil {
		return err
	}
	c.cb.CommandCode = code
	return nil
}

// CommandCode returns the command code.
func (c *Command) CommandCode() string { return c.cb.CommandCode }

// SetCommandID sets the four character command id.
func (c *Command) SetCommandID(id string) error {
	if err := checkAlpha(CommandID, id, p.CommandIDSize); err != nil {
		return err
	}
	c.cb.CommandID = id
	return nil
}

// CommandID returns the command id.
func (c *Command) CommandID() string { return c.cb.CommandID }

// SetDBID sets the database id.
func (c *Command) SetDBID(id uint16) { c.cb.DBID = id }

// DBID returns the database id.
func (c *Command) DBID() uint16 { return c.cb.DBID }

// SetFileNo sets the file number.
func (c *Command) SetFileNo(fileNo uint16) { c.cb.FileNo = fileNo }

// FileNo returns the file number.
func (c *Command) FileNo() uint16 { return c.cb.FileNo }

// SetReturnCode sets the response code. The value is overwritten by every exec.
func (c *Command) SetReturnCode(rsp ResponseCode) { c.cb.ResponseCode = rsp }

// ReturnCode returns the response code of the last exec.
func (c *Command) ReturnCode() ResponseCode { return c.cb.ResponseCode }

// Subcode returns the response subcode of the last exec.
func (c *Command) Subcode() uint16 { return c.cb.Subcode }

// SetISN sets the ISN.
func (c *Command) SetISN(isn uint32) { c.cb.ISN = isn }

// ISN returns the ISN.
func (c *Command) ISN() uint32 { return c.cb.ISN }

// SetISNLowerLimit sets the ISN lower limit.
func (c *Command) SetISNLowerLimit(isn uint32) { c.cb.ISNLowerLimit = isn }

// ISNLowerLimit returns the ISN lower limit.
func (c *Command) ISNLowerLimit() uint32 { return c.cb.ISNLowerLimit }

// SetISNQuantity sets the ISN quantity.
func (c *Command) SetISNQuantity(n uint32) { c.cb.ISNQuantity = n }

// ISNQuantity returns the ISN quantity.
func (c *Command) ISNQuantity() uint32 { return c.cb.ISNQuantity }

// SetFormatBufferLength sets the declared format buffer length.
func (c *Command) SetFormatBufferLength(n uint32) { c.cb.BufferLengths[p.FormatBuffer] = n }

// FormatBufferLength returns the declared format buffer length.
func (c *Command) FormatBufferLength() uint32 { return c.cb.BufferLengths[p.FormatBuffer] }

// SetRecordBufferLength sets the declared record buffer length.
func (c *Command) SetRecordBufferLength(n uint32) { c.cb.BufferLengths[p.RecordBuffer] = n }

// RecordBufferLength returns the declared record buffer length.
func (c *Command) RecordBufferLength() uint32 { return c.cb.BufferLengths[p.RecordBuffer] }

// SetSearchBufferLength sets the declared search buffer length.
func (c *Command) SetSearchBufferLength(n uint32) { c.cb.BufferLengths[p.SearchBuffer] = n }

// SearchBufferLength returns the declared search buffer length.
func (c *Command) SearchBufferLength() uint32 { return c.cb.BufferLengths[p.SearchBuffer] }

// SetValueBufferLength sets the declared value buffer length.
func (c *Command) SetValueBufferLength(n uint32) { c.cb.BufferLengths[p.ValueBuffer] = n }

// ValueBufferLength returns the declared value buffer length.
func (c *Command) ValueBufferLength() uint32 { return c.cb.BufferLengths[p.ValueBuffer] }

// SetISNBufferLength sets the declared ISN buffer length.
func (c *Command) SetISNBufferLength(n uint32) { c.cb.BufferLengths[p.ISNBuffer] = n }

// ISNBufferLength returns the declared ISN buffer length.
func (c *Command) ISNBufferLength() uint32 { return c.cb.BufferLengths[p.ISNBuffer] }

// SetCommandOption1 sets command option 1.
func (c *Command) SetCommandOption1(opt byte) { c.cb.CommandOption1 = opt }

// CommandOption1 returns command option 1.
func (c *Command) CommandOption1() byte { return c.cb.CommandOption1 }

// SetCommandOption2 sets command option 2.
func (c *Command) SetCommandOption2(opt byte) { c.cb.CommandOption2 = opt }

// CommandOption2 returns command option 2.
func (c *Command) CommandOption2() byte { return c.cb.CommandOption2 }

// SetAddition1 sets additions 1. b needs to have exactly Addition1Size bytes.
func (c *Command) SetAddition1(b []byte) error { return setArray(Addition1, c.cb.Addition1[:], b) }

// Addition1 returns a copy of additions 1.
func (c *Command) Addition1() []byte { return clone(c.cb.Addition1[:]) }

// SetAddition2 sets additions 2. b needs to have exactly Addition2Size bytes.
func (c *Command) SetAddition2(b []byte) error { return setArray(Addition2, c.cb.Addition2[:], b) }

// Addition2 returns a copy of additions 2.
func (c *Command) Addition2() []byte { return clone(c.cb.Addition2[:]) }

// SetAddition3 sets additions 3. b needs to have exactly Addition3Size bytes.
func (c *Command) SetAddition3(b []byte) error { return setArray(Addition3, c.cb.Addition3[:], b) }

// Addition3 returns a copy of additions 3.
func (c *Command) Addition3() []byte { return clone(c.cb.Addition3[:]) }

// SetAddition4 sets additions 4. b needs to have exactly Addition4Size bytes.
func (c *Command) SetAddition4(b []byte) error { return setArray(Addition4, c.cb.Addition4[:], b) }

// Addition4 returns a copy of additions 4.
func (c *Command) Addition4() []byte { return clone(c.cb.Addition4[:]) }

// SetAddition5 sets additions 5. b needs to have exactly Addition5Size bytes.
func (c *Command) SetAddition5(b []byte) error { return setArray(Addition5, c.cb.Addition5[:], b) }

// Addition5 returns a copy of additions 5.
func (c *Command) Addition5() []byte { return clone(c.cb.Addition5[:]) }

// SetCommandTime sets the command time.
func (c *Command) SetCommandTime(t uint32) { c.cb.CommandTime = t }

// CommandTime returns the command time.
func (c *Command) CommandTime() uint32 { return c.cb.CommandTime }

// SetUserArea sets the user area. b needs to have exactly UserAreaSize bytes.
func (c *Command) SetUserArea(b []byte) error { return setArray(UserArea, c.cb.UserArea[:], b) }

// UserArea returns a copy of the user area.
func (c *Command) UserArea() []byte { return clone(c.cb.UserArea[:]) }

// SetFormatBuffer attaches the format buffer. A nil buffer detaches it.
func (c *Command) SetFormatBuffer(b []byte) { c.buffers[p.FormatBuffer] = b }

// FormatBuffer returns the attached format buffer.
func (c *Command) FormatBuffer() []byte { return c.buffers[p.FormatBuffer] }

// SetRecordBuffer attaches the record buffer. A nil buffer detaches it.
func (c *Command) SetRecordBuffer(b []byte) { c.buffers[p.RecordBuffer] = b }

// RecordBuffer returns the attached record buffer.
func (c *Command) RecordBuffer() []byte { return c.buffers[p.RecordBuffer] }

// SetSearchBuffer attaches the search buffer. A nil buffer detaches it.
func (c *Command) SetSearchBuffer(b []byte) { c.buffers[p.SearchBuffer] = b }

// SearchBuffer returns the attached search buffer.
func (c *Command) SearchBuffer() []byte { return c.buffers[p.SearchBuffer] }

// SetValueBuffer attaches the value buffer. A nil buffer detaches it.
func (c *Command) SetValueBuffer(b []byte) { c.buffers[p.ValueBuffer] = b }

// ValueBuffer returns the attached value buffer.
func (c *Command) ValueBuffer() []byte { return c.buffers[p.ValueBuffer] }

// SetISNBuffer attaches the ISN buffer. A nil buffer detaches it.
func (c *Command) SetISNBuffer(b []byte) { c.buffers[p.ISNBuffer] = b }

// ISNBuffer returns the attached ISN buffer.
func (c *Command) ISNBuffer() []byte { return c.buffers[p.ISNBuffer] }

func clone(b []byte) []byte {
	r := make([]byte, len(b))
	copy(r, b)
	return r
}

// toUint64 converts integer values of any integer type, negative values and other types return ok == false.
func toUint64(v any) (uint64, bool) {
	switch v := v.(type) {
	case int:
		return uint64(v), v >= 0
	case int8:
		return uint64(v), v >= 0
	case int16:
		return uint64(v), v >= 0
	case int32:
		return uint64(v), v >= 0
	case int64:
		return uint64(v), v >= 0
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case ResponseCode:
		return uint64(v), true
	default:
		return 0, false
	}
}

func unsigned(field Field, v any, max uint64) (uint64, error) {
	u, ok := toUint64(v)
	if !ok {
		return 0, newValidationError(field, "value %v (%T) must be an unsigned integer", v, v)
	}
	if u > max {
		return 0, newValidationError(field, "value %d exceeds maximum %d", u, max)
	}
	return u, nil
}

/*
Set sets field f to v. The dynamic type of v is validated:
  - alphanumeric fields (command code, command id) require a string,
  - integer fields accept any integer type in the range of the field,
  - additions and user area require a []byte of the field width,
  - buffers require a []byte (nil detaches the buffer).

In case of an error a *ValidationError is returned and the field keeps its previous value.
*/
func (c *Command) Set(f Field, v any) error {
	switch f {
	case CommandCode, CommandID:
		s, ok := v.(string)
		if !ok {
			return newValidationError(f, "value %v (%T) must be a string", v, v)
		}
		if f == CommandCode {
			return c.SetCommandCode(s)
		}
		return c.SetCommandID(s)
	case DBID, FileNo, ReturnCode:
		u, err := unsigned(f, v, math.MaxUint16)
		if err != nil {
			return err
		}
		switch f {
		case DBID:
			c.cb.DBID = uint16(u)
		case FileNo:
			c.cb.FileNo = uint16(u)
		default:
			c.cb.ResponseCode = ResponseCode(u)
		}
		return nil
	case ISN, ISNLowerLimit, ISNQuantity, CommandTime,
		FormatBufferLength, RecordBufferLength, SearchBufferLength, ValueBufferLength, ISNBufferLength:
		u, err := unsigned(f, v, math.MaxUint32)
		if err != nil {
			return err
		}
		switch {
		case f == ISN:
			c.cb.ISN = uint32(u)
		case f == ISNLowerLimit:
			c.cb.ISNLowerLimit = uint32(u)
		case f == ISNQuantity:
			c.cb.ISNQuantity = uint32(u)
		case f == CommandTime:
			c.cb.CommandTime = uint32(u)
		default:
			c.cb.BufferLengths[f.bufferIdx()] = uint32(u)
		}
		return nil
	case CommandOption1, CommandOption2:
		u, err := unsigned(f, v, math.MaxUint8)
		if err != nil {
			return err
		}
		if f == CommandOption1 {
			c.cb.CommandOption1 = byte(u)
		} else {
			c.cb.CommandOption2 = byte(u)
		}
		return nil
	case Addition1, Addition2, Addition3, Addition4, Addition5, UserArea:
		b, ok := v.([]byte)
		if !ok {
			return newValidationError(f, "value %v (%T) must be a byte slice", v, v)
		}
		return setArray(f, c.array(f), b)
	case FormatBuffer, RecordBuffer, SearchBuffer, ValueBuffer, ISNBuffer:
		if v == nil {
			c.buffers[f.bufferIdx()] = nil
			return nil
		}
		b, ok := v.([]byte)
		if !ok {
			return newValidationError(f, "value %v (%T) must be a byte slice", v, v)
		}
		c.buffers[f.bufferIdx()] = b
		return nil
	default:
		return newValidationError(f, "unknown field")
	}
}

func (c *Command) array(f Field) []byte {
	switch f {
	case Addition1:
		return c.cb.Addition1[:]
	case Addition2:
		return c.cb.Addition2[:]
	case Addition3:
		return c.cb.Addition3[:]
	case Addition4:
		return c.cb.Addition4[:]
	case Addition5:
		return c.cb.Addition5[:]
	case UserArea:
		return c.cb.UserArea[:]
	default:
		return nil
	}
}

// Get returns the value of field f in the type the typed getter returns, nil for an unknown field.
func (c *Command) Get(f Field) any {
	switch {
	case f == CommandCode:
		return c.cb.CommandCode
	case f == CommandID:
		return c.cb.CommandID
	case f == DBID:
		return c.cb.DBID
	case f == FileNo:
		return c.cb.FileNo
	case f == ReturnCode:
		return c.cb.ResponseCode
	case f == ISN:
		return c.cb.ISN
	case f == ISNLowerLimit:
		return c.cb.ISNLowerLimit
	case f == ISNQuantity:
		return c.cb.ISNQuantity
	case f.isBufferLength():
		return c.cb.BufferLengths[f.bufferIdx()]
	case f == CommandOption1:
		return c.cb.CommandOption1
	case f == CommandOption2:
		return c.cb.CommandOption2
	case f == CommandTime:
		return c.cb.CommandTime
	case f.isBuffer():
		return c.buffers[f.bufferIdx()]
	}
	if b := c.array(f); b != nil {
		return clone(b)
	}
	return nil
}

// checkBuffers validates the declared buffer lengths against the attached buffers and
// the buffers required by the command.
func (c *Command) checkBuffers(info *p.CommandInfo) error {
	for i, b := range c.buffers {
		if b != nil && int64(c.cb.BufferLengths[i]) > int64(len(b)) {
			return fmt.Errorf("%w: %s buffer length %d - size %d", ErrBufferLength, p.BufferName(i), c.cb.BufferLengths[i], len(b))
		}
	}
	for _, i := range info.Buffers {
		if c.buffers[i] == nil || c.cb.BufferLengths[i] == 0 {
			return fmt.Errorf("%w: %s buffer", ErrMissingBuffer, p.BufferName(i))
		}
	}
	for i, b := range c.buffers {
		if len(b) != 0 && c.cb.BufferLengths[i] == 0 {
			return fmt.Errorf("%w: %s buffer size %d", ErrZeroBufferLength, p.BufferName(i), len(b))
		}
	}
	return nil
}

// wireBuffers returns the buffers cut to their declared lengths.
// The declared length of a detached buffer is sent as zero.
func (c *Command) wireBuffers() (p.ControlBlock, p.Buffers) {
	cb := c.cb
	var bufs p.Buffers
	for i, b := range c.buffers {
		if b == nil {
			cb.BufferLengths[i] = 0
			continue
		}
		bufs[i] = b[:cb.BufferLengths[i]]
	}
	return cb, bufs
}

func printable(b []byte) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '.'
		}
		return r
	}, string(b))
}

func hex(b []byte) string { return fmt.Sprintf("% X", b) }

// String returns a human readable dump of all fields for diagnostic purposes.
func (c *Command) String() string {
	cb := &c.cb
	sb := strings.Builder{}
	alpha := func(f Field, b []byte) {
		fmt.Fprintf(&sb, "%-17s: %-10s%s\n", f, printable(b), hex(b))
	}
	number := func(f Field, v any) {
		fmt.Fprintf(&sb, "%-17s: %v\n", f, v)
	}
	code := make([]byte, p.CommandCodeSize)
	copy(code, cb.CommandCode)
	id := make([]byte, p.CommandIDSize)
	copy(id, cb.CommandID)

	alpha(CommandCode, code)
	alpha(CommandID, id)
	number(FileNo, cb.FileNo)
	number(DBID, cb.DBID)
	number(ReturnCode, cb.ResponseCode)
	number(ISN, cb.ISN)
	number(ISNLowerLimit, cb.ISNLowerLimit)
	number(ISNQuantity, cb.ISNQuantity)
	for i := 0; i < p.NumBuffers; i++ {
		number(FormatBufferLength+Field(i), cb.BufferLengths[i])
	}
	alpha(CommandOption1, []byte{cb.CommandOption1})
	alpha(CommandOption2, []byte{cb.CommandOption2})
	alpha(Addition1, cb.Addition1[:])
	alpha(Addition2, cb.Addition2[:])
	alpha(Addition3, cb.Addition3[:])
	alpha(Addition4, cb.Addition4[:])
	alpha(Addition5, cb.Addition5[:])
	number(CommandTime, cb.CommandTime)
	alpha(UserArea, cb.UserArea[:])
	return sb.String()
}
