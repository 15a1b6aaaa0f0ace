// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import "fmt"

// Field identifies a control block field or a buffer of a Command.
type Field int

// Control block fields.
const (
	CommandCode Field = iota
	CommandID
	DBID
	FileNo
	ReturnCode
	ISN
	ISNLowerLimit
	ISNQuantity
	FormatBufferLength
	RecordBufferLength
	SearchBufferLength
	ValueBufferLength
	ISNBufferLength
	CommandOption1
	CommandOption2
	Addition1
	Addition2
	Addition3
	Addition4
	Addition5
	CommandTime
	UserArea
	// buffers
	FormatBuffer
	RecordBuffer
	SearchBuffer
	ValueBuffer
	ISNBuffer
	numField
)

var fieldNames = [numField]string{
	"Command Code",
	"Command Id",
	"Database Id",
	"File Number",
	"Response Code",
	"Isn",
	"Isn Lower Limit",
	"Isn Quantity",
	"FB Length",
	"RB Length",
	"SB Length",
	"VB Length",
	"IB Length",
	"Command Option 1",
	"Command Option 2",
	"Additions 1",
	"Additions 2",
	"Additions 3",
	"Additions 4",
	"Additions 5",
	"Command Time",
	"User Area",
	"Format Buffer",
	"Record Buffer",
	"Search Buffer",
	"Value Buffer",
	"Isn Buffer",
}

func (f Field) String() string {
	if f < 0 || f >= numField {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

func (f Field) isBuffer() bool       { return f >= FormatBuffer && f <= ISNBuffer }
func (f Field) isBufferLength() bool { return f >= FormatBufferLength && f <= ISNBufferLength }

// bufferIdx returns the protocol buffer index of a buffer or buffer length field.
func (f Field) bufferIdx() int {
	if f.isBuffer() {
		return int(f - FormatBuffer)
	}
	return int(f - FormatBufferLength)
}
