// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fieldValues holds a valid non-zero value of every field.
var fieldValues = map[Field]any{
	CommandCode:        "L2",
	CommandID:          "EXPT",
	DBID:               uint16(88),
	FileNo:             uint16(12),
	ReturnCode:         EOF,
	ISN:                uint32(4711),
	ISNLowerLimit:      uint32(10),
	ISNQuantity:        uint32(math.MaxUint32),
	FormatBufferLength: uint32(9),
	RecordBufferLength: uint32(250),
	SearchBufferLength: uint32(7),
	ValueBufferLength:  uint32(6),
	ISNBufferLength:    uint32(40),
	CommandOption1:     OptKeepISN,
	CommandOption2:     OptGetNext,
	Addition1:          []byte("ABCDEFGH"),
	Addition2:          []byte{1, 2, 3, 4},
	Addition3:          []byte("PASSWORD"),
	Addition4:          []byte("CIPHER  "),
	Addition5:          []byte{0, 1, 2, 3, 4, 5, 6, 7},
	CommandTime:        uint32(30),
	UserArea:           []byte{0xca, 0xfe, 0xba, 0xbe},
	FormatBuffer:       []byte("AO,250,A."),
	RecordBuffer:       make([]byte, 250),
	SearchBuffer:       []byte("AW,6,A."),
	ValueBuffer:        []byte("READER"),
	ISNBuffer:          make([]byte, 40),
}

func testFieldRoundTrip(t *testing.T) {
	cmd := NewCommand()
	for f := CommandCode; f < numField; f++ {
		v, ok := fieldValues[f]
		require.True(t, ok, "missing test value for %s", f)
		require.NoError(t, cmd.Set(f, v), f.String())
		require.Equal(t, v, cmd.Get(f), f.String())
	}
	// integer fields accept any integer type in range
	require.NoError(t, cmd.Set(DBID, 99))
	require.Equal(t, uint16(99), cmd.DBID())
	require.NoError(t, cmd.Set(ISN, int64(12)))
	require.Equal(t, uint32(12), cmd.ISN())
	require.NoError(t, cmd.Set(CommandOption1, 'H'))
	require.Equal(t, OptHoldISN, cmd.CommandOption1())
}

func testTypedRoundTrip(t *testing.T) {
	cmd := NewCommand()
	require.NoError(t, cmd.SetCommandCode(CmdFind))
	require.NoError(t, cmd.SetCommandID("FND1"))
	cmd.SetDBID(88)
	cmd.SetFileNo(12)
	cmd.SetReturnCode(InvalidCommand)
	cmd.SetISN(1)
	cmd.SetISNLowerLimit(2)
	cmd.SetISNQuantity(3)
	cmd.SetFormatBufferLength(4)
	cmd.SetRecordBufferLength(5)
	cmd.SetSearchBufferLength(6)
	cmd.SetValueBufferLength(7)
	cmd.SetISNBufferLength(8)
	cmd.SetCommandOption1(OptSortedList)
	cmd.SetCommandOption2(OptDescend)
	require.NoError(t, cmd.SetAddition1([]byte("12345678")))
	require.NoError(t, cmd.SetAddition2([]byte("1234")))
	require.NoError(t, cmd.SetAddition3([]byte("abcdefgh")))
	require.NoError(t, cmd.SetAddition4([]byte("ijklmnop")))
	require.NoError(t, cmd.SetAddition5([]byte("qrstuvwx")))
	cmd.SetCommandTime(9)
	require.NoError(t, cmd.SetUserArea([]byte("user")))
	fb, rb, sb, vb, ib := []byte("AA."), make([]byte, 8), []byte("AW."), []byte("READER"), make([]byte, 8)
	cmd.SetFormatBuffer(fb)
	cmd.SetRecordBuffer(rb)
	cmd.SetSearchBuffer(sb)
	cmd.SetValueBuffer(vb)
	cmd.SetISNBuffer(ib)

	require.Equal(t, CmdFind, cmd.CommandCode())
	require.Equal(t, "FND1", cmd.CommandID())
	require.Equal(t, uint16(88), cmd.DBID())
	require.Equal(t, uint16(12), cmd.FileNo())
	require.Equal(t, InvalidCommand, cmd.ReturnCode())
	require.Equal(t, uint32(1), cmd.ISN())
	require.Equal(t, uint32(2), cmd.ISNLowerLimit())
	require.Equal(t, uint32(3), cmd.ISNQuantity())
	require.Equal(t, uint32(4), cmd.FormatBufferLength())
	require.Equal(t, uint32(5), cmd.RecordBufferLength())
	require.Equal(t, uint32(6), cmd.SearchBufferLength())
	require.Equal(t, uint32(7), cmd.ValueBufferLength())
	require.Equal(t, uint32(8), cmd.ISNBufferLength())
	require.Equal(t, OptSortedList, cmd.CommandOption1())
	require.Equal(t, OptDescend, cmd.CommandOption2())
	require.Equal(t, []byte("12345678"), cmd.Addition1())
	require.Equal(t, []byte("1234"), cmd.Addition2())
	require.Equal(t, []byte("abcdefgh"), cmd.Addition3())
	require.Equal(t, []byte("ijklmnop"), cmd.Addition4())
	require.Equal(t, []byte("qrstuvwx"), cmd.Addition5())
	require.Equal(t, uint32(9), cmd.CommandTime())
	require.Equal(t, []byte("user"), cmd.UserArea())
	// buffers are attached, not copied
	require.Same(t, &fb[0], &cmd.FormatBuffer()[0])
	require.Same(t, &rb[0], &cmd.RecordBuffer()[0])
	require.Same(t, &sb[0], &cmd.SearchBuffer()[0])
	require.Same(t, &vb[0], &cmd.ValueBuffer()[0])
	require.Same(t, &ib[0], &cmd.ISNBuffer()[0])

	// array getters return copies
	cmd.Addition1()[0] = 'X'
	require.Equal(t, []byte("12345678"), cmd.Addition1())
}

func testClear(t *testing.T) {
	rb := []byte("record data")
	cmd := NewCommand()
	for f, v := range fieldValues {
		require.NoError(t, cmd.Set(f, v))
	}
	cmd.SetRecordBuffer(rb)

	cmd.Clear()
	fresh := NewCommand()
	for f := CommandCode; f < numField; f++ {
		require.Equal(t, fresh.Get(f), cmd.Get(f), f.String())
	}
	require.Equal(t, fresh.String(), cmd.String())
	// caller storage untouched
	require.Equal(t, []byte("record data"), rb)
}

func testFixedWidth(t *testing.T) {
	tests := []struct {
		field Field
		width int
		set   func(cmd *Command, b []byte) error
	}{
		{Addition1, Addition1Size, (*Command).SetAddition1},
		{Addition2, Addition2Size, (*Command).SetAddition2},
		{Addition3, Addition3Size, (*Command).SetAddition3},
		{Addition4, Addition4Size, (*Command).SetAddition4},
		{Addition5, Addition5Size, (*Command).SetAddition5},
		{UserArea, UserAreaSize, (*Command).SetUserArea},
	}

	for _, test := range tests {
		t.Run(test.field.String(), func(t *testing.T) {
			cmd := NewCommand()
			prev := bytes.Repeat([]byte{'p'}, test.width)
			require.NoError(t, test.set(cmd, prev))

			for _, size := range []int{0, test.width - 1, test.width + 1} {
				err := test.set(cmd, make([]byte, size))
				var validationError *ValidationError
				require.ErrorAs(t, err, &validationError)
				require.Equal(t, test.field, validationError.Field())
				require.Equal(t, prev, cmd.Get(test.field))

				require.Error(t, cmd.Set(test.field, make([]byte, size)))
				require.Equal(t, prev, cmd.Get(test.field))
			}
		})
	}
}

func testValidation(t *testing.T) {
	tests := []struct {
		field Field
		value any
	}{
		{CommandCode, "L"},
		{CommandCode, "L22"},
		{CommandCode, "L\x01"},
		{CommandCode, 12},
		{CommandID, "ABC"},
		{CommandID, "ABCDE"},
		{DBID, -1},
		{DBID, math.MaxUint16 + 1},
		{DBID, "88"},
		{FileNo, 1.5},
		{ReturnCode, uint32(math.MaxUint16 + 1)},
		{ISN, int64(math.MaxUint32 + 1)},
		{ISN, int8(-1)},
		{RecordBufferLength, -250},
		{CommandOption1, 256},
		{Addition2, "ABCD"},
		{RecordBuffer, "data"},
		{numField, 1},
	}

	for _, test := range tests {
		cmd := NewCommand()
		before := cmd.Get(test.field)
		err := cmd.Set(test.field, test.value)
		var validationError *ValidationError
		if !errors.As(err, &validationError) {
			t.Fatalf("field %s value %v: error %v - expected validation error", test.field, test.value, err)
		}
		require.Equal(t, before, cmd.Get(test.field), test.field.String())
	}

	cmd := NewCommand()
	require.NoError(t, cmd.Set(RecordBuffer, make([]byte, 10)))
	require.NoError(t, cmd.Set(RecordBuffer, nil))
	require.Nil(t, cmd.RecordBuffer())
}

func testString(t *testing.T) {
	cmd := NewCommand()
	require.NoError(t, cmd.SetCommandCode(CmdReadPhysical))
	require.NoError(t, cmd.SetCommandID("EXPT"))
	cmd.SetDBID(88)
	cmd.SetRecordBufferLength(250)

	s := cmd.String()
	for _, line := range []string{
		"Command Code     : L2        4C 32",
		"Command Id       : EXPT      45 58 50 54",
		"Database Id      : 88",
		"RB Length        : 250",
		"Response Code    : NORMAL(0)",
		"User Area        : ....      00 00 00 00",
	} {
		require.True(t, strings.Contains(s, line), "missing %q in\n%s", line, s)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"fieldRoundTrip", testFieldRoundTrip},
		{"typedRoundTrip", testTypedRoundTrip},
		{"clear", testClear},
		{"fixedWidth", testFixedWidth},
		{"validation", testValidation},
		{"string", testString},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
