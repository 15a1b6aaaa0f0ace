// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package memengine

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	p "github.com/go-adabas/adabas/driver/internal/protocol"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const (
	testDBID   = 88
	testFileNo = 12
	numRecords = 7
)

func loadTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := LoadFile("testdata/employees.toml")
	require.NoError(t, err)
	return e
}

type testCall struct {
	cb   p.ControlBlock
	bufs p.Buffers
	arch byte
}

func newTestCall(code string) *testCall {
	c := &testCall{}
	c.cb.CommandCode = code
	c.cb.DBID = testDBID
	c.cb.FileNo = testFileNo
	return c
}

func (c *testCall) buffer(idx int, b []byte) *testCall {
	c.bufs[idx] = b
	c.cb.BufferLengths[idx] = uint32(len(b))
	return c
}

func (c *testCall) exec(t *testing.T, e *Engine) p.ResponseCode {
	t.Helper()
	var acb p.ACB
	require.NoError(t, c.cb.Encode(&acb, c.arch))
	require.NoError(t, e.Call(context.Background(), &acb, &c.bufs))
	var out p.ControlBlock
	require.NoError(t, out.Decode(&acb))
	c.cb.UpdateResponse(&out)
	return out.ResponseCode
}

func openSession(t *testing.T, e *Engine) {
	t.Helper()
	require.Equal(t, p.RspNormal, newTestCall(p.CmdOpen).buffer(p.RecordBuffer, []byte("UPD=12.")).exec(t, e))
}

func testSession(t *testing.T) {
	e := loadTestEngine(t)

	read := newTestCall(p.CmdReadPhysical).buffer(p.FormatBuffer, []byte("AA.")).buffer(p.RecordBuffer, make([]byte, 8))
	require.Equal(t, p.RspNotActive, read.exec(t, e))

	openSession(t, e)
	require.Equal(t, 1, e.Sessions())
	require.Equal(t, p.RspNormal, newTestCall(p.CmdEndTransaction).exec(t, e))
	require.Equal(t, p.RspNormal, newTestCall(p.CmdClose).exec(t, e))
	require.Equal(t, 0, e.Sessions())

	wrongDB := newTestCall(p.CmdOpen)
	wrongDB.cb.DBID = 99
	require.Equal(t, p.RspNotActive, wrongDB.exec(t, e))

	unknownFile := newTestCall(p.CmdOpen).buffer(p.RecordBuffer, []byte("UPD=12,77."))
	require.Equal(t, p.RspInvalidFileNumber, unknownFile.exec(t, e))

	syntax := newTestCall(p.CmdOpen).buffer(p.RecordBuffer, []byte("XYZ=12."))
	require.Equal(t, p.RspRecordBufferSyntax, syntax.exec(t, e))
}

func testReadPhysical(t *testing.T) {
	e := loadTestEngine(t)
	openSession(t, e)

	rb := make([]byte, 250)
	call := newTestCall(p.CmdReadPhysical).buffer(p.FormatBuffer, []byte("AO,250,A.")).buffer(p.RecordBuffer, rb)
	call.cb.CommandID = "EXPT"

	n := 0
	for call.exec(t, e) == p.RspNormal {
		n++
		require.Equal(t, uint32(n), call.cb.ISN)
		if n == 1 {
			require.Equal(t, "Proofreading of the quarterly reports.", strings.TrimRight(string(rb), " "))
		}
	}
	require.Equal(t, p.RspEOF, call.cb.ResponseCode)
	require.Equal(t, numRecords, n)
}

func testReadISN(t *testing.T) {
	e := loadTestEngine(t)
	openSession(t, e)

	rb := make([]byte, 26)
	call := newTestCall(p.CmdReadISN).buffer(p.FormatBuffer, []byte("AA,8,A,AS,6,U,AE,12,A.")).buffer(p.RecordBuffer, rb)
	call.cb.ISN = 2
	require.Equal(t, p.RspNormal, call.exec(t, e))
	require.Equal(t, "50005600051000MORENO      ", string(rb))

	call.cb.ISN = 100
	require.Equal(t, p.RspInvalidISN, call.exec(t, e))

	// next ISN without ISN list
	call.cb.ISN = 6
	call.cb.CommandOption2 = p.OptGetNext
	require.Equal(t, p.RspNormal, call.exec(t, e))
	require.Equal(t, uint32(7), call.cb.ISN)
	require.Equal(t, p.RspEOF, call.exec(t, e))
}

func testFind(t *testing.T) {
	e := loadTestEngine(t)
	openSession(t, e)

	ib := make([]byte, 4*numRecords)
	find := newTestCall(p.CmdFind).
		buffer(p.SearchBuffer, []byte("AW,6,A.")).
		buffer(p.ValueBuffer, []byte("READER")).
		buffer(p.ISNBuffer, ib)
	find.cb.CommandID = "FND1"
	require.Equal(t, p.RspNormal, find.exec(t, e))
	require.Equal(t, uint32(3), find.cb.ISNQuantity)
	require.Equal(t, uint32(1), find.cb.ISN)
	for i, isn := range []uint32{1, 3, 6} {
		require.Equal(t, isn, binary.BigEndian.Uint32(ib[i*4:]))
	}

	// read the saved ISN list
	rb := make([]byte, 20)
	read := newTestCall(p.CmdReadISN).buffer(p.FormatBuffer, []byte("AE.")).buffer(p.RecordBuffer, rb)
	read.cb.CommandID = "FND1"
	read.cb.CommandOption2 = p.OptGetNext
	var names []string
	for read.exec(t, e) == p.RspNormal {
		names = append(names, strings.TrimSpace(string(rb)))
	}
	require.Equal(t, p.RspEOF, read.cb.ResponseCode)
	require.Equal(t, []string{"ADAM", "BLOND", "VERDIE"}, names)

	// range and conjunction
	and := newTestCall(p.CmdFind).
		buffer(p.SearchBuffer, []byte("AS,6,U,GE,D,AW,6,A.")).
		buffer(p.ValueBuffer, []byte("040000READER"))
	require.Equal(t, p.RspNormal, and.exec(t, e))
	require.Equal(t, uint32(1), and.cb.ISNQuantity)

	// first record delivered with format buffer
	rb = make([]byte, 8)
	first := newTestCall(p.CmdFind).
		buffer(p.FormatBuffer, []byte("AA.")).
		buffer(p.RecordBuffer, rb).
		buffer(p.SearchBuffer, []byte("AE,20,A,GT.")).
		buffer(p.ValueBuffer, []byte("MAIZIERE            "))
	require.Equal(t, p.RspNormal, first.exec(t, e))
	require.Equal(t, uint32(2), first.cb.ISNQuantity) // MORENO, VERDIE
	require.Equal(t, "50005600", string(rb))

	none := newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AW,6,A.")).buffer(p.ValueBuffer, []byte("SINGER"))
	require.Equal(t, p.RspNormal, none.exec(t, e))
	require.Equal(t, uint32(0), none.cb.ISNQuantity)

	noDescriptor := newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AO,6,A.")).buffer(p.ValueBuffer, []byte("SINGER"))
	require.Equal(t, p.RspSearchBufferError, noDescriptor.exec(t, e))
}

func testModify(t *testing.T) {
	e := loadTestEngine(t)
	openSession(t, e)

	fb := []byte("AA,8,A,AE,20,A,AW,6,A.")
	store := newTestCall(p.CmdStore).buffer(p.FormatBuffer, fb).buffer(p.RecordBuffer, []byte("60000100NEWMAN              WRITER"))
	require.Equal(t, p.RspNormal, store.exec(t, e))
	isn := store.cb.ISN
	require.Equal(t, uint32(numRecords+1), isn)
	require.Equal(t, numRecords+1, e.Count(testFileNo))

	update := newTestCall(p.CmdUpdate).buffer(p.FormatBuffer, []byte("AW.")).buffer(p.RecordBuffer, []byte("READER"))
	update.cb.ISN = isn
	require.Equal(t, p.RspNormal, update.exec(t, e))

	find := newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AW.")).buffer(p.ValueBuffer, []byte("READER"))
	require.Equal(t, p.RspNormal, find.exec(t, e))
	require.Equal(t, uint32(4), find.cb.ISNQuantity)

	del := newTestCall(p.CmdDelete)
	del.cb.ISN = isn
	require.Equal(t, p.RspNormal, del.exec(t, e))
	require.Equal(t, p.RspInvalidISN, del.exec(t, e))
	require.Equal(t, p.RspNormal, find.exec(t, e))
	require.Equal(t, uint32(3), find.cb.ISNQuantity)

	storeISN := newTestCall(p.CmdStoreISN).buffer(p.FormatBuffer, fb).buffer(p.RecordBuffer, []byte("60000200SMITH               EDITOR"))
	storeISN.cb.ISN = 1
	require.Equal(t, p.RspInvalidISN, storeISN.exec(t, e))
	storeISN.cb.ISN = 100
	require.Equal(t, p.RspNormal, storeISN.exec(t, e))
	require.Equal(t, uint32(100), storeISN.cb.ISN)
}

func testErrors(t *testing.T) {
	e := loadTestEngine(t)
	openSession(t, e)

	tests := []struct {
		name string
		call *testCall
		rsp  p.ResponseCode
	}{
		{"invalidCommand", newTestCall("XX"), p.RspInvalidCommand},
		{"invalidFile", func() *testCall { c := newTestCall(p.CmdDelete); c.cb.FileNo = 77; return c }(), p.RspInvalidFileNumber},
		{"formatBuffer", newTestCall(p.CmdReadPhysical).buffer(p.FormatBuffer, []byte("A1,8")).buffer(p.RecordBuffer, make([]byte, 8)), p.RspFormatBufferError},
		{"unknownField", newTestCall(p.CmdReadPhysical).buffer(p.FormatBuffer, []byte("ZZ.")).buffer(p.RecordBuffer, make([]byte, 8)), p.RspFormatBufferError},
		{"recordBufferTooShort", newTestCall(p.CmdReadPhysical).buffer(p.FormatBuffer, []byte("AO.")).buffer(p.RecordBuffer, make([]byte, 100)), p.RspRecordBufferTooShort},
		{"searchBuffer", newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AW,6,A,XX,AE.")).buffer(p.ValueBuffer, []byte("READER")), p.RspSearchBufferError},
		{"valueBufferTooShort", newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AW,6,A.")).buffer(p.ValueBuffer, []byte("READ")), p.RspSearchBufferError},
		{"isnBuffer", newTestCall(p.CmdFind).buffer(p.SearchBuffer, []byte("AW.")).buffer(p.ValueBuffer, []byte("READER")).buffer(p.ISNBuffer, make([]byte, 6)), p.RspISNBufferError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.rsp, test.call.exec(t, e))
		})
	}
}

func testEBCDIC(t *testing.T) {
	e := loadTestEngine(t)

	ebcdic := func(s string) []byte {
		b, err := charmap.CodePage037.NewEncoder().Bytes([]byte(s))
		require.NoError(t, err)
		return b
	}
	arch := p.Arch(binary.LittleEndian, p.CharsetEBCDIC)

	open := newTestCall(p.CmdOpen)
	open.arch = arch
	require.Equal(t, p.RspNormal, open.exec(t, e))

	rb := make([]byte, 8)
	ib := make([]byte, 4)
	find := newTestCall(p.CmdFind).
		buffer(p.FormatBuffer, ebcdic("AA.")).
		buffer(p.RecordBuffer, rb).
		buffer(p.SearchBuffer, ebcdic("AE,6,A.")).
		buffer(p.ValueBuffer, ebcdic("BLOND ")).
		buffer(p.ISNBuffer, ib)
	find.arch = arch
	require.Equal(t, p.RspNormal, find.exec(t, e))
	require.Equal(t, uint32(1), find.cb.ISNQuantity)
	require.Equal(t, ebcdic("50005500"), rb)
	require.Equal(t, uint32(3), binary.LittleEndian.Uint32(ib))
}

func testFields(t *testing.T) {
	e := loadTestEngine(t)
	require.Equal(t, []uint16{12, 13}, e.Files())

	defs, err := e.Fields(12)
	require.NoError(t, err)
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{"AA", "AE", "AO", "AS", "AW"}, names)
	require.Equal(t, FieldDef{Name: "AS", Length: 6, Format: FormatUnpacked, Descriptor: true}, defs[3])

	_, err = e.Fields(77)
	require.Error(t, err)
}

func TestEngine(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"session", testSession},
		{"readPhysical", testReadPhysical},
		{"readISN", testReadISN},
		{"find", testFind},
		{"modify", testModify},
		{"errors", testErrors},
		{"ebcdic", testEBCDIC},
		{"fields", testFields},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
