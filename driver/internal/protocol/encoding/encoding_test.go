// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"bytes"
	"encoding/binary"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func nopEncoder() transform.Transformer    { return encoding.Nop.NewEncoder() }
func nopDecoder() transform.Transformer    { return encoding.Nop.NewDecoder() }
func ebcdicEncoder() transform.Transformer { return charmap.CodePage037.NewEncoder() }
func ebcdicDecoder() transform.Transformer { return charmap.CodePage037.NewDecoder() }

func testIntegers(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		buf := new(bytes.Buffer)
		enc := NewEncoder(buf, order, nopEncoder)
		enc.Uint16(0x0102)
		enc.Uint32(0x03040506)
		if enc.Cnt() != 6 {
			t.Fatalf("byte order %s: written %d bytes - expected %d", order, enc.Cnt(), 6)
		}
		if order == binary.BigEndian && !bytes.Equal(buf.Bytes(), []byte{1, 2, 3, 4, 5, 6}) {
			t.Fatalf("big endian encoding %v", buf.Bytes())
		}

		dec := NewDecoder(bytes.NewReader(buf.Bytes()), order, nopDecoder)
		if v := dec.Uint16(); v != 0x0102 {
			t.Fatalf("byte order %s: uint16 %x - expected %x", order, v, 0x0102)
		}
		if v := dec.Uint32(); v != 0x03040506 {
			t.Fatalf("byte order %s: uint32 %x - expected %x", order, v, 0x03040506)
		}
	}
}

func testAlpha(t *testing.T) {
	tests := []struct {
		s       string
		size    int
		encoder func() transform.Transformer
		decoder func() transform.Transformer
		b       []byte
		back    string
	}{
		{"L2", 2, nopEncoder, nopDecoder, []byte{'L', '2'}, "L2"},
		{"AB", 4, nopEncoder, nopDecoder, []byte{'A', 'B', ' ', ' '}, "AB  "},
		{"", 4, nopEncoder, nopDecoder, []byte{0, 0, 0, 0}, ""},
		{"OP", 2, ebcdicEncoder, ebcdicDecoder, []byte{0xD6, 0xD7}, "OP"},
		{"L2", 4, ebcdicEncoder, ebcdicDecoder, []byte{0xD3, 0xF2, 0x40, 0x40}, "L2  "},
		{"TOOLONG", 4, nopEncoder, nopDecoder, []byte{'T', 'O', 'O', 'L'}, "TOOL"},
	}

	for _, test := range tests {
		buf := new(bytes.Buffer)
		enc := NewEncoder(buf, binary.BigEndian, test.encoder)
		enc.Alpha(test.s, test.size)
		if err := enc.Error(); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(buf.Bytes(), test.b) {
			t.Fatalf("alpha %q: % X - expected % X", test.s, buf.Bytes(), test.b)
		}
		dec := NewDecoder(bytes.NewReader(buf.Bytes()), binary.BigEndian, test.decoder)
		s, err := dec.Alpha(test.size)
		if err != nil {
			t.Fatal(err)
		}
		if s != test.back {
			t.Fatalf("alpha %q: decoded %q - expected %q", test.s, s, test.back)
		}
	}
}

func testZeroesAndSkip(t *testing.T) {
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf, binary.BigEndian, nopEncoder)
	enc.Zeroes(writeScratchSize*2 + 3)
	enc.Byte(0xFF)
	dec := NewDecoder(bytes.NewReader(buf.Bytes()), binary.BigEndian, nopDecoder)
	dec.Skip(writeScratchSize*2 + 3)
	if b := dec.Byte(); b != 0xFF {
		t.Fatalf("byte after skip %x - expected %x", b, 0xFF)
	}
	if dec.Byte(); dec.Error() == nil {
		t.Fatal("expected read error after end of input")
	}
}

func testAlphaShortInput(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{'E', 'X'}), binary.BigEndian, nopDecoder)
	s, err := dec.Alpha(4)
	if err == nil {
		t.Fatalf("alpha %q: expected read error", s)
	}
	if dec.Error() != err {
		t.Fatalf("error %v - expected decoder error %v", err, dec.Error())
	}
}

func TestEncoding(t *testing.T) {
	tests := []struct {
		name string
		fct  func(t *testing.T)
	}{
		{"integers", testIntegers},
		{"alpha", testAlpha},
		{"zeroesAndSkip", testZeroesAndSkip},
		{"alphaShortInput", testAlphaShortInput},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.fct(t)
		})
	}
}
