// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package dsn

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		s   string
		dsn *DSN
	}{
		{"adabas://88", &DSN{DBID: 88}},
		{"adabas://88?charset=EBCDIC&byteOrder=little", &DSN{DBID: 88, Charset: "EBCDIC", ByteOrder: "little"}},
		{"adabas://12?commandTime=30&maxPending=20", &DSN{DBID: 12, CommandTime: 30, MaxPending: 20}},
	}

	for _, test := range tests {
		dsn, err := Parse(test.s)
		if err != nil {
			t.Fatalf("%s: %s", test.s, err)
		}
		if *dsn != *test.dsn {
			t.Fatalf("%s: parsed %+v - expected %+v", test.s, dsn, test.dsn)
		}
		back, err := Parse(dsn.String())
		if err != nil {
			t.Fatal(err)
		}
		if *back != *dsn {
			t.Fatalf("%s: reparsed %+v - expected %+v", test.s, back, dsn)
		}
	}
}

func TestParseError(t *testing.T) {
	invalid := []string{
		"",
		"odbc://88",
		"adabas://0",
		"adabas://70000",
		"adabas://abc",
		"adabas://88?unknown=1",
		"adabas://88?byteOrder=middle",
		"adabas://88?commandTime=-1",
		"adabas://88?charset=ASCII&charset=EBCDIC",
	}

	for _, s := range invalid {
		_, err := Parse(s)
		if err == nil {
			t.Fatalf("%s: expected parse error", s)
		}
		var parseError *ParseError
		if !errors.As(err, &parseError) {
			t.Fatalf("%s: error %T is not a parse error", s, err)
		}
	}
}
