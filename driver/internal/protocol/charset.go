// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset is the character set of the alphanumeric control block fields (command code, command id).
type Charset byte

// Charset constants.
const (
	CharsetASCII  Charset = iota // ASCII (open systems).
	CharsetEBCDIC                // EBCDIC code page 037 (mainframe).
)

var charsetNames = [...]string{"ASCII", "EBCDIC"}

func (c Charset) String() string {
	if int(c) >= len(charsetNames) {
		return fmt.Sprintf("Charset(%d)", c)
	}
	return charsetNames[c]
}

// ParseCharset returns the charset for name (case insensitive).
func ParseCharset(name string) (Charset, error) {
	for i, s := range charsetNames {
		if strings.EqualFold(s, name) {
			return Charset(i), nil
		}
	}
	return 0, fmt.Errorf("invalid charset %s", name)
}

func (c Charset) encoding() encoding.Encoding {
	if c == CharsetEBCDIC {
		return charmap.CodePage037
	}
	return encoding.Nop
}

// Encoder returns a transformer converting UTF-8 into the charset.
func (c Charset) Encoder() transform.Transformer { return c.encoding().NewEncoder() }

// Decoder returns a transformer converting the charset into UTF-8.
func (c Charset) Decoder() transform.Transformer { return c.encoding().NewDecoder() }
