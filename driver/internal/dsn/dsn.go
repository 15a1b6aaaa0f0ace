// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package dsn implements dsn (data source name) handling for go-adabas.
package dsn

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// DSN parameters.
const (
	DSNCharset     = "charset"     // Charset of the alphanumeric control block fields (ASCII, EBCDIC).
	DSNByteOrder   = "byteOrder"   // Byte order of the control block integers (big, little).
	DSNCommandTime = "commandTime" // Command time value set on commands without an own value.
	DSNMaxPending  = "maxPending"  // Maximum number of asynchronous commands pending at a time.
)

const urlSchema = "adabas" // mirrored from driver.DriverName

/*
A DSN represents a parsed DSN string. A DSN string is an URL string with the following format

	"adabas://<database id>"

and optional query parameters (see DSN query parameters).

Example:

	"adabas://88?charset=EBCDIC&byteOrder=big&commandTime=30"
*/
type DSN struct {
	DBID        uint16
	Charset     string
	ByteOrder   string
	CommandTime uint32
	MaxPending  int
}

// ParseError is the error returned in case DSN is invalid.
type ParseError struct {
	s   string
	err error
}

func (e ParseError) Error() string {
	if err := errors.Unwrap(e.err); err != nil {
		return err.Error()
	}
	if e.err != nil {
		return e.err.Error()
	}
	return e.s
}

// Unwrap returns the nested error.
func (e ParseError) Unwrap() error { return e.err }

func parameterNotSupportedError(k string) error {
	return &ParseError{s: fmt.Sprintf("parameter %s is not supported", k)}
}
func invalidNumberOfParametersError(k string, act, exp int) error {
	return &ParseError{s: fmt.Sprintf("invalid number of parameters for %s %d - expected %d", k, act, exp)}
}
func parseError(k, v string) error {
	return &ParseError{s: fmt.Sprintf("failed to parse %s: %s", k, v)}
}

// Parse parses a DSN string into a DSN structure.
func Parse(s string) (*DSN, error) {
	if s == "" {
		return nil, &ParseError{s: "invalid parameter - DSN is empty"}
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, &ParseError{err: err}
	}
	if u.Scheme != urlSchema {
		return nil, &ParseError{s: fmt.Sprintf("invalid scheme %s - expected %s", u.Scheme, urlSchema)}
	}

	dbID, err := strconv.ParseUint(u.Host, 10, 16)
	if err != nil || dbID == 0 {
		return nil, parseError("database id", u.Host)
	}
	dsn := &DSN{DBID: uint16(dbID)}

	for k, v := range u.Query() {
		if len(v) != 1 {
			return nil, invalidNumberOfParametersError(k, len(v), 1)
		}
		switch k {

		default:
			return nil, parameterNotSupportedError(k)

		case DSNCharset:
			dsn.Charset = v[0]

		case DSNByteOrder:
			if v[0] != "big" && v[0] != "little" {
				return nil, parseError(k, v[0])
			}
			dsn.ByteOrder = v[0]

		case DSNCommandTime:
			t, err := strconv.ParseUint(v[0], 10, 32)
			if err != nil {
				return nil, parseError(k, v[0])
			}
			dsn.CommandTime = uint32(t)

		case DSNMaxPending:
			n, err := strconv.Atoi(v[0])
			if err != nil || n < 0 {
				return nil, parseError(k, v[0])
			}
			dsn.MaxPending = n
		}
	}
	return dsn, nil
}

// String reassembles the DSN into a valid DSN string.
func (dsn *DSN) String() string {
	values := url.Values{}
	if dsn.Charset != "" {
		values.Set(DSNCharset, dsn.Charset)
	}
	if dsn.ByteOrder != "" {
		values.Set(DSNByteOrder, dsn.ByteOrder)
	}
	if dsn.CommandTime != 0 {
		values.Set(DSNCommandTime, strconv.FormatUint(uint64(dsn.CommandTime), 10))
	}
	if dsn.MaxPending != 0 {
		values.Set(DSNMaxPending, strconv.Itoa(dsn.MaxPending))
	}
	u := &url.URL{
		Scheme:   urlSchema,
		Host:     strconv.FormatUint(uint64(dsn.DBID), 10),
		RawQuery: values.Encode(),
	}
	return u.String()
}
