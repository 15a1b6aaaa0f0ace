// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package memengine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errSyntax      = errors.New("syntax error")
	errISNNotFound = errors.New("isn not found")
)

func isLetter(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }

func isFieldName(s string) bool { return len(s) == 2 && isLetter(s[0]) }

// fieldSpec is an element of a format or search buffer.
type fieldSpec struct {
	name   string
	length int
	format byte
}

// tokenize splits a buffer of the form "t1,t2,...,tn." into its tokens.
func tokenize(s string) ([]string, error) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00 "))
	if !strings.HasSuffix(s, ".") {
		return nil, fmt.Errorf("%w: missing terminating period", errSyntax)
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty buffer", errSyntax)
	}
	tokens := strings.Split(s, ",")
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}
	return tokens, nil
}

// parseSpec parses a field name optionally followed by length and format starting at tokens[i].
// Without length and format the standard length and format of the field definition are used.
func parseSpec(f *file, tokens []string, i int) (fieldSpec, int, error) {
	name := tokens[i]
	if !isFieldName(name) {
		return fieldSpec{}, i, fmt.Errorf("%w: invalid field name %q", errSyntax, name)
	}
	d, ok := f.fields[name]
	if !ok {
		return fieldSpec{}, i, fmt.Errorf("unknown field %s", name)
	}
	spec := fieldSpec{name: name, length: d.Length, format: d.Format}
	i++
	if i >= len(tokens) {
		return spec, i, nil
	}
	length, err := strconv.Atoi(tokens[i])
	if err != nil {
		return spec, i, nil // next element
	}
	if length <= 0 || i+1 >= len(tokens) {
		return fieldSpec{}, i, fmt.Errorf("%w: invalid length or missing format of field %s", errSyntax, name)
	}
	format := tokens[i+1]
	if len(format) != 1 || (format[0] != FormatAlpha && format[0] != FormatUnpacked) {
		return fieldSpec{}, i, fmt.Errorf("%w: invalid format %q of field %s", errSyntax, format, name)
	}
	spec.length, spec.format = length, format[0]
	return spec, i + 2, nil
}

/*
parseFormat parses a format buffer.

	"AA,8,A,AB,4,U."  explicit length and format
	"AA,AB."          standard length and format
*/
func parseFormat(f *file, fb string) ([]fieldSpec, error) {
	tokens, err := tokenize(fb)
	if err != nil {
		return nil, err
	}
	var specs []fieldSpec
	for i := 0; i < len(tokens); {
		var spec fieldSpec
		if spec, i, err = parseSpec(f, tokens, i); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func recordLength(specs []fieldSpec) int {
	n := 0
	for _, spec := range specs {
		n += spec.length
	}
	return n
}

// criterion is a search condition on a descriptor.
type criterion struct {
	fieldSpec
	op    string
	value string // normalized
}

var searchOps = map[string]bool{opEQ: true, opNE: true, opGE: true, opGT: true, opLE: true, opLT: true}

/*
parseSearch parses a search buffer and reads the search values from the value buffer.
Criteria are combined with the logical operator D (and).

	"AA,8,A."             AA = value
	"AA,8,A,GE,D,AB,4,U." AA >= value1 and AB = value2
*/
func parseSearch(f *file, sb, vb string) ([]criterion, error) {
	tokens, err := tokenize(sb)
	if err != nil {
		return nil, err
	}
	var criteria []criterion
	pos := 0
	for i := 0; i < len(tokens); {
		var spec fieldSpec
		if spec, i, err = parseSpec(f, tokens, i); err != nil {
			return nil, err
		}
		d := f.fields[spec.name]
		if !d.Descriptor {
			return nil, fmt.Errorf("field %s is not a descriptor", spec.name)
		}
		c := criterion{fieldSpec: spec, op: opEQ}
		if i < len(tokens) && searchOps[tokens[i]] {
			c.op = tokens[i]
			i++
		}
		if pos+spec.length > len(vb) {
			return nil, fmt.Errorf("value buffer too short for field %s", spec.name)
		}
		if c.value, err = d.normalize(decodeValue(spec, vb[pos:pos+spec.length])); err != nil {
			return nil, err
		}
		pos += spec.length
		criteria = append(criteria, c)

		if i < len(tokens) {
			if tokens[i] != "D" {
				return nil, fmt.Errorf("%w: unsupported logical operator %q", errSyntax, tokens[i])
			}
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("%w: missing criterion after D", errSyntax)
			}
		}
	}
	return criteria, nil
}

// encodeValue returns a normalized value in the representation of spec.
func encodeValue(spec fieldSpec, v string) string {
	if spec.format == FormatUnpacked {
		v = strings.TrimLeft(v, "0")
		if len(v) > spec.length {
			return v[len(v)-spec.length:]
		}
		return strings.Repeat("0", spec.length-len(v)) + v
	}
	if len(v) > spec.length {
		return v[:spec.length]
	}
	return v + strings.Repeat(" ", spec.length-len(v))
}

func decodeValue(spec fieldSpec, v string) string {
	if spec.format == FormatUnpacked {
		return strings.TrimSpace(v)
	}
	return strings.TrimRight(v, " \x00")
}

// formatRecord writes the record values selected by specs into rb.
func formatRecord(specs []fieldSpec, r *record) string {
	sb := strings.Builder{}
	for _, spec := range specs {
		sb.WriteString(encodeValue(spec, r.values[spec.name]))
	}
	return sb.String()
}

// parseRecord reads the field values selected by specs from rb.
func parseRecord(specs []fieldSpec, rb string) (map[string]string, error) {
	if len(rb) < recordLength(specs) {
		return nil, errRecordBufferTooShort
	}
	values := make(map[string]string, len(specs))
	pos := 0
	for _, spec := range specs {
		values[spec.name] = decodeValue(spec, rb[pos:pos+spec.length])
		pos += spec.length
	}
	return values, nil
}

var errRecordBufferTooShort = errors.New("record buffer too short")
