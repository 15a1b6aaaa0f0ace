// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package memengine

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

/*
Fixture is the TOML representation of an engine database.

	dbid = 88

	[[file]]
	number = 12
	fields = [
		{ name = "AA", length = 8, format = "A", descriptor = true },
		{ name = "AB", length = 4, format = "U" },
	]
	records = [
		{ AA = "50005800", AB = 1200 },
	]
*/
type Fixture struct {
	DBID  uint16        `toml:"dbid"`
	Files []FixtureFile `toml:"file"`
}

// FixtureFile is a file of a Fixture.
type FixtureFile struct {
	Number  uint16           `toml:"number"`
	Fields  []FixtureField   `toml:"fields"`
	Records []map[string]any `toml:"records"`
}

// FixtureField is a field definition of a FixtureFile.
type FixtureField struct {
	Name       string `toml:"name"`
	Length     int    `toml:"length"`
	Format     string `toml:"format"`
	Descriptor bool   `toml:"descriptor"`
}

func (f FixtureField) def() (FieldDef, error) {
	format := f.Format
	if format == "" {
		format = string(FormatAlpha)
	}
	if len(format) != 1 {
		return FieldDef{}, fmt.Errorf("invalid format %q of field %s", f.Format, f.Name)
	}
	return FieldDef{Name: f.Name, Length: f.Length, Format: format[0], Descriptor: f.Descriptor}, nil
}

// NewEngine returns an engine loaded with the files and records of the fixture.
func (fx *Fixture) NewEngine() (*Engine, error) {
	if fx.DBID == 0 {
		return nil, fmt.Errorf("fixture: missing dbid")
	}
	e := New(fx.DBID)
	for _, ff := range fx.Files {
		defs := make([]FieldDef, 0, len(ff.Fields))
		for _, field := range ff.Fields {
			def, err := field.def()
			if err != nil {
				return nil, fmt.Errorf("fixture file %d: %w", ff.Number, err)
			}
			defs = append(defs, def)
		}
		if err := e.AddFile(ff.Number, defs); err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
		for i, rec := range ff.Records {
			values := make(map[string]string, len(rec))
			for k, v := range rec {
				values[k] = fmt.Sprint(v)
			}
			if _, err := e.Store(ff.Number, 0, values); err != nil {
				return nil, fmt.Errorf("fixture file %d record %d: %w", ff.Number, i+1, err)
			}
		}
	}
	return e, nil
}

// DecodeFixture decodes a fixture. Unknown keys are reported as error.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	fx := &Fixture{}
	md, err := toml.NewDecoder(r).Decode(fx)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("fixture: unknown keys %s", strings.Join(keys, ", "))
	}
	return fx, nil
}

// Load returns an engine loaded from a TOML fixture.
func Load(r io.Reader) (*Engine, error) {
	fx, err := DecodeFixture(r)
	if err != nil {
		return nil, err
	}
	return fx.NewEngine()
}

// LoadFile returns an engine loaded from the TOML fixture file name.
func LoadFile(name string) (*Engine, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
