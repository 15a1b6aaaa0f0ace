// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

package memengine

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/google/btree"
)

const btreeDegree = 32

// Field formats.
const (
	FormatAlpha    = 'A' // alphanumeric, left justified and blank padded.
	FormatUnpacked = 'U' // unpacked decimal digits, right justified and zero padded.
)

// FieldDef defines a field of a file.
type FieldDef struct {
	Name       string // two character field name.
	Length     int    // standard length.
	Format     byte   // FormatAlpha or FormatUnpacked.
	Descriptor bool   // field is indexed and can be used in search buffers.
}

func (d *FieldDef) validate() error {
	if len(d.Name) != 2 || !isLetter(d.Name[0]) {
		return fmt.Errorf("invalid field name %q", d.Name)
	}
	if d.Length <= 0 {
		return fmt.Errorf("invalid length %d of field %s", d.Length, d.Name)
	}
	if d.Format != FormatAlpha && d.Format != FormatUnpacked {
		return fmt.Errorf("invalid format %q of field %s", d.Format, d.Name)
	}
	return nil
}

// normalize returns the stored form of a field value: alpha values without trailing blanks,
// unpacked values zero padded to the standard length so that the lexical order matches the numeric order.
func (d *FieldDef) normalize(v string) (string, error) {
	switch d.Format {
	case FormatUnpacked:
		v = strings.TrimLeft(strings.TrimSpace(v), "0")
		if len(v) > d.Length {
			return "", fmt.Errorf("value %s exceeds length %d of field %s", v, d.Length, d.Name)
		}
		for i := 0; i < len(v); i++ {
			if v[i] < '0' || v[i] > '9' {
				return "", fmt.Errorf("invalid unpacked value %s of field %s", v, d.Name)
			}
		}
		return strings.Repeat("0", d.Length-len(v)) + v, nil
	default:
		v = strings.TrimRight(v, " ")
		if len(v) > d.Length {
			return "", fmt.Errorf("value %s exceeds length %d of field %s", v, d.Length, d.Name)
		}
		return v, nil
	}
}

type record struct {
	isn    uint32
	values map[string]string // normalized values.
}

func (r *record) Less(than btree.Item) bool { return r.isn < than.(*record).isn }

type indexEntry struct {
	value string
	isns  *roaring.Bitmap
}

func (e *indexEntry) Less(than btree.Item) bool { return e.value < than.(*indexEntry).value }

// file is a set of records ordered by ISN with one inverted list per descriptor.
type file struct {
	number  uint16
	fields  map[string]*FieldDef
	names   []string // field names in definition order.
	records *btree.BTree
	indexes map[string]*btree.BTree
	lastISN uint32
}

func newFile(number uint16, defs []FieldDef) (*file, error) {
	f := &file{
		number:  number,
		fields:  make(map[string]*FieldDef, len(defs)),
		records: btree.New(btreeDegree),
		indexes: map[string]*btree.BTree{},
	}
	for i := range defs {
		d := defs[i]
		if err := d.validate(); err != nil {
			return nil, fmt.Errorf("file %d: %w", number, err)
		}
		if _, ok := f.fields[d.Name]; ok {
			return nil, fmt.Errorf("file %d: duplicate field %s", number, d.Name)
		}
		f.fields[d.Name] = &d
		f.names = append(f.names, d.Name)
		if d.Descriptor {
			f.indexes[d.Name] = btree.New(btreeDegree)
		}
	}
	return f, nil
}

func (f *file) count() int { return f.records.Len() }

func (f *file) get(isn uint32) *record {
	if item := f.records.Get(&record{isn: isn}); item != nil {
		return item.(*record)
	}
	return nil
}

// next returns the record with the smallest ISN greater than isn.
func (f *file) next(isn uint32) *record {
	var r *record
	f.records.AscendGreaterOrEqual(&record{isn: isn + 1}, func(item btree.Item) bool {
		r = item.(*record)
		return false
	})
	return r
}

func (f *file) normalize(values map[string]string) (map[string]string, error) {
	rv := make(map[string]string, len(values))
	for name, v := range values {
		d, ok := f.fields[name]
		if !ok {
			return nil, fmt.Errorf("file %d: unknown field %s", f.number, name)
		}
		nv, err := d.normalize(v)
		if err != nil {
			return nil, err
		}
		rv[name] = nv
	}
	return rv, nil
}

// store inserts a record. An isn of zero assigns the next free ISN.
func (f *file) store(isn uint32, values map[string]string) (uint32, error) {
	values, err := f.normalize(values)
	if err != nil {
		return 0, err
	}
	if isn == 0 {
		isn = f.lastISN + 1
	}
	if f.get(isn) != nil {
		return 0, fmt.Errorf("file %d: duplicate isn %d", f.number, isn)
	}
	if isn > f.lastISN {
		f.lastISN = isn
	}
	r := &record{isn: isn, values: values}
	f.records.ReplaceOrInsert(r)
	f.index(r)
	return isn, nil
}

// update replaces the given field values of an existing record.
func (f *file) update(isn uint32, values map[string]string) error {
	r := f.get(isn)
	if r == nil {
		return errISNNotFound
	}
	values, err := f.normalize(values)
	if err != nil {
		return err
	}
	f.unindex(r)
	for name, v := range values {
		r.values[name] = v
	}
	f.index(r)
	return nil
}

func (f *file) delete(isn uint32) bool {
	item := f.records.Delete(&record{isn: isn})
	if item == nil {
		return false
	}
	f.unindex(item.(*record))
	return true
}

func (f *file) index(r *record) {
	for name, idx := range f.indexes {
		v, ok := r.values[name]
		if !ok {
			continue
		}
		key := &indexEntry{value: v}
		if item := idx.Get(key); item != nil {
			item.(*indexEntry).isns.Add(r.isn)
			continue
		}
		key.isns = roaring.BitmapOf(r.isn)
		idx.ReplaceOrInsert(key)
	}
}

func (f *file) unindex(r *record) {
	for name, idx := range f.indexes {
		v, ok := r.values[name]
		if !ok {
			continue
		}
		item := idx.Get(&indexEntry{value: v})
		if item == nil {
			continue
		}
		e := item.(*indexEntry)
		e.isns.Remove(r.isn)
		if e.isns.IsEmpty() {
			idx.Delete(e)
		}
	}
}

func (f *file) all() *roaring.Bitmap {
	bm := roaring.New()
	f.records.Ascend(func(item btree.Item) bool {
		bm.Add(item.(*record).isn)
		return true
	})
	return bm
}

// Search operators.
const (
	opEQ = "EQ"
	opNE = "NE"
	opGE = "GE"
	opGT = "GT"
	opLE = "LE"
	opLT = "LT"
)

// search returns the ISNs of the records whose descriptor value matches value and op.
func (f *file) search(name, op, value string) *roaring.Bitmap {
	idx := f.indexes[name]
	rv := roaring.New()
	add := func(item btree.Item) bool {
		rv.Or(item.(*indexEntry).isns)
		return true
	}
	pivot := &indexEntry{value: value}
	switch op {
	case opEQ:
		if item := idx.Get(pivot); item != nil {
			add(item)
		}
	case opNE:
		rv = f.all()
		if item := idx.Get(pivot); item != nil {
			rv.AndNot(item.(*indexEntry).isns)
		}
	case opGE:
		idx.AscendGreaterOrEqual(pivot, add)
	case opGT:
		idx.AscendGreaterOrEqual(pivot, func(item btree.Item) bool {
			if item.(*indexEntry).value == value {
				return true
			}
			return add(item)
		})
	case opLE:
		idx.DescendLessOrEqual(pivot, add)
	case opLT:
		idx.AscendLessThan(pivot, add)
	}
	return rv
}
