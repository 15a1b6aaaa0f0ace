// SPDX-FileCopyrightText: 2024-2026 go-adabas contributors
//
// SPDX-License-Identifier: Apache-2.0

/*
Package memengine implements an in-memory engine for the adabas driver.

The engine keeps the records of each file ordered by ISN and an inverted list per descriptor.
It implements a subset of the command set sufficient to run sessions, read loops, searches and
record modifications without a database:

	OP CL ET BT RC            session commands
	L1 L4                     read by ISN (command option 2 'N' reads the next ISN)
	L2 L5                     read physical sequential
	S1 S4                     find (search buffer and value buffer)
	N1 N2 A1 E1               store, update and delete

Other command codes are answered with the response code InvalidCommand.
*/
package memengine

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	p "github.com/go-adabas/adabas/driver/internal/protocol"
	"golang.org/x/text/transform"
)

// cursorKey identifies a sequence of commands using the same command id.
type cursorKey struct {
	fileNo uint16
	cid    string
}

// Engine is an in-memory engine for one database.
type Engine struct {
	dbID   uint16
	logger *slog.Logger

	mu       sync.Mutex
	files    map[uint16]*file
	sessions int
	cursors  map[cursorKey]uint32          // last ISN read by a sequential read.
	isnLists map[cursorKey]*roaring.Bitmap // ISN lists saved by find commands.
}

// New returns an empty engine for database id dbID.
func New(dbID uint16) *Engine {
	return &Engine{
		dbID:     dbID,
		logger:   slog.Default(),
		files:    map[uint16]*file{},
		cursors:  map[cursorKey]uint32{},
		isnLists: map[cursorKey]*roaring.Bitmap{},
	}
}

// DBID returns the database id of the engine.
func (e *Engine) DBID() uint16 { return e.dbID }

// SetLogger sets the logger of the engine.
func (e *Engine) SetLogger(logger *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger
}

// AddFile adds an empty file with field definitions defs.
func (e *Engine) AddFile(fileNo uint16, defs []FieldDef) error {
	if fileNo == 0 {
		return errors.New("invalid file number 0")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.files[fileNo]; ok {
		return fmt.Errorf("file %d already exists", fileNo)
	}
	f, err := newFile(fileNo, defs)
	if err != nil {
		return err
	}
	e.files[fileNo] = f
	return nil
}

// Store stores a record in file fileNo and returns its ISN. An isn of zero assigns the next free ISN.
func (e *Engine) Store(fileNo uint16, isn uint32, values map[string]string) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.files[fileNo]
	if !ok {
		return 0, fmt.Errorf("file %d not found", fileNo)
	}
	return f.store(isn, values)
}

// Count returns the number of records of file fileNo.
func (e *Engine) Count(fileNo uint16) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.files[fileNo]; ok {
		return f.count()
	}
	return 0
}

// Sessions returns the number of open sessions.
func (e *Engine) Sessions() int { e.mu.Lock(); defer e.mu.Unlock(); return e.sessions }

// request is a decoded engine call.
type request struct {
	cb      *p.ControlBlock
	bufs    *p.Buffers
	order   binary.ByteOrder
	charset p.Charset
}

// text returns the content of buffer idx converted from the request charset.
func (r *request) text(idx int) (string, error) {
	b := r.bufs[idx]
	if r.charset == p.CharsetASCII {
		return string(b), nil
	}
	s, _, err := transform.Bytes(r.charset.Decoder(), b)
	return string(s), err
}

// writeRecord writes s converted to the request charset into the record buffer.
func (r *request) writeRecord(s string) p.ResponseCode {
	b := []byte(s)
	if r.charset != p.CharsetASCII {
		var err error
		if b, _, err = transform.Bytes(r.charset.Encoder(), b); err != nil {
			return p.RspRecordBufferSyntax
		}
	}
	rb := r.bufs[p.RecordBuffer]
	if len(rb) < len(b) {
		return p.RspRecordBufferTooShort
	}
	copy(rb, b)
	return p.RspNormal
}

// Call implements the driver.Engine interface.
func (e *Engine) Call(ctx context.Context, acb *p.ACB, bufs *p.Buffers) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cb := &p.ControlBlock{}
	if err := cb.Decode(acb); err != nil {
		return err
	}
	r := &request{cb: cb, bufs: bufs, order: acb.ByteOrder(), charset: acb.Charset()}

	e.mu.Lock()
	cb.Subcode = 0
	cb.ResponseCode = e.dispatch(r)
	logger := e.logger
	e.mu.Unlock()

	logger.Debug("memengine", slog.String("cmd", cb.CommandCode), slog.String("rsp", cb.ResponseCode.String()))
	return cb.Encode(acb, acb[0])
}

func (e *Engine) dispatch(r *request) p.ResponseCode {
	cb := r.cb
	if cb.DBID != e.dbID {
		return p.RspNotActive
	}
	if cb.CommandCode != p.CmdOpen && e.sessions == 0 {
		return p.RspNotActive
	}

	switch cb.CommandCode {
	case p.CmdOpen:
		return e.open(r)
	case p.CmdClose:
		e.sessions--
		if e.sessions == 0 {
			clear(e.cursors)
			clear(e.isnLists)
		}
		return p.RspNormal
	case p.CmdEndTransaction, p.CmdBackout:
		return p.RspNormal
	case p.CmdReleaseCID:
		e.releaseCID(cb.CommandID)
		return p.RspNormal
	}

	f, ok := e.files[cb.FileNo]
	if !ok {
		return p.RspInvalidFileNumber
	}
	switch cb.CommandCode {
	case p.CmdReadISN, p.CmdReadISNHold:
		return e.readISN(f, r)
	case p.CmdReadPhysical, p.CmdReadPhysHold:
		return e.readPhysical(f, r)
	case p.CmdFind, p.CmdFindHold:
		return e.find(f, r)
	case p.CmdStore, p.CmdStoreISN:
		return e.store(f, r)
	case p.CmdUpdate:
		return e.update(f, r)
	case p.CmdDelete:
		if !f.delete(cb.ISN) {
			return p.RspInvalidISN
		}
		return p.RspNormal
	default:
		return p.RspInvalidCommand
	}
}

// open accepts an optional record buffer of the form "UPD=12,13." (ACC= and EXU= alike).
func (e *Engine) open(r *request) p.ResponseCode {
	if r.bufs[p.RecordBuffer] != nil {
		rb, err := r.text(p.RecordBuffer)
		if err != nil {
			return p.RspRecordBufferSyntax
		}
		if rsp := e.checkOpenFiles(rb); rsp != p.RspNormal {
			return rsp
		}
	}
	e.sessions++
	return p.RspNormal
}

func (e *Engine) checkOpenFiles(rb string) p.ResponseCode {
	rb = strings.TrimRight(rb, " \x00")
	if rb == "" || rb == "." {
		return p.RspNormal
	}
	for _, part := range strings.Split(strings.TrimSuffix(rb, "."), ";") {
		mode, list, ok := strings.Cut(part, "=")
		if !ok || (mode != "UPD" && mode != "ACC" && mode != "EXU") {
			return p.RspRecordBufferSyntax
		}
		for _, s := range strings.Split(list, ",") {
			var fileNo uint16
			if _, err := fmt.Sscan(s, &fileNo); err != nil {
				return p.RspRecordBufferSyntax
			}
			if _, ok := e.files[fileNo]; !ok {
				return p.RspInvalidFileNumber
			}
		}
	}
	return p.RspNormal
}

func (e *Engine) releaseCID(cid string) {
	for k := range e.cursors {
		if cid == "" || k.cid == cid {
			delete(e.cursors, k)
		}
	}
	for k := range e.isnLists {
		if cid == "" || k.cid == cid {
			delete(e.isnLists, k)
		}
	}
}

// deliver formats record rec into the record buffer.
func (e *Engine) deliver(f *file, r *request, rec *record) p.ResponseCode {
	fb, err := r.text(p.FormatBuffer)
	if err != nil {
		return p.RspFormatBufferError
	}
	specs, err := parseFormat(f, fb)
	if err != nil {
		return p.RspFormatBufferError
	}
	if len(r.bufs[p.RecordBuffer]) < recordLength(specs) {
		return p.RspRecordBufferTooShort
	}
	if rsp := r.writeRecord(formatRecord(specs, rec)); rsp != p.RspNormal {
		return rsp
	}
	r.cb.ISN = rec.isn
	return p.RspNormal
}

func (e *Engine) readISN(f *file, r *request) p.ResponseCode {
	cb := r.cb
	if cb.CommandOption2 != p.OptGetNext {
		rec := f.get(cb.ISN)
		if rec == nil {
			return p.RspInvalidISN
		}
		return e.deliver(f, r, rec)
	}
	// next ISN of the saved ISN list or of the file
	key := cursorKey{fileNo: f.number, cid: cb.CommandID}
	if list, ok := e.isnLists[key]; ok && cb.CommandID != "" {
		for {
			rank := list.Rank(cb.ISN)
			if rank >= list.GetCardinality() {
				if cb.CommandOption1 != p.OptKeepISN {
					delete(e.isnLists, key)
				}
				return p.RspEOF
			}
			isn, err := list.Select(uint32(rank))
			if err != nil {
				return p.RspEOF
			}
			if rec := f.get(isn); rec != nil {
				return e.deliver(f, r, rec)
			}
			cb.ISN = isn // deleted in the meantime
		}
	}
	rec := f.next(cb.ISN)
	if rec == nil {
		return p.RspEOF
	}
	return e.deliver(f, r, rec)
}

// readPhysical reads the record following the last ISN read with the same command id,
// or following the ISN of the control block if no command id is used.
func (e *Engine) readPhysical(f *file, r *request) p.ResponseCode {
	cb := r.cb
	key := cursorKey{fileNo: f.number, cid: cb.CommandID}
	last := cb.ISN
	if cb.CommandID != "" {
		if isn, ok := e.cursors[key]; ok {
			last = isn
		} else if cb.ISN != 0 {
			last = cb.ISN - 1 // start with the ISN given
		}
	}
	rec := f.next(last)
	if rec == nil {
		delete(e.cursors, key)
		return p.RspEOF
	}
	rsp := e.deliver(f, r, rec)
	if rsp == p.RspNormal && cb.CommandID != "" {
		e.cursors[key] = rec.isn
	}
	return rsp
}

func (e *Engine) find(f *file, r *request) p.ResponseCode {
	cb := r.cb
	sb, err := r.text(p.SearchBuffer)
	if err != nil {
		return p.RspSearchBufferError
	}
	vb, err := r.text(p.ValueBuffer)
	if err != nil {
		return p.RspSearchBufferError
	}
	criteria, err := parseSearch(f, sb, vb)
	if err != nil {
		return p.RspSearchBufferError
	}

	var result *roaring.Bitmap
	for _, c := range criteria {
		isns := f.search(c.name, c.op, c.value)
		if result == nil {
			result = isns
		} else {
			result.And(isns)
		}
	}

	cb.ISNQuantity = uint32(result.GetCardinality())
	cb.ISN = 0

	// ISN buffer
	if ib := r.bufs[p.ISNBuffer]; ib != nil {
		if len(ib)%4 != 0 {
			return p.RspISNBufferError
		}
		n := 0
		it := result.Iterator()
		for ; it.HasNext() && n+4 <= len(ib); n += 4 {
			r.order.PutUint32(ib[n:], it.Next())
		}
	}

	if cb.CommandID != "" {
		key := cursorKey{fileNo: f.number, cid: cb.CommandID}
		e.isnLists[key] = result
	}

	if result.IsEmpty() {
		return p.RspNormal
	}
	first := result.Minimum()
	if fb := r.bufs[p.FormatBuffer]; len(fb) != 0 && len(r.bufs[p.RecordBuffer]) != 0 {
		return e.deliver(f, r, f.get(first))
	}
	cb.ISN = first
	return p.RspNormal
}

func (e *Engine) recordValues(f *file, r *request) (map[string]string, p.ResponseCode) {
	fb, err := r.text(p.FormatBuffer)
	if err != nil {
		return nil, p.RspFormatBufferError
	}
	specs, err := parseFormat(f, fb)
	if err != nil {
		return nil, p.RspFormatBufferError
	}
	rb, err := r.text(p.RecordBuffer)
	if err != nil {
		return nil, p.RspRecordBufferSyntax
	}
	values, err := parseRecord(specs, rb)
	if err != nil {
		return nil, p.RspRecordBufferTooShort
	}
	return values, p.RspNormal
}

func (e *Engine) store(f *file, r *request) p.ResponseCode {
	cb := r.cb
	values, rsp := e.recordValues(f, r)
	if rsp != p.RspNormal {
		return rsp
	}
	isn := uint32(0)
	if cb.CommandCode == p.CmdStoreISN {
		if cb.ISN == 0 || f.get(cb.ISN) != nil {
			return p.RspInvalidISN
		}
		isn = cb.ISN
	}
	isn, err := f.store(isn, values)
	if err != nil {
		return p.RspRecordBufferSyntax
	}
	cb.ISN = isn
	return p.RspNormal
}

func (e *Engine) update(f *file, r *request) p.ResponseCode {
	values, rsp := e.recordValues(f, r)
	if rsp != p.RspNormal {
		return rsp
	}
	if err := f.update(r.cb.ISN, values); err != nil {
		if errors.Is(err, errISNNotFound) {
			return p.RspInvalidISN
		}
		return p.RspRecordBufferSyntax
	}
	return p.RspNormal
}

// Files returns the numbers of the files of the engine in ascending order.
func (e *Engine) Files() []uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	numbers := make([]uint16, 0, len(e.files))
	for n := range e.files {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// Fields returns the field definitions of file fileNo in definition order.
func (e *Engine) Fields(fileNo uint16) ([]FieldDef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	f, ok := e.files[fileNo]
	if !ok {
		return nil, fmt.Errorf("file %d not found", fileNo)
	}
	defs := make([]FieldDef, 0, len(f.names))
	for _, name := range f.names {
		defs = append(defs, *f.fields[name])
	}
	return defs, nil
}
