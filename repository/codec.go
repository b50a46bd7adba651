package repository

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Record encoding: every entity is a versioned, ordered, length-prefixed
// field sequence. Fields are written and read in the entity's declaration
// order; numbers are big-endian u64/u32, strings are u32-length-prefixed
// UTF-8, flags and enums are one byte, timestamps are unix seconds as u64.
// Adding a field requires a new record version, never an in-place reorder.

type recordWriter struct {
	buf []byte
}

func newRecordWriter(version byte) *recordWriter {
	return &recordWriter{buf: []byte{version}}
}

func (w *recordWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *recordWriter) u64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *recordWriter) u32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *recordWriter) u8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *recordWriter) flag(b bool) {
	v := byte(0)
	if b {
		v = 1
	}
	w.buf = append(w.buf, v)
}

// timestamp stores whole unix seconds. The zero time is stored as 0 so
// unset timestamps survive a round trip.
func (w *recordWriter) timestamp(t time.Time) {
	if t.IsZero() {
		w.u64(0)
		return
	}
	w.u64(uint64(t.Unix()))
}

func (w *recordWriter) bytes() []byte {
	return w.buf
}

type recordReader struct {
	buf []byte
	off int
	err error
}

func newRecordReader(data []byte, wantVersion byte) *recordReader {
	r := &recordReader{buf: data}
	if len(data) == 0 {
		r.err = fmt.Errorf("empty record")
		return r
	}
	if data[0] != wantVersion {
		r.err = fmt.Errorf("record version %d, want %d", data[0], wantVersion)
		return r
	}
	r.off = 1
	return r
}

func (r *recordReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("truncated record at offset %d", r.off)
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *recordReader) str() string {
	n := r.u32()
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *recordReader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *recordReader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *recordReader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *recordReader) flag() bool {
	return r.u8() == 1
}

func (r *recordReader) timestamp() time.Time {
	v := r.u64()
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(int64(v), 0).UTC()
}

// done reports any accumulated decode error, including trailing bytes.
func (r *recordReader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("record has %d trailing bytes", len(r.buf)-r.off)
	}
	return nil
}
