package blackbox

import "math"

// Reader is a synchronous, allocation-free cursor over an immutable byte
// buffer. Every read either advances the cursor and returns ok=true, or
// leaves the cursor untouched and returns ok=false. It never panics on
// exhausted input; callers decide whether that is Eof or Retry.
type Reader struct {
	data  []byte
	index int
}

// NewReader wraps data for reading. Panics if len(data) == math.MaxInt,
// since the restore-point arithmetic below needs len+1 to be representable.
func NewReader(data []byte) *Reader {
	if len(data) == math.MaxInt {
		panic("blackbox: reader buffer length must be less than MaxInt")
	}
	return &Reader{data: data}
}

// Len reports the total buffer length, independent of cursor position.
func (r *Reader) Len() int { return len(r.data) }

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.index }

// Position returns the current cursor index.
func (r *Reader) Position() int { return r.index }

// RestorePoint is an opaque cursor snapshot taken with GetRestorePoint and
// replayed with Restore.
type RestorePoint int

// GetRestorePoint snapshots the current cursor position.
func (r *Reader) GetRestorePoint() RestorePoint { return RestorePoint(r.index) }

// Restore rewinds the cursor to a previously saved point.
func (r *Reader) Restore(p RestorePoint) { r.index = int(p) }

// Peek returns the next byte without advancing, or ok=false at EOF.
func (r *Reader) Peek() (byte, bool) {
	if r.index >= len(r.data) {
		return 0, false
	}
	return r.data[r.index], true
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, bool) {
	if r.index >= len(r.data) {
		return 0, false
	}
	b := r.data[r.index]
	r.index++
	return b, true
}

// ReadI8 reads one byte reinterpreted as signed.
func (r *Reader) ReadI8() (int8, bool) {
	b, ok := r.ReadU8()
	return int8(b), ok
}

func (r *Reader) haveBytes(n int) bool { return r.index+n <= len(r.data) }

// ReadU16 reads two little-endian bytes.
func (r *Reader) ReadU16() (uint16, bool) {
	if !r.haveBytes(2) {
		return 0, false
	}
	v := uint16(r.data[r.index]) | uint16(r.data[r.index+1])<<8
	r.index += 2
	return v, true
}

// ReadI16 reads two little-endian bytes reinterpreted as signed.
func (r *Reader) ReadI16() (int16, bool) {
	v, ok := r.ReadU16()
	return int16(v), ok
}

// ReadU24 assembles three little-endian bytes into the low 24 bits of a u32.
func (r *Reader) ReadU24() (uint32, bool) {
	if !r.haveBytes(3) {
		return 0, false
	}
	v := uint32(r.data[r.index]) | uint32(r.data[r.index+1])<<8 | uint32(r.data[r.index+2])<<16
	r.index += 3
	return v, true
}

// ReadU32 reads four little-endian bytes.
func (r *Reader) ReadU32() (uint32, bool) {
	if !r.haveBytes(4) {
		return 0, false
	}
	v := uint32(r.data[r.index]) | uint32(r.data[r.index+1])<<8 |
		uint32(r.data[r.index+2])<<16 | uint32(r.data[r.index+3])<<24
	r.index += 4
	return v, true
}

// ReadI32 reads four little-endian bytes reinterpreted as signed.
func (r *Reader) ReadI32() (int32, bool) {
	v, ok := r.ReadU32()
	return int32(v), ok
}

// ReadU64 reads eight little-endian bytes.
func (r *Reader) ReadU64() (uint64, bool) {
	if !r.haveBytes(8) {
		return 0, false
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(r.data[r.index+i]) << (8 * i)
	}
	r.index += 8
	return v, true
}

// ReadI64 reads eight little-endian bytes reinterpreted as signed.
func (r *Reader) ReadI64() (int64, bool) {
	v, ok := r.ReadU64()
	return int64(v), ok
}

// ReadF32 reads a little-endian IEEE-754 single.
func (r *Reader) ReadF32() (float32, bool) {
	v, ok := r.ReadU32()
	return math.Float32frombits(v), ok
}

// ReadF64 reads a little-endian IEEE-754 double.
func (r *Reader) ReadF64() (float64, bool) {
	v, ok := r.ReadU64()
	return math.Float64frombits(v), ok
}

// ReadLine returns the slice up to (not including) the next '\n', consuming
// the newline. At EOF without a trailing newline it returns whatever is
// left and reports ok=false only if nothing at all remains.
func (r *Reader) ReadLine() ([]byte, bool) {
	if r.index >= len(r.data) {
		return nil, false
	}
	start := r.index
	for r.index < len(r.data) {
		if r.data[r.index] == '\n' {
			line := r.data[start:r.index]
			r.index++
			return line, true
		}
		r.index++
	}
	return r.data[start:r.index], true
}

// ReadNBytes returns at most n bytes, possibly short at EOF.
func (r *Reader) ReadNBytes(n int) []byte {
	end := r.index + n
	if end > len(r.data) {
		end = len(r.data)
	}
	b := r.data[r.index:end]
	r.index = end
	return b
}

// SkipUntilAny advances the cursor to the first byte matching one of
// needles, without consuming it. Returns true if found, false if the
// reader reached EOF first (in which case the cursor sits at EOF).
func (r *Reader) SkipUntilAny(needles []byte) bool {
	for r.index < len(r.data) {
		b := r.data[r.index]
		for _, n := range needles {
			if b == n {
				return true
			}
		}
		r.index++
	}
	return false
}
