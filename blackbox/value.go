package blackbox

import "strconv"

// Value is one decoded, unit-tagged field value. The raw u32 storage and
// the field's declared signedness/unit are kept alongside it so a
// caller can ask for whichever representation it needs without the
// package having to pre-compute every possible conversion.
type Value struct {
	Unit   Unit
	Raw    uint32
	Signed bool
}

// Int32 bit-preservingly reinterprets the raw value as signed.
func (v Value) Int32() int32 { return asSigned(v.Raw) }

// Uint32 returns the raw value as stored.
func (v Value) Uint32() uint32 { return v.Raw }

// Float64 applies this value's unit conversion, using headers for any
// calibration constants it needs. Unitless and flag-style values are
// returned as their plain (possibly reinterpreted) integer value.
func (v Value) Float64(headers *Headers) float64 {
	switch v.Unit {
	case UnitAmperage:
		return electricCurrentFromRaw(v.Int32(), headers)
	case UnitVoltage:
		return electricPotentialFromRaw(v.Raw, headers)
	case UnitAcceleration:
		return accelerationFromRaw(v.Int32(), headers)
	case UnitRotation:
		return angularVelocityFromRaw(v.Int32())
	case UnitFrameTime:
		return float64(timeFromRaw(uint64(v.Raw)))
	default:
		if v.Signed {
			return float64(v.Int32())
		}
		return float64(v.Raw)
	}
}

// Names decodes this value's firmware-parameterized flag/enum names for
// the firmware that produced it. Only FlightMode, State and
// FailsafePhase units have a table; anything else returns nil.
func (v Value) Names(fw FirmwareKind) []string {
	switch v.Unit {
	case UnitFlightMode:
		return FlightModeNames(fw, v.Raw)
	case UnitState:
		return StateNames(fw, v.Raw)
	case UnitFailsafePhase:
		return []string{FailsafePhaseName(fw, v.Raw)}
	default:
		return nil
	}
}

// String renders this value's display form: pipe-joined flag names for
// FlightMode/State/FailsafePhase, or the plain integer otherwise.
func (v Value) String(fw FirmwareKind) string {
	if v.Unit == UnitFlightMode || v.Unit == UnitState || v.Unit == UnitFailsafePhase {
		return FlagString(v.Names(fw))
	}
	if v.Signed {
		return strconv.FormatInt(int64(v.Int32()), 10)
	}
	return strconv.FormatUint(uint64(v.Raw), 10)
}

// MainFrame is a decoded Intra or Inter main frame, filtered to the
// fields a caller asked for.
type MainFrame struct {
	headers *Headers
	raw     *RawMainFrame
	filter  AppliedFilter
}

func newMainFrame(headers *Headers, raw *RawMainFrame, filter AppliedFilter) *MainFrame {
	return &MainFrame{headers: headers, raw: raw, filter: filter}
}

// Intra reports whether this was a keyframe (decoded without reference
// to prior main frames).
func (f *MainFrame) Intra() bool { return f.raw.Intra }

// Iteration returns the frame's loop iteration, whichever fields the
// frame's filter keeps.
func (f *MainFrame) Iteration() uint32 { return f.raw.Iteration }

// Time returns the reconstructed microsecond counter since power-on.
// Does not yet handle 32-bit overflow of the transmitted counter.
func (f *MainFrame) Time() uint64 { return f.raw.Time }

// Len is the number of fields this frame exposes after filtering.
func (f *MainFrame) Len() int { return f.filter.Len() }

// Field returns the name and value of the i-th field kept by this
// frame's filter.
func (f *MainFrame) Field(i int) (name string, value Value, ok bool) {
	idx, ok := f.filter.Get(i)
	if !ok {
		return "", Value{}, false
	}
	if idx == 0 {
		return "loopIteration", Value{Unit: UnitUnitless, Raw: f.raw.Iteration}, true
	}
	fname, unit, signed := f.headers.MainFrames.Field(idx)
	return fname, Value{Unit: unit, Raw: f.raw.Values[idx-1], Signed: signed}, true
}

// SlowFrame is a decoded slow frame, filtered to the fields a caller
// asked for.
type SlowFrame struct {
	headers *Headers
	raw     *RawSlowFrame
	filter  AppliedFilter
}

func newSlowFrame(headers *Headers, raw *RawSlowFrame, filter AppliedFilter) *SlowFrame {
	return &SlowFrame{headers: headers, raw: raw, filter: filter}
}

func (f *SlowFrame) Len() int { return f.filter.Len() }

func (f *SlowFrame) Field(i int) (name string, value Value, ok bool) {
	idx, ok := f.filter.Get(i)
	if !ok {
		return "", Value{}, false
	}
	name, unit, signed := f.headers.SlowFrames.Field(idx)
	return name, Value{Unit: unit, Raw: f.raw.Values[idx], Signed: signed}, true
}

// GpsFrame is a decoded GPS frame, filtered to the fields a caller
// asked for.
type GpsFrame struct {
	headers *Headers
	raw     *RawGpsFrame
	filter  AppliedFilter
}

func newGpsFrame(headers *Headers, raw *RawGpsFrame, filter AppliedFilter) *GpsFrame {
	return &GpsFrame{headers: headers, raw: raw, filter: filter}
}

// Time returns this fix's reconstructed time, offset from the last
// main frame's.
func (f *GpsFrame) Time() uint64 { return f.raw.Time }

func (f *GpsFrame) Len() int { return f.filter.Len() }

func (f *GpsFrame) Field(i int) (name string, value Value, ok bool) {
	idx, ok := f.filter.Get(i)
	if !ok {
		return "", Value{}, false
	}
	name, unit, signed := f.headers.GpsFrames.Field(idx)
	return name, Value{Unit: unit, Raw: f.raw.Values[idx], Signed: signed}, true
}
