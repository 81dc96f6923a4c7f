package blackbox

// Predictor names the rule used to reconstruct an absolute field value
// from a raw decoded delta plus retained context. Discriminants match the
// firmware's own small-integer encoding in header lines.
type Predictor int

const (
	PredictorZero Predictor = iota
	PredictorPrevious
	PredictorStraightLine
	PredictorAverage2
	PredictorMinThrottle
	PredictorMotor0
	PredictorIncrement
	PredictorHomeLat
	PredictorFifteenHundred
	PredictorVBatReference
	PredictorLastMainFrameTime
	PredictorMinMotor
	// HomeLon has no header token of its own: a GpsFrameDef builder
	// rewrites the second of two consecutive HomeLat tokens into this.
	PredictorHomeLon Predictor = 256
)

func (p Predictor) String() string {
	switch p {
	case PredictorZero:
		return "Zero"
	case PredictorPrevious:
		return "Previous"
	case PredictorStraightLine:
		return "StraightLine"
	case PredictorAverage2:
		return "Average2"
	case PredictorMinThrottle:
		return "MinThrottle"
	case PredictorMotor0:
		return "Motor0"
	case PredictorIncrement:
		return "Increment"
	case PredictorHomeLat:
		return "HomeLat"
	case PredictorFifteenHundred:
		return "FifteenHundred"
	case PredictorVBatReference:
		return "VBatReference"
	case PredictorLastMainFrameTime:
		return "LastMainFrameTime"
	case PredictorMinMotor:
		return "MinMotor"
	case PredictorHomeLon:
		return "HomeLon"
	default:
		return "Unknown"
	}
}

// predictorFromToken parses a header predictor token. "7" is HomeLat;
// HomeLon (256) is never written on the wire, only produced internally.
func predictorFromToken(tok string) (Predictor, error) {
	n, err := parseSmallUint(tok)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 11 {
		return 0, errRetrySentinel
	}
	return Predictor(n), nil
}

// PredictorContext carries the state a predictor may need: the previous
// two main frames' relevant field, the configured headers, GPS home, and
// a loop-iteration-skip count for Increment. Built fresh per field.
type PredictorContext struct {
	headers        *Headers
	last           *uint32
	lastLast       *uint32
	lastSigned     bool
	gpsHome        *GpsHomeFrame
	skippedFrames  uint32
}

func newPredictorContext(headers *Headers) PredictorContext {
	return PredictorContext{headers: headers}
}

func predictorContextWithSkipped(headers *Headers, skipped uint32) PredictorContext {
	return PredictorContext{headers: headers, skippedFrames: skipped}
}

func predictorContextWithHome(headers *Headers, home *GpsHomeFrame) PredictorContext {
	return PredictorContext{headers: headers, gpsHome: home}
}

func (c *PredictorContext) setLast(v uint32, signed bool) {
	c.last = &v
	c.lastSigned = signed
}

func (c *PredictorContext) setLastLast(v uint32) {
	c.lastLast = &v
}

// Apply computes predictor p's delta and returns raw+delta in the field's
// numeric domain (32-bit modular, signed or unsigned addition per the
// `signed` flag). `current` is the vector of already-predicted values for
// this frame so far -- only Motor0 uses it, to look up a field decoded
// earlier in the same frame.
func (p Predictor) Apply(raw uint32, signed bool, current []uint32, ctx *PredictorContext) uint32 {
	switch p {
	case PredictorZero:
		return raw

	case PredictorPrevious:
		return addDelta(raw, lastOr(ctx, 0), signed)

	case PredictorStraightLine:
		return addDelta(raw, straightLine(ctx, signed), signed)

	case PredictorAverage2:
		return addDelta(raw, average2(ctx, signed), signed)

	case PredictorMinThrottle:
		return addDelta(raw, uint32(ctx.headers.MinThrottle), signed)

	case PredictorMotor0:
		idx, ok := ctx.headers.MainFrames.motor0Index()
		if !ok || current == nil || idx >= len(current) {
			traceDebug("Motor0 predictor used without a resolved motor[0] value")
			return addDelta(raw, 0, signed)
		}
		return addDelta(raw, current[idx], signed)

	case PredictorIncrement:
		return addDelta(raw, ctx.skippedFrames+1+lastOr(ctx, 0), false)

	case PredictorFifteenHundred:
		return addDelta(raw, 1500, signed)

	case PredictorVBatReference:
		return addDelta(raw, uint32(ctx.headers.VBatReference), signed)

	case PredictorLastMainFrameTime:
		// Reserved: one historical code path treated this as an error on a
		// non-time field, another silently returned 0. We keep the
		// silent-0 contract and only log.
		traceDebug("LastMainFrameTime predictor used outside a time field")
		return addDelta(raw, 0, signed)

	case PredictorMinMotor:
		return addDelta(raw, uint32(ctx.headers.MotorOutputRange.Min), signed)

	case PredictorHomeLat:
		if ctx.gpsHome == nil {
			traceDebug("HomeLat predictor used without a GPS home frame")
			return addDelta(raw, 0, signed)
		}
		return addDelta(raw, uint32(ctx.gpsHome.Latitude), signed)

	case PredictorHomeLon:
		if ctx.gpsHome == nil {
			traceDebug("HomeLon predictor used without a GPS home frame")
			return addDelta(raw, 0, signed)
		}
		return addDelta(raw, uint32(ctx.gpsHome.Longitude), signed)

	default:
		return raw
	}
}

func lastOr(ctx *PredictorContext, def uint32) uint32 {
	if ctx.last == nil {
		return def
	}
	return *ctx.last
}

// addDelta adds delta to raw in the field's numeric domain. Both paths
// wrap at 32 bits, which is why signed and unsigned addition differ only
// in how overflow is interpreted downstream, not in the bit pattern
// produced here.
func addDelta(raw, delta uint32, signed bool) uint32 {
	if signed {
		return uint32(int32(raw) + int32(delta))
	}
	return raw + delta
}

// straightLine computes 2*last - last_last using arithmetic wide enough
// not to overflow, falling back to `last` (or 0) when either value is
// absent or the widened result doesn't fit back in 32 bits.
func straightLine(ctx *PredictorContext, signed bool) uint32 {
	if ctx.last == nil {
		return 0
	}
	if ctx.lastLast == nil {
		return *ctx.last
	}
	if signed {
		last := int64(int32(*ctx.last))
		lastLast := int64(int32(*ctx.lastLast))
		wide := 2*last - lastLast
		if wide < int64(minI32) || wide > int64(maxI32) {
			return *ctx.last
		}
		return uint32(int32(wide))
	}
	last := int64(*ctx.last)
	lastLast := int64(*ctx.lastLast)
	wide := 2*last - lastLast
	if wide < 0 || wide > int64(maxU32) {
		return *ctx.last
	}
	return uint32(wide)
}

// average2 computes the overflow-free midpoint of last and last_last, or
// falls back to last (or 0) when history is incomplete.
func average2(ctx *PredictorContext, signed bool) uint32 {
	if ctx.last == nil {
		return 0
	}
	if ctx.lastLast == nil {
		return *ctx.last
	}
	if signed {
		last := int64(int32(*ctx.last))
		lastLast := int64(int32(*ctx.lastLast))
		return uint32(int32((last + lastLast) / 2))
	}
	last := int64(*ctx.last)
	lastLast := int64(*ctx.lastLast)
	return uint32((last + lastLast) / 2)
}

const (
	minI32 = -2147483648
	maxI32 = 2147483647
	maxU32 = 4294967295
)
