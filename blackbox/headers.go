package blackbox

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marker is the fixed ASCII sentinel that opens every concatenated log
// within a multi-log file. A container scanning for log boundaries looks
// for this byte string; Parse itself only consumes it once, at the start
// of whatever Reader it's given.
const Marker = "H Product:Blackbox flight data recorder by Nicholas Sherlock\n"

// LogVersion is the supported `Data version` header value.
type LogVersion int

const (
	LogVersionUnknown LogVersion = iota
	LogVersionV2
)

// FirmwareKind names the firmware family that produced a log, decoded
// from the `Firmware revision` header rather than the useless
// `Firmware type` header (every modern firmware sets that to
// "Cleanflight").
type FirmwareKind int

const (
	FirmwareUnknown FirmwareKind = iota
	FirmwareBetaflight
	FirmwareInav
)

func (k FirmwareKind) String() string {
	switch k {
	case FirmwareBetaflight:
		return "Betaflight"
	case FirmwareInav:
		return "INAV"
	default:
		return "Unknown"
	}
}

func (k FirmwareKind) IsBetaflight() bool { return k == FirmwareBetaflight }
func (k FirmwareKind) IsInav() bool       { return k == FirmwareInav }

// FirmwareVersion is a firmware revision's major.minor.patch triplet.
type FirmwareVersion struct {
	Major, Minor, Patch uint8
}

func (v FirmwareVersion) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor)) + "." + strconv.Itoa(int(v.Patch))
}

func firmwareVersionFromString(s string) (FirmwareVersion, bool) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return FirmwareVersion{}, false
	}
	var out [3]uint8
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return FirmwareVersion{}, false
		}
		out[i] = uint8(n)
	}
	return FirmwareVersion{Major: out[0], Minor: out[1], Patch: out[2]}, true
}

// Firmware identifies both the firmware family and the revision that
// wrote a log.
type Firmware struct {
	Kind    FirmwareKind
	Version FirmwareVersion
}

// parseFirmware decodes the `Firmware revision` header value, e.g.
// "Betaflight 4.3.0" or "INAV 5.1.0". EmuFlight is recognized but
// rejected: its frame layout diverges enough that nothing downstream can
// be trusted to decode it correctly.
func parseFirmware(revision string) (Firmware, error) {
	kind, rest, ok := strings.Cut(revision, " ")
	if !ok {
		return Firmware{}, &HeaderError{Header: "Firmware revision", Value: revision}
	}

	version, ok := firmwareVersionFromString(rest)
	if !ok {
		return Firmware{}, &HeaderError{Header: "Firmware revision", Value: revision}
	}

	switch strings.ToLower(kind) {
	case "betaflight":
		return Firmware{Kind: FirmwareBetaflight, Version: version}, nil
	case "inav":
		return Firmware{Kind: FirmwareInav, Version: version}, nil
	case "emuflight":
		traceWarn("EmuFlight logs are not supported: %s", revision)
		return Firmware{}, &HeaderError{Header: "Firmware revision", Value: revision}
	default:
		return Firmware{}, ErrUnknownFirmware
	}
}

// MotorOutputRange is the [min,max] raw motor output range a firmware
// reports, used both for display and as the MinMotor predictor's delta.
type MotorOutputRange struct {
	Min int32
	Max int32
}

func motorOutputRangeFromString(s string) (MotorOutputRange, bool) {
	min, max, ok := strings.Cut(s, ",")
	if !ok {
		return MotorOutputRange{}, false
	}
	minV, err := strconv.ParseInt(strings.TrimSpace(min), 10, 32)
	if err != nil {
		return MotorOutputRange{}, false
	}
	maxV, err := strconv.ParseInt(strings.TrimSpace(max), 10, 32)
	if err != nil {
		return MotorOutputRange{}, false
	}
	return MotorOutputRange{Min: int32(minV), Max: int32(maxV)}, true
}

// Headers is the fully parsed, validated header section of a blackbox
// log: the frame schemas every data-section frame is decoded against,
// plus the calibration constants several predictors and unit conversions
// depend on. Built in one pass by Parse, then treated as immutable for
// the lifetime of the data parser built on top of it.
type Headers struct {
	Version LogVersion

	MainFrames    *MainFrameDef
	SlowFrames    *SlowFrameDef
	GpsFrames     *GpsFrameDef
	GpsHomeFrames *GpsHomeFrameDef

	FirmwareRevision string
	Firmware         Firmware
	BoardInfo        string
	CraftName        string

	VBatReference    uint32
	Acceleration1G   uint32
	GyroScale        float64
	MinThrottle      uint32
	MotorOutputRange MotorOutputRange
	CurrentMeter     *CurrentMeterConfig
	VBat             *VBatConfig

	// Unknown holds any header key/value pair this parser didn't
	// recognize, preserved verbatim for round-tripping or diagnostics.
	Unknown map[string]string
}

// headerState accumulates "H <name>:<value>" lines before they can be
// cross-validated and turned into an immutable Headers.
type headerState struct {
	version *LogVersion

	mainFrames    mainFrameDefBuilder
	slowFrames    slowFrameDefBuilder
	gpsFrames     gpsFrameDefBuilder
	gpsHomeFrames gpsHomeFrameDefBuilder

	firmwareRevision *string
	boardInfo        *string
	craftName        *string

	vbatReference    *uint32
	acceleration1g   *uint32
	gyroScale        *float64
	minThrottle      *uint32
	motorOutputRange *MotorOutputRange
	currentMeter     *CurrentMeterConfig
	vbat             *VBatConfig

	unknown map[string]string
}

func newHeaderState() *headerState {
	return &headerState{unknown: make(map[string]string)}
}

// ParseHeaders reads the header section, advancing data to the start of
// the data section. data must already be positioned at the start of a
// log (past any container-level marker scan).
func ParseHeaders(data *Reader) (*Headers, error) {
	product, ok := data.ReadLine()
	if !ok {
		return nil, &ParseError{cause: ErrIncompleteHeaders}
	}
	if string(product) != strings.TrimSuffix(Marker, "\n") {
		traceWarn("unexpected product line: %q", product)
	}

	state := newHeaderState()

	for {
		if b, ok := data.Peek(); !ok || b != 'H' {
			break
		}

		restore := data.GetRestorePoint()
		name, value, err := parseHeaderLine(data)
		if err != nil {
			if isEof(err) {
				return nil, &ParseError{cause: ErrIncompleteHeaders}
			}
			traceDebug("found corrupted header")
			data.Restore(restore)
			break
		}

		if !state.update(name, value) {
			if name == "Data version" {
				return nil, &ParseError{cause: ErrUnsupportedVersion}
			}
			return nil, &ParseError{cause: &HeaderError{Header: name, Value: value}}
		}
	}

	return state.finish()
}

// parseHeaderLine expects the next byte to be 'H'.
func parseHeaderLine(data *Reader) (string, string, error) {
	b, ok := data.ReadU8()
	if !ok {
		return "", "", errEofSentinel
	}
	if b != 'H' {
		return "", "", errRetrySentinel
	}

	line, ok := data.ReadLine()
	if !ok {
		return "", "", errEofSentinel
	}
	if !utf8.Valid(line) {
		return "", "", errRetrySentinel
	}

	s := strings.TrimPrefix(string(line), " ")
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", errRetrySentinel
	}

	traceField("header %q = %q", name, value)
	return name, value, nil
}

// update applies one header key/value pair, returning false if the
// header's value failed to parse. An unrecognized header is not an
// error: it's stashed in Unknown.
func (s *headerState) update(name, value string) bool {
	switch name {
	case "Data version":
		if value != "2" {
			return false
		}
		v := LogVersionV2
		s.version = &v

	case "Firmware revision":
		s.firmwareRevision = &value
	case "Firmware type":
		// Always "Cleanflight" on modern firmware; not useful.
	case "Board information":
		s.boardInfo = &value
	case "Craft name":
		s.craftName = &value

	case "vbatref":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return false
		}
		v := uint32(n)
		s.vbatReference = &v

	case "acc_1G":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return false
		}
		v := uint32(n)
		s.acceleration1g = &v

	case "gyro.scale", "gyro_scale":
		var bits uint64
		var err error
		if hex, ok := strings.CutPrefix(value, "0x"); ok {
			bits, err = strconv.ParseUint(hex, 16, 32)
		} else {
			bits, err = strconv.ParseUint(value, 10, 32)
		}
		if err != nil {
			return false
		}
		radians := float64(math.Float32frombits(uint32(bits))) * (3.14159265358979323846 / 180)
		s.gyroScale = &radians

	case "minthrottle":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return false
		}
		v := uint32(n)
		s.minThrottle = &v

	case "motorOutput":
		r, ok := motorOutputRangeFromString(value)
		if !ok {
			return false
		}
		s.motorOutputRange = &r

	case "vbatscale", "vbat_scale":
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return false
		}
		s.vbat = &VBatConfig{Scale: int32(n)}

	case "currentMeter", "currentSensor":
		min, max, ok := strings.Cut(value, ",")
		if !ok {
			return false
		}
		offset, err1 := strconv.ParseInt(strings.TrimSpace(min), 10, 32)
		scale, err2 := strconv.ParseInt(strings.TrimSpace(max), 10, 32)
		if err1 != nil || err2 != nil {
			return false
		}
		s.currentMeter = &CurrentMeterConfig{Offset: int32(offset), Scale: int32(scale)}

	default:
		if kind, prop, ok := frameDefHeaderParts(name); ok {
			switch kind {
			case FrameIntra, FrameInter:
				s.mainFrames.update(kind, prop, value)
			case FrameSlow:
				s.slowFrames.update(prop, value)
			case FrameGps:
				s.gpsFrames.update(prop, value)
			case FrameGpsHome:
				s.gpsHomeFrames.update(prop, value)
			}
			return true
		}

		traceDebug("skipping unknown header: %q = %q", name, value)
		s.unknown[name] = value
	}

	return true
}

func (s *headerState) finish() (*Headers, error) {
	if s.firmwareRevision == nil {
		return nil, &ParseError{cause: ErrMissingHeader}
	}
	firmware, err := parseFirmware(*s.firmwareRevision)
	if err != nil {
		return nil, &ParseError{cause: err}
	}

	if s.version == nil {
		return nil, &ParseError{cause: ErrMissingHeader}
	}

	mainFrames, err := s.mainFrames.build()
	if err != nil {
		return nil, &ParseError{cause: err}
	}
	slowFrames, err := s.slowFrames.build()
	if err != nil {
		return nil, &ParseError{cause: err}
	}
	gpsFrames, err := s.gpsFrames.build()
	if err != nil {
		return nil, &ParseError{cause: err}
	}
	gpsHomeFrames, err := s.gpsHomeFrames.build()
	if err != nil {
		return nil, &ParseError{cause: err}
	}

	headers := &Headers{
		Version:          *s.version,
		MainFrames:       mainFrames,
		SlowFrames:       slowFrames,
		GpsFrames:        gpsFrames,
		GpsHomeFrames:    gpsHomeFrames,
		FirmwareRevision: *s.firmwareRevision,
		Firmware:         firmware,
		Unknown:          s.unknown,
	}
	if s.boardInfo != nil {
		headers.BoardInfo = strings.TrimSpace(*s.boardInfo)
	}
	if s.craftName != nil {
		headers.CraftName = strings.TrimSpace(*s.craftName)
	}
	if s.vbatReference != nil {
		headers.VBatReference = *s.vbatReference
	}
	if s.acceleration1g != nil {
		headers.Acceleration1G = *s.acceleration1g
	}
	if s.gyroScale != nil {
		headers.GyroScale = *s.gyroScale
	}
	if s.minThrottle != nil {
		headers.MinThrottle = *s.minThrottle
	}
	if s.motorOutputRange != nil {
		headers.MotorOutputRange = *s.motorOutputRange
	}
	headers.CurrentMeter = s.currentMeter
	headers.VBat = s.vbat

	if err := headers.validate(); err != nil {
		return nil, &ParseError{cause: err}
	}

	return headers, nil
}

// validate checks that every field's declared predictor and unit is
// satisfied by the calibration constants actually present in the
// header section, per §4.4 of the wire format.
func (h *Headers) validate() error {
	hasAccel := h.Acceleration1G != 0
	hasMinThrottle := h.MinThrottle != 0
	_, hasMotor0 := h.MainFrames.motor0Index()
	hasVBatRef := h.VBatReference != 0
	hasMinMotor := h.MotorOutputRange != (MotorOutputRange{})
	hasGpsHome := h.GpsHomeFrames != nil

	checkPredictor := func(p Predictor) error {
		var ok bool
		switch p {
		case PredictorMinThrottle:
			ok = hasMinThrottle
		case PredictorMotor0:
			ok = hasMotor0
		case PredictorHomeLat, PredictorHomeLon:
			ok = hasGpsHome
		case PredictorVBatReference:
			ok = hasVBatRef
		case PredictorMinMotor:
			ok = hasMinMotor
		default:
			ok = true
		}
		if !ok {
			return ErrMissingHeader
		}
		return nil
	}

	checkUnit := func(u Unit) error {
		if u == UnitAcceleration && !hasAccel {
			return ErrMissingHeader
		}
		return nil
	}

	if err := h.MainFrames.validate(checkPredictor, checkUnit); err != nil {
		return err
	}
	if err := h.SlowFrames.validate(checkPredictor, checkUnit); err != nil {
		return err
	}
	if h.GpsFrames != nil {
		if err := h.GpsFrames.validate(checkPredictor, checkUnit); err != nil {
			return err
		}
	}
	if h.GpsHomeFrames != nil {
		if err := h.GpsHomeFrames.validate(checkPredictor, checkUnit); err != nil {
			return err
		}
	}

	return nil
}

// frameDefHeaderParts splits a "Field <K> <property>" header name into
// its frame kind and property, or reports ok=false for anything else.
func frameDefHeaderParts(name string) (FrameKind, dataFrameProperty, bool) {
	const prefix = "Field "
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, 0, false
	}

	letter, rest, ok := strings.Cut(rest, " ")
	if !ok || len(letter) != 1 {
		return 0, 0, false
	}

	kind, ok := frameKindFromByte(letter[0])
	if !ok {
		return 0, 0, false
	}

	prop, ok := dataFramePropertyFromName(rest)
	if !ok {
		return 0, 0, false
	}

	return kind, prop, true
}
