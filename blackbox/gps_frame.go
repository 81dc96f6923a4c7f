package blackbox

// RawGpsFrame is one decoded Gps ('G') frame: a reconstructed timestamp
// (offset from the last main frame's time) and its field vector.
type RawGpsFrame struct {
	Time   uint64
	Values []uint32
}

// GpsFieldDef describes one field of the GPS frame schema, excluding
// the structurally-required leading "time" field.
type GpsFieldDef struct {
	Name      string
	Predictor Predictor
	Encoding  Encoding
	Signed    bool
	Unit      Unit
}

// GpsFrameDef is the parsed, validated schema for GPS frames. Present
// only if the log defined any "Field G *" headers.
type GpsFrameDef struct {
	fields []GpsFieldDef
}

func (d *GpsFrameDef) Len() int { return len(d.fields) }

func (d *GpsFrameDef) Field(i int) (name string, unit Unit, signed bool) {
	f := d.fields[i]
	return f.Name, f.Unit, f.Signed
}

func (d *GpsFrameDef) validate(checkPredictor func(Predictor) error, checkUnit func(Unit) error) error {
	for _, f := range d.fields {
		if err := checkPredictor(f.Predictor); err != nil {
			return err
		}
		if err := checkUnit(f.Unit); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes one GPS frame. The timestamp is the last main frame's
// time (0 if none has been seen yet) plus a decoded unsigned offset;
// every other field runs through the predictor using the encoding's own
// signedness rather than the header's declared "signed" column (the
// schema's signed flag only affects display/unit presentation here).
func (d *GpsFrameDef) Parse(data *Reader, headers *Headers, lastMainTime uint64, lastHome *GpsHomeFrame) (*RawGpsFrame, error) {
	offset, err := decodeVariable(data)
	if err != nil {
		return nil, err
	}
	time := lastMainTime + uint64(offset)
	traceField("gps time=%d offset=%d", time, offset)

	encodings := make([]Encoding, len(d.fields))
	for i, f := range d.fields {
		encodings[i] = f.Encoding
	}
	raw, err := readFieldValues(data, encodings)
	if err != nil {
		return nil, err
	}

	ctx := predictorContextWithHome(headers, lastHome)
	values := make([]uint32, len(d.fields))
	for i, f := range d.fields {
		values[i] = f.Predictor.Apply(raw[i], f.Encoding.IsSigned(), nil, &ctx)
	}

	return &RawGpsFrame{Time: time, Values: values}, nil
}

type gpsFrameDefBuilder struct {
	names, predictors, encodings, signs *string
}

func (b *gpsFrameDefBuilder) update(prop dataFrameProperty, value string) {
	switch prop {
	case propName:
		b.names = &value
	case propPredictor:
		b.predictors = &value
	case propEncoding:
		b.encodings = &value
	case propSigned:
		b.signs = &value
	}
}

func (b *gpsFrameDefBuilder) build() (*GpsFrameDef, error) {
	if b.names == nil && b.predictors == nil && b.encodings == nil && b.signs == nil {
		return nil, nil
	}

	names, err := parseNames(FrameGps, b.names)
	if err != nil {
		return nil, err
	}
	predictors, err := parsePredictors(FrameGps, b.predictors)
	if err != nil {
		return nil, err
	}
	encodings, err := parseEncodings(FrameGps, b.encodings)
	if err != nil {
		return nil, err
	}
	signs, err := parseSigns(FrameGps, b.signs)
	if err != nil {
		return nil, err
	}

	n := min(len(names), len(predictors), len(encodings), len(signs))
	if n != max(len(names), len(predictors), len(encodings), len(signs)) {
		traceWarn("gps frame definition headers are of unequal length; ignoring entries past %d", n)
	}
	if n < 1 || names[0] != "time" || predictors[0] != PredictorLastMainFrameTime || encodings[0] != EncodingVariable {
		return nil, &FieldError{Frame: FrameGps, Field: "time"}
	}

	fields := make([]GpsFieldDef, 0, n-1)
	for i := 1; i < n; i++ {
		fields = append(fields, GpsFieldDef{
			Name: names[i], Predictor: predictors[i], Encoding: encodings[i], Signed: signs[i],
			Unit: gpsUnitFromName(names[i]),
		})
	}

	// A second consecutive HomeLat-predicted field is actually HomeLon:
	// the header format has no separate token for it.
	for i := 1; i < len(fields); i++ {
		if fields[i-1].Predictor == PredictorHomeLat && fields[i].Predictor == PredictorHomeLat {
			fields[i].Predictor = PredictorHomeLon
		}
	}

	return &GpsFrameDef{fields: fields}, nil
}

func gpsUnitFromName(name string) Unit {
	switch toBaseField(name) {
	case "GPS_coord":
		return UnitGpsCoordinate
	case "GPS_altitude":
		return UnitAltitude
	case "GPS_speed":
		return UnitVelocity
	case "GPS_ground_course":
		return UnitGpsHeading
	default:
		return UnitUnitless
	}
}
