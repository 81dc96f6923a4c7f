package blackbox

// GpsHomeFrame is a decoded GpsHome ('H') frame: the reconstructed home
// position GPS frames predict their lat/lon against. GpsHome frames are
// never surfaced to a caller on their own; they exist only to update
// this context for subsequent GPS frames.
type GpsHomeFrame struct {
	Latitude  int32
	Longitude int32
}

type gpsHomeFieldDef struct {
	Name      string
	Predictor Predictor
	Encoding  Encoding
}

// GpsHomeFrameDef is the parsed schema for GPS home frames: always
// exactly GPS_home[0] (latitude) and GPS_home[1] (longitude), plus any
// further fields a firmware happens to log, whose values are decoded
// (to keep the reader aligned) and discarded.
type GpsHomeFrameDef struct {
	fields [2]gpsHomeFieldDef
	rest   []Encoding
}

func (d *GpsHomeFrameDef) validate(checkPredictor func(Predictor) error, _ func(Unit) error) error {
	for _, f := range d.fields {
		if err := checkPredictor(f.Predictor); err != nil {
			return err
		}
	}
	return nil
}

// Parse decodes one GPS home frame. Both fields are always signed.
func (d *GpsHomeFrameDef) Parse(data *Reader, headers *Headers) (*GpsHomeFrame, error) {
	encodings := [2]Encoding{d.fields[0].Encoding, d.fields[1].Encoding}
	raw, err := readFieldValues(data, encodings[:])
	if err != nil {
		return nil, err
	}
	if len(d.rest) > 0 {
		if _, err := readFieldValues(data, d.rest); err != nil {
			return nil, err
		}
	}

	ctx := newPredictorContext(headers)
	lat := d.fields[0].Predictor.Apply(raw[0], true, nil, &ctx)
	lon := d.fields[1].Predictor.Apply(raw[1], true, nil, &ctx)

	return &GpsHomeFrame{Latitude: asSigned(lat), Longitude: asSigned(lon)}, nil
}

type gpsHomeFrameDefBuilder struct {
	names, predictors, encodings, signs *string
}

func (b *gpsHomeFrameDefBuilder) update(prop dataFrameProperty, value string) {
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

func (b *gpsHomeFrameDefBuilder) build() (*GpsHomeFrameDef, error) {
	if b.names == nil && b.predictors == nil && b.encodings == nil && b.signs == nil {
		return nil, nil
	}

	names, err := parseNames(FrameGpsHome, b.names)
	if err != nil {
		return nil, err
	}
	predictors, err := parsePredictors(FrameGpsHome, b.predictors)
	if err != nil {
		return nil, err
	}
	encodings, err := parseEncodings(FrameGpsHome, b.encodings)
	if err != nil {
		return nil, err
	}
	signs, err := parseSigns(FrameGpsHome, b.signs)
	if err != nil {
		return nil, err
	}

	n := min(len(names), len(predictors), len(encodings), len(signs))
	if n != max(len(names), len(predictors), len(encodings), len(signs)) {
		traceWarn("gps home frame definition headers are of unequal length; ignoring entries past %d", n)
	}
	if n < 2 || names[0] != "GPS_home[0]" || !signs[0] {
		return nil, &FieldError{Frame: FrameGpsHome, Field: "GPS_home[0]"}
	}
	if names[1] != "GPS_home[1]" || !signs[1] {
		return nil, &FieldError{Frame: FrameGpsHome, Field: "GPS_home[1]"}
	}

	def := &GpsHomeFrameDef{
		fields: [2]gpsHomeFieldDef{
			{Name: names[0], Predictor: predictors[0], Encoding: encodings[0]},
			{Name: names[1], Predictor: predictors[1], Encoding: encodings[1]},
		},
	}
	if n > 2 {
		traceWarn("expected only GPS_home[0] & GPS_home[1], found %d more fields", n-2)
		def.rest = append(def.rest, encodings[2:n]...)
	}

	return def, nil
}
