package blackbox

// RawSlowFrame is one decoded Slow ('S') frame's field vector.
type RawSlowFrame struct {
	Values []uint32
}

// SlowFieldDef describes one field of the slow frame schema.
type SlowFieldDef struct {
	Name      string
	Predictor Predictor
	Encoding  Encoding
	Signed    bool
	Unit      Unit
}

// SlowFrameDef is the parsed, validated schema for slow frames: a flat
// field list with no structurally-required leading fields.
type SlowFrameDef struct {
	fields []SlowFieldDef
}

func (d *SlowFrameDef) Len() int { return len(d.fields) }

func (d *SlowFrameDef) Field(i int) (name string, unit Unit, signed bool) {
	f := d.fields[i]
	return f.Name, f.Unit, f.Signed
}

func (d *SlowFrameDef) validate(checkPredictor func(Predictor) error, checkUnit func(Unit) error) error {
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

// Parse decodes one slow frame. Slow frames carry no inter-frame
// history of their own: every field's predictor runs against a fresh
// context, so only the header-derived constant predictors (MinThrottle,
// VBatReference, MinMotor, FifteenHundred) have any effect.
func (d *SlowFrameDef) Parse(data *Reader, headers *Headers) (*RawSlowFrame, error) {
	encodings := make([]Encoding, len(d.fields))
	for i, f := range d.fields {
		encodings[i] = f.Encoding
	}
	raw, err := readFieldValues(data, encodings)
	if err != nil {
		return nil, err
	}

	values := make([]uint32, len(d.fields))
	for i, f := range d.fields {
		ctx := newPredictorContext(headers)
		values[i] = f.Predictor.Apply(raw[i], f.Signed, nil, &ctx)
	}

	return &RawSlowFrame{Values: values}, nil
}

type slowFrameDefBuilder struct {
	names, predictors, encodings, signs *string
}

func (b *slowFrameDefBuilder) update(prop dataFrameProperty, value string) {
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

func (b *slowFrameDefBuilder) build() (*SlowFrameDef, error) {
	names, err := parseNames(FrameSlow, b.names)
	if err != nil {
		return nil, err
	}
	predictors, err := parsePredictors(FrameSlow, b.predictors)
	if err != nil {
		return nil, err
	}
	encodings, err := parseEncodings(FrameSlow, b.encodings)
	if err != nil {
		return nil, err
	}
	signs, err := parseSigns(FrameSlow, b.signs)
	if err != nil {
		return nil, err
	}

	n := min(len(names), len(predictors), len(encodings), len(signs))
	if n != max(len(names), len(predictors), len(encodings), len(signs)) {
		traceWarn("slow frame definition headers are of unequal length; ignoring entries past %d", n)
	}

	fields := make([]SlowFieldDef, n)
	for i := range fields {
		fields[i] = SlowFieldDef{
			Name: names[i], Predictor: predictors[i], Encoding: encodings[i], Signed: signs[i],
			Unit: slowUnitFromName(names[i]),
		}
	}

	return &SlowFrameDef{fields: fields}, nil
}

func slowUnitFromName(name string) Unit {
	switch name {
	case "flightModeFlags":
		return UnitFlightMode
	case "stateFlags":
		return UnitState
	case "failsafePhase":
		return UnitFailsafePhase
	case "rxSignalReceived", "rxFlightChannelsValid":
		return UnitBoolean
	default:
		return UnitUnitless
	}
}
