package blackbox

// RawMainFrame is one decoded Intra or Inter frame: a fully-predicted
// loop iteration, timestamp, and field vector, ready for unit
// conversion or filtering by a caller.
type RawMainFrame struct {
	Intra     bool
	Iteration uint32
	Time      uint64
	Values    []uint32
}

// MainFieldDef describes one field of the main frame schema beyond the
// two structurally-required leading fields (loopIteration, time).
type MainFieldDef struct {
	Name           string
	PredictorIntra Predictor
	PredictorInter Predictor
	EncodingIntra  Encoding
	EncodingInter  Encoding
	Signed         bool
	Unit           Unit
}

// MainFrameDef is the parsed, validated schema for Intra and Inter main
// frames: the two leading fields every log has plus whatever additional
// fields the firmware logged.
type MainFrameDef struct {
	iteration MainFieldDef
	time      MainFieldDef
	fields    []MainFieldDef
	motorZero int // -1 if no motor[0] field
}

// Len is the field count exposed through generic indexed access: the
// leading loopIteration field plus every field after the structurally
// required (but separately-accessed) time field. The time field itself
// is never indexable here -- a frame's reconstructed time is only
// available through RawMainFrame.Time / MainFrame.Time.
func (d *MainFrameDef) Len() int { return len(d.fields) + 1 }

// Field returns the name/unit/signedness for generic field index i (0
// is loopIteration, 1.. are the fields following "time").
func (d *MainFrameDef) Field(i int) (name string, unit Unit, signed bool) {
	if i == 0 {
		return d.iteration.Name, UnitFrameTime, d.iteration.Signed
	}
	f := d.fields[i-1]
	return f.Name, f.Unit, f.Signed
}

func (d *MainFrameDef) motor0Index() (int, bool) {
	if d.motorZero < 0 {
		return 0, false
	}
	return d.motorZero, true
}

func (d *MainFrameDef) validate(checkPredictor func(Predictor) error, checkUnit func(Unit) error) error {
	for _, f := range d.fields {
		if err := checkPredictor(f.PredictorIntra); err != nil {
			return err
		}
		if err := checkPredictor(f.PredictorInter); err != nil {
			return err
		}
		if err := checkUnit(f.Unit); err != nil {
			return err
		}
	}
	return nil
}

// ParseIntra decodes one Intra ('I') frame: loopIteration and time are
// read directly (never predicted against history beyond their own Zero
// predictor), then the remaining fields run through the shared field
// kernel with each field's Intra encoding/predictor.
func (d *MainFrameDef) ParseIntra(data *Reader, headers *Headers, last *RawMainFrame) (*RawMainFrame, error) {
	iteration, err := decodeVariable(data)
	if err != nil {
		return nil, err
	}
	traceField("loopIteration=%d", iteration)

	rawTime, err := decodeVariable(data)
	if err != nil {
		return nil, err
	}
	time := uint64(rawTime)
	traceField("time=%d", time)

	encodings := make([]Encoding, len(d.fields))
	for i, f := range d.fields {
		encodings[i] = f.EncodingIntra
	}
	raw, err := readFieldValues(data, encodings)
	if err != nil {
		return nil, err
	}

	values := make([]uint32, len(d.fields))
	for i, f := range d.fields {
		ctx := newPredictorContext(headers)
		if last != nil {
			ctx.setLast(last.Values[i], f.Signed)
		}
		values[i] = f.PredictorIntra.Apply(raw[i], f.Signed, values, &ctx)
	}

	return &RawMainFrame{Intra: true, Iteration: iteration, Time: time, Values: values}, nil
}

// ParseInter decodes one Inter ('P') frame. The loop iteration
// increments by 1 plus however many frames were skipped by corruption
// recovery; the timestamp is reconstructed by straight-line prediction
// over the last two main frames' times (falling back to "last" alone
// when the frame immediately prior was itself an Intra frame, which
// resets the time history), then offset by the decoded signed delta.
func (d *MainFrameDef) ParseInter(
	data *Reader,
	headers *Headers,
	last, lastLast *RawMainFrame,
	skippedFrames uint32,
) (*RawMainFrame, error) {
	var iteration uint32
	if last != nil {
		iteration = last.Iteration
	}
	iteration += 1 + skippedFrames

	var lastTime uint64
	var haveLastLastTime bool
	var lastLastTime uint64
	if last != nil {
		lastTime = last.Time
		if !last.Intra && lastLast != nil {
			lastLastTime = lastLast.Time
			haveLastLastTime = true
		}
	}

	predictedTime := lastTime
	if haveLastLastTime {
		wide := 2*int64(lastTime) - int64(lastLastTime)
		if wide >= 0 {
			predictedTime = uint64(wide)
		}
	}

	offset, err := decodeVariableSigned(data)
	if err != nil {
		return nil, err
	}
	time := predictedTime + uint64(offset)
	if offset < 0 && uint64(-int64(offset)) > predictedTime {
		time = 0
	}
	traceField("time=%d offset=%d", time, offset)

	encodings := make([]Encoding, len(d.fields))
	for i, f := range d.fields {
		encodings[i] = f.EncodingInter
	}
	raw, err := readFieldValues(data, encodings)
	if err != nil {
		return nil, err
	}

	values := make([]uint32, len(d.fields))
	for i, f := range d.fields {
		ctx := predictorContextWithSkipped(headers, skippedFrames)
		if last != nil {
			ctx.setLast(last.Values[i], f.Signed)
		}
		if lastLast != nil {
			ctx.setLastLast(lastLast.Values[i])
		}
		values[i] = f.PredictorInter.Apply(raw[i], f.Signed, values, &ctx)
	}

	return &RawMainFrame{Intra: false, Iteration: iteration, Time: time, Values: values}, nil
}

// mainFrameDefBuilder accumulates "Field I/P <property>" header lines.
type mainFrameDefBuilder struct {
	names                        *string
	predictorsIntra, predictorsInter *string
	encodingsIntra, encodingsInter   *string
	signs                        *string
}

func (b *mainFrameDefBuilder) update(kind FrameKind, prop dataFrameProperty, value string) {
	switch prop {
	case propName:
		b.names = &value
	case propSigned:
		b.signs = &value
	case propPredictor:
		if kind == FrameIntra {
			b.predictorsIntra = &value
		} else {
			b.predictorsInter = &value
		}
	case propEncoding:
		if kind == FrameIntra {
			b.encodingsIntra = &value
		} else {
			b.encodingsInter = &value
		}
	}
}

func (b *mainFrameDefBuilder) build() (*MainFrameDef, error) {
	names, err := parseNames(FrameIntra, b.names)
	if err != nil {
		return nil, err
	}
	predictorsIntra, err := parsePredictors(FrameIntra, b.predictorsIntra)
	if err != nil {
		return nil, err
	}
	predictorsInter, err := parsePredictors(FrameInter, b.predictorsInter)
	if err != nil {
		return nil, err
	}
	encodingsIntra, err := parseEncodings(FrameIntra, b.encodingsIntra)
	if err != nil {
		return nil, err
	}
	encodingsInter, err := parseEncodings(FrameInter, b.encodingsInter)
	if err != nil {
		return nil, err
	}
	signs, err := parseSigns(FrameIntra, b.signs)
	if err != nil {
		return nil, err
	}

	n := min(len(names), len(predictorsIntra), len(predictorsInter), len(encodingsIntra), len(encodingsInter), len(signs))
	if n != max(len(names), len(predictorsIntra), len(predictorsInter), len(encodingsIntra), len(encodingsInter), len(signs)) {
		traceWarn("main frame definition headers are of unequal length; ignoring entries past %d", n)
	}
	if n < 2 {
		return nil, &FieldError{Frame: FrameIntra, Field: "loopIteration"}
	}

	iteration := MainFieldDef{
		Name: names[0], PredictorIntra: predictorsIntra[0], PredictorInter: predictorsInter[0],
		EncodingIntra: encodingsIntra[0], EncodingInter: encodingsInter[0], Signed: signs[0],
	}
	if iteration.Name != "loopIteration" || iteration.PredictorIntra != PredictorZero ||
		iteration.PredictorInter != PredictorIncrement || iteration.EncodingIntra != EncodingVariable ||
		iteration.EncodingInter != EncodingNull {
		return nil, &FieldError{Frame: FrameIntra, Field: "loopIteration"}
	}

	time := MainFieldDef{
		Name: names[1], PredictorIntra: predictorsIntra[1], PredictorInter: predictorsInter[1],
		EncodingIntra: encodingsIntra[1], EncodingInter: encodingsInter[1], Signed: signs[1],
	}
	if time.Name != "time" || time.PredictorIntra != PredictorZero || time.PredictorInter != PredictorStraightLine ||
		time.EncodingIntra != EncodingVariable || time.EncodingInter != EncodingVariableSigned {
		return nil, &FieldError{Frame: FrameIntra, Field: "time"}
	}

	fields := make([]MainFieldDef, 0, n-2)
	motorZero := -1
	for i := 2; i < n; i++ {
		f := MainFieldDef{
			Name: names[i], PredictorIntra: predictorsIntra[i], PredictorInter: predictorsInter[i],
			EncodingIntra: encodingsIntra[i], EncodingInter: encodingsInter[i], Signed: signs[i],
			Unit: mainUnitFromName(names[i]),
		}
		if f.Name == "motor[0]" {
			motorZero = len(fields)
		}
		fields = append(fields, f)
	}

	return &MainFrameDef{iteration: iteration, time: time, fields: fields, motorZero: motorZero}, nil
}

// mainUnitFromName maps a handful of well-known main-frame field names
// to the physical unit their raw value should be interpreted in; every
// other field (including indexed names like "motor[0]") is unitless.
func mainUnitFromName(name string) Unit {
	switch toBaseField(name) {
	case "vbat", "vbatLatest":
		return UnitVoltage
	case "amperageLatest":
		return UnitAmperage
	case "accSmooth":
		return UnitAcceleration
	case "gyroADC":
		return UnitRotation
	default:
		return UnitUnitless
	}
}
