package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mainFrameDefFixture() *MainFrameDef {
	return &MainFrameDef{
		iteration: MainFieldDef{Name: "loopIteration", PredictorIntra: PredictorZero, PredictorInter: PredictorIncrement, EncodingIntra: EncodingVariable, EncodingInter: EncodingNull},
		time:      MainFieldDef{Name: "time", PredictorIntra: PredictorZero, PredictorInter: PredictorStraightLine, EncodingIntra: EncodingVariable, EncodingInter: EncodingVariableSigned},
		fields: []MainFieldDef{
			{Name: "vbat", PredictorIntra: PredictorZero, PredictorInter: PredictorPrevious, EncodingIntra: EncodingVariable, EncodingInter: EncodingVariableSigned},
		},
		motorZero: -1,
	}
}

func TestMainFrameDefParseIntra(t *testing.T) {
	def := mainFrameDefFixture()

	var buf []byte
	buf = append(buf, encVar(10)...)  // loopIteration
	buf = append(buf, encVar(1000)...) // time
	buf = append(buf, encVar(126)...)  // vbat

	frame, err := def.ParseIntra(NewReader(buf), &Headers{}, nil)
	require.NoError(t, err)
	assert.True(t, frame.Intra)
	assert.Equal(t, uint32(10), frame.Iteration)
	assert.Equal(t, uint64(1000), frame.Time)
	require.Len(t, frame.Values, 1)
	assert.Equal(t, uint32(126), frame.Values[0])
}

func TestMainFrameDefParseInterAppliesPreviousPredictor(t *testing.T) {
	def := mainFrameDefFixture()

	last := &RawMainFrame{Intra: true, Iteration: 10, Time: 1000, Values: []uint32{126}}

	var buf []byte
	buf = append(buf, encVarSigned(5)...) // time offset
	buf = append(buf, encVarSigned(-2)...) // vbat delta

	frame, err := def.ParseInter(NewReader(buf), &Headers{}, last, nil, 0)
	require.NoError(t, err)
	assert.False(t, frame.Intra)
	assert.Equal(t, uint32(11), frame.Iteration)
	assert.Equal(t, uint64(1005), frame.Time)
	require.Len(t, frame.Values, 1)
	assert.Equal(t, int32(124), int32(frame.Values[0]))
}

func TestMainFrameDefParseInterAccountsForSkippedFrames(t *testing.T) {
	def := mainFrameDefFixture()
	last := &RawMainFrame{Intra: true, Iteration: 10, Time: 1000, Values: []uint32{126}}

	var buf []byte
	buf = append(buf, encVarSigned(0)...)
	buf = append(buf, encVarSigned(0)...)

	frame, err := def.ParseInter(NewReader(buf), &Headers{}, last, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(14), frame.Iteration) // 10 + 1 + 3 skipped
}

func TestMainFrameDefFieldAccessors(t *testing.T) {
	def := mainFrameDefFixture()
	assert.Equal(t, 2, def.Len())

	name, unit, _ := def.Field(0)
	assert.Equal(t, "loopIteration", name)
	assert.Equal(t, UnitFrameTime, unit)

	name, _, _ = def.Field(1)
	assert.Equal(t, "vbat", name)
}

func TestMainFrameDefMotor0Index(t *testing.T) {
	def := mainFrameDefFixture()
	_, ok := def.motor0Index()
	assert.False(t, ok)

	def.motorZero = 0
	idx, ok := def.motor0Index()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}
