package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGpsHomeFrameDefParse(t *testing.T) {
	def := &GpsHomeFrameDef{
		fields: [2]gpsHomeFieldDef{
			{Name: "GPS_home[0]", Predictor: PredictorZero, Encoding: EncodingVariableSigned},
			{Name: "GPS_home[1]", Predictor: PredictorZero, Encoding: EncodingVariableSigned},
		},
	}

	var buf []byte
	buf = append(buf, encVarSigned(-100)...)
	buf = append(buf, encVarSigned(200)...)

	frame, err := def.Parse(NewReader(buf), &Headers{})
	require.NoError(t, err)
	assert.Equal(t, int32(-100), frame.Latitude)
	assert.Equal(t, int32(200), frame.Longitude)
}

func TestGpsHomeFrameDefParseSkipsExtraFields(t *testing.T) {
	def := &GpsHomeFrameDef{
		fields: [2]gpsHomeFieldDef{
			{Name: "GPS_home[0]", Predictor: PredictorZero, Encoding: EncodingVariableSigned},
			{Name: "GPS_home[1]", Predictor: PredictorZero, Encoding: EncodingVariableSigned},
		},
		rest: []Encoding{EncodingVariable},
	}

	var buf []byte
	buf = append(buf, encVarSigned(1)...)
	buf = append(buf, encVarSigned(2)...)
	buf = append(buf, encVar(42)...)

	frame, err := def.Parse(NewReader(buf), &Headers{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), frame.Latitude)
	assert.Equal(t, int32(2), frame.Longitude)
}
