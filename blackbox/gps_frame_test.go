package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGpsFrameDefParseWithLastMainTime(t *testing.T) {
	def := &GpsFrameDef{
		fields: []GpsFieldDef{
			{Name: "GPS_numSat", Predictor: PredictorZero, Encoding: EncodingVariable, Unit: UnitUnitless},
		},
	}

	var buf []byte
	buf = append(buf, encVar(50)...) // time offset
	buf = append(buf, encVar(9)...)  // GPS_numSat

	frame, err := def.Parse(NewReader(buf), &Headers{}, 1000, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), frame.Time)
	require.Len(t, frame.Values, 1)
	assert.Equal(t, uint32(9), frame.Values[0])
}

func TestGpsFrameDefParseNoPriorMainFrame(t *testing.T) {
	def := &GpsFrameDef{}

	frame, err := def.Parse(NewReader(encVar(25)), &Headers{}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), frame.Time)
}

func TestGpsFrameDefParseHomeLatLon(t *testing.T) {
	def := &GpsFrameDef{
		fields: []GpsFieldDef{
			{Name: "GPS_coord[0]", Predictor: PredictorHomeLat, Encoding: EncodingVariableSigned},
			{Name: "GPS_coord[1]", Predictor: PredictorHomeLon, Encoding: EncodingVariableSigned},
		},
	}
	home := &GpsHomeFrame{Latitude: 100, Longitude: 200}

	var buf []byte
	buf = append(buf, encVar(0)...)      // time offset
	buf = append(buf, encVarSigned(5)...) // delta off home lat
	buf = append(buf, encVarSigned(-5)...) // delta off home lon

	frame, err := def.Parse(NewReader(buf), &Headers{}, 0, home)
	require.NoError(t, err)
	require.Len(t, frame.Values, 2)
	assert.Equal(t, int32(105), int32(frame.Values[0]))
	assert.Equal(t, int32(195), int32(frame.Values[1]))
}

func TestGpsUnitFromName(t *testing.T) {
	assert.Equal(t, UnitGpsCoordinate, gpsUnitFromName("GPS_coord[0]"))
	assert.Equal(t, UnitAltitude, gpsUnitFromName("GPS_altitude"))
	assert.Equal(t, UnitVelocity, gpsUnitFromName("GPS_speed"))
	assert.Equal(t, UnitGpsHeading, gpsUnitFromName("GPS_ground_course"))
	assert.Equal(t, UnitUnitless, gpsUnitFromName("GPS_numSat"))
}
