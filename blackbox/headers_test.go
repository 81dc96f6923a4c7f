package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirmwareVersionFromString(t *testing.T) {
	v, ok := firmwareVersionFromString("4.3.0")
	require.True(t, ok)
	assert.Equal(t, FirmwareVersion{Major: 4, Minor: 3, Patch: 0}, v)
	assert.Equal(t, "4.3.0", v.String())

	_, ok = firmwareVersionFromString("4.3")
	assert.False(t, ok)

	_, ok = firmwareVersionFromString("a.b.c")
	assert.False(t, ok)
}

func TestParseFirmwareBetaflight(t *testing.T) {
	fw, err := parseFirmware("Betaflight 4.3.0")
	require.NoError(t, err)
	assert.Equal(t, FirmwareBetaflight, fw.Kind)
	assert.Equal(t, FirmwareVersion{4, 3, 0}, fw.Version)
}

func TestParseFirmwareInav(t *testing.T) {
	fw, err := parseFirmware("INAV 5.1.0")
	require.NoError(t, err)
	assert.Equal(t, FirmwareInav, fw.Kind)
}

func TestParseFirmwareEmuFlightRejected(t *testing.T) {
	_, err := parseFirmware("EmuFlight 0.3.4")
	require.Error(t, err)
}

func TestParseFirmwareUnknown(t *testing.T) {
	_, err := parseFirmware("ArduPilot 4.0.0")
	require.Error(t, err)
}

func TestParseFirmwareMalformed(t *testing.T) {
	_, err := parseFirmware("NotAVersionString")
	require.Error(t, err)
}

func TestMotorOutputRangeFromString(t *testing.T) {
	r, ok := motorOutputRangeFromString("1070, 2000")
	require.True(t, ok)
	assert.Equal(t, MotorOutputRange{Min: 1070, Max: 2000}, r)

	_, ok = motorOutputRangeFromString("not-a-range")
	assert.False(t, ok)
}

func TestFrameDefHeaderParts(t *testing.T) {
	kind, prop, ok := frameDefHeaderParts("Field I name")
	require.True(t, ok)
	assert.Equal(t, FrameIntra, kind)
	assert.Equal(t, propName, prop)

	_, _, ok = frameDefHeaderParts("vbatref")
	assert.False(t, ok)

	_, _, ok = frameDefHeaderParts("Field Z name")
	assert.False(t, ok)
}

func TestFirmwareKindString(t *testing.T) {
	assert.Equal(t, "Betaflight", FirmwareBetaflight.String())
	assert.Equal(t, "INAV", FirmwareInav.String())
	assert.Equal(t, "Unknown", FirmwareUnknown.String())
}

func TestParseHeadersIncompleteInput(t *testing.T) {
	_, err := ParseHeaders(NewReader(nil))
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseHeadersMissingFirmware(t *testing.T) {
	log := Marker + "H Data version:2\n"
	_, err := ParseHeaders(NewReader([]byte(log)))
	require.Error(t, err)
}
