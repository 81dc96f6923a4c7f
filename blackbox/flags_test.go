package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagNamesKnownAndUnknownBits(t *testing.T) {
	table := []string{"A", "B", "", "D"}
	names := FlagNames(0b1111, table)
	assert.Equal(t, []string{"A", "B", "BIT2", "D"}, names)
}

func TestFlagNamesBeyondTable(t *testing.T) {
	names := FlagNames(1<<5, []string{"A"})
	assert.Equal(t, []string{"BIT5"}, names)
}

func TestFlagNamesEmpty(t *testing.T) {
	assert.Nil(t, FlagNames(0, betaflightFlightModeNames))
}

func TestFlightModeNamesPicksFirmwareTable(t *testing.T) {
	bf := FlightModeNames(FirmwareBetaflight, 1)
	assert.Equal(t, []string{"ARM"}, bf)

	inav := FlightModeNames(FirmwareInav, 1)
	assert.Equal(t, []string{"ARM"}, inav)

	inavAngle := FlightModeNames(FirmwareInav, 0b10)
	assert.Equal(t, []string{"ANGLE"}, inavAngle)

	// Bit 3 diverges between firmwares: MAG (Betaflight) vs NAV_ALTHOLD (INAV).
	bfBit3 := FlightModeNames(FirmwareBetaflight, 1<<3)
	assert.Equal(t, []string{"MAG"}, bfBit3)
	inavBit3 := FlightModeNames(FirmwareInav, 1<<3)
	assert.Equal(t, []string{"NAV_ALTHOLD"}, inavBit3)
}

func TestStateNamesPicksFirmwareTable(t *testing.T) {
	bf := StateNames(FirmwareBetaflight, 1)
	assert.Equal(t, []string{"GPS_FIX_HOME"}, bf)

	inav := StateNames(FirmwareInav, 1)
	assert.Equal(t, []string{"GPS_FIX_HOME"}, inav)
}

func TestDisarmReasonName(t *testing.T) {
	assert.Equal(t, "STICKS", DisarmReasonName(FirmwareBetaflight, 3))
	assert.Equal(t, "STICKS", DisarmReasonName(FirmwareInav, 2))
	assert.Equal(t, "UNKNOWN", DisarmReasonName(FirmwareBetaflight, 999))
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "0", FlagString(nil))
	assert.Equal(t, "A|B", FlagString([]string{"A", "B"}))
}

func TestFailsafePhaseName(t *testing.T) {
	assert.Equal(t, "LANDING", FailsafePhaseName(FirmwareBetaflight, 2))
	assert.Equal(t, "RETURN_TO_HOME", FailsafePhaseName(FirmwareInav, 3))
	assert.Equal(t, "LANDING", FailsafePhaseName(FirmwareInav, 4))
	assert.Equal(t, "UNKNOWN", FailsafePhaseName(FirmwareBetaflight, 99))
}
