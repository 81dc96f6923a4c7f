package blackbox

import (
	"strconv"
	"strings"
)

// Firmware-specific bit-to-name tables for the flag fields (flightMode,
// state, failsafe phase) and the Disarm event's reason code, each
// firmware assigns differently. Betaflight and INAV diverge completely
// here; there's no shared numbering to fall back on.
var betaflightFlightModeNames = []string{
	"ARM", "ANGLE", "HORIZON", "MAG", "HEAD_FREE", "PASSTHRU", "FAILSAFE",
	"GPS_RESCUE", "ANTI_GRAVITY", "HEAD_ADJUST", "CAM_STAB", "BEEPER_ON",
	"LED_LOW", "CALIBRATION", "OSD", "TELEMETRY", "SERVO1", "SERVO2",
	"SERVO3", "BLACKBOX", "AIRMODE", "3D", "FPV_ANGLE_MIX", "BLACKBOX_ERASE",
	"CAMERA1", "CAMERA2", "CAMERA3", "TURTLE", "PREARM", "BEEP_GPS_COUNT",
	"VTX_PIT_MODE", "PARALYZE", "USER1", "USER2", "USER3", "USER4",
	"PID_AUDIO", "ACRO_TRAINER", "VTX_CONTROL_DISABLE", "LAUNCH_CONTROL",
	"MSP_OVERRIDE", "STICK_COMMAND_DISABLE", "BEEPER_MUTE",
}

var inavFlightModeNames = []string{
	"ARM", "ANGLE", "HORIZON", "NAV_ALTHOLD", "HEADING_HOLD", "HEAD_FREE",
	"HEAD_ADJUST", "CAM_STAB", "NAV_RTH", "NAV_POSHOLD", "MANUAL",
	"BEEPER_ON", "LED_LOW", "LIGHTS", "NAV_LAUNCH", "OSD", "TELEMETRY",
	"BLACKBOX", "FAILSAFE", "NAV_WP", "AIRMODE", "HOME_RESET", "GCS_NAV",
	"KILLSWITCH", "SURFACE", "FLAPERON", "TURN_ASSIST", "AUTOTRIM",
	"AUTOTUNE", "CAMERA1", "CAMERA2", "CAMERA3", "OSD_ALT1", "OSD_ALT2",
	"OSD_ALT3", "NAV_COURSE_HOLD", "BRAKING", "USER1", "USER2",
	"FPV_ANGLE_MIX", "LOITER_DIR_CHN", "MSP_RC_OVERRIDE", "PREARM",
	"TURTLE", "NAV_CRUISE", "AUTOLEVEL", "PLAN_WP_MISSION", "SOARING",
	"USER3", "CHANGE_MISSION",
}

var betaflightStateNames = []string{
	"GPS_FIX_HOME", "GPS_FIX", "GPS_FIX_EVER",
}

var inavStateNames = []string{
	"GPS_FIX_HOME", "GPS_FIX", "CALIBRATE_MAG", "SMALL_ANGLE", "",
	"ANTI_WINDUP", "FLAPERON_AVAILABLE", "NAV_MOTOR_STOP_OR_IDLE",
	"COMPASS_CALIBRATED", "ACCELEROMETER_CALIBRATED", "", "NAV_CRUISE_BRAKING",
	"NAV_CRUISE_BRAKING_BOOST", "NAV_CRUISE_BRAKING_LOCKED",
	"NAV_EXTRA_ARMING_SAFETY_BYPASSED",
}

var betaflightDisarmReasons = []string{
	"ARMING_DISABLED", "FAILSAFE", "THROTTLE_TIMEOUT", "STICKS", "SWITCH",
	"CRASH_PROTECTION", "RUNAWAY_TAKEOFF", "GPS_RESCUE", "SERIAL_COMMAND",
}

var inavDisarmReasons = []string{
	"NONE", "TIMEOUT", "STICKS", "SWITCH_3D", "SWITCH", "KILLSWITCH",
	"FAILSAFE", "NAVIGATION", "LANDING",
}

// FailsafePhase is not a bitset like flightMode/state: it's a small
// firmware-specific enum, one name per raw value.
var betaflightFailsafePhaseNames = []string{
	"IDLE", "RX_LOSS_DETECTED", "LANDING", "LANDED", "RX_LOSS_MONITORING",
	"RX_LOSS_RECOVERED", "GPS_RESCUE",
}

var inavFailsafePhaseNames = []string{
	"IDLE", "RX_LOSS_DETECTED", "RX_LOSS_IDLE", "RETURN_TO_HOME", "LANDING",
	"LANDED", "RX_LOSS_MONITORING", "RX_LOSS_RECOVERED",
}

// FlagNames decodes a raw bitmask into the set firmware's names for
// whichever bits are set, in ascending bit order. Unknown bits (beyond
// the known table, or reserved/unnamed within it) are rendered as
// "BIT<n>" rather than silently dropped.
func FlagNames(raw uint32, table []string) []string {
	var names []string
	for bit := 0; bit < 32; bit++ {
		if raw&(1<<uint(bit)) == 0 {
			continue
		}
		if bit < len(table) && table[bit] != "" {
			names = append(names, table[bit])
		} else {
			names = append(names, "BIT"+strconv.Itoa(bit))
		}
	}
	return names
}

// flightModeTable and stateTable pick the right bit-name table for a
// firmware kind.
func flightModeTable(fw FirmwareKind) []string {
	if fw.IsInav() {
		return inavFlightModeNames
	}
	return betaflightFlightModeNames
}

func stateTable(fw FirmwareKind) []string {
	if fw.IsInav() {
		return inavStateNames
	}
	return betaflightStateNames
}

// DisarmReasonName maps a Disarm event's raw reason code to the
// firmware-specific name, or "UNKNOWN" if out of range.
func DisarmReasonName(fw FirmwareKind, reason uint32) string {
	table := betaflightDisarmReasons
	if fw.IsInav() {
		table = inavDisarmReasons
	}
	if int(reason) >= len(table) {
		return "UNKNOWN"
	}
	return table[reason]
}

// FlightModeNames decodes a flightModeFlags raw value for the firmware
// that produced it.
func FlightModeNames(fw FirmwareKind, raw uint32) []string {
	return FlagNames(raw, flightModeTable(fw))
}

// StateNames decodes a stateFlags raw value for the firmware that
// produced it.
func StateNames(fw FirmwareKind, raw uint32) []string {
	return FlagNames(raw, stateTable(fw))
}

// FailsafePhaseName maps a failsafePhase raw value to the firmware-specific
// name, or "UNKNOWN" if out of range.
func FailsafePhaseName(fw FirmwareKind, raw uint32) string {
	table := betaflightFailsafePhaseNames
	if fw.IsInav() {
		table = inavFailsafePhaseNames
	}
	if int(raw) >= len(table) {
		return "UNKNOWN"
	}
	return table[raw]
}

// FlagString joins decoded flag names the way the firmware's own OSD
// renders them: pipe-separated, or "0" for an empty set.
func FlagString(names []string) string {
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}
