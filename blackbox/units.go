package blackbox

// Physical-unit conversions for the small set of fields whose raw ADC or
// gyro counts need scaling before they mean anything. Everything else
// (GPS coordinates, altitude, flags) is either already in natural units or
// has no conversion to apply.

const adcVref = 33.0

// CurrentMeterConfig mirrors a firmware current-meter calibration header.
type CurrentMeterConfig struct {
	Offset int32
	Scale  int32
}

// VBatConfig mirrors a firmware battery-voltage calibration header.
type VBatConfig struct {
	Scale int32
}

// accelerationFromRaw converts a raw accelerometer count to m/s^2, scaled
// by the firmware's acc_1G calibration header.
func accelerationFromRaw(raw int32, headers *Headers) float64 {
	if headers.Acceleration1G == 0 {
		traceWarn("acceleration field decoded without an acc_1G header")
		return 0
	}
	gs := float64(raw) / float64(headers.Acceleration1G)
	return gs * 9.80665
}

// angularVelocityFromRaw converts a raw gyro count to degrees/second. The
// firmware already reports gyro samples in that unit; no scale needed.
func angularVelocityFromRaw(raw int32) float64 {
	return float64(raw)
}

// electricCurrentFromRaw converts a raw ADC current reading to amperes
// using the configured current-meter offset and scale.
func electricCurrentFromRaw(raw int32, headers *Headers) float64 {
	cfg := headers.CurrentMeter
	if cfg == nil {
		traceWarn("amperage field decoded without a currentMeter header")
		return 0
	}
	milliamps := float64(raw) * adcVref * 100 / 4095
	milliamps -= float64(cfg.Offset)
	return (milliamps * 10000) / float64(cfg.Scale)
}

// electricPotentialFromRaw converts a raw ADC voltage reading to volts
// using the configured vbat scale.
func electricPotentialFromRaw(raw uint32, headers *Headers) float64 {
	cfg := headers.VBat
	if cfg == nil {
		traceWarn("voltage field decoded without a vbat header")
		return 0
	}
	return float64(raw) * adcVref * 10 * float64(cfg.Scale) / 4095
}

// timeFromRaw is the identity: frame time is always stored and reported in
// raw microseconds.
func timeFromRaw(raw uint64) uint64 { return raw }
