package blackbox

import (
	"strconv"
	"strings"
)

// asSigned bit-preservingly reinterprets a raw u32 as i32: the same bit
// pattern, not a value-preserving conversion. This is the only legal way
// to recover a field's signed domain value from the generic u32 storage.
func asSigned(v uint32) int32 { return int32(v) }

// parseSmallUint parses a short decimal token (a predictor or encoding
// number) into an int, rejecting anything non-numeric.
func parseSmallUint(tok string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil || n < 0 {
		return 0, errRetrySentinel
	}
	return n, nil
}

// toBaseField strips an indexed field name's "[n]" suffix, so "motor[0]"
// and "motor" match the same unit/filter rule.
func toBaseField(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}

// splitCSV splits a header's comma-separated value list; unlike
// strings.Split it never returns a single empty-string element for an
// empty input.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
