package common

import (
	"strconv"
	"time"
)

const (
	ARKDecimals = 8 // ARK has 8 decimals (arktoshi)
)

// ArkEpoch is the genesis time ARK transaction timestamps are counted from
var ArkEpoch = time.Date(2017, time.March, 21, 13, 0, 0, 0, time.UTC)

// ArktoshiToARK converts arktoshi to ARK string without float precision loss
func ArktoshiToARK(arktoshi int64) string {
	if arktoshi < 0 {
		return "-" + formatWithDecimals(uint64(-arktoshi), ARKDecimals)
	}
	return formatWithDecimals(uint64(arktoshi), ARKDecimals)
}

// ArkTimestamp returns the number of whole seconds between the ARK epoch and t
func ArkTimestamp(t time.Time) int32 {
	return int32(t.Sub(ArkEpoch) / time.Second)
}

// TimeFromArkTimestamp converts an ARK timestamp back to wall clock time
func TimeFromArkTimestamp(ts int32) time.Time {
	return ArkEpoch.Add(time.Duration(ts) * time.Second)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(1, 8) = "0.00000001"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}
