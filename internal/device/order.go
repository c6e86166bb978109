package device

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// malformedKey sorts addresses that are not dotted quads after every real one.
const malformedKey = 1 << 20

// SortKey returns the ordering key for address: third octet, then fourth.
func SortKey(address string) int {
	parts := strings.Split(address, ".")
	if len(parts) != 4 {
		return malformedKey
	}
	third, err := strconv.Atoi(parts[2])
	if err != nil || third < 0 || third > 255 {
		return malformedKey
	}
	fourth, err := strconv.Atoi(parts[3])
	if err != nil || fourth < 0 || fourth > 255 {
		return malformedKey
	}
	return third<<8 | fourth
}

// Compare orders two devices by SortKey, falling back to the address string
// so the result is stable for equal keys.
func Compare(a, b Device) int {
	if c := cmp.Compare(SortKey(a.Address), SortKey(b.Address)); c != 0 {
		return c
	}
	return strings.Compare(a.Address, b.Address)
}

// Sort orders devices in place.
func Sort(devices []Device) {
	slices.SortFunc(devices, Compare)
}
