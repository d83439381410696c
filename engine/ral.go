package engine

import (
	"strconv"
	"strings"
)

type ralSwatch struct {
	code    string
	r, g, b int
}

// Classic RAL swatches commonly offered for door and window frames.
var ralSwatches = []ralSwatch{
	{"RAL 1013", 0xEA, 0xE6, 0xCA},
	{"RAL 1015", 0xE6, 0xD6, 0x90},
	{"RAL 3000", 0xAF, 0x2B, 0x1E},
	{"RAL 5010", 0x0E, 0x29, 0x4B},
	{"RAL 6005", 0x2F, 0x45, 0x38},
	{"RAL 6009", 0x31, 0x37, 0x2B},
	{"RAL 7001", 0x8A, 0x95, 0x97},
	{"RAL 7016", 0x29, 0x31, 0x33},
	{"RAL 7035", 0xD7, 0xD7, 0xD7},
	{"RAL 8014", 0x38, 0x2C, 0x1E},
	{"RAL 8017", 0x45, 0x32, 0x2E},
	{"RAL 8019", 0x40, 0x3A, 0x3A},
	{"RAL 9001", 0xFD, 0xF4, 0xE3},
	{"RAL 9002", 0xE7, 0xEB, 0xDA},
	{"RAL 9003", 0xF4, 0xF4, 0xF4},
	{"RAL 9005", 0x0A, 0x0A, 0x0A},
	{"RAL 9006", 0xA5, 0xA5, 0xA5},
	{"RAL 9007", 0x8F, 0x8F, 0x8F},
	{"RAL 9010", 0xFF, 0xFF, 0xFF},
	{"RAL 9016", 0xF6, 0xF6, 0xF6},
}

// RALFromHex returns the nearest classic RAL code for a "#RRGGBB" (or
// "RRGGBB") colour, or "" when hex is not a valid colour. The result is
// informational only.
func RALFromHex(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return ""
	}
	best := ""
	bestDist := -1
	for _, s := range ralSwatches {
		dr, dg, db := r-s.r, g-s.g, b-s.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = s.code, d
		}
	}
	return best
}

func parseHex(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
}
