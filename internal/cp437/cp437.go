// Package cp437 translates UTF-8 text into code page 437, the 8-bit
// character set of the console's on-screen font. File titles pass
// through here before the menu program paints them.
//
// Only the Unicode pages the font can express are mapped (Latin-1
// supplement, Greek, box drawing, block elements and a handful of
// math symbols); everything else renders as '?'.
package cp437

// 00xx | 01xx table
const (
	table0001Min = 0x92
	table0001Max = 0xFF
)

var table0001 = [110]byte{
	0x9f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0xff, 0xad,
	0x9b, 0x9c, 0x3f, 0x9d, 0x3f, 0x3f, 0x3f, 0x3f,
	0xa6, 0xae, 0xaa, 0x3f, 0x3f, 0x3f, 0xf8, 0xf1,
	0xfd, 0x3f, 0x3f, 0xe6, 0x3f, 0xfa, 0x3f, 0x3f,
	0xa7, 0xaf, 0xac, 0xab, 0x3f, 0xa8, 0x3f, 0x3f,
	0x3f, 0x3f, 0x8e, 0x8f, 0x92, 0x80, 0x3f, 0x90,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0xa5,
	0x3f, 0x3f, 0x3f, 0x3f, 0x99, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x9a, 0x3f, 0x3f, 0xe1, 0x85, 0xa0,
	0x83, 0x3f, 0x84, 0x86, 0x91, 0x87, 0x8a, 0x82,
	0x88, 0x89, 0x8d, 0xa1, 0x8c, 0x8b, 0x3f, 0xa4,
	0x95, 0xa2, 0x93, 0x3f, 0x94, 0xf6, 0x3f, 0x97,
	0xa3, 0x96, 0x81, 0x3f, 0x3f, 0x98,
}

// 03xx table
const (
	table03Min = 0x93
	table03Max = 0xC6
)

var table03 = [52]byte{
	0xe2, 0x3f, 0x3f, 0x3f, 0x3f, 0xe9, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0xe4, 0x3f, 0x3f, 0xe8, 0x3f, 0x3f, 0xea, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0xe0, 0x3f,
	0x3f, 0xeb, 0xee, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0xe3, 0x3f, 0x3f,
	0xe5, 0xe7, 0x3f, 0xed,
}

// 20xx | 25xx table
const (
	table2025Min = 0x00
	table2025Max = 0xA7
)

var table2025 = [168]byte{
	0xc4, 0x3f, 0xb3, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0xda, 0x3f, 0x3f, 0x3f,
	0xbf, 0x3f, 0x3f, 0x3f, 0xc0, 0x3f, 0x3f, 0x3f,
	0xd9, 0x3f, 0x3f, 0x3f, 0xc3, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0xb4, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0xc2, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0xc1, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0xc5, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0xcd, 0xba, 0xd5, 0xd6, 0xc9, 0xb8, 0xb7, 0xbb,
	0xd4, 0xd3, 0xc8, 0xbe, 0xbd, 0xbc, 0xc6, 0xc7,
	0xcc, 0xb5, 0xb6, 0xb9, 0xd1, 0xd2, 0xcb, 0xcf,
	0xd0, 0xca, 0xd8, 0xd7, 0xce, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0xfc,
	0xdf, 0x3f, 0x3f, 0x3f, 0xdc, 0x3f, 0x3f, 0x3f,
	0xdb, 0x3f, 0x3f, 0x3f, 0xdd, 0x3f, 0x3f, 0x3f,
	0xde, 0xb0, 0xb1, 0xb2, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0xfe, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x9e,
}

// 22xx | 23xx table
const (
	table2223Min = 0x10
	table2223Max = 0x65
)

var table2223 = [86]byte{
	0xa9, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0xf9, 0xfb, 0x3f, 0x3f, 0x3f, 0xec, 0x3f,
	0xf4, 0xf5, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0xef, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0xf7, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f, 0x3f,
	0x3f, 0xf0, 0x3f, 0x3f, 0xf3, 0xf2,
}

// Byte maps a single rune to its CP437 byte, or '?' when the font has
// no glyph for it.
func Byte(r rune) byte {
	if r < 0 || r > 0xFFFF {
		return '?'
	}
	lo := uint8(r)
	switch uint8(r >> 8) {
	case 0x00:
		if lo <= 0x7F {
			return lo
		}
		fallthrough
	case 0x01:
		if table0001Min <= lo && lo <= table0001Max {
			return table0001[lo-table0001Min]
		}
		return '?'
	case 0x03:
		if table03Min <= lo && lo <= table03Max {
			return table03[lo-table03Min]
		}
		return '?'
	case 0x20, 0x25:
		if table2025Min <= lo && lo <= table2025Max {
			return table2025[lo-table2025Min]
		}
		return '?'
	case 0x22, 0x23:
		if table2223Min <= lo && lo <= table2223Max {
			return table2223[lo-table2223Min]
		}
		fallthrough
	default:
		return '?'
	}
}

// Translate converts a UTF-8 string to CP437, truncating at limit
// bytes. Invalid sequences translate to '?'.
func Translate(s string, limit int) string {
	out := make([]byte, 0, limit)
	for _, r := range s {
		if len(out) >= limit {
			break
		}
		out = append(out, Byte(r))
	}
	return string(out)
}
