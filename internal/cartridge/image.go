package cartridge

import "github.com/cespare/xxhash"

// Kind classifies an image file by its leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindBIN is a raw image: first byte 0x55, loaded under the
	// default hardware profile.
	KindBIN
	// KindCHF is a CHANNEL F container with CHIP packets.
	KindCHF
)

// binMagic is the sentinel opening every raw cartridge image.
const binMagic = 0x55

// DetectKind classifies image data the way the loader does: a leading
// 0x55 is a raw BIN; a leading 'C' with at least 64 bytes and the full
// 16-byte signature is a CHF container; anything else is unknown.
func DetectKind(data []byte) Kind {
	if len(data) == 0 {
		return KindUnknown
	}
	if data[0] == binMagic {
		return KindBIN
	}
	if data[0] == 'C' && len(data) >= minHeaderSize && string(data[:16]) == Magic {
		return KindCHF
	}
	return KindUnknown
}

// Fingerprint returns a 64-bit hash identifying an image, logged at
// load time so a session can be matched to an exact file.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (k Kind) String() string {
	switch k {
	case KindBIN:
		return "bin"
	case KindCHF:
		return "chf"
	}
	return "unknown"
}
