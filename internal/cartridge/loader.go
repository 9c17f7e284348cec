// Package cartridge loads .bin and .chf images into the attributed
// memory and installs the peripherals the image expects.
//
// BIN files are raw chunks of ROM loaded under a default hardware
// profile. CHF files are a container format specifically designed for
// Channel F programs; see the CHF repository
// (https://github.com/ZX-80/Videocart-Image-Format) for the grammar.
package cartridge

import (
	"errors"
	"fmt"

	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/ports"
	"github.com/ZX-80/PicoVideocart/pkg/log"
)

// ErrInvalidImage reports a file that is not a loadable image: wrong
// magic, too short, or truncated header.
var ErrInvalidImage = errors.New("cartridge: invalid image")

// binStart is where BIN image bytes land in the address space.
const binStart = 0x0801

// binLimit caps how much of a BIN file is loaded.
const binLimit = 0xF7FF

// Default RAM window loaded for BIN images.
const (
	ramStart = 0x2800
	ramSize  = 0x0800
)

// Config carries the collaborators an installed image may need.
type Config struct {
	// Files is the directory snapshot handed to the Launcher port.
	Files ports.FileList
	// Trigger is the single-slot load channel the Launcher announces
	// selections on.
	Trigger chan<- int
	// Entropy seeds the flashcart RNG port. Nil selects the platform
	// default.
	Entropy ports.BitSource
	// Logger defaults to the null logger.
	Logger log.Logger
}

func (c *Config) logger() log.Logger {
	if c.Logger == nil {
		return log.NewNullLogger()
	}
	return c.Logger
}

// Load replaces the current image: every peripheral is released, the
// memory is cleared to Reserved/0xFF, and the new image's contents and
// peripherals are installed. On error the memory is left cleared and
// nothing is installed.
//
// The caller must not run bus dispatch concurrently; the main loop
// yields to Load between cycles.
func Load(mem *memory.Memory, table *ports.Table, image []byte, cfg Config) error {
	table.ReleaseAll()
	mem.Clear()

	kind := DetectKind(image)
	switch kind {
	case KindBIN:
		loadBIN(mem, image)
		installFlashcart(mem, table, cfg)
	case KindCHF:
		h, err := ParseHeader(image)
		if err != nil {
			return err
		}
		loadChips(mem, image, int(h.HeaderLength))
		installHardware(mem, table, h.HardwareType, cfg)
		cfg.logger().Infof("loaded chf image %q hw=%d (%d bytes, %016x)",
			h.Title, h.HardwareType, len(image), Fingerprint(image))
		return nil
	default:
		return fmt.Errorf("%w: unrecognized leading bytes", ErrInvalidImage)
	}

	cfg.logger().Infof("loaded %s image (%d bytes, %016x)", kind, len(image), Fingerprint(image))
	return nil
}

// loadBIN assumes hardware type 2 (ROM+RAM) with 2K of RAM at 0x2800.
// The image bytes are tagged and copied from binStart up; the RAM
// window is tagged and zeroed before the copy, so an image large
// enough to reach it supplies its initial contents.
func loadBIN(mem *memory.Memory, image []byte) {
	n := len(image)
	if n > binLimit {
		n = binLimit
	}
	mem.TagRange(binStart, n, memory.ROM)

	mem.TagRange(ramStart, ramSize, memory.RAM)
	for a := uint16(ramStart); a < ramStart+ramSize; a++ {
		mem.Poke(a, 0)
	}

	mem.Load(binStart, image[:n])
}

// loadChips walks the CHIP packets starting at offset. Each packet
// tags its address range; payload bytes are consumed only for chip
// types that carry data. Iteration stops at the first non-packet or
// when fewer than 16 bytes remain.
func loadChips(mem *memory.Memory, image []byte, offset int) {
	for {
		p, ok := parseChipPacket(image, offset)
		if !ok {
			return
		}

		// the BIOS range never belongs to the cartridge, whatever the
		// packet claims
		load, size, skip := p.LoadAddress, int(p.Size), 0
		if load < memory.BIOSEnd {
			skip = memory.BIOSEnd - int(load)
			if skip > size {
				skip = size
			}
			size -= skip
			load = memory.BIOSEnd
		}
		mem.TagRange(load, size, uint8(p.ChipType))

		hasData := p.ChipType <= 0xFF && mem.Chip(uint8(p.ChipType)).HasData()
		if hasData {
			payload := image[offset+chipHeaderSize:]
			if len(payload) > int(p.Size) {
				payload = payload[:p.Size]
			}
			if skip < len(payload) {
				mem.Load(load, payload[skip:])
			}

			next := offset + int(p.PacketLength)
			if next <= offset { // a zero packet length never advances
				return
			}
			offset = next
		} else {
			offset += chipHeaderSize
		}
	}
}
