package ports

import "github.com/ZX-80/PicoVideocart/pkg/utils"

// Control bits of port A. Data is normally written when the
// read/WRITE pin is low, but because the ports invert the data we
// write when it's high.
const (
	sramOutFlag   = 0x80
	sramInFlag    = 0x08
	sramAddrMask  = 0x06
	sramWriteFlag = 0x01
)

// SRAM2102 emulates a 2102 SRAM IC: an asynchronous 1024 x 1-bit
// static RAM, used by Videocart 10 (Maze) and 18 (Hangman). The chip
// is wired to two consecutive I/O ports which share this single
// backing store.
//
//	Bit | Port A | Port B
//	----|--------|--------
//	7   | OUT    | A9
//	6   | -      | A8
//	5   | -      | A7
//	4   | -      | A1
//	3   | IN     | A6
//	2   | A2     | A5
//	1   | A3     | A4
//	0   | RW     | A0
//
// More info at http://seanriddle.com/mazepat.asm or any 2102 SRAM
// datasheet.
type SRAM2102 struct {
	data    [1024]bool
	portA   uint8
	portB   uint8
	address uint16
}

// NewSRAM2102 returns a fresh 2102 with all bits clear.
func NewSRAM2102() *SRAM2102 {
	return &SRAM2102{}
}

// Port returns the handler for one of the chip's two port indices.
// Both handlers reference the same backing store.
func (s *SRAM2102) Port(index uint8) Port {
	return &sramPort{s: s, index: index & 1}
}

type sramPort struct {
	s     *SRAM2102
	index uint8
}

func (p *sramPort) Read() uint8 {
	if p.index != 0 {
		return p.s.portB
	}
	return p.s.portA
}

// Write stores into the addressed shadow port, recomputes the 10-bit
// address, performs the conditional write into the bit array and
// refreshes port A's OUT bit. This mutation order is the observable
// contract.
func (p *sramPort) Write(data uint8) {
	s := p.s
	if p.index != 0 {
		s.portB = data
	} else {
		s.portA = data & 0x0F
	}

	// Update DATA OUT
	s.address = uint16(s.portA&sramAddrMask)<<7 | uint16(s.portB)
	if utils.TestBit(s.portA, 0) {
		s.data[s.address] = s.portA&sramInFlag != 0
	}
	if s.data[s.address] {
		s.portA = utils.SetBit(s.portA, 7)
	} else {
		s.portA = utils.ClearBit(s.portA, 7)
	}
}
