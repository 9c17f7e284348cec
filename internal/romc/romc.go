// Package romc implements the host CPU's external-bus microcode
// contract: a 3853 Static Memory Interface with 62K of memory from
// 0x0800 to 0xFFFF.
//
// Each bus cycle the CPU drives a five-bit ROMC command identifying
// what the memory devices must do: place an addressed byte on the data
// bus, absorb the data bus into one of the public counters, address an
// I/O port, and so on. The dispatcher keeps shadow copies of the four
// counters the CPU exposes on the bus (PC0, PC1, DC0, DC1) and
// services all 32 states. Refer to the 3853 SMI datasheet.
package romc

import (
	"github.com/ZX-80/PicoVideocart/internal/bus"
	"github.com/ZX-80/PicoVideocart/internal/memory"
	"github.com/ZX-80/PicoVideocart/internal/ports"
)

// Idle is the ROMC state the bus rests in; during OUTS/INS
// instructions it carries the I/O port address on the data bus.
const Idle = 0x1C

// VideocartStart is the first address the cartridge owns; everything
// below it belongs to the console's BIOS.
const VideocartStart = 0x0800

// Dispatcher services one ROMC command per bus cycle. It owns the
// shadow registers and the data-bus latch; the attributed memory and
// the port table are shared with the loader, which only touches them
// between cycles.
//
// Step runs in lock-step with the host CPU and must complete within
// one bus half-cycle: no allocation, no I/O, no logging.
type Dispatcher struct {
	PC0 uint16
	PC1 uint16
	DC0 uint16
	DC1 uint16

	// DBus holds the last data-bus byte, whether sampled from the host
	// or driven by us. ROMC holds the last sampled command.
	DBus uint8
	ROMC uint8

	// IOAddress latches the port address carried by the idle state.
	IOAddress uint8

	mem   *memory.Memory
	ports *ports.Table
	bus   bus.Interface
}

// NewDispatcher returns a dispatcher wired to the given memory, port
// table and bus interface. Registers start at zero.
func NewDispatcher(mem *memory.Memory, table *ports.Table, b bus.Interface) *Dispatcher {
	return &Dispatcher{mem: mem, ports: table, bus: b, ROMC: Idle}
}

// drive places value on the data bus unless the source address is
// reserved. The console's own devices answer for reserved addresses;
// driving them would fight the BIOS. A suppressed drive leaves the
// DBus latch untouched, matching the hardware where the latch only
// follows our own output buffer.
func (d *Dispatcher) drive(value uint8, source uint16) {
	if d.mem.Attribute(source) != memory.Reserved {
		d.DBus = value
		d.bus.DriveDBus(value)
	}
}

// Step services a single bus cycle: the sampled ROMC command and data
// byte. It may drive the data bus.
func (d *Dispatcher) Step(romc, dbus uint8) {
	d.ROMC = romc
	d.DBus = dbus

	switch romc {
	case 0x00:
		// Instruction fetch: place the byte addressed by PC0 on the
		// data bus, then increment PC0.
		d.drive(d.mem.Read(d.PC0), d.PC0)
		d.PC0++
	case 0x01:
		// Place the byte addressed by PC0 on the data bus, then add
		// the data-bus byte to PC0 as a signed number.
		d.drive(d.mem.Read(d.PC0), d.PC0)
		d.PC0 += signed(d.DBus)
	case 0x02:
		// Place the byte addressed by DC0 on the data bus, then
		// increment DC0.
		d.drive(d.mem.Read(d.DC0), d.DC0)
		d.DC0++
	case 0x03:
		// Immediate operand fetch; the operand doubles as an I/O port
		// address.
		d.IOAddress = d.mem.Read(d.PC0)
		d.drive(d.IOAddress, d.PC0)
		d.PC0++
	case 0x04:
		d.PC0 = d.PC1
	case 0x05:
		// Store the data bus into the byte addressed by DC0, then
		// increment DC0. The store dispatches through the chip type, so
		// ROM stays intact and LED writes toggle the LED.
		d.mem.Write(d.DC0, d.DBus)
		d.DC0++
	case 0x06:
		d.drive(uint8(d.DC0>>8), d.DC0)
	case 0x07:
		d.drive(uint8(d.PC1>>8), d.PC1)
	case 0x08:
		// Reset: copy PC0 into PC1, then load the (zero) data bus into
		// both halves of PC0.
		d.PC1 = d.PC0
		d.PC0 = uint16(d.DBus)<<8 | uint16(d.DBus)
	case 0x09:
		d.drive(uint8(d.DC0), d.DC0)
	case 0x0A:
		// Add the data-bus byte to DC0 as a signed number.
		d.DC0 += signed(d.DBus)
	case 0x0B:
		d.drive(uint8(d.PC1), d.PC1)
	case 0x0C:
		// Place the byte addressed by PC0 on the data bus, then move
		// the data bus into the low byte of PC0.
		d.drive(d.mem.Read(d.PC0), d.PC0)
		d.PC0 = d.PC0&0xFF00 | uint16(d.DBus)
	case 0x0D:
		d.PC1 = d.PC0 + 1
	case 0x0E:
		// Place the byte addressed by PC0 on the data bus, then move
		// the data bus into the low byte of DC0.
		d.drive(d.mem.Read(d.PC0), d.PC0)
		d.DC0 = d.DC0&0xFF00 | uint16(d.DBus)
	case 0x0F:
		// Interrupt vector, low half. The register update is serviced;
		// the interrupt priority chain is not emulated.
		d.PC1 = d.PC0
		d.PC0 = d.PC0&0xFF00 | uint16(d.DBus)
	case 0x10:
		// A long cycle that freezes the interrupt priority chain while
		// it settles. No bus action.
	case 0x11:
		// Place the byte addressed by PC0 on the data bus, then move
		// the data bus into the high byte of DC0.
		d.drive(d.mem.Read(d.PC0), d.PC0)
		d.DC0 = d.DC0&0x00FF | uint16(d.DBus)<<8
	case 0x12:
		d.PC1 = d.PC0
		d.PC0 = d.PC0&0xFF00 | uint16(d.DBus)
	case 0x13:
		// Interrupt vector, high half; priority chain not emulated.
		d.PC0 = d.PC0&0x00FF | uint16(d.DBus)<<8
	case 0x14:
		d.PC0 = d.PC0&0x00FF | uint16(d.DBus)<<8
	case 0x15:
		d.PC1 = d.PC1&0x00FF | uint16(d.DBus)<<8
	case 0x16:
		d.DC0 = d.DC0&0x00FF | uint16(d.DBus)<<8
	case 0x17:
		d.PC0 = d.PC0&0xFF00 | uint16(d.DBus)
	case 0x18:
		d.PC1 = d.PC1&0xFF00 | uint16(d.DBus)
	case 0x19:
		d.DC0 = d.DC0&0xFF00 | uint16(d.DBus)
	case 0x1A:
		// The port addressed during the prior idle cycle absorbs the
		// data bus. Empty slots ignore the write.
		if p := d.ports.Lookup(d.IOAddress); p != nil {
			p.Write(d.DBus)
		}
	case 0x1B:
		// The port addressed during the prior idle cycle places its
		// contents on the data bus. Empty slots leave the bus alone.
		if p := d.ports.Lookup(d.IOAddress); p != nil {
			d.drive(p.Read(), VideocartStart)
		}
	case Idle:
		d.IOAddress = d.DBus
	case 0x1D:
		// Devices with DC0 and DC1 registers switch them.
		d.DC0, d.DC1 = d.DC1, d.DC0
	case 0x1E:
		d.drive(uint8(d.PC0), d.PC0)
	case 0x1F:
		d.drive(uint8(d.PC0>>8), d.PC0)
	}
}

// signed widens a data-bus byte to 16 bits as a two's-complement
// number; addition then wraps naturally.
func signed(b uint8) uint16 {
	return uint16(int16(int8(b)))
}
