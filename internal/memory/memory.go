// Package memory implements the attributed 64 KiB program memory: a
// byte-addressed store paired with a per-byte chip-type tag that
// governs read and write semantics at each address.
//
// Addresses 0x0000-0x07FF are permanently reserved; the console's
// internal BIOS occupies that range and the cartridge must never drive
// it.
package memory

// Size is the full addressable range of the memory interface.
const Size = 0x10000

// BIOSEnd is the first address past the console's internal BIOS. The
// loader never tags anything below it.
const BIOSEnd = 0x0800

// NVStore is the persistence layer behind the NVRAM chip type, e.g. an
// SPI FRAM part. Absent a store, NVRAM reads 0xFF and drops writes.
type NVStore interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// Memory is the emulator's backplane: program bytes plus the chip-type
// attribute for every address. All bus-visible reads and writes
// dispatch through the chip handler named by the attribute.
type Memory struct {
	rom  [Size]byte
	attr [Size]byte

	// dense handler table indexed by chip id; unregistered ids hold the
	// reserved handler so the hot path needs no nil check
	chips [256]ChipType

	led     func()
	nvstore NVStore
}

// New returns a cleared Memory: every attribute Reserved, every byte
// 0xFF. led, if non-nil, is invoked to toggle the debug LED on writes
// to LED-tagged addresses.
func New(led func()) *Memory {
	m := &Memory{led: led}
	for i := range m.chips {
		m.chips[i] = reservedChip{}
	}
	m.chips[ROM] = romChip{}
	m.chips[RAM] = ramChip{}
	m.chips[LED] = ledChip{}
	m.chips[NVRAM] = nvramChip{}
	m.Clear()
	return m
}

// AttachNVStore connects a persistence layer to the NVRAM chip type.
func (m *Memory) AttachNVStore(s NVStore) {
	m.nvstore = s
}

// Clear resets the memory to its unloaded state: all attributes
// Reserved, all bytes 0xFF.
func (m *Memory) Clear() {
	for i := range m.attr {
		m.attr[i] = Reserved
	}
	for i := range m.rom {
		m.rom[i] = 0xFF
	}
}

// Read returns the byte at address according to its chip type.
// Reserved addresses read 0xFF regardless of the backing byte.
func (m *Memory) Read(address uint16) uint8 {
	return m.chips[m.attr[address]].Read(m, address)
}

// Write stores data at address according to its chip type. Writes to
// ROM, LED, NVRAM and Reserved addresses leave the backing byte
// unchanged; LED writes toggle the debug LED.
func (m *Memory) Write(address uint16, data uint8) {
	m.chips[m.attr[address]].Write(m, address, data)
}

// Chip returns the handler for the given chip id. Unregistered ids
// return the reserved handler.
func (m *Memory) Chip(id uint8) ChipType {
	return m.chips[id]
}

// Register installs a handler for a chip id. The Reserved id cannot be
// replaced.
func (m *Memory) Register(id uint8, c ChipType) {
	if id == Reserved || c == nil {
		return
	}
	m.chips[id] = c
}

// Attribute returns the chip id tagged at address.
func (m *Memory) Attribute(address uint16) uint8 {
	return m.attr[address]
}

// TagRange tags length bytes starting at address with the given chip
// id, clamped to the top of memory.
func (m *Memory) TagRange(address uint16, length int, id uint8) {
	end := int(address) + length
	if end > Size {
		end = Size
	}
	for i := int(address); i < end; i++ {
		m.attr[i] = id
	}
}

// Peek returns the backing byte at address, bypassing chip dispatch.
// Used by the loader and by tests.
func (m *Memory) Peek(address uint16) uint8 {
	return m.rom[address]
}

// Poke stores directly into the backing byte at address, bypassing
// chip dispatch. The loader populates images this way, and the
// Launcher paints menu titles into the staging area with it.
func (m *Memory) Poke(address uint16, data uint8) {
	m.rom[address] = data
}

// Load copies data into the backing store starting at address,
// bypassing chip dispatch and clamping at the top of memory.
func (m *Memory) Load(address uint16, data []byte) {
	copy(m.rom[address:], data)
}
